package dto

// Response sobre JSON común a todas las respuestas: { success, data?, error? }.
// Code es un identificador estable para que el cliente distinga errores sin parsear el mensaje.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// OK envuelve data en una respuesta exitosa.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Fail construye una respuesta de error.
func Fail(code, message string) Response {
	return Response{Success: false, Code: code, Error: message}
}

// PeriodDTO rango de fechas del reporte; vacío cuando el límite no se envió.
type PeriodDTO struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}
