package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-analytics/internal/domain"
)

const dateLayout = "2006-01-02"

// ValidationError error de entrada del cliente. Se detecta antes de tocar la base de datos
// y envuelve domain.ErrInvalidInput para que errors.Is funcione en la capa HTTP.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", strings.Join(e.Fields, ", "), e.Reason)
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// dateRange rango inclusivo; nil = sin límite en ese extremo.
type dateRange struct {
	start, end *time.Time
}

// parseBound interpreta una fecha ISO-8601 (YYYY-MM-DD o RFC 3339) en UTC.
// Una fecha sin hora usada como límite final cubre el día completo.
func parseBound(field, value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dateLayout, value, time.UTC); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, &ValidationError{
			Fields: []string{field},
			Reason: fmt.Sprintf("fecha inválida %q, use YYYY-MM-DD o RFC 3339", value),
		}
	}
	t = t.UTC()
	return &t, nil
}

// parseRange valida un par de límites opcionales y que start no sea posterior a end.
func parseRange(startField, startValue, endField, endValue string) (dateRange, error) {
	start, err := parseBound(startField, startValue, false)
	if err != nil {
		return dateRange{}, err
	}
	end, err := parseBound(endField, endValue, true)
	if err != nil {
		return dateRange{}, err
	}
	if start != nil && end != nil && start.After(*end) {
		return dateRange{}, &ValidationError{
			Fields: []string{startField, endField},
			Reason: startField + " no puede ser posterior a " + endField,
		}
	}
	return dateRange{start: start, end: end}, nil
}

// requireFields devuelve un ValidationError con todos los campos vacíos, en el orden recibido.
func requireFields(pairs ...[2]string) error {
	var missing []string
	for _, p := range pairs {
		if strings.TrimSpace(p[1]) == "" {
			missing = append(missing, p[0])
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, Reason: "parámetros obligatorios"}
	}
	return nil
}
