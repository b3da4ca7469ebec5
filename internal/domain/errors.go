package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrInvalidInput parámetros del cliente inválidos; la capa HTTP lo traduce a 400.
	ErrInvalidInput = errors.New("entrada inválida")
)
