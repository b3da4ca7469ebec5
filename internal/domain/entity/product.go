package entity

import "time"

// Product producto del catálogo de una tienda (tenant).
// CostCents es el costo vigente; la analítica lo aplica también a ventas históricas.
type Product struct {
	ID         string
	TenantID   string
	SKU        string // único por tenant
	Name       string
	CategoryID string // vacío si no tiene categoría
	PriceCents int64
	CostCents  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
