package entity

// UncategorizedLabel etiqueta que reciben los productos sin categoría en los reportes.
const UncategorizedLabel = "Uncategorized"

// Category categoría de productos. Un producto referencia como máximo una.
type Category struct {
	ID       string
	TenantID string
	Name     string
}
