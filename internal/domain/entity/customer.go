package entity

// Customer cliente de la tienda.
type Customer struct {
	ID       string
	TenantID string
	Name     string
	Email    string
	Phone    string
}
