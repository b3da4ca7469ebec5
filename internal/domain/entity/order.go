package entity

import "time"

// OrderStatus estado de un pedido. El conjunto es cerrado; solo cancelled y
// refunded quedan fuera de los reportes de ventas.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// ExcludedOrderStatuses estados que nunca aportan a ingresos, costo ni cantidades.
var ExcludedOrderStatuses = []OrderStatus{OrderStatusCancelled, OrderStatusRefunded}

// Countable indica si el pedido cuenta para la analítica de ventas.
func (s OrderStatus) Countable() bool {
	for _, ex := range ExcludedOrderStatuses {
		if s == ex {
			return false
		}
	}
	return true
}

// Order cabecera de un pedido. Los montos van en unidades menores (centavos).
type Order struct {
	ID               string
	TenantID         string
	CustomerID       string // vacío si la venta fue sin cliente
	Status           OrderStatus
	TotalAmountCents int64
	CreatedAt        time.Time
}

// OrderItem línea de un pedido. SubtotalCents = Quantity × precio unitario al momento de la venta.
type OrderItem struct {
	ID            string
	OrderID       string
	ProductID     string
	Quantity      int64
	SubtotalCents int64
}
