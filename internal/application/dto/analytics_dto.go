package dto

// ── Query parameters ──────────────────────────────────────────────────────────

// SalesReportRequest parámetros para GET /sales/products y /sales/categories.
// Fechas ISO-8601 (YYYY-MM-DD o RFC 3339), límites inclusivos; vacías = sin límite.
type SalesReportRequest struct {
	StartDate  string `query:"start_date"`
	EndDate    string `query:"end_date"`
	CategoryID string `query:"category_id"` // solo /sales/products
}

// TimelineRequest parámetros para GET /sales/timeline.
type TimelineRequest struct {
	GroupBy   string `query:"group_by"` // day|week|month|year (default day)
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// TopPerformersRequest parámetros para GET /top-performers.
type TopPerformersRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	Limit     int    `query:"limit"` // default 10
}

// ComparativeRequest parámetros para GET /comparative. Los cuatro son obligatorios.
type ComparativeRequest struct {
	Period1Start string `query:"period1_start"`
	Period1End   string `query:"period1_end"`
	Period2Start string `query:"period2_start"`
	Period2End   string `query:"period2_end"`
}

// ── Ventas por dimensión ──────────────────────────────────────────────────────

// ProductSalesDTO ventas de un producto. Costo = cantidad × costo vigente del producto.
type ProductSalesDTO struct {
	ProductID           string  `json:"product_id"`
	ProductName         string  `json:"product_name"`
	SKU                 string  `json:"sku"`
	QuantitySold        int64   `json:"quantity_sold"`
	TotalRevenueCents   int64   `json:"total_revenue_cents"`
	TotalCostCents      int64   `json:"total_cost_cents"`
	ProfitCents         int64   `json:"profit_cents"`
	ProfitMarginPercent float64 `json:"profit_margin_percent"`
	OrderCount          int64   `json:"order_count"`
}

// SalesByProductDTO respuesta de GET /sales/products (orden: ingreso descendente).
type SalesByProductDTO struct {
	Period     PeriodDTO         `json:"period"`
	CategoryID string            `json:"category_id,omitempty"`
	Products   []ProductSalesDTO `json:"products"`
}

// CategorySalesDTO ventas de una categoría. CategoryID es null para "Uncategorized".
type CategorySalesDTO struct {
	CategoryID          *string `json:"category_id"`
	CategoryName        string  `json:"category_name"`
	QuantitySold        int64   `json:"quantity_sold"`
	TotalRevenueCents   int64   `json:"total_revenue_cents"`
	TotalCostCents      int64   `json:"total_cost_cents"`
	ProfitCents         int64   `json:"profit_cents"`
	ProfitMarginPercent float64 `json:"profit_margin_percent"`
	OrderCount          int64   `json:"order_count"`
}

// SalesByCategoryDTO respuesta de GET /sales/categories (orden: ingreso descendente).
type SalesByCategoryDTO struct {
	Period     PeriodDTO          `json:"period"`
	Categories []CategorySalesDTO `json:"categories"`
}

// TimelinePointDTO ventas de un período (día, semana ISO, mes o año).
type TimelinePointDTO struct {
	Period                 string  `json:"period"` // 2024-03-05 | 2024-W10 | 2024-03 | 2024
	OrderCount             int64   `json:"order_count"`
	TotalRevenueCents      int64   `json:"total_revenue_cents"`
	TotalCostCents         int64   `json:"total_cost_cents"`
	ProfitCents            int64   `json:"profit_cents"`
	ProfitMarginPercent    float64 `json:"profit_margin_percent"`
	AverageOrderValueCents int64   `json:"average_order_value_cents"`
	CustomerCount          int64   `json:"customer_count"`
}

// SalesTimelineDTO respuesta de GET /sales/timeline (orden cronológico, sin rellenar huecos).
type SalesTimelineDTO struct {
	GroupBy string             `json:"group_by"`
	Period  PeriodDTO          `json:"period"`
	Points  []TimelinePointDTO `json:"timeline"`
}

// ── Margen de utilidad ────────────────────────────────────────────────────────

// OverallMarginDTO totales del período. Nunca es null: sin ventas todo vale 0.
type OverallMarginDTO struct {
	TotalRevenueCents   int64   `json:"total_revenue_cents"`
	TotalCostCents      int64   `json:"total_cost_cents"`
	GrossProfitCents    int64   `json:"gross_profit_cents"`
	ProfitMarginPercent float64 `json:"profit_margin_percent"`
	OrderCount          int64   `json:"order_count"`
}

// CategoryMarginDTO rentabilidad de una categoría (orden: utilidad descendente).
type CategoryMarginDTO struct {
	CategoryID          *string `json:"category_id"`
	CategoryName        string  `json:"category_name"`
	TotalRevenueCents   int64   `json:"total_revenue_cents"`
	TotalCostCents      int64   `json:"total_cost_cents"`
	ProfitCents         int64   `json:"profit_cents"`
	ProfitMarginPercent float64 `json:"profit_margin_percent"`
}

// ProductMarginDTO rentabilidad de un producto.
type ProductMarginDTO struct {
	ProductID           string  `json:"product_id"`
	ProductName         string  `json:"product_name"`
	SKU                 string  `json:"sku"`
	QuantitySold        int64   `json:"quantity_sold"`
	TotalRevenueCents   int64   `json:"total_revenue_cents"`
	TotalCostCents      int64   `json:"total_cost_cents"`
	ProfitCents         int64   `json:"profit_cents"`
	ProfitMarginPercent float64 `json:"profit_margin_percent"`
}

// ProfitMarginDTO respuesta de GET /profit-margin.
type ProfitMarginDTO struct {
	Period                PeriodDTO           `json:"period"`
	Overall               OverallMarginDTO    `json:"overall"`
	ByCategory            []CategoryMarginDTO `json:"by_category"`
	TopProfitableProducts []ProductMarginDTO  `json:"top_profitable_products"` // top 10 por utilidad absoluta
	LowMarginProducts     []ProductMarginDTO  `json:"low_margin_products"`     // margen < umbral, peor primero
	LowMarginThreshold    float64             `json:"low_margin_threshold_percent"`
}

// ── Ranking ───────────────────────────────────────────────────────────────────

// RankedProductDTO producto dentro del top N (rank 1 = mayor ingreso).
type RankedProductDTO struct {
	Rank              int    `json:"rank"`
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	SKU               string `json:"sku"`
	QuantitySold      int64  `json:"quantity_sold"`
	TotalRevenueCents int64  `json:"total_revenue_cents"`
	ProfitCents       int64  `json:"profit_cents"`
	OrderCount        int64  `json:"order_count"`
}

// RankedCategoryDTO categoría dentro del top N.
type RankedCategoryDTO struct {
	Rank              int     `json:"rank"`
	CategoryID        *string `json:"category_id"`
	CategoryName      string  `json:"category_name"`
	QuantitySold      int64   `json:"quantity_sold"`
	TotalRevenueCents int64   `json:"total_revenue_cents"`
	ProfitCents       int64   `json:"profit_cents"`
}

// RankedCustomerDTO cliente dentro del top N por gasto total.
type RankedCustomerDTO struct {
	Rank                   int    `json:"rank"`
	CustomerID             string `json:"customer_id"`
	CustomerName           string `json:"customer_name"`
	OrderCount             int64  `json:"order_count"`
	TotalSpentCents        int64  `json:"total_spent_cents"`
	AverageOrderValueCents int64  `json:"average_order_value_cents"`
}

// TopPerformersDTO respuesta de GET /top-performers.
type TopPerformersDTO struct {
	Period     PeriodDTO           `json:"period"`
	Limit      int                 `json:"limit"`
	Products   []RankedProductDTO  `json:"top_products"`
	Categories []RankedCategoryDTO `json:"top_categories"`
	Customers  []RankedCustomerDTO `json:"top_customers"`
}

// ── Comparativo ───────────────────────────────────────────────────────────────

// PeriodMetricsDTO totales de un período del comparativo.
type PeriodMetricsDTO struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	RevenueCents int64  `json:"revenue_cents"`
	OrderCount   int64  `json:"order_count"`
	ProfitCents  int64  `json:"profit_cents"`
}

// GrowthDTO variación porcentual del período 1 al 2 (0 si el período 1 vale 0).
type GrowthDTO struct {
	RevenuePercent float64 `json:"revenue_percent"`
	OrdersPercent  float64 `json:"orders_percent"`
	ProfitPercent  float64 `json:"profit_percent"`
}

// ComparativeDTO respuesta de GET /comparative.
type ComparativeDTO struct {
	Period1 PeriodMetricsDTO `json:"period1"`
	Period2 PeriodMetricsDTO `json:"period2"`
	Growth  GrowthDTO        `json:"growth"`
}
