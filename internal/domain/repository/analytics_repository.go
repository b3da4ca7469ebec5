package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-analytics/internal/domain/analytics"
)

// Dimension clave de agrupación de una consulta agregada.
type Dimension string

const (
	DimensionNone     Dimension = "none" // una sola fila con los totales
	DimensionProduct  Dimension = "product"
	DimensionCategory Dimension = "category" // productos sin categoría → "Uncategorized"
	DimensionCustomer Dimension = "customer" // excluye pedidos sin cliente
	DimensionPeriod   Dimension = "period"   // requiere Bucket; orden cronológico ascendente
)

// Metric métrica por la que se ordenan las filas.
type Metric string

const (
	MetricRevenue Metric = "revenue"
	MetricProfit  Metric = "profit"
)

// SalesFilter filtros comunes. Start y End son inclusivos sobre orders.created_at;
// nil significa sin límite.
type SalesFilter struct {
	TenantID   string
	Start      *time.Time
	End        *time.Time
	CategoryID string // opcional
}

// AggregateSpec describe una consulta agregada independiente del motor:
// qué dimensión agrupar, con qué filtros, cómo ordenar y cuántas filas devolver.
type AggregateSpec struct {
	Dimension Dimension
	Bucket    analytics.Bucket // solo para DimensionPeriod
	Filter    SalesFilter
	OrderBy   Metric // descendente; ignorado en DimensionPeriod
	Limit     int    // 0 = sin límite
}

// AggregateRow fila cruda producida por el adaptador. El costo usa el costo
// vigente del producto (quantity × products.cost), no el costo histórico.
type AggregateRow struct {
	Key           string // id de producto/categoría/cliente o clave de período; "" para sin categoría
	Label         string // nombre visible
	SKU           string // solo DimensionProduct
	Quantity      int64
	RevenueCents  int64
	CostCents     int64
	OrderCount    int64 // pedidos distintos
	CustomerCount int64 // clientes distintos
}

// ProfitCents ingreso menos costo de la fila.
func (r AggregateRow) ProfitCents() int64 { return r.RevenueCents - r.CostCents }

// AnalyticsRepository puerto de lectura para la analítica de ventas.
// Las implementaciones son read-only y excluyen pedidos cancelados o reembolsados.
// Los errores de acceso a datos se devuelven sin alterar (envueltos con %w).
type AnalyticsRepository interface {
	// Aggregate ejecuta la consulta descrita por spec. Con DimensionNone siempre
	// devuelve exactamente una fila (en cero si no hay ventas).
	Aggregate(ctx context.Context, spec AggregateSpec) ([]AggregateRow, error)
}
