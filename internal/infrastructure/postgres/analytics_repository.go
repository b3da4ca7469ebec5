package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pos-analytics/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// Querier subconjunto de *pgxpool.Pool (o pgx.Tx) que necesita el adaptador.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// AnalyticsRepo consultas de solo lectura para la analítica de ventas y rentabilidad.
type AnalyticsRepo struct {
	db Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(db Querier) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

// Aggregate compila spec a SQL y devuelve las filas agregadas.
// Errores de conexión, timeout o cancelación del contexto se propagan envueltos.
func (r *AnalyticsRepo) Aggregate(ctx context.Context, spec repository.AggregateSpec) ([]repository.AggregateRow, error) {
	q, err := buildAggregateQuery(spec)
	if err != nil {
		return nil, fmt.Errorf("analytics.Aggregate %s: %w", spec.Dimension, err)
	}

	rows, err := r.db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.Aggregate %s: %w", spec.Dimension, classifyError(err))
	}
	defer rows.Close()

	results := []repository.AggregateRow{}
	for rows.Next() {
		var row repository.AggregateRow
		if err := rows.Scan(
			&row.Key,
			&row.Label,
			&row.SKU,
			&row.Quantity,
			&row.RevenueCents,
			&row.CostCents,
			&row.OrderCount,
			&row.CustomerCount,
		); err != nil {
			return nil, fmt.Errorf("analytics.Aggregate %s scan: %w", spec.Dimension, classifyError(err))
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.Aggregate %s rows: %w", spec.Dimension, classifyError(err))
	}
	if spec.Dimension == repository.DimensionNone && len(results) == 0 {
		results = append(results, repository.AggregateRow{})
	}
	return results, nil
}
