package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/pos-analytics/internal/domain/entity"
	"github.com/jhoicas/pos-analytics/internal/domain/repository"
)

// Expresiones de métricas compartidas por todas las dimensiones.
// Los montos se guardan como BIGINT en centavos; SUM(bigint) devuelve NUMERIC,
// por eso se castea de vuelta a BIGINT.
const (
	sumQuantity = "SUM(oi.quantity)"
	sumRevenue  = "SUM(oi.subtotal)"
	sumCost     = "SUM(oi.quantity * p.cost)"
)

// aggregateQuery SQL compilado desde un repository.AggregateSpec con sus argumentos posicionales.
type aggregateQuery struct {
	SQL  string
	Args []any
}

// dimensionColumns columnas de clave/etiqueta/SKU, joins extra y GROUP BY de cada dimensión.
type dimensionColumns struct {
	key, label, sku string
	joins           []string
	groupBy         string
}

func columnsFor(spec repository.AggregateSpec) (dimensionColumns, error) {
	switch spec.Dimension {
	case repository.DimensionNone:
		return dimensionColumns{key: "''", label: "''", sku: "''"}, nil
	case repository.DimensionProduct:
		return dimensionColumns{
			key: "p.id::text", label: "p.name", sku: "p.sku",
			groupBy: "p.id, p.name, p.sku",
		}, nil
	case repository.DimensionCategory:
		return dimensionColumns{
			key:     "COALESCE(c.id::text, '')",
			label:   "COALESCE(c.name, " + quoteLiteral(entity.UncategorizedLabel) + ")",
			sku:     "''",
			joins:   []string{"LEFT JOIN categories c ON c.id = p.category_id"},
			groupBy: "c.id, c.name",
		}, nil
	case repository.DimensionCustomer:
		return dimensionColumns{
			key: "cu.id::text", label: "cu.name", sku: "''",
			// JOIN interno: los pedidos sin cliente no entran al ranking
			joins:   []string{"JOIN customers cu ON cu.id = o.customer_id"},
			groupBy: "cu.id, cu.name",
		}, nil
	case repository.DimensionPeriod:
		if spec.Bucket == "" {
			return dimensionColumns{}, fmt.Errorf("dimensión period sin bucket")
		}
		expr := spec.Bucket.PostgresExpr("o.created_at")
		return dimensionColumns{key: expr, label: expr, sku: "''", groupBy: "1"}, nil
	default:
		return dimensionColumns{}, fmt.Errorf("dimensión desconocida %q", spec.Dimension)
	}
}

// buildAggregateQuery compila spec a SQL de PostgreSQL.
//
// Forma general:
//
//	SELECT <key>, <label>, <sku>, quantity, revenue, cost, order_count, customer_count
//	FROM order_items oi JOIN orders o JOIN products p [joins de la dimensión]
//	WHERE tenant AND status NOT IN (excluidos) [AND fechas] [AND categoría]
//	[GROUP BY ...] [ORDER BY ...] [LIMIT $n]
func buildAggregateQuery(spec repository.AggregateSpec) (aggregateQuery, error) {
	cols, err := columnsFor(spec)
	if err != nil {
		return aggregateQuery{}, err
	}

	var args []any
	param := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT\n\t%s AS key,\n\t%s AS label,\n\t%s AS sku,\n", cols.key, cols.label, cols.sku)
	fmt.Fprintf(&b, "\tCOALESCE(%s, 0)::BIGINT AS quantity,\n", sumQuantity)
	fmt.Fprintf(&b, "\tCOALESCE(%s, 0)::BIGINT AS revenue,\n", sumRevenue)
	fmt.Fprintf(&b, "\tCOALESCE(%s, 0)::BIGINT AS cost,\n", sumCost)
	b.WriteString("\tCOUNT(DISTINCT o.id) AS order_count,\n")
	b.WriteString("\tCOUNT(DISTINCT o.customer_id) AS customer_count\n")
	b.WriteString("FROM order_items oi\n")
	b.WriteString("JOIN orders o ON o.id = oi.order_id\n")
	b.WriteString("JOIN products p ON p.id = oi.product_id\n")
	for _, j := range cols.joins {
		b.WriteString(j + "\n")
	}

	f := spec.Filter
	where := []string{
		"o.tenant_id = " + param(f.TenantID),
		"o.status NOT IN (" + excludedStatusList() + ")",
	}
	if f.Start != nil {
		where = append(where, "o.created_at >= "+param(*f.Start))
	}
	if f.End != nil {
		where = append(where, "o.created_at <= "+param(*f.End))
	}
	if f.CategoryID != "" {
		where = append(where, "p.category_id = "+param(f.CategoryID))
	}
	b.WriteString("WHERE " + strings.Join(where, "\n  AND ") + "\n")

	if cols.groupBy != "" {
		b.WriteString("GROUP BY " + cols.groupBy + "\n")
	}

	switch {
	case spec.Dimension == repository.DimensionNone:
	case spec.Dimension == repository.DimensionPeriod:
		b.WriteString("ORDER BY 1 ASC\n")
	case spec.OrderBy == repository.MetricProfit:
		fmt.Fprintf(&b, "ORDER BY %s - %s DESC, 1 ASC\n", sumRevenue, sumCost)
	default:
		fmt.Fprintf(&b, "ORDER BY %s DESC, 1 ASC\n", sumRevenue)
	}

	if spec.Limit > 0 && spec.Dimension != repository.DimensionNone {
		b.WriteString("LIMIT " + param(spec.Limit) + "\n")
	}

	return aggregateQuery{SQL: b.String(), Args: args}, nil
}

// excludedStatusList literales SQL de los estados que no cuentan para ventas.
func excludedStatusList() string {
	parts := make([]string, 0, len(entity.ExcludedOrderStatuses))
	for _, s := range entity.ExcludedOrderStatuses {
		parts = append(parts, quoteLiteral(string(s)))
	}
	return strings.Join(parts, ", ")
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
