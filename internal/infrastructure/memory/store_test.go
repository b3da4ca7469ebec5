package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-analytics/internal/domain/analytics"
	"github.com/jhoicas/pos-analytics/internal/domain/entity"
	"github.com/jhoicas/pos-analytics/internal/domain/repository"
	"github.com/jhoicas/pos-analytics/internal/infrastructure/memory"
)

const tenant = "default"

func day(d int) time.Time { return time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC) }

// seed: producto X (precio 50.000, costo 30.000) con dos pedidos válidos,
// producto Y sin categoría, un pedido cancelado y un pedido de otro tenant.
func seed() *memory.Store {
	s := memory.NewStore()
	s.AddCategory(entity.Category{ID: "cat-1", TenantID: tenant, Name: "Bebidas"})
	s.AddCustomer(entity.Customer{ID: "cli-1", TenantID: tenant, Name: "Ana"})
	s.AddProduct(entity.Product{ID: "x", TenantID: tenant, SKU: "SKU-X", Name: "Producto X", CategoryID: "cat-1", PriceCents: 50_000, CostCents: 30_000})
	s.AddProduct(entity.Product{ID: "y", TenantID: tenant, SKU: "SKU-Y", Name: "Producto Y", PriceCents: 1_000, CostCents: 900})

	s.AddOrder(entity.Order{ID: "A", TenantID: tenant, CustomerID: "cli-1", Status: entity.OrderStatusCompleted, CreatedAt: day(1)},
		entity.OrderItem{ID: "A1", ProductID: "x", Quantity: 2, SubtotalCents: 100_000})
	s.AddOrder(entity.Order{ID: "B", TenantID: tenant, Status: entity.OrderStatusPaid, CreatedAt: day(2)},
		entity.OrderItem{ID: "B1", ProductID: "x", Quantity: 1, SubtotalCents: 50_000},
		entity.OrderItem{ID: "B2", ProductID: "y", Quantity: 1, SubtotalCents: 1_000})
	s.AddOrder(entity.Order{ID: "C", TenantID: tenant, CustomerID: "cli-1", Status: entity.OrderStatusCancelled, CreatedAt: day(2)},
		entity.OrderItem{ID: "C1", ProductID: "x", Quantity: 10, SubtotalCents: 500_000})
	s.AddOrder(entity.Order{ID: "D", TenantID: "otra", Status: entity.OrderStatusCompleted, CreatedAt: day(2)},
		entity.OrderItem{ID: "D1", ProductID: "x", Quantity: 5, SubtotalCents: 250_000})
	return s
}

func aggregate(t *testing.T, s *memory.Store, spec repository.AggregateSpec) []repository.AggregateRow {
	t.Helper()
	if spec.Filter.TenantID == "" {
		spec.Filter.TenantID = tenant
	}
	rows, err := s.Aggregate(context.Background(), spec)
	require.NoError(t, err)
	return rows
}

func TestAggregate_PorProducto(t *testing.T) {
	rows := aggregate(t, seed(), repository.AggregateSpec{Dimension: repository.DimensionProduct, OrderBy: repository.MetricRevenue})
	require.Len(t, rows, 2)

	x := rows[0]
	assert.Equal(t, "x", x.Key)
	assert.Equal(t, "SKU-X", x.SKU)
	assert.Equal(t, int64(3), x.Quantity)
	assert.Equal(t, int64(150_000), x.RevenueCents)
	assert.Equal(t, int64(90_000), x.CostCents)
	assert.Equal(t, int64(2), x.OrderCount)
	assert.Equal(t, "y", rows[1].Key)
}

func TestAggregate_CategoriaNulaEsUncategorized(t *testing.T) {
	rows := aggregate(t, seed(), repository.AggregateSpec{Dimension: repository.DimensionCategory})
	require.Len(t, rows, 2)
	assert.Equal(t, "Bebidas", rows[0].Label)
	assert.Equal(t, "", rows[1].Key)
	assert.Equal(t, entity.UncategorizedLabel, rows[1].Label)
}

func TestAggregate_ClientesExcluyePedidosSinCliente(t *testing.T) {
	rows := aggregate(t, seed(), repository.AggregateSpec{Dimension: repository.DimensionCustomer})
	require.Len(t, rows, 1)
	assert.Equal(t, "cli-1", rows[0].Key)
	assert.Equal(t, int64(100_000), rows[0].RevenueCents, "el pedido cancelado no suma")
	assert.Equal(t, int64(1), rows[0].OrderCount)
}

func TestAggregate_TotalesYRangoInclusivo(t *testing.T) {
	s := seed()
	start, end := day(2), day(2)

	rows := aggregate(t, s, repository.AggregateSpec{
		Dimension: repository.DimensionNone,
		Filter:    repository.SalesFilter{Start: &start, End: &end},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, int64(51_000), rows[0].RevenueCents)
	assert.Equal(t, int64(1), rows[0].OrderCount)

	empty, emptyEnd := day(20), day(21)
	rows = aggregate(t, s, repository.AggregateSpec{
		Dimension: repository.DimensionNone,
		Filter:    repository.SalesFilter{Start: &empty, End: &emptyEnd},
	})
	require.Len(t, rows, 1)
	assert.Equal(t, repository.AggregateRow{}, rows[0])
}

func TestAggregate_PeriodoAscendenteYLimite(t *testing.T) {
	s := seed()
	rows := aggregate(t, s, repository.AggregateSpec{Dimension: repository.DimensionPeriod, Bucket: analytics.BucketDay})
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-01", rows[0].Key)
	assert.Equal(t, "2024-03-02", rows[1].Key)
	assert.Equal(t, int64(1), rows[0].CustomerCount)
	assert.Equal(t, int64(0), rows[1].CustomerCount)

	limited := aggregate(t, s, repository.AggregateSpec{Dimension: repository.DimensionProduct, Limit: 1})
	assert.Len(t, limited, 1)
}

func TestAggregate_OrdenPorUtilidad(t *testing.T) {
	s := seed()
	s.AddProduct(entity.Product{ID: "z", TenantID: tenant, SKU: "SKU-Z", Name: "Z", CostCents: 1})
	s.AddOrder(entity.Order{ID: "E", TenantID: tenant, Status: entity.OrderStatusCompleted, CreatedAt: day(3)},
		entity.OrderItem{ID: "E1", ProductID: "z", Quantity: 1, SubtotalCents: 140_000})

	byRevenue := aggregate(t, s, repository.AggregateSpec{Dimension: repository.DimensionProduct, OrderBy: repository.MetricRevenue})
	byProfit := aggregate(t, s, repository.AggregateSpec{Dimension: repository.DimensionProduct, OrderBy: repository.MetricProfit})

	assert.Equal(t, "x", byRevenue[0].Key)
	assert.Equal(t, "z", byProfit[0].Key)
}

func TestAggregate_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := seed().Aggregate(ctx, repository.AggregateSpec{Dimension: repository.DimensionNone, Filter: repository.SalesFilter{TenantID: tenant}})
	assert.ErrorIs(t, err, context.Canceled)
}
