package analytics_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-analytics/internal/application/analytics"
	"github.com/jhoicas/pos-analytics/internal/application/dto"
	"github.com/jhoicas/pos-analytics/internal/domain"
	"github.com/jhoicas/pos-analytics/internal/domain/entity"
	"github.com/jhoicas/pos-analytics/internal/domain/repository"
	"github.com/jhoicas/pos-analytics/internal/infrastructure/memory"
)

const (
	tenant    = "default"
	catBebida = "11111111-1111-1111-1111-111111111111"
	catSnack  = "22222222-2222-2222-2222-222222222222"
)

func at(month time.Month, d int) time.Time { return time.Date(2024, month, d, 10, 0, 0, 0, time.UTC) }

// seedStore: producto X (escenario base), producto S en otra categoría, producto U sin categoría,
// pedidos cancelado y reembolsado que nunca deben sumar, y un pedido de otro tenant.
func seedStore() *memory.Store {
	s := memory.NewStore()
	s.AddCategory(entity.Category{ID: catBebida, TenantID: tenant, Name: "Bebidas"})
	s.AddCategory(entity.Category{ID: catSnack, TenantID: tenant, Name: "Snacks"})
	s.AddCustomer(entity.Customer{ID: "cli-ana", TenantID: tenant, Name: "Ana"})
	s.AddCustomer(entity.Customer{ID: "cli-luis", TenantID: tenant, Name: "Luis"})

	s.AddProduct(entity.Product{ID: "x", TenantID: tenant, SKU: "SKU-X", Name: "Producto X", CategoryID: catBebida, PriceCents: 50_000, CostCents: 30_000})
	s.AddProduct(entity.Product{ID: "s", TenantID: tenant, SKU: "SKU-S", Name: "Producto S", CategoryID: catSnack, PriceCents: 10_000, CostCents: 9_000})
	s.AddProduct(entity.Product{ID: "u", TenantID: tenant, SKU: "SKU-U", Name: "Producto U", PriceCents: 5_000, CostCents: 1_000})

	s.AddOrder(entity.Order{ID: "A", TenantID: tenant, CustomerID: "cli-ana", Status: entity.OrderStatusCompleted, CreatedAt: at(time.March, 1)},
		entity.OrderItem{ID: "A1", ProductID: "x", Quantity: 2, SubtotalCents: 100_000})
	s.AddOrder(entity.Order{ID: "B", TenantID: tenant, CustomerID: "cli-luis", Status: entity.OrderStatusPaid, CreatedAt: at(time.March, 10)},
		entity.OrderItem{ID: "B1", ProductID: "x", Quantity: 1, SubtotalCents: 50_000},
		entity.OrderItem{ID: "B2", ProductID: "s", Quantity: 2, SubtotalCents: 20_000})
	s.AddOrder(entity.Order{ID: "C", TenantID: tenant, Status: entity.OrderStatusShipped, CreatedAt: at(time.April, 2)},
		entity.OrderItem{ID: "C1", ProductID: "u", Quantity: 1, SubtotalCents: 5_000})

	s.AddOrder(entity.Order{ID: "K", TenantID: tenant, CustomerID: "cli-ana", Status: entity.OrderStatusCancelled, CreatedAt: at(time.March, 5)},
		entity.OrderItem{ID: "K1", ProductID: "x", Quantity: 9, SubtotalCents: 450_000})
	s.AddOrder(entity.Order{ID: "R", TenantID: tenant, CustomerID: "cli-luis", Status: entity.OrderStatusRefunded, CreatedAt: at(time.March, 6)},
		entity.OrderItem{ID: "R1", ProductID: "u", Quantity: 4, SubtotalCents: 20_000})
	s.AddOrder(entity.Order{ID: "T", TenantID: "otra-tienda", Status: entity.OrderStatusCompleted, CreatedAt: at(time.March, 2)},
		entity.OrderItem{ID: "T1", ProductID: "x", Quantity: 7, SubtotalCents: 350_000})
	return s
}

func newUseCase(repo repository.AnalyticsRepository) *analytics.ReportUseCase {
	return analytics.NewReportUseCase(repo, analytics.Options{DefaultTenant: tenant, MaxLimit: 50})
}

func march() dto.SalesReportRequest {
	return dto.SalesReportRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"}
}

func expectedMargin(profit, revenue int64) float64 {
	if revenue <= 0 {
		return 0
	}
	return math.Round(float64(profit)/float64(revenue)*100*100) / 100
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas por producto
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesByProduct_EscenarioProductoX(t *testing.T) {
	uc := newUseCase(seedStore())

	out, err := uc.SalesByProduct(context.Background(), tenant, march())
	require.NoError(t, err)
	require.Len(t, out.Products, 2)

	x := out.Products[0]
	assert.Equal(t, "x", x.ProductID)
	assert.Equal(t, "Producto X", x.ProductName)
	assert.Equal(t, "SKU-X", x.SKU)
	assert.Equal(t, int64(3), x.QuantitySold)
	assert.Equal(t, int64(150_000), x.TotalRevenueCents)
	assert.Equal(t, int64(90_000), x.TotalCostCents)
	assert.Equal(t, int64(60_000), x.ProfitCents)
	assert.Equal(t, 40.0, x.ProfitMarginPercent)
	assert.Equal(t, int64(2), x.OrderCount)

	assert.Equal(t, "2024-03-01", out.Period.StartDate)
	assert.Equal(t, "2024-03-31", out.Period.EndDate)
}

func TestSalesByProduct_FiltroCategoria(t *testing.T) {
	uc := newUseCase(seedStore())
	req := march()
	req.CategoryID = catSnack

	out, err := uc.SalesByProduct(context.Background(), tenant, req)
	require.NoError(t, err)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "s", out.Products[0].ProductID)
	assert.Equal(t, catSnack, out.CategoryID)
}

func TestSalesByProduct_TenantVacioUsaDefault(t *testing.T) {
	uc := newUseCase(seedStore())

	out, err := uc.SalesByProduct(context.Background(), "", march())
	require.NoError(t, err)
	assert.Len(t, out.Products, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas por categoría y por período
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesByCategory_UncategorizedConIDNulo(t *testing.T) {
	uc := newUseCase(seedStore())

	out, err := uc.SalesByCategory(context.Background(), tenant, dto.SalesReportRequest{})
	require.NoError(t, err)
	require.Len(t, out.Categories, 3)

	assert.Equal(t, "Bebidas", out.Categories[0].CategoryName)
	require.NotNil(t, out.Categories[0].CategoryID)
	assert.Equal(t, catBebida, *out.Categories[0].CategoryID)

	last := out.Categories[2]
	assert.Nil(t, last.CategoryID)
	assert.Equal(t, entity.UncategorizedLabel, last.CategoryName)
	assert.Equal(t, int64(5_000), last.TotalRevenueCents)
}

func TestSalesByTime_MesesEnOrdenCronologico(t *testing.T) {
	uc := newUseCase(seedStore())

	out, err := uc.SalesByTime(context.Background(), tenant, dto.TimelineRequest{GroupBy: "month"})
	require.NoError(t, err)
	assert.Equal(t, "month", out.GroupBy)
	require.Len(t, out.Points, 2)

	assert.Equal(t, "2024-03", out.Points[0].Period)
	assert.Equal(t, int64(2), out.Points[0].OrderCount)
	assert.Equal(t, int64(170_000), out.Points[0].TotalRevenueCents)
	assert.Equal(t, int64(85_000), out.Points[0].AverageOrderValueCents)
	assert.Equal(t, int64(2), out.Points[0].CustomerCount)

	assert.Equal(t, "2024-04", out.Points[1].Period)
	assert.Equal(t, int64(0), out.Points[1].CustomerCount, "venta sin cliente")
}

func TestSalesByTime_DefaultDia(t *testing.T) {
	uc := newUseCase(seedStore())

	out, err := uc.SalesByTime(context.Background(), tenant, dto.TimelineRequest{})
	require.NoError(t, err)
	assert.Equal(t, "day", out.GroupBy)
	require.Len(t, out.Points, 3)
	assert.Equal(t, "2024-03-01", out.Points[0].Period)
	assert.Equal(t, "2024-03-10", out.Points[1].Period)
	assert.Equal(t, "2024-04-02", out.Points[2].Period)
}

func TestSalesByTime_GroupByInvalido(t *testing.T) {
	uc := newUseCase(seedStore())

	_, err := uc.SalesByTime(context.Background(), tenant, dto.TimelineRequest{GroupBy: "quarter"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades transversales
// ──────────────────────────────────────────────────────────────────────────────

func TestConservacionDeIngresos_CategoriasIgualTotal(t *testing.T) {
	uc := newUseCase(seedStore())
	ctx := context.Background()

	for _, req := range []dto.SalesReportRequest{{}, march(), {StartDate: "2024-04-01"}} {
		cats, err := uc.SalesByCategory(ctx, tenant, req)
		require.NoError(t, err)
		pm, err := uc.ProfitMargin(ctx, tenant, req)
		require.NoError(t, err)

		var sum int64
		for _, c := range cats.Categories {
			sum += c.TotalRevenueCents
		}
		assert.Equal(t, pm.Overall.TotalRevenueCents, sum, "rango %+v", req)
	}
}

func TestFormulaDeMargen_EnTodasLasFilas(t *testing.T) {
	uc := newUseCase(seedStore())
	ctx := context.Background()

	prod, err := uc.SalesByProduct(ctx, tenant, dto.SalesReportRequest{})
	require.NoError(t, err)
	for _, p := range prod.Products {
		assert.Equal(t, p.TotalRevenueCents-p.TotalCostCents, p.ProfitCents)
		assert.Equal(t, expectedMargin(p.ProfitCents, p.TotalRevenueCents), p.ProfitMarginPercent, p.ProductID)
	}

	cats, err := uc.SalesByCategory(ctx, tenant, dto.SalesReportRequest{})
	require.NoError(t, err)
	for _, c := range cats.Categories {
		assert.Equal(t, expectedMargin(c.ProfitCents, c.TotalRevenueCents), c.ProfitMarginPercent, c.CategoryName)
	}

	tl, err := uc.SalesByTime(ctx, tenant, dto.TimelineRequest{GroupBy: "week"})
	require.NoError(t, err)
	for _, p := range tl.Points {
		assert.Equal(t, expectedMargin(p.ProfitCents, p.TotalRevenueCents), p.ProfitMarginPercent, p.Period)
	}

	pm, err := uc.ProfitMargin(ctx, tenant, dto.SalesReportRequest{})
	require.NoError(t, err)
	assert.Equal(t, expectedMargin(pm.Overall.GrossProfitCents, pm.Overall.TotalRevenueCents), pm.Overall.ProfitMarginPercent)
}

func TestExclusion_CanceladosYReembolsadosNoSuman(t *testing.T) {
	uc := newUseCase(seedStore())
	ctx := context.Background()

	pm, err := uc.ProfitMargin(ctx, tenant, dto.SalesReportRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(175_000), pm.Overall.TotalRevenueCents)
	assert.Equal(t, int64(3), pm.Overall.OrderCount)

	top, err := uc.TopPerformers(ctx, tenant, dto.TopPerformersRequest{})
	require.NoError(t, err)
	for _, c := range top.Customers {
		switch c.CustomerID {
		case "cli-ana":
			assert.Equal(t, int64(100_000), c.TotalSpentCents)
		case "cli-luis":
			assert.Equal(t, int64(70_000), c.TotalSpentCents)
		}
	}
	for _, p := range top.Products {
		if p.ProductID == "u" {
			assert.Equal(t, int64(1), p.QuantitySold)
		}
	}
}

func TestRangoSinPedidos_EstructurasVaciasNoNulas(t *testing.T) {
	uc := newUseCase(seedStore())
	ctx := context.Background()
	empty := dto.SalesReportRequest{StartDate: "2030-01-01", EndDate: "2030-01-31"}

	prod, err := uc.SalesByProduct(ctx, tenant, empty)
	require.NoError(t, err)
	assert.NotNil(t, prod.Products)
	assert.Empty(t, prod.Products)

	cats, err := uc.SalesByCategory(ctx, tenant, empty)
	require.NoError(t, err)
	assert.NotNil(t, cats.Categories)
	assert.Empty(t, cats.Categories)

	tl, err := uc.SalesByTime(ctx, tenant, dto.TimelineRequest{StartDate: empty.StartDate, EndDate: empty.EndDate})
	require.NoError(t, err)
	assert.NotNil(t, tl.Points)
	assert.Empty(t, tl.Points)

	pm, err := uc.ProfitMargin(ctx, tenant, empty)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pm.Overall.TotalRevenueCents)
	assert.Equal(t, 0.0, pm.Overall.ProfitMarginPercent)
	assert.NotNil(t, pm.ByCategory)
	assert.NotNil(t, pm.TopProfitableProducts)
	assert.NotNil(t, pm.LowMarginProducts)

	top, err := uc.TopPerformers(ctx, tenant, dto.TopPerformersRequest{StartDate: empty.StartDate, EndDate: empty.EndDate})
	require.NoError(t, err)
	assert.NotNil(t, top.Products)
	assert.NotNil(t, top.Categories)
	assert.NotNil(t, top.Customers)

	cmp, err := uc.Comparative(ctx, tenant, dto.ComparativeRequest{
		Period1Start: "2030-01-01", Period1End: "2030-01-31",
		Period2Start: "2030-02-01", Period2End: "2030-02-28",
	})
	require.NoError(t, err)
	assert.Equal(t, dto.GrowthDTO{}, cmp.Growth)
}

// ──────────────────────────────────────────────────────────────────────────────
// Margen de utilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestProfitMargin_UmbralEstricto(t *testing.T) {
	s := memory.NewStore()
	s.AddProduct(entity.Product{ID: "p20", TenantID: tenant, Name: "Margen 20", CostCents: 8_000})
	s.AddProduct(entity.Product{ID: "p1999", TenantID: tenant, Name: "Margen 19.99", CostCents: 8_001})
	s.AddProduct(entity.Product{ID: "perdida", TenantID: tenant, Name: "Pérdida", CostCents: 12_000})
	s.AddOrder(entity.Order{ID: "o1", TenantID: tenant, Status: entity.OrderStatusCompleted, CreatedAt: at(time.May, 1)},
		entity.OrderItem{ID: "i1", ProductID: "p20", Quantity: 1, SubtotalCents: 10_000},
		entity.OrderItem{ID: "i2", ProductID: "p1999", Quantity: 1, SubtotalCents: 10_000},
		entity.OrderItem{ID: "i3", ProductID: "perdida", Quantity: 1, SubtotalCents: 10_000})

	out, err := newUseCase(s).ProfitMargin(context.Background(), tenant, dto.SalesReportRequest{})
	require.NoError(t, err)
	assert.Equal(t, analytics.LowMarginThreshold, out.LowMarginThreshold)

	ids := make([]string, 0, len(out.LowMarginProducts))
	for _, p := range out.LowMarginProducts {
		ids = append(ids, p.ProductID)
	}
	assert.Equal(t, []string{"perdida", "p1999"}, ids, "peor margen primero; 20.00 exacto no entra")
	assert.Equal(t, 19.99, out.LowMarginProducts[1].ProfitMarginPercent)
	assert.Equal(t, -20.0, out.LowMarginProducts[0].ProfitMarginPercent)
}

func TestProfitMargin_TopRentablesYCategoriasPorUtilidad(t *testing.T) {
	uc := newUseCase(seedStore())

	out, err := uc.ProfitMargin(context.Background(), tenant, dto.SalesReportRequest{})
	require.NoError(t, err)

	require.Len(t, out.TopProfitableProducts, 3)
	assert.Equal(t, "x", out.TopProfitableProducts[0].ProductID)
	assert.Equal(t, "u", out.TopProfitableProducts[1].ProductID)
	assert.Equal(t, "s", out.TopProfitableProducts[2].ProductID)

	require.Len(t, out.ByCategory, 3)
	for i := 1; i < len(out.ByCategory); i++ {
		assert.GreaterOrEqual(t, out.ByCategory[i-1].ProfitCents, out.ByCategory[i].ProfitCents)
	}
	assert.Equal(t, int64(60_000), out.ByCategory[0].ProfitCents)

	// S: 20.000 de ingreso, 18.000 de costo → 10 %
	require.Len(t, out.LowMarginProducts, 1)
	assert.Equal(t, "s", out.LowMarginProducts[0].ProductID)
	assert.Equal(t, 10.0, out.LowMarginProducts[0].ProfitMarginPercent)
}

func TestProfitMargin_TopLimitadoADiez(t *testing.T) {
	s := memory.NewStore()
	var items []entity.OrderItem
	for i := 1; i <= 14; i++ {
		id := fmt.Sprintf("p%02d", i)
		s.AddProduct(entity.Product{ID: id, TenantID: tenant, Name: id, CostCents: 100})
		items = append(items, entity.OrderItem{ID: "i" + id, ProductID: id, Quantity: 1, SubtotalCents: int64(1_000 * i)})
	}
	s.AddOrder(entity.Order{ID: "o", TenantID: tenant, Status: entity.OrderStatusCompleted, CreatedAt: at(time.June, 1)}, items...)

	out, err := newUseCase(s).ProfitMargin(context.Background(), tenant, dto.SalesReportRequest{})
	require.NoError(t, err)
	require.Len(t, out.TopProfitableProducts, 10)
	assert.Equal(t, "p14", out.TopProfitableProducts[0].ProductID)
	assert.Equal(t, "p05", out.TopProfitableProducts[9].ProductID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Top performers
// ──────────────────────────────────────────────────────────────────────────────

func rankingStore() *memory.Store {
	s := memory.NewStore()
	for i := 1; i <= 8; i++ {
		pid := fmt.Sprintf("prod-%d", i)
		cid := fmt.Sprintf("cli-%d", i)
		s.AddProduct(entity.Product{ID: pid, TenantID: tenant, Name: pid, CostCents: 10})
		s.AddCustomer(entity.Customer{ID: cid, TenantID: tenant, Name: cid})
		s.AddOrder(entity.Order{ID: "o-" + pid, TenantID: tenant, CustomerID: cid, Status: entity.OrderStatusCompleted, CreatedAt: at(time.July, i)},
			entity.OrderItem{ID: "i-" + pid, ProductID: pid, Quantity: int64(i), SubtotalCents: int64(i) * 1_000})
	}
	return s
}

func TestTopPerformers_IntegridadDelRanking(t *testing.T) {
	uc := newUseCase(rankingStore())

	out, err := uc.TopPerformers(context.Background(), tenant, dto.TopPerformersRequest{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Limit)

	require.Len(t, out.Products, 5)
	for i, p := range out.Products {
		assert.Equal(t, i+1, p.Rank)
		if i > 0 {
			assert.Greater(t, out.Products[i-1].TotalRevenueCents, p.TotalRevenueCents)
		}
	}
	assert.Equal(t, "prod-8", out.Products[0].ProductID)

	require.Len(t, out.Customers, 5)
	for i, c := range out.Customers {
		assert.Equal(t, i+1, c.Rank)
		if i > 0 {
			assert.Greater(t, out.Customers[i-1].TotalSpentCents, c.TotalSpentCents)
		}
		assert.Equal(t, c.TotalSpentCents, c.AverageOrderValueCents, "un pedido por cliente")
	}

	require.Len(t, out.Categories, 1, "todo queda en Uncategorized")
	assert.Equal(t, 1, out.Categories[0].Rank)
	assert.Nil(t, out.Categories[0].CategoryID)
}

func TestTopPerformers_LimitePorDefectoYTope(t *testing.T) {
	uc := analytics.NewReportUseCase(rankingStore(), analytics.Options{MaxLimit: 3})
	ctx := context.Background()

	out, err := uc.TopPerformers(ctx, tenant, dto.TopPerformersRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Limit, "el default 10 se recorta al máximo configurado")
	assert.Len(t, out.Products, 3)

	uc = newUseCase(rankingStore())
	out, err = uc.TopPerformers(ctx, tenant, dto.TopPerformersRequest{Limit: -4})
	require.NoError(t, err)
	assert.Equal(t, analytics.DefaultLimit, out.Limit)
	assert.Len(t, out.Products, 8)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comparativo
// ──────────────────────────────────────────────────────────────────────────────

func TestComparative_Crecimiento(t *testing.T) {
	s := memory.NewStore()
	s.AddProduct(entity.Product{ID: "p", TenantID: tenant, Name: "P", CostCents: 0})
	s.AddOrder(entity.Order{ID: "ene", TenantID: tenant, Status: entity.OrderStatusCompleted, CreatedAt: at(time.January, 15)},
		entity.OrderItem{ID: "i1", ProductID: "p", Quantity: 1, SubtotalCents: 1_000_000})
	s.AddOrder(entity.Order{ID: "feb1", TenantID: tenant, Status: entity.OrderStatusCompleted, CreatedAt: at(time.February, 10)},
		entity.OrderItem{ID: "i2", ProductID: "p", Quantity: 1, SubtotalCents: 600_000})
	s.AddOrder(entity.Order{ID: "feb2", TenantID: tenant, Status: entity.OrderStatusCompleted, CreatedAt: at(time.February, 20)},
		entity.OrderItem{ID: "i3", ProductID: "p", Quantity: 1, SubtotalCents: 600_000})

	out, err := newUseCase(s).Comparative(context.Background(), tenant, dto.ComparativeRequest{
		Period1Start: "2024-01-01", Period1End: "2024-01-31",
		Period2Start: "2024-02-01", Period2End: "2024-02-29",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), out.Period1.RevenueCents)
	assert.Equal(t, int64(1_200_000), out.Period2.RevenueCents)
	assert.Equal(t, 20.0, out.Growth.RevenuePercent)
	assert.Equal(t, 100.0, out.Growth.OrdersPercent)
	assert.Equal(t, 20.0, out.Growth.ProfitPercent)
	assert.Equal(t, "2024-01-01", out.Period1.StartDate)
	assert.Equal(t, "2024-02-29", out.Period2.EndDate)
}

func TestComparative_PeriodoBaseEnCero(t *testing.T) {
	s := memory.NewStore()
	s.AddProduct(entity.Product{ID: "p", TenantID: tenant, Name: "P"})
	s.AddOrder(entity.Order{ID: "feb", TenantID: tenant, Status: entity.OrderStatusCompleted, CreatedAt: at(time.February, 10)},
		entity.OrderItem{ID: "i", ProductID: "p", Quantity: 1, SubtotalCents: 500_000})

	out, err := newUseCase(s).Comparative(context.Background(), tenant, dto.ComparativeRequest{
		Period1Start: "2024-01-01", Period1End: "2024-01-31",
		Period2Start: "2024-02-01", Period2End: "2024-02-29",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), out.Period2.RevenueCents)
	assert.Equal(t, 0.0, out.Growth.RevenuePercent)
	assert.Equal(t, 0.0, out.Growth.OrdersPercent)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación y errores
// ──────────────────────────────────────────────────────────────────────────────

// countingRepo cuenta las consultas y devuelve err si está definido.
type countingRepo struct {
	calls atomic.Int32
	err   error
}

func (r *countingRepo) Aggregate(ctx context.Context, spec repository.AggregateSpec) ([]repository.AggregateRow, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return []repository.AggregateRow{}, nil
}

func TestValidacion_AntesDeConsultar(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{}
	uc := newUseCase(repo)

	cases := []struct {
		name string
		call func() error
	}{
		{"comparativo incompleto", func() error {
			_, err := uc.Comparative(ctx, tenant, dto.ComparativeRequest{Period1Start: "2024-01-01"})
			return err
		}},
		{"comparativo rango invertido", func() error {
			_, err := uc.Comparative(ctx, tenant, dto.ComparativeRequest{
				Period1Start: "2024-02-01", Period1End: "2024-01-01",
				Period2Start: "2024-03-01", Period2End: "2024-03-31",
			})
			return err
		}},
		{"fecha mal formada", func() error {
			_, err := uc.SalesByProduct(ctx, tenant, dto.SalesReportRequest{StartDate: "01/03/2024"})
			return err
		}},
		{"category_id no uuid", func() error {
			_, err := uc.SalesByProduct(ctx, tenant, dto.SalesReportRequest{CategoryID: "bebidas"})
			return err
		}},
		{"start posterior a end", func() error {
			_, err := uc.ProfitMargin(ctx, tenant, dto.SalesReportRequest{StartDate: "2024-05-01", EndDate: "2024-04-01"})
			return err
		}},
		{"group_by desconocido", func() error {
			_, err := uc.SalesByTime(ctx, tenant, dto.TimelineRequest{GroupBy: "hour"})
			return err
		}},
		{"top performers fecha inválida", func() error {
			_, err := uc.TopPerformers(ctx, tenant, dto.TopPerformersRequest{EndDate: "mañana"})
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			var verr *analytics.ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
	assert.Equal(t, int32(0), repo.calls.Load(), "ninguna validación fallida debe llegar al repositorio")
}

func TestComparative_ListaLosCamposFaltantes(t *testing.T) {
	uc := newUseCase(&countingRepo{})

	_, err := uc.Comparative(context.Background(), tenant, dto.ComparativeRequest{
		Period1Start: "2024-01-01", Period2End: "2024-02-29",
	})
	var verr *analytics.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"period1_end", "period2_start"}, verr.Fields)
}

func TestErroresDelRepositorio_SePropagan(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("conexión rechazada")
	uc := newUseCase(&countingRepo{err: boom})

	_, err := uc.SalesByProduct(ctx, tenant, dto.SalesReportRequest{})
	assert.ErrorIs(t, err, boom)
	_, err = uc.SalesByCategory(ctx, tenant, dto.SalesReportRequest{})
	assert.ErrorIs(t, err, boom)
	_, err = uc.SalesByTime(ctx, tenant, dto.TimelineRequest{})
	assert.ErrorIs(t, err, boom)
	_, err = uc.ProfitMargin(ctx, tenant, dto.SalesReportRequest{})
	assert.ErrorIs(t, err, boom)
	_, err = uc.TopPerformers(ctx, tenant, dto.TopPerformersRequest{})
	assert.ErrorIs(t, err, boom)
	_, err = uc.Comparative(ctx, tenant, dto.ComparativeRequest{
		Period1Start: "2024-01-01", Period1End: "2024-01-31",
		Period2Start: "2024-02-01", Period2End: "2024-02-29",
	})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTimeout_SePropagaComoDeadlineExceeded(t *testing.T) {
	uc := newUseCase(&countingRepo{err: fmt.Errorf("analytics.Aggregate product: %w", context.DeadlineExceeded)})

	_, err := uc.SalesByProduct(context.Background(), tenant, dto.SalesReportRequest{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
