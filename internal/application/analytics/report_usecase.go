// Package analytics contiene los casos de uso de reportes de ventas y rentabilidad:
// ventas por producto, categoría y período, margen de utilidad, ranking de
// mejores desempeños y comparativo entre períodos.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/pos-analytics/internal/application/dto"
	domainanalytics "github.com/jhoicas/pos-analytics/internal/domain/analytics"
	"github.com/jhoicas/pos-analytics/internal/domain/repository"
)

const (
	DefaultTenantID    = "default"
	DefaultLimit       = 10
	defaultMaxLimit    = 100
	topProfitableCount = 10
	lowMarginCount     = 10
	// LowMarginThreshold margen (%) bajo el cual un producto se reporta; 20.00 exacto no entra.
	LowMarginThreshold = 20.0
)

// Options parámetros de construcción del caso de uso.
type Options struct {
	DefaultTenant string // tenant cuando el llamador no envía uno
	MaxLimit      int    // tope para ?limit
}

// ReportUseCase arma los reportes a partir de consultas agregadas de solo lectura.
// No guarda estado entre llamadas: cada reporte relee los datos vigentes.
type ReportUseCase struct {
	repo          repository.AnalyticsRepository
	defaultTenant string
	maxLimit      int
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.AnalyticsRepository, opts Options) *ReportUseCase {
	if opts.DefaultTenant == "" {
		opts.DefaultTenant = DefaultTenantID
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaultMaxLimit
	}
	return &ReportUseCase{
		repo:          repo,
		defaultTenant: opts.DefaultTenant,
		maxLimit:      opts.MaxLimit,
	}
}

// tenant resuelve el tenant efectivo; sin autenticación todo cae en el default.
func (uc *ReportUseCase) tenant(tenantID string) string {
	if strings.TrimSpace(tenantID) == "" {
		return uc.defaultTenant
	}
	return tenantID
}

func (uc *ReportUseCase) filter(tenantID string, r dateRange) repository.SalesFilter {
	return repository.SalesFilter{TenantID: uc.tenant(tenantID), Start: r.start, End: r.end}
}

// ── Ventas por dimensión ──────────────────────────────────────────────────────

// SalesByProduct ventas agrupadas por producto, de mayor a menor ingreso.
// Los productos sin ventas en el rango no aparecen.
func (uc *ReportUseCase) SalesByProduct(
	ctx context.Context,
	tenantID string,
	req dto.SalesReportRequest,
) (*dto.SalesByProductDTO, error) {
	r, err := parseRange("start_date", req.StartDate, "end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	categoryID := strings.TrimSpace(req.CategoryID)
	if categoryID != "" {
		if _, err := uuid.Parse(categoryID); err != nil {
			return nil, &ValidationError{Fields: []string{"category_id"}, Reason: "debe ser un UUID"}
		}
	}

	f := uc.filter(tenantID, r)
	f.CategoryID = categoryID
	rows, err := uc.repo.Aggregate(ctx, repository.AggregateSpec{
		Dimension: repository.DimensionProduct,
		Filter:    f,
		OrderBy:   repository.MetricRevenue,
	})
	if err != nil {
		return nil, fmt.Errorf("reportes: ventas por producto: %w", err)
	}

	products := make([]dto.ProductSalesDTO, 0, len(rows))
	for _, row := range rows {
		m := domainanalytics.ComputeMargin(row.RevenueCents, row.CostCents)
		products = append(products, dto.ProductSalesDTO{
			ProductID:           row.Key,
			ProductName:         row.Label,
			SKU:                 row.SKU,
			QuantitySold:        row.Quantity,
			TotalRevenueCents:   m.RevenueCents,
			TotalCostCents:      m.CostCents,
			ProfitCents:         m.ProfitCents,
			ProfitMarginPercent: m.MarginPercent,
			OrderCount:          row.OrderCount,
		})
	}
	return &dto.SalesByProductDTO{
		Period:     periodDTO(req.StartDate, req.EndDate),
		CategoryID: categoryID,
		Products:   products,
	}, nil
}

// SalesByCategory ventas agrupadas por categoría, de mayor a menor ingreso.
// Los productos sin categoría se agrupan en "Uncategorized" (category_id null).
func (uc *ReportUseCase) SalesByCategory(
	ctx context.Context,
	tenantID string,
	req dto.SalesReportRequest,
) (*dto.SalesByCategoryDTO, error) {
	r, err := parseRange("start_date", req.StartDate, "end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	rows, err := uc.repo.Aggregate(ctx, repository.AggregateSpec{
		Dimension: repository.DimensionCategory,
		Filter:    uc.filter(tenantID, r),
		OrderBy:   repository.MetricRevenue,
	})
	if err != nil {
		return nil, fmt.Errorf("reportes: ventas por categoría: %w", err)
	}

	categories := make([]dto.CategorySalesDTO, 0, len(rows))
	for _, row := range rows {
		m := domainanalytics.ComputeMargin(row.RevenueCents, row.CostCents)
		categories = append(categories, dto.CategorySalesDTO{
			CategoryID:          nullableID(row.Key),
			CategoryName:        row.Label,
			QuantitySold:        row.Quantity,
			TotalRevenueCents:   m.RevenueCents,
			TotalCostCents:      m.CostCents,
			ProfitCents:         m.ProfitCents,
			ProfitMarginPercent: m.MarginPercent,
			OrderCount:          row.OrderCount,
		})
	}
	return &dto.SalesByCategoryDTO{
		Period:     periodDTO(req.StartDate, req.EndDate),
		Categories: categories,
	}, nil
}

// SalesByTime una fila por período observado, en orden cronológico.
// Los períodos sin pedidos no se rellenan.
func (uc *ReportUseCase) SalesByTime(
	ctx context.Context,
	tenantID string,
	req dto.TimelineRequest,
) (*dto.SalesTimelineDTO, error) {
	bucket, err := domainanalytics.ParseBucket(req.GroupBy)
	if err != nil {
		return nil, &ValidationError{Fields: []string{"group_by"}, Reason: err.Error()}
	}
	r, err := parseRange("start_date", req.StartDate, "end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	rows, err := uc.repo.Aggregate(ctx, repository.AggregateSpec{
		Dimension: repository.DimensionPeriod,
		Bucket:    bucket,
		Filter:    uc.filter(tenantID, r),
	})
	if err != nil {
		return nil, fmt.Errorf("reportes: ventas por período: %w", err)
	}

	// el adaptador ya ordena, pero el contrato cronológico no depende de él
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })

	points := make([]dto.TimelinePointDTO, 0, len(rows))
	for _, row := range rows {
		m := domainanalytics.ComputeMargin(row.RevenueCents, row.CostCents)
		points = append(points, dto.TimelinePointDTO{
			Period:                 row.Key,
			OrderCount:             row.OrderCount,
			TotalRevenueCents:      m.RevenueCents,
			TotalCostCents:         m.CostCents,
			ProfitCents:            m.ProfitCents,
			ProfitMarginPercent:    m.MarginPercent,
			AverageOrderValueCents: domainanalytics.AverageCents(row.RevenueCents, row.OrderCount),
			CustomerCount:          row.CustomerCount,
		})
	}
	return &dto.SalesTimelineDTO{
		GroupBy: string(bucket),
		Period:  periodDTO(req.StartDate, req.EndDate),
		Points:  points,
	}, nil
}

// ── Margen de utilidad ────────────────────────────────────────────────────────

// ProfitMargin compone totales, margen por categoría (orden por utilidad), top 10 de
// productos más rentables y productos con margen bajo LowMarginThreshold.
//
// Tres consultas en paralelo; la primera que falle cancela las demás.
func (uc *ReportUseCase) ProfitMargin(
	ctx context.Context,
	tenantID string,
	req dto.SalesReportRequest,
) (*dto.ProfitMarginDTO, error) {
	r, err := parseRange("start_date", req.StartDate, "end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	f := uc.filter(tenantID, r)

	var overall repository.AggregateRow
	var categoryRows, productRows []repository.AggregateRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overall, err = uc.overall(gctx, f)
		if err != nil {
			return fmt.Errorf("reportes: margen total: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categoryRows, err = uc.repo.Aggregate(gctx, repository.AggregateSpec{
			Dimension: repository.DimensionCategory,
			Filter:    f,
			OrderBy:   repository.MetricProfit,
		})
		if err != nil {
			return fmt.Errorf("reportes: margen por categoría: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		productRows, err = uc.repo.Aggregate(gctx, repository.AggregateSpec{
			Dimension: repository.DimensionProduct,
			Filter:    f,
			OrderBy:   repository.MetricProfit,
		})
		if err != nil {
			return fmt.Errorf("reportes: margen por producto: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCategory := make([]dto.CategoryMarginDTO, 0, len(categoryRows))
	for _, row := range categoryRows {
		m := domainanalytics.ComputeMargin(row.RevenueCents, row.CostCents)
		byCategory = append(byCategory, dto.CategoryMarginDTO{
			CategoryID:          nullableID(row.Key),
			CategoryName:        row.Label,
			TotalRevenueCents:   m.RevenueCents,
			TotalCostCents:      m.CostCents,
			ProfitCents:         m.ProfitCents,
			ProfitMarginPercent: m.MarginPercent,
		})
	}
	sort.SliceStable(byCategory, func(i, j int) bool {
		return byCategory[i].ProfitCents > byCategory[j].ProfitCents
	})

	products := make([]dto.ProductMarginDTO, 0, len(productRows))
	for _, row := range productRows {
		products = append(products, productMargin(row))
	}
	top, low := splitProductMargins(products)

	m := domainanalytics.ComputeMargin(overall.RevenueCents, overall.CostCents)
	return &dto.ProfitMarginDTO{
		Period: periodDTO(req.StartDate, req.EndDate),
		Overall: dto.OverallMarginDTO{
			TotalRevenueCents:   m.RevenueCents,
			TotalCostCents:      m.CostCents,
			GrossProfitCents:    m.ProfitCents,
			ProfitMarginPercent: m.MarginPercent,
			OrderCount:          overall.OrderCount,
		},
		ByCategory:            byCategory,
		TopProfitableProducts: top,
		LowMarginProducts:     low,
		LowMarginThreshold:    LowMarginThreshold,
	}, nil
}

// splitProductMargins devuelve los topProfitableCount productos de mayor utilidad absoluta
// y hasta lowMarginCount productos con margen estrictamente menor al umbral, peor primero.
func splitProductMargins(products []dto.ProductMarginDTO) (top, low []dto.ProductMarginDTO) {
	byProfit := append([]dto.ProductMarginDTO(nil), products...)
	sort.SliceStable(byProfit, func(i, j int) bool { return byProfit[i].ProfitCents > byProfit[j].ProfitCents })
	top = make([]dto.ProductMarginDTO, 0, topProfitableCount)
	for i := 0; i < len(byProfit) && i < topProfitableCount; i++ {
		top = append(top, byProfit[i])
	}

	low = make([]dto.ProductMarginDTO, 0, lowMarginCount)
	for _, p := range products {
		if p.ProfitMarginPercent < LowMarginThreshold {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].ProfitMarginPercent < low[j].ProfitMarginPercent
	})
	if len(low) > lowMarginCount {
		low = low[:lowMarginCount]
	}
	return top, low
}

func productMargin(row repository.AggregateRow) dto.ProductMarginDTO {
	m := domainanalytics.ComputeMargin(row.RevenueCents, row.CostCents)
	return dto.ProductMarginDTO{
		ProductID:           row.Key,
		ProductName:         row.Label,
		SKU:                 row.SKU,
		QuantitySold:        row.Quantity,
		TotalRevenueCents:   m.RevenueCents,
		TotalCostCents:      m.CostCents,
		ProfitCents:         m.ProfitCents,
		ProfitMarginPercent: m.MarginPercent,
	}
}

// overall totales del filtro; siempre una fila (en cero si no hubo ventas).
func (uc *ReportUseCase) overall(ctx context.Context, f repository.SalesFilter) (repository.AggregateRow, error) {
	rows, err := uc.repo.Aggregate(ctx, repository.AggregateSpec{
		Dimension: repository.DimensionNone,
		Filter:    f,
	})
	if err != nil {
		return repository.AggregateRow{}, err
	}
	if len(rows) == 0 {
		return repository.AggregateRow{}, nil
	}
	return rows[0], nil
}

// ── Ranking ───────────────────────────────────────────────────────────────────

// normalizeLimit aplica DefaultLimit a valores no positivos y recorta al máximo configurado.
func (uc *ReportUseCase) normalizeLimit(limit int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > uc.maxLimit {
		return uc.maxLimit
	}
	return limit
}

// TopPerformers top N de productos, categorías (por ingreso) y clientes (por gasto).
// El rank es la posición 1..N dentro de la lista devuelta.
func (uc *ReportUseCase) TopPerformers(
	ctx context.Context,
	tenantID string,
	req dto.TopPerformersRequest,
) (*dto.TopPerformersDTO, error) {
	r, err := parseRange("start_date", req.StartDate, "end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	limit := uc.normalizeLimit(req.Limit)
	f := uc.filter(tenantID, r)

	ranked := func(dim repository.Dimension) repository.AggregateSpec {
		return repository.AggregateSpec{Dimension: dim, Filter: f, OrderBy: repository.MetricRevenue, Limit: limit}
	}

	var productRows, categoryRows, customerRows []repository.AggregateRow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if productRows, err = uc.repo.Aggregate(gctx, ranked(repository.DimensionProduct)); err != nil {
			return fmt.Errorf("reportes: top productos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if categoryRows, err = uc.repo.Aggregate(gctx, ranked(repository.DimensionCategory)); err != nil {
			return fmt.Errorf("reportes: top categorías: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if customerRows, err = uc.repo.Aggregate(gctx, ranked(repository.DimensionCustomer)); err != nil {
			return fmt.Errorf("reportes: top clientes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.TopPerformersDTO{
		Period:     periodDTO(req.StartDate, req.EndDate),
		Limit:      limit,
		Products:   make([]dto.RankedProductDTO, 0, len(productRows)),
		Categories: make([]dto.RankedCategoryDTO, 0, len(categoryRows)),
		Customers:  make([]dto.RankedCustomerDTO, 0, len(customerRows)),
	}
	for i, row := range rankByRevenue(productRows, limit) {
		out.Products = append(out.Products, dto.RankedProductDTO{
			Rank:              i + 1,
			ProductID:         row.Key,
			ProductName:       row.Label,
			SKU:               row.SKU,
			QuantitySold:      row.Quantity,
			TotalRevenueCents: row.RevenueCents,
			ProfitCents:       row.ProfitCents(),
			OrderCount:        row.OrderCount,
		})
	}
	for i, row := range rankByRevenue(categoryRows, limit) {
		out.Categories = append(out.Categories, dto.RankedCategoryDTO{
			Rank:              i + 1,
			CategoryID:        nullableID(row.Key),
			CategoryName:      row.Label,
			QuantitySold:      row.Quantity,
			TotalRevenueCents: row.RevenueCents,
			ProfitCents:       row.ProfitCents(),
		})
	}
	for i, row := range rankByRevenue(customerRows, limit) {
		out.Customers = append(out.Customers, dto.RankedCustomerDTO{
			Rank:                   i + 1,
			CustomerID:             row.Key,
			CustomerName:           row.Label,
			OrderCount:             row.OrderCount,
			TotalSpentCents:        row.RevenueCents,
			AverageOrderValueCents: domainanalytics.AverageCents(row.RevenueCents, row.OrderCount),
		})
	}
	return out, nil
}

// rankByRevenue asegura el orden descendente por ingreso y el tope de filas.
func rankByRevenue(rows []repository.AggregateRow, limit int) []repository.AggregateRow {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].RevenueCents > rows[j].RevenueCents })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// ── Comparativo ───────────────────────────────────────────────────────────────

// Comparative compara ingreso, pedidos y utilidad de dos períodos.
// Los cuatro límites son obligatorios; la validación ocurre antes de consultar.
func (uc *ReportUseCase) Comparative(
	ctx context.Context,
	tenantID string,
	req dto.ComparativeRequest,
) (*dto.ComparativeDTO, error) {
	if err := requireFields(
		[2]string{"period1_start", req.Period1Start},
		[2]string{"period1_end", req.Period1End},
		[2]string{"period2_start", req.Period2Start},
		[2]string{"period2_end", req.Period2End},
	); err != nil {
		return nil, err
	}
	r1, err := parseRange("period1_start", req.Period1Start, "period1_end", req.Period1End)
	if err != nil {
		return nil, err
	}
	r2, err := parseRange("period2_start", req.Period2Start, "period2_end", req.Period2End)
	if err != nil {
		return nil, err
	}

	var p1, p2 repository.AggregateRow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if p1, err = uc.overall(gctx, uc.filter(tenantID, r1)); err != nil {
			return fmt.Errorf("reportes: comparativo período 1: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if p2, err = uc.overall(gctx, uc.filter(tenantID, r2)); err != nil {
			return fmt.Errorf("reportes: comparativo período 2: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.ComparativeDTO{
		Period1: periodMetrics(req.Period1Start, req.Period1End, p1),
		Period2: periodMetrics(req.Period2Start, req.Period2End, p2),
		Growth: dto.GrowthDTO{
			RevenuePercent: domainanalytics.Growth(p1.RevenueCents, p2.RevenueCents),
			OrdersPercent:  domainanalytics.Growth(p1.OrderCount, p2.OrderCount),
			ProfitPercent:  domainanalytics.Growth(p1.ProfitCents(), p2.ProfitCents()),
		},
	}, nil
}

func periodMetrics(start, end string, row repository.AggregateRow) dto.PeriodMetricsDTO {
	return dto.PeriodMetricsDTO{
		StartDate:    start,
		EndDate:      end,
		RevenueCents: row.RevenueCents,
		OrderCount:   row.OrderCount,
		ProfitCents:  row.ProfitCents(),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func periodDTO(start, end string) dto.PeriodDTO {
	return dto.PeriodDTO{StartDate: strings.TrimSpace(start), EndDate: strings.TrimSpace(end)}
}

// nullableID convierte la clave vacía de "Uncategorized" en null.
func nullableID(key string) *string {
	if key == "" {
		return nil
	}
	k := key
	return &k
}
