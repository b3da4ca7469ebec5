package http

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-analytics/internal/application/analytics"
	"github.com/jhoicas/pos-analytics/internal/application/dto"
	"github.com/jhoicas/pos-analytics/internal/domain"
	"github.com/jhoicas/pos-analytics/pkg/logger"
)

const (
	msgInternal = "error al generar el reporte"
	msgTimeout  = "el reporte tardó demasiado; intente con un rango de fechas menor"
	msgCanceled = "la solicitud fue cancelada"
)

// reportObserver lo implementa *metrics.Recorder.
type reportObserver interface {
	ObserveReport(report, status string, d time.Duration)
	ReportFailed(report, kind string)
}

type noopObserver struct{}

func (noopObserver) ObserveReport(string, string, time.Duration) {}
func (noopObserver) ReportFailed(string, string)                 {}

// AnalyticsHandler maneja los endpoints de reportes de ventas y rentabilidad.
type AnalyticsHandler struct {
	reports *analytics.ReportUseCase
	pdf     *analytics.PDFUseCase
	log     *logger.Logger
	obs     reportObserver
	timeout time.Duration
}

// NewAnalyticsHandler construye el handler. obs puede ser nil; timeout <= 0 = sin tope propio.
func NewAnalyticsHandler(
	reports *analytics.ReportUseCase,
	pdf *analytics.PDFUseCase,
	log *logger.Logger,
	obs reportObserver,
	timeout time.Duration,
) *AnalyticsHandler {
	if obs == nil {
		obs = noopObserver{}
	}
	return &AnalyticsHandler{reports: reports, pdf: pdf, log: log, obs: obs, timeout: timeout}
}

// SalesByProduct godoc
// @Summary      Ventas por producto
// @Description  Cantidad, ingresos, costo, utilidad y margen por producto, de mayor a menor ingreso.
// @Tags         reports
// @Produce      json
// @Param        start_date   query  string  false  "Inicio (YYYY-MM-DD o RFC 3339), inclusivo"
// @Param        end_date     query  string  false  "Fin (YYYY-MM-DD o RFC 3339), inclusivo"
// @Param        category_id  query  string  false  "UUID de categoría"
// @Success      200  {object}  dto.Response{data=dto.SalesByProductDTO}
// @Failure      400  {object}  dto.Response
// @Failure      500  {object}  dto.Response
// @Router       /api/reports/sales/products [get]
func (h *AnalyticsHandler) SalesByProduct(c *fiber.Ctx) error {
	var req dto.SalesReportRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	return h.run(c, "sales-products", func(ctx context.Context) (any, error) {
		return h.reports.SalesByProduct(ctx, GetTenantID(c), req)
	})
}

// SalesByCategory godoc
// @Summary      Ventas por categoría
// @Description  Productos sin categoría se agrupan en "Uncategorized" (category_id null).
// @Tags         reports
// @Produce      json
// @Param        start_date  query  string  false  "Inicio, inclusivo"
// @Param        end_date    query  string  false  "Fin, inclusivo"
// @Success      200  {object}  dto.Response{data=dto.SalesByCategoryDTO}
// @Failure      400  {object}  dto.Response
// @Failure      500  {object}  dto.Response
// @Router       /api/reports/sales/categories [get]
func (h *AnalyticsHandler) SalesByCategory(c *fiber.Ctx) error {
	var req dto.SalesReportRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	return h.run(c, "sales-categories", func(ctx context.Context) (any, error) {
		return h.reports.SalesByCategory(ctx, GetTenantID(c), req)
	})
}

// SalesTimeline godoc
// @Summary      Ventas por período
// @Description  Una fila por día, semana ISO, mes o año con ventas, en orden cronológico.
// @Tags         reports
// @Produce      json
// @Param        group_by    query  string  false  "day | week | month | year (default day)"
// @Param        start_date  query  string  false  "Inicio, inclusivo"
// @Param        end_date    query  string  false  "Fin, inclusivo"
// @Success      200  {object}  dto.Response{data=dto.SalesTimelineDTO}
// @Failure      400  {object}  dto.Response
// @Failure      500  {object}  dto.Response
// @Router       /api/reports/sales/timeline [get]
func (h *AnalyticsHandler) SalesTimeline(c *fiber.Ctx) error {
	var req dto.TimelineRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	return h.run(c, "sales-timeline", func(ctx context.Context) (any, error) {
		return h.reports.SalesByTime(ctx, GetTenantID(c), req)
	})
}

// ProfitMargin godoc
// @Summary      Margen de utilidad
// @Description  Totales, margen por categoría, top 10 productos rentables y productos con margen < 20%.
// @Tags         reports
// @Produce      json
// @Param        start_date  query  string  false  "Inicio, inclusivo"
// @Param        end_date    query  string  false  "Fin, inclusivo"
// @Success      200  {object}  dto.Response{data=dto.ProfitMarginDTO}
// @Failure      400  {object}  dto.Response
// @Failure      500  {object}  dto.Response
// @Router       /api/reports/profit-margin [get]
func (h *AnalyticsHandler) ProfitMargin(c *fiber.Ctx) error {
	var req dto.SalesReportRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	return h.run(c, "profit-margin", func(ctx context.Context) (any, error) {
		return h.reports.ProfitMargin(ctx, GetTenantID(c), req)
	})
}

// ProfitMarginPDF godoc
// @Summary      Margen de utilidad en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        start_date  query  string  false  "Inicio, inclusivo"
// @Param        end_date    query  string  false  "Fin, inclusivo"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.Response
// @Failure      500  {object}  dto.Response
// @Router       /api/reports/profit-margin/pdf [get]
func (h *AnalyticsHandler) ProfitMarginPDF(c *fiber.Ctx) error {
	var req dto.SalesReportRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}

	const report = "profit-margin-pdf"
	start := time.Now()
	ctx, cancel := h.requestContext(c)
	defer cancel()

	pdfBytes, filename, err := h.pdf.ProfitMarginPDF(ctx, GetTenantID(c), req)
	if err != nil {
		return h.fail(c, report, start, err)
	}
	h.obs.ObserveReport(report, strconv.Itoa(fiber.StatusOK), time.Since(start))

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(pdfBytes)
}

// TopPerformers godoc
// @Summary      Mejores productos, categorías y clientes
// @Tags         reports
// @Produce      json
// @Param        start_date  query  string  false  "Inicio, inclusivo"
// @Param        end_date    query  string  false  "Fin, inclusivo"
// @Param        limit       query  int     false  "Entradas por lista (default 10)"
// @Success      200  {object}  dto.Response{data=dto.TopPerformersDTO}
// @Failure      400  {object}  dto.Response
// @Failure      500  {object}  dto.Response
// @Router       /api/reports/top-performers [get]
func (h *AnalyticsHandler) TopPerformers(c *fiber.Ctx) error {
	var req dto.TopPerformersRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	return h.run(c, "top-performers", func(ctx context.Context) (any, error) {
		return h.reports.TopPerformers(ctx, GetTenantID(c), req)
	})
}

// Comparative godoc
// @Summary      Comparativo entre dos períodos
// @Description  Crecimiento porcentual de ingresos, pedidos y utilidad; 0 si el período 1 es cero.
// @Tags         reports
// @Produce      json
// @Param        period1_start  query  string  true  "Inicio período 1"
// @Param        period1_end    query  string  true  "Fin período 1"
// @Param        period2_start  query  string  true  "Inicio período 2"
// @Param        period2_end    query  string  true  "Fin período 2"
// @Success      200  {object}  dto.Response{data=dto.ComparativeDTO}
// @Failure      400  {object}  dto.Response
// @Failure      500  {object}  dto.Response
// @Router       /api/reports/comparative [get]
func (h *AnalyticsHandler) Comparative(c *fiber.Ctx) error {
	var req dto.ComparativeRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidParams(c)
	}
	return h.run(c, "comparative", func(ctx context.Context) (any, error) {
		return h.reports.Comparative(ctx, GetTenantID(c), req)
	})
}

// ── helpers ───────────────────────────────────────────────────────────────────

// requestContext contexto del request con el tope de tiempo configurado.
func (h *AnalyticsHandler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.timeout)
}

// run ejecuta un reporte JSON y lo envuelve en dto.Response.
func (h *AnalyticsHandler) run(c *fiber.Ctx, report string, fn func(ctx context.Context) (any, error)) error {
	start := time.Now()
	ctx, cancel := h.requestContext(c)
	defer cancel()

	data, err := fn(ctx)
	if err != nil {
		return h.fail(c, report, start, err)
	}
	h.obs.ObserveReport(report, strconv.Itoa(fiber.StatusOK), time.Since(start))
	return c.Status(fiber.StatusOK).JSON(dto.OK(data))
}

// fail traduce el error al sobre de respuesta. Solo los errores de validación
// devuelven su mensaje; el resto se registra y responde con un mensaje genérico.
func (h *AnalyticsHandler) fail(c *fiber.Ctx, report string, start time.Time, err error) error {
	status, code, kind, msg := fiber.StatusInternalServerError, "INTERNAL", "internal", msgInternal
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code, kind, msg = fiber.StatusBadRequest, "VALIDATION", "validation", err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status, code, kind, msg = fiber.StatusGatewayTimeout, "TIMEOUT", "timeout", msgTimeout
	case errors.Is(err, context.Canceled):
		status, code, kind, msg = fiber.StatusServiceUnavailable, "CANCELED", "canceled", msgCanceled
	}

	if status != fiber.StatusBadRequest {
		h.log.Error().Err(err).
			Str("report", report).
			Str("path", c.Path()).
			Str("tenant", GetTenantID(c)).
			Int("status", status).
			Msg("reporte fallido")
	}
	h.obs.ReportFailed(report, kind)
	h.obs.ObserveReport(report, strconv.Itoa(status), time.Since(start))
	return c.Status(status).JSON(dto.Fail(code, msg))
}

func invalidParams(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_PARAMS", "parámetros de consulta inválidos"))
}
