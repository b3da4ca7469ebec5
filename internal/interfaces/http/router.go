package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/pos-analytics/internal/application/analytics"
	"github.com/jhoicas/pos-analytics/internal/infrastructure/metrics"
	"github.com/jhoicas/pos-analytics/internal/infrastructure/ratelimit"
	"github.com/jhoicas/pos-analytics/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Reports *analytics.ReportUseCase
	PDF     *analytics.PDFUseCase
	Logger  *logger.Logger
	Metrics *metrics.Recorder // nil = sin /metrics

	JWTSecret     string // vacío = modo de un solo tenant
	JWTIssuer     string // vacío = no se valida iss
	DefaultTenant string
	QueryTimeout  time.Duration

	RateLimitStore  ratelimit.CounterStore // nil = sin rate limit
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	var obs reportObserver
	if deps.Metrics != nil {
		obs = deps.Metrics
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// Tenant: JWT si hay secret, si no el tenant por defecto
	tenant := DefaultTenantMiddleware(deps.DefaultTenant)
	if deps.JWTSecret != "" {
		tenant = AuthMiddleware(deps.JWTSecret, deps.JWTIssuer)
	}
	handlers := []fiber.Handler{tenant}

	if deps.RateLimitStore != nil && deps.RateLimitMax > 0 {
		rl := RateLimitConfig{
			Store:  deps.RateLimitStore,
			Max:    deps.RateLimitMax,
			Window: deps.RateLimitWindow,
			Log:    deps.Logger,
		}
		if deps.Metrics != nil {
			rl.OnLimited = deps.Metrics.RateLimited
		}
		handlers = append(handlers, RateLimit(rl))
	}

	reports := app.Group("/api/reports", handlers...)
	h := NewAnalyticsHandler(deps.Reports, deps.PDF, deps.Logger, obs, deps.QueryTimeout)

	reports.Get("/sales/products", h.SalesByProduct)
	reports.Get("/sales/categories", h.SalesByCategory)
	reports.Get("/sales/timeline", h.SalesTimeline)
	reports.Get("/profit-margin", h.ProfitMargin)
	reports.Get("/profit-margin/pdf", h.ProfitMarginPDF)
	reports.Get("/top-performers", h.TopPerformers)
	reports.Get("/comparative", h.Comparative)
}
