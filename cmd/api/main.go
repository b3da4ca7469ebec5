package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/pos-analytics/internal/application/analytics"
	"github.com/jhoicas/pos-analytics/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/pos-analytics/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-analytics/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-analytics/internal/infrastructure/ratelimit"
	httpRouter "github.com/jhoicas/pos-analytics/internal/interfaces/http"
	"github.com/jhoicas/pos-analytics/pkg/config"
	"github.com/jhoicas/pos-analytics/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("auth", cfg.JWT.Enabled()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	reportsUC := appanalytics.NewReportUseCase(analyticsRepo, appanalytics.Options{
		DefaultTenant: cfg.App.DefaultTenant,
		MaxLimit:      cfg.Report.MaxLimit,
	})

	// PDF: exportación del reporte de margen de utilidad
	pdfUC := appanalytics.NewPDFUseCase(reportsUC, infrapdf.NewMarotoPDFGenerator())

	recorder := metrics.NewRecorder()

	// Rate limit: Redis si está configurado (varias réplicas), si no contador en memoria
	var counters ratelimit.CounterStore
	if cfg.RateLimit.Enabled() {
		counters = ratelimit.NewMemoryStore()
		if cfg.Redis.Addr != "" {
			redisStore, client, err := ratelimit.NewRedisStore(ctx, ratelimit.RedisConfig{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				log.Warn().Err(err).Msg("redis no disponible, rate limit en memoria")
			} else {
				defer client.Close()
				counters = redisStore
			}
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Report.QueryTimeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "POS Analytics API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Reports:         reportsUC,
		PDF:             pdfUC,
		Logger:          log.Component("reportes"),
		Metrics:         recorder,
		JWTSecret:       cfg.JWT.Secret,
		JWTIssuer:       cfg.JWT.Issuer,
		DefaultTenant:   cfg.App.DefaultTenant,
		QueryTimeout:    cfg.Report.QueryTimeout,
		RateLimitStore:  counters,
		RateLimitMax:    cfg.RateLimit.Max,
		RateLimitWindow: cfg.RateLimit.Window,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
