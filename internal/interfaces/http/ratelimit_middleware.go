package http

import (
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-analytics/internal/application/dto"
	"github.com/jhoicas/pos-analytics/internal/infrastructure/ratelimit"
	"github.com/jhoicas/pos-analytics/pkg/logger"
)

// RateLimitConfig límite de ventana fija por tenant + IP.
type RateLimitConfig struct {
	Store     ratelimit.CounterStore
	Max       int
	Window    time.Duration
	Log       *logger.Logger
	OnLimited func() // opcional, p. ej. contador Prometheus
}

// RateLimit devuelve el middleware. Debe ir DESPUÉS del middleware de tenant.
// Si el contador falla (Redis caído) el request pasa: el límite protege, no bloquea.
func RateLimit(cfg RateLimitConfig) fiber.Handler {
	limit := strconv.Itoa(cfg.Max)
	retryAfter := strconv.Itoa(int(math.Ceil(cfg.Window.Seconds())))
	return func(c *fiber.Ctx) error {
		key := GetTenantID(c) + ":" + c.IP()

		n, err := cfg.Store.Incr(c.UserContext(), key, cfg.Window)
		if err != nil {
			if cfg.Log != nil {
				cfg.Log.Warn().Err(err).Str("key", key).Msg("rate limit: contador no disponible")
			}
			return c.Next()
		}

		remaining := int64(cfg.Max) - n
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", limit)
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if n > int64(cfg.Max) {
			if cfg.OnLimited != nil {
				cfg.OnLimited()
			}
			c.Set(fiber.HeaderRetryAfter, retryAfter)
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.Fail(
				"RATE_LIMIT_EXCEEDED", "demasiadas solicitudes, intente más tarde",
			))
		}
		return c.Next()
	}
}
