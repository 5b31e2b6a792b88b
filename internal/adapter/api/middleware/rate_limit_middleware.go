package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gigstage/internal/infrastructure/ratelimit"
	"gigstage/pkg/logger"
)

// ActionRateLimit throttles one named action per authenticated user,
// falling back to the client IP before authentication.
func ActionRateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, ok := c.Get("uid").(string)
			if !ok || key == "" {
				key = c.RealIP()
			}

			allowed, wait := limiter.Allow(key, action)
			if !allowed {
				logger.Warn("Rate limit hit: %s on %s", key, action)
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":       "Rate limit exceeded",
					"retry_after": int(wait.Seconds()),
				})
			}

			return next(c)
		}
	}
}
