package ratelimit

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

// Middleware rejects requests with 429 once the caller's bucket is empty.
// Callers are keyed by echo's RealIP.
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error: "Too many requests, please slow down",
				})
			}
			return next(c)
		}
	}
}
