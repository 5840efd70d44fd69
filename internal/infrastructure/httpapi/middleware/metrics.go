package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/valaphee/flowgo/internal/infrastructure/monitoring"
)

// Metrics records a Prometheus observation for every HTTP request that
// passes through it.
func Metrics(m *monitoring.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			reqSize := int(c.Request().ContentLength)
			if reqSize < 0 {
				reqSize = 0
			}

			m.RecordHTTPRequest(c.Request().Method, c.Path(), c.Response().Status, duration, reqSize, int(c.Response().Size))
			return err
		}
	}
}
