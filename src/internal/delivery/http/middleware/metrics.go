package middleware

import (
	"strconv"
	"time"

	"carpool-service/src/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// NewMetrics records request count and latency by route template, so that
// path parameters do not explode label cardinality.
func NewMetrics() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		path := ctx.Route().Path
		labels := []string{ctx.Method(), path, strconv.Itoa(status)}
		observability.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
		observability.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}
