package telegram

import (
	"github.com/m3rciful/reportbot/core/metrics"
	"github.com/m3rciful/reportbot/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared middleware chain for bots.
func DefaultMiddlewares(m *metrics.Metrics) []Middleware {
	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "update_metrics", Use: middleware.UpdateMetricsMiddleware(m)},
		{Name: "messages", Use: middleware.MessageMetricsMiddleware},
	}
}
