package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/library/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing opens a server span per request named after the route pattern
// ("GET /api/v1/loans/:id"). 5xx responses mark the span as failed.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// SpanEnricher adds the request id and, once authenticated, the librarian
// username to the request span. It must run after Tracing.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := c.GetString(logger.GinRequestIDKey); requestID != "" {
				span.SetAttributes(attribute.String("request_id", requestID))
			}
		}

		c.Next()

		if span.IsRecording() {
			if username := c.GetString(logger.GinUsernameKey); username != "" {
				span.SetAttributes(attribute.String("username", username))
			}
		}
	}
}
