// Package middleware provides HTTP middleware for the billing service.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxRequestIDLength caps request IDs taken from headers so oversized
// values cannot bloat trace attributes.
const maxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName identifies this service in trace backends.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
}

// Tracing returns OpenTelemetry tracing middleware built on otelgin. When
// disabled it is a pass-through. Place TraceAttributes after it to enrich
// the span while it is still recording.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TraceAttributes enriches the current span with billing attributes:
//   - request_id: from the logging middleware or the X-Request-ID header
//   - tenant_id: from the :tenantId route parameter
//   - actor_id: from the X-User-ID header set by the gateway
//
// It runs inside the span created by Tracing, so it must come after it in
// the middleware chain.
func TraceAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
		c.Next()
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if requestID := requestIDForTrace(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}

	// Route parameters are validated by handlers, but trace attributes are
	// written before handlers run, so the UUID check happens here too.
	if tenantID := c.Param("tenantId"); tenantID != "" {
		if _, err := uuid.Parse(tenantID); err == nil {
			span.SetAttributes(attribute.String("tenant_id", tenantID))
		}
	}

	if actorID := c.GetHeader("X-User-ID"); actorID != "" {
		if _, err := uuid.Parse(actorID); err == nil {
			span.SetAttributes(attribute.String("actor_id", actorID))
		}
	}
}

// requestIDForTrace prefers the ID stored in the gin context by the logging
// middleware and falls back to the raw header.
func requestIDForTrace(c *gin.Context) string {
	if id := c.GetString("X-Request-ID"); id != "" {
		return id
	}
	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > maxRequestIDLength {
		return headerID[:maxRequestIDLength]
	}
	return headerID
}

// SpanErrorMarker marks spans with error status for 4xx/5xx responses.
// Place it after the Tracing middleware in the chain.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}

		message := "Client Error"
		switch {
		case statusCode >= http.StatusInternalServerError:
			message = "Internal Server Error"
		case statusCode == http.StatusNotFound:
			message = "Not Found"
		case statusCode == http.StatusConflict:
			message = "Conflict"
		case statusCode == http.StatusUnprocessableEntity:
			message = "Unprocessable Entity"
		}

		span.SetStatus(codes.Error, message)
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
}
