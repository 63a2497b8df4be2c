package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// healthCheckPaths are polled by the platform; successful hits log at debug.
var healthCheckPaths = map[string]struct{}{
	"/healthz":     {},
	"/readyz":      {},
	"/health/auth": {},
	"/metrics":     {},
}

// LoggingMiddleware logs one line per request and stores a request-scoped
// logger in the request context for zerolog.Ctx.
func LoggingMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		scoped := logger.With()
		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			scoped = scoped.
				Str("trace_id", span.SpanContext().TraceID().String()).
				Str("span_id", span.SpanContext().SpanID().String())
		}
		if requestID := RequestIDFromContext(c); requestID != "" {
			scoped = scoped.Str("request_id", requestID)
		}
		reqLog := scoped.Logger()
		c.Request = c.Request.WithContext(reqLog.WithContext(c.Request.Context()))

		c.Next()

		statusCode := c.Writer.Status()
		logEvent := reqLog.Info()
		switch {
		case statusCode >= 500:
			logEvent = reqLog.Error()
		case statusCode >= 400:
			logEvent = reqLog.Warn()
		case isHealthCheck(path):
			logEvent = reqLog.Debug()
		}

		if principal, ok := PrincipalFromContext(c); ok {
			logEvent = logEvent.Str("user_id", principal.ID).Str("role", string(principal.Role))
		}
		if route := c.FullPath(); route != "" {
			logEvent = logEvent.Str("route", route)
		}

		logEvent.
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", raw).
			Int("status", statusCode).
			Dur("latency", time.Since(start)).
			Str("user_agent", c.Request.UserAgent()).
			Msg(c.Errors.ByType(gin.ErrorTypePrivate).String())
	}
}

func isHealthCheck(path string) bool {
	_, ok := healthCheckPaths[path]
	return ok
}
