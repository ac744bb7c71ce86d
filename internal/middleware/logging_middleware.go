package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request with zap. The level follows the
// status code: 5xx is Error, 4xx is Warn, anything else Info.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		panic("RequestLogger requires a non-nil zap.Logger instance")
	}
	return func(c *gin.Context) {
		// Record start time of the request.
		start := time.Now()
		// Read path and query before the handlers run; they may rewrite the URL.
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		// Process request by calling the next handler in the chain.
		c.Next()

		statusCode := c.Writer.Status()

		// Prepare log fields for structured logging.
		logFields := []zap.Field{
			zap.String("request_id", RequestIDFromContext(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status_code", statusCode),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		// Add query parameters if they exist.
		if query != "" {
			logFields = append(logFields, zap.String("query", query))
		}
		// Add the authenticated user when the route required one.
		if uid := c.GetString(UserIDKey); uid != "" {
			logFields = append(logFields, zap.String("user_id", uid))
		}
		// Add errors attached by handlers via c.Error().
		if len(c.Errors) > 0 {
			logFields = append(logFields, zap.String("gin_errors", c.Errors.String()))
		}

		// Log with different levels based on status code.
		switch {
		case statusCode >= http.StatusInternalServerError:
			logger.Error("Incoming Request", logFields...)
		case statusCode >= http.StatusBadRequest:
			logger.Warn("Incoming Request", logFields...)
		default:
			logger.Info("Incoming Request", logFields...)
		}
	}
}
