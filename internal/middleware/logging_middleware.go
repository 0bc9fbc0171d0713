package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/bizreview-backend/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	loggerKey    = "logger"
)

// LoggingMiddleware tags every request with an id (taken from X-Request-ID when
// the caller sends one) and writes one completion line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		log := logger.WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(loggerKey, log)

		c.Next()

		logCompletion(c, log, time.Since(started))
	}
}

func logCompletion(c *gin.Context, log *logger.Logger, elapsed time.Duration) {
	status := c.Writer.Status()
	fields := map[string]interface{}{
		"route":      c.FullPath(),
		"status":     status,
		"latency_ms": elapsed.Milliseconds(),
		"client_ip":  c.ClientIP(),
	}
	if userID, ok := GetUserID(c); ok {
		fields["user_id"] = userID
	}
	if len(c.Errors) > 0 {
		fields["errors"] = c.Errors.String()
	}

	switch {
	case status >= 500:
		log.Error("Request failed", nil, fields)
	case status >= 400:
		log.Warn("Request rejected", fields)
	default:
		log.Info("Request served", fields)
	}
}

// GetLoggerFromContext returns the request-scoped logger, or the global one
// outside LoggingMiddleware.
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if l, ok := c.Get(loggerKey); ok {
		if log, ok := l.(*logger.Logger); ok {
			return log
		}
	}
	return logger.Get()
}
