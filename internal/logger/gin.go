package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	contextLogger    = "logger"
	contextRequestID = "request_id"
	headerRequestID  = "X-Request-ID"
)

// GinMiddleware attaches a request scoped logger to the context and logs
// every request once it has been served.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(contextRequestID, requestID)
		c.Writer.Header().Set(headerRequestID, requestID)

		reqLogger := base.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Set(contextLogger, reqLogger)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn("request", fields...)
		default:
			reqLogger.Info("request", fields...)
		}
	}
}

// Recovery turns a handler panic into a generic 500 response.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				FromContext(c, base).Error("panic recovered",
					zap.Any("error", rec),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "Server error",
				})
			}
		}()
		c.Next()
	}
}

// FromContext returns the request logger, or fallback when none was attached.
func FromContext(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if v, ok := c.Get(contextLogger); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	if fallback != nil {
		return fallback
	}
	return zap.NewNop()
}
