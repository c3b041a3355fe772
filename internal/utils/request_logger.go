package utils

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger replaces gin.Logger with structured zap output. Credential
// headers are redacted before anything is logged.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		if ce := log.Check(zap.DebugLevel, "incoming request"); ce != nil {
			ce.Write(
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("headers", redactHeaders(c.Request.Header)),
			)
		}

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		}
		for _, e := range c.Errors {
			log.Error("handler error", append(fields, zap.Error(e.Err))...)
		}
		if c.IsAborted() {
			log.Warn("request aborted", fields...)
			return
		}
		log.Info("request completed", fields...)
	}
}

func redactHeaders(h http.Header) http.Header {
	clone := h.Clone()
	for k := range clone {
		lower := strings.ToLower(k)
		if strings.Contains(lower, "authorization") || strings.Contains(lower, "cookie") {
			clone[k] = []string{"[redacted]"}
		}
	}
	return clone
}
