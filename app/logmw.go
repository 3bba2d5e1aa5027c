package app

import (
	"time"

	"Gin_postgres_redis_local_library/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one logrus line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.Log.WithFields(logrus.Fields{
			"status":  c.Writer.Status(),
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		if uid := c.GetString(ctxUserID); uid != "" {
			entry = entry.WithField("user", uid)
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error(c.Errors.String())
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request")
		}
	}
}
