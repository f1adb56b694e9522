package middleware

import (
	"strconv" // Status class label
	"time"    // Request duration

	"dorm_booking/internal/metrics" // Request counters

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// RequestLogger logs every request and counts it by route and status class
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status/100)+"xx").Inc()
		entry := logrus.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
		if status >= 500 {
			entry.Error("request")
			return
		}
		entry.Info("request")
	}
}
