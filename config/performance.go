package config

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

func PerformanceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Process request
		c.Next()

		latency := time.Since(start)

		log.Printf("[PERF] %s %s | Status: %d | Time: %v",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			latency)

		// Outbound CRM/webhook legs run inside the submission request, so the
		// alert threshold is looser than a plain CRUD endpoint would want.
		if latency > 2*time.Second {
			log.Printf("SLOW REQUEST: %s %s took %v",
				c.Request.Method, c.Request.URL.Path, latency)
		}
	}
}
