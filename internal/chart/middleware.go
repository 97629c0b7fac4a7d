package chart

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tapyruslabs/chaintools/internal/logger"
)

// requestLogger logs request information.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Debug("chart request", map[string]string{
			"method":  c.Request.Method,
			"path":    path,
			"status":  strconv.Itoa(c.Writer.Status()),
			"latency": time.Since(start).String(),
		})
	}
}

// recovery recovers from panics and returns a 500 error.
func recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("chart handler panic", map[string]string{
					"panic": fmt.Sprint(err),
				})
				c.AbortWithStatusJSON(500, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
