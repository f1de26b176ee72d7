package server

import (
	"time"

	"github.com/FireRedDev/ebayklon/utils"

	"github.com/gin-gonic/gin"
)

const requestIDKey = "request_id"

// RequestIDMiddleware reuses an incoming X-Request-ID or assigns a new one
func RequestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(utils.RequestIDHeader)
	if id == "" {
		id = utils.GenerateRequestID()
	}
	c.Set(requestIDKey, id)
	c.Header(utils.RequestIDHeader, id)
	c.Next()
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
		"request_id": c.GetString(requestIDKey),
	})
}

// Use installs the common middleware chain on router
func Use(router *gin.Engine) {
	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestIDMiddleware)     // correlation id
	router.Use(RequestLoggerMiddleware) // custom request logging
}

// HealthHandler answers GET /health
func HealthHandler(c *gin.Context) {
	c.JSON(200, gin.H{"status": "UP"})
}
