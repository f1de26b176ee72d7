package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONEntity sends an entity (or list of entities) as the bare response body
func JSONEntity(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// JSONError sends a structured error response
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
	})
}
