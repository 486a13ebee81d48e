package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health is the unauthenticated liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "PickleMatch API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
