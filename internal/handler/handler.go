package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler serves the endpoints that carry no pricing logic.
type Handler struct {
	started time.Time
}

// NewHandler creates a new handler instance
func NewHandler() *Handler {
	return &Handler{started: time.Now()}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now(),
	})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// Ping lets front ends confirm the API is reachable through the gate.
func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": "API is working",
	})
}
