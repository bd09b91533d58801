// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker  func() bool
	llmHealthChecker func() bool
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	LLM       string `json:"llm"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(dbHealthChecker, llmHealthChecker func() bool) *HealthController {
	return &HealthController{
		dbHealthChecker:  dbHealthChecker,
		llmHealthChecker: llmHealthChecker,
	}
}

// Check handles GET /health requests.
// The API reports "degraded" when the database is unreachable; a missing
// language model only switches interpretation to the local matcher.
func (h *HealthController) Check(c *gin.Context) {
	status := "ok"
	dbStatus := "disconnected"
	if h.dbHealthChecker != nil && h.dbHealthChecker() {
		dbStatus = "connected"
	} else {
		status = "degraded"
	}

	llmStatus := "unavailable"
	if h.llmHealthChecker != nil && h.llmHealthChecker() {
		llmStatus = "available"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Database:  dbStatus,
		LLM:       llmStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
