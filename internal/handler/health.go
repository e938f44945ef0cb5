package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Oracle    string `json:"oracle"`
}

// HandleHealth reports liveness. The service is degraded, not down, when the
// oracle is unconfigured: every AI endpoint still answers via fallback.
func (h *Handler) HandleHealth(c *gin.Context) {
	oracleStatus := "unavailable"
	status := "degraded"
	if h.ai.OracleAvailable() {
		oracleStatus = "ready"
		status = "healthy"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Oracle:    oracleStatus,
	})
}

// HandleReadiness reports whether the service can serve traffic. Stricter
// than liveness: an unreachable document store fails readiness.
func (h *Handler) HandleReadiness(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "document_store_unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
