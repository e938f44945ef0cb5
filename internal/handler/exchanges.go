package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookwise/backend/internal/exchange"
	"bookwise/backend/internal/model"
)

type exchangeRequestBody struct {
	RequesterID string `json:"requester_id" binding:"required"`
	OwnerID     string `json:"owner_id" binding:"required"`
	BookID      string `json:"book_id" binding:"required"`
	Message     string `json:"message" binding:"max=500"`
}

type exchangeRespondBody struct {
	ResponseType model.ExchangeStatus `json:"response_type" binding:"required"`
	Message      string               `json:"message" binding:"max=500"`
}

// HandleCreateExchange opens a PENDING exchange for an available book.
func (h *Handler) HandleCreateExchange(c *gin.Context) {
	var req exchangeRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: requester_id, owner_id and book_id are required")
		return
	}
	if !validObjectID(c, req.BookID) {
		return
	}

	ex, err := h.exchanges.Create(c.Request.Context(), exchange.CreateRequest{
		RequesterID: req.RequesterID,
		OwnerID:     req.OwnerID,
		BookID:      req.BookID,
		Message:     req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ex)
}

// HandleRespondExchange records accept/decline/cancel on a pending exchange.
func (h *Handler) HandleRespondExchange(c *gin.Context) {
	id := c.Param("id")
	if !validObjectID(c, id) {
		return
	}

	var req exchangeRespondBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: response_type is required")
		return
	}

	ex, err := h.exchanges.Respond(c.Request.Context(), id, req.ResponseType, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

// HandleCompleteExchange moves an accepted exchange to completed.
func (h *Handler) HandleCompleteExchange(c *gin.Context) {
	id := c.Param("id")
	if !validObjectID(c, id) {
		return
	}

	ex, err := h.exchanges.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

// HandleListExchanges returns a user's exchanges, newest first, optionally
// filtered by status.
func (h *Handler) HandleListExchanges(c *gin.Context) {
	userID := c.Param("user_id")

	status := model.ExchangeStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		badRequest(c, "Invalid status filter")
		return
	}
	skip, limit, ok := parsePagination(c, 20, 100)
	if !ok {
		return
	}

	exchanges, err := h.exchanges.ListForUser(c.Request.Context(), userID, status, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if exchanges == nil {
		exchanges = []model.Exchange{}
	}
	c.JSON(http.StatusOK, gin.H{"exchanges": exchanges})
}
