// Package handler exposes the HTTP surface. Handlers bind and validate
// input, call into the domain packages, and map sentinel errors onto stable
// {error, code} bodies.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookwise/backend/internal/ai"
	"bookwise/backend/internal/exchange"
	"bookwise/backend/internal/store"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	store     *store.Store
	exchanges *exchange.Service
	ai        *ai.Orchestrator
}

// New wires the handler to the store and domain services.
func New(st *store.Store, exchanges *exchange.Service, orchestrator *ai.Orchestrator) *Handler {
	return &Handler{store: st, exchanges: exchanges, ai: orchestrator}
}

// respondError maps domain errors onto HTTP responses. Unrecognized errors
// are 500s with the message preserved for operators.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Resource not found",
			"code":  "NOT_FOUND",
		})
	case errors.Is(err, exchange.ErrBookTaken):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Book is not available for exchange",
			"code":  "BOOK_TAKEN",
		})
	case errors.Is(err, exchange.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  "INVALID_TRANSITION",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
			"code":  "INTERNAL_ERROR",
		})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": message,
		"code":  "INVALID_REQUEST",
	})
}

// validObjectID rejects malformed path ids before they reach the store, so
// they surface as 400s instead of opaque 500s.
func validObjectID(c *gin.Context, id string) bool {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		badRequest(c, "Malformed id: "+id)
		return false
	}
	return true
}

// parsePagination reads skip/limit query params with bounds validation.
func parsePagination(c *gin.Context, defaultLimit, maxLimit int64) (skip, limit int64, ok bool) {
	skip, ok = parseBounded(c, "skip", 0, 0, -1)
	if !ok {
		return 0, 0, false
	}
	limit, ok = parseBounded(c, "limit", defaultLimit, 1, maxLimit)
	if !ok {
		return 0, 0, false
	}
	return skip, limit, true
}

func parseBounded(c *gin.Context, name string, def, min, max int64) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < min || (max > 0 && v > max) {
		badRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return v, true
}
