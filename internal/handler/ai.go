package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/unicode/norm"

	"bookwise/backend/internal/matching"
	"bookwise/backend/internal/model"
	"bookwise/backend/internal/store"
)

// MaxChatMessageLength is the maximum allowed chat message length.
const MaxChatMessageLength = 500

type chatBody struct {
	Message string `json:"message" binding:"required,max=500"`
}

// HandleGenerateRecommendations regenerates a user's stored recommendation set.
func (h *Handler) HandleGenerateRecommendations(c *gin.Context) {
	userID := c.Param("user_id")

	result, err := h.ai.GenerateRecommendations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// recommendationView is a stored recommendation with the book denormalized in.
type recommendationView struct {
	model.AIRecommendation
	Book *model.Book `json:"book,omitempty"`
}

// HandleListRecommendations returns the stored recommendations, best match
// first, each with its book attached. Recommendations whose book has since
// disappeared are skipped.
func (h *Handler) HandleListRecommendations(c *gin.Context) {
	userID := c.Param("user_id")
	skip, limit, ok := parsePagination(c, 10, 50)
	if !ok {
		return
	}

	recs, err := h.store.Recommendations.ListForUser(c.Request.Context(), userID, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]recommendationView, 0, len(recs))
	for _, rec := range recs {
		book, err := h.store.Books.GetByID(c.Request.Context(), rec.BookID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				respondError(c, err)
				return
			}
			log.Printf("[WARN] Recommendation %s references missing book %s", rec.ID.Hex(), rec.BookID)
			continue
		}
		views = append(views, recommendationView{AIRecommendation: rec, Book: book})
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": views})
}

// HandleBookMatches scores the live catalog against the user's preferences
// with the deterministic engine. No oracle involvement, no persistence.
func (h *Handler) HandleBookMatches(c *gin.Context) {
	userID := c.Param("user_id")

	prefs, err := h.store.Preferences.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	books, err := h.store.Books.ListAvailable(c.Request.Context(), userID, 0)
	if err != nil {
		respondError(c, err)
		return
	}

	matches := matching.Rank(*prefs, books, matching.RankOptions{
		Floor: matching.MinScore,
		Limit: matching.MaxResults,
	})

	type matchView struct {
		Book       model.Book `json:"book"`
		MatchScore int        `json:"match_score"`
		Reasons    []string   `json:"match_reasons"`
	}
	views := make([]matchView, len(matches))
	for i, m := range matches {
		views[i] = matchView{Book: m.Book, MatchScore: m.Score, Reasons: m.Reasons}
	}

	c.JSON(http.StatusOK, gin.H{"matches": views})
}

// HandleChat answers a free-text question about the user's books and the
// available catalog.
func (h *Handler) HandleChat(c *gin.Context) {
	userID := c.Param("user_id")

	var req chatBody
	if err := c.ShouldBindJSON(&req); err != nil {
		if strings.Contains(err.Error(), "max") {
			badRequest(c, fmt.Sprintf("Message is too long (max %d characters)", MaxChatMessageLength))
			return
		}
		badRequest(c, "Invalid request: message is required")
		return
	}

	// Normalize Unicode to NFC form so lookalike characters collapse before
	// the message reaches the oracle.
	message := norm.NFC.String(req.Message)

	answer := h.ai.Chat(c.Request.Context(), userID, message)
	c.JSON(http.StatusOK, gin.H{"response": answer})
}

// HandleReadingInsights returns a short free-text analysis of the user's
// reading behavior.
func (h *Handler) HandleReadingInsights(c *gin.Context) {
	userID := c.Param("user_id")
	insights := h.ai.ReadingInsights(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}
