package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookwise/backend/internal/model"
)

// HandleGetStats returns a user's accumulated reading statistics, creating
// the zeroed defaults on first access.
func (h *Handler) HandleGetStats(c *gin.Context) {
	userID := c.Param("user_id")

	stats, err := h.store.Stats.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type statsUpdateBody struct {
	BooksRead        int      `json:"books_read" binding:"min=0"`
	PagesRead        int      `json:"pages_read" binding:"min=0"`
	AuthorsExplored  int      `json:"authors_explored" binding:"min=0"`
	TopGenres        []string `json:"top_genres"`
	CurrentStreak    int      `json:"current_streak" binding:"min=0"`
	TotalReadingTime int      `json:"total_reading_time" binding:"min=0"`
}

// HandleUpdateStats replaces a user's reading statistics wholesale.
func (h *Handler) HandleUpdateStats(c *gin.Context) {
	userID := c.Param("user_id")

	var req statsUpdateBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: stats counters must be non-negative")
		return
	}
	if req.TopGenres == nil {
		req.TopGenres = []string{}
	}

	if err := h.store.Stats.Upsert(c.Request.Context(), model.ReadingStats{
		UserID:           userID,
		BooksRead:        req.BooksRead,
		PagesRead:        req.PagesRead,
		AuthorsExplored:  req.AuthorsExplored,
		TopGenres:        req.TopGenres,
		CurrentStreak:    req.CurrentStreak,
		TotalReadingTime: req.TotalReadingTime,
	}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reading stats updated successfully"})
}

// HandleReadingHabits derives reading habits from the stored statistics and
// the interaction log. Nothing here is persisted.
func (h *Handler) HandleReadingHabits(c *gin.Context) {
	userID := c.Param("user_id")

	stats, err := h.store.Stats.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	interactions, err := h.store.Interactions.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	habits := model.ReadingHabits{
		UserID:               userID,
		AverageBooksPerMonth: float64(stats.BooksRead) / 12.0,
		FavoriteReadingTime:  favoriteReadingTime(interactions),
		PreferredGenres:      stats.TopGenres,
		ReadingStreak:        stats.CurrentStreak,
		TotalReadingTime:     stats.TotalReadingTime,
	}
	if habits.PreferredGenres == nil {
		habits.PreferredGenres = []string{}
	}
	c.JSON(http.StatusOK, habits)
}

// favoriteReadingTime buckets interaction timestamps into dayparts and picks
// the busiest one. Empty logs yield no favorite.
func favoriteReadingTime(interactions []model.BookInteraction) string {
	if len(interactions) == 0 {
		return ""
	}

	buckets := map[string]int{}
	for _, interaction := range interactions {
		hour := interaction.Timestamp.UTC().Hour()
		switch {
		case hour >= 5 && hour < 12:
			buckets["morning"]++
		case hour >= 12 && hour < 17:
			buckets["afternoon"]++
		case hour >= 17 && hour < 22:
			buckets["evening"]++
		default:
			buckets["night"]++
		}
	}

	best, bestCount := "", 0
	for _, daypart := range []string{"morning", "afternoon", "evening", "night"} {
		if buckets[daypart] > bestCount {
			best, bestCount = daypart, buckets[daypart]
		}
	}
	return best
}
