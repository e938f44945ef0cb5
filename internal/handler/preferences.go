package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookwise/backend/internal/model"
)

type preferencesBody struct {
	FavoriteGenres     []model.Genre            `json:"favorite_genres"`
	FavoriteAuthors    []string                 `json:"favorite_authors"`
	ReadingPreferences model.ReadingPreferences `json:"reading_preferences"`
}

// HandleGetPreferences returns a user's declared tastes, creating the empty
// default set on first access.
func (h *Handler) HandleGetPreferences(c *gin.Context) {
	userID := c.Param("user_id")

	prefs, err := h.store.Preferences.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// HandleUpdatePreferences replaces a user's declared tastes wholesale.
func (h *Handler) HandleUpdatePreferences(c *gin.Context) {
	userID := c.Param("user_id")

	var req preferencesBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	for _, genre := range req.FavoriteGenres {
		if !genre.Valid() {
			badRequest(c, "Unknown genre: "+string(genre))
			return
		}
	}
	rp := req.ReadingPreferences
	if !rp.BookLength.Valid() || !rp.WritingStyle.Valid() || !rp.Era.Valid() {
		badRequest(c, "Unknown reading preference value")
		return
	}

	if req.FavoriteGenres == nil {
		req.FavoriteGenres = []model.Genre{}
	}
	if req.FavoriteAuthors == nil {
		req.FavoriteAuthors = []string{}
	}

	prefs, err := h.store.Preferences.Upsert(c.Request.Context(), model.UserPreferences{
		UserID:             userID,
		FavoriteGenres:     req.FavoriteGenres,
		FavoriteAuthors:    req.FavoriteAuthors,
		ReadingPreferences: rp,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
