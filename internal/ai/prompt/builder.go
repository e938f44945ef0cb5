// Package prompt assembles the text prompts sent to the oracle. Structured
// context is embedded as indented JSON so the model sees exact book ids.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"bookwise/backend/internal/model"
)

// bookContext is the slice of a book the oracle needs. Ids are the hex form
// the response parser validates against.
type bookContext struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	Condition   string `json:"condition"`
}

func buildBookContext(books []model.Book) []bookContext {
	out := make([]bookContext, len(books))
	for i, b := range books {
		out[i] = bookContext{
			ID:          b.ID.Hex(),
			Title:       b.Name,
			Author:      b.Author,
			Genre:       string(b.Genre),
			Description: b.Description,
			Condition:   string(b.Condition),
		}
	}
	return out
}

func marshalBooks(books []model.Book) string {
	data, err := json.MarshalIndent(buildBookContext(books), "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

func orNotSpecified(values []string) string {
	if len(values) == 0 {
		return NotSpecified
	}
	return strings.Join(values, ", ")
}

// BuildRecommendationPrompt renders the recommendation request with the
// user's profile, reading history, and the candidate catalog.
func BuildRecommendationPrompt(prefs model.UserPreferences, stats model.ReadingStats, books []model.Book) string {
	genres := make([]string, len(prefs.FavoriteGenres))
	for i, g := range prefs.FavoriteGenres {
		genres[i] = string(g)
	}

	return fmt.Sprintf(RecommendationPromptTemplate,
		orNotSpecified(genres),
		orNotSpecified(prefs.FavoriteAuthors),
		stats.BooksRead,
		orNotSpecified(stats.TopGenres),
		stats.PagesRead,
		marshalBooks(books),
	)
}

// BuildChatPrompt renders a chat request grounded in the user's own books
// and the third-party books currently available.
func BuildChatPrompt(message string, ownBooks, availableBooks []model.Book) string {
	return fmt.Sprintf(ChatPromptTemplate,
		marshalBooks(ownBooks),
		marshalBooks(availableBooks),
		message,
	)
}

// BuildInsightsPrompt renders the reading-insights request from stats and
// the user's most recent interactions.
func BuildInsightsPrompt(stats model.ReadingStats, interactions []model.BookInteraction) string {
	recent := "No recent interactions"
	if len(interactions) > 0 {
		if data, err := json.MarshalIndent(interactions, "", "  "); err == nil {
			recent = string(data)
		}
	}

	return fmt.Sprintf(InsightsPromptTemplate,
		stats.BooksRead,
		stats.PagesRead,
		stats.AuthorsExplored,
		orNotSpecified(stats.TopGenres),
		recent,
	)
}
