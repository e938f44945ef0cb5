// Package matching is the deterministic, rule-based scorer used both by the
// live book-match endpoint and as the fallback when the external oracle is
// unavailable. Scores are a pure function of (preferences, book).
package matching

import (
	"fmt"
	"sort"
	"strings"

	"bookwise/backend/internal/model"
)

// Rule weights. Summed, then clamped to [0,100] at the scoring boundary.
const (
	genreMatchWeight   = 50
	genreMentionWeight = 30
	authorMatchWeight  = 40
	keywordWeight      = 20
	conditionBonus     = 10

	// ExplorationScore replaces a zero total for books in New or Like New
	// condition, so fresh listings still surface for users they don't match.
	ExplorationScore = 20
)

// Result-shaping defaults for the two scoring paths.
const (
	// MinScore is the floor below which books are excluded from the
	// preference-match endpoint.
	MinScore = 20
	// MaxResults caps the preference-match endpoint output.
	MaxResults = 20
	// FallbackMinScore is the lower floor used on the oracle-fallback path.
	FallbackMinScore = 30
	// FallbackCatalogSize restricts the fallback path to the top of the catalog.
	FallbackCatalogSize = 10
	// GeneralPopularityScore is assigned when the user has declared no genre
	// or author preferences at all.
	GeneralPopularityScore = 50
)

// ClampScore bounds a match percentage to [0,100]. This is the single clamp
// point; callers never re-clamp.
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Match pairs a book with its computed score and the ordered reasons behind it.
type Match struct {
	Book    model.Book
	Score   int
	Reasons []string
}

// Score computes the deterministic match percentage between a user's
// preferences and a candidate book, with one human-readable reason per rule
// that fired. Books missing title, author, genre, and description score zero
// on every rule.
func Score(prefs model.UserPreferences, book model.Book) (int, []string) {
	total := 0
	var reasons []string

	title := strings.ToLower(book.Name)
	description := strings.ToLower(book.Description)

	if book.Genre != "" && containsGenre(prefs.FavoriteGenres, book.Genre) {
		total += genreMatchWeight
		reasons = append(reasons, fmt.Sprintf("Matches your favorite genre: %s", book.Genre))
	}

	// One mention bonus at most, first favorite genre wins.
	for _, genre := range prefs.FavoriteGenres {
		name := strings.ToLower(string(genre))
		if name == "" {
			continue
		}
		if strings.Contains(description, name) || strings.Contains(title, name) {
			total += genreMentionWeight
			reasons = append(reasons, fmt.Sprintf("Mentions %s themes you enjoy", genre))
			break
		}
	}

	if book.Author != "" && containsString(prefs.FavoriteAuthors, book.Author) {
		total += authorMatchWeight
		reasons = append(reasons, fmt.Sprintf("By one of your favorite authors: %s", book.Author))
	}

	// Keyword lexicon: the first keyword hit of the first genre that hits
	// contributes, then the genre loop stops.
genres:
	for _, genre := range prefs.FavoriteGenres {
		for _, keyword := range genreKeywords[genre] {
			if strings.Contains(description, keyword) {
				total += keywordWeight
				reasons = append(reasons, fmt.Sprintf("Features %s elements like %q", genre, keyword))
				break genres
			}
		}
	}

	if prefs.ReadingPreferences.Any() && goodCondition(book.Condition) {
		total += conditionBonus
		reasons = append(reasons, "In great condition, matching your reading preferences")
	}

	if total == 0 && (book.Condition == model.ConditionNew || book.Condition == model.ConditionLikeNew) {
		total = ExplorationScore
		reasons = append(reasons, "New discovery in excellent condition")
	}

	return int(ClampScore(float64(total))), reasons
}

// RankOptions shape the output of Rank.
type RankOptions struct {
	Floor int // minimum score to include
	Limit int // maximum results, 0 means no cap
}

// Rank scores every book in catalog order, drops entries below the floor,
// and sorts descending by score. The sort is stable, so ties keep catalog
// iteration order.
func Rank(prefs model.UserPreferences, books []model.Book, opts RankOptions) []Match {
	matches := make([]Match, 0, len(books))
	for _, book := range books {
		score, reasons := Score(prefs, book)
		if score < opts.Floor {
			continue
		}
		matches = append(matches, Match{Book: book, Score: score, Reasons: reasons})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches
}

func goodCondition(c model.BookCondition) bool {
	switch c {
	case model.ConditionNew, model.ConditionLikeNew, model.ConditionGood:
		return true
	}
	return false
}

func containsGenre(genres []model.Genre, g model.Genre) bool {
	for _, candidate := range genres {
		if candidate == g {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
