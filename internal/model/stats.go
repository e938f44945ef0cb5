package model

import "time"

// ReadingStats are a user's accumulated reading statistics. Initialized with
// zeros on first access.
type ReadingStats struct {
	UserID           string    `bson:"user_id" json:"user_id"`
	BooksRead        int       `bson:"books_read" json:"books_read"`
	PagesRead        int       `bson:"pages_read" json:"pages_read"`
	AuthorsExplored  int       `bson:"authors_explored" json:"authors_explored"`
	TopGenres        []string  `bson:"top_genres" json:"top_genres"`
	CurrentStreak    int       `bson:"current_streak" json:"current_streak"`
	TotalReadingTime int       `bson:"total_reading_time" json:"total_reading_time"` // minutes
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}

// DefaultReadingStats returns the zeroed stats document created on first access.
func DefaultReadingStats(userID string) ReadingStats {
	return ReadingStats{
		UserID:    userID,
		TopGenres: []string{},
		UpdatedAt: time.Now().UTC(),
	}
}

// ReadingHabits are derived from the interaction log, not stored.
type ReadingHabits struct {
	UserID               string   `json:"user_id"`
	AverageBooksPerMonth float64  `json:"average_books_per_month"`
	FavoriteReadingTime  string   `json:"favorite_reading_time,omitempty"`
	PreferredGenres      []string `json:"preferred_genres"`
	ReadingStreak        int      `json:"reading_streak"`
	TotalReadingTime     int      `json:"total_reading_time"`
}

// BookTrending is one entry of the trending ranking.
type BookTrending struct {
	Book                  Book    `json:"book"`
	TrendScore            float64 `json:"trend_score"`
	ViewsCount            int64   `json:"views_count"`
	ExchangeRequestsCount int64   `json:"exchange_requests_count"`
}
