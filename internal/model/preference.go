package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookLength is an optional structured reading preference.
type BookLength string

const (
	LengthShort  BookLength = "short"
	LengthMedium BookLength = "medium"
	LengthLong   BookLength = "long"
)

// Valid reports whether the length is known. The empty value means unset.
func (l BookLength) Valid() bool {
	switch l {
	case "", LengthShort, LengthMedium, LengthLong:
		return true
	}
	return false
}

// WritingStyle is an optional structured reading preference.
type WritingStyle string

const (
	StyleDescriptive    WritingStyle = "descriptive"
	StyleConcise        WritingStyle = "concise"
	StyleConversational WritingStyle = "conversational"
	StyleLiterary       WritingStyle = "literary"
)

// Valid reports whether the style is known. The empty value means unset.
func (s WritingStyle) Valid() bool {
	switch s {
	case "", StyleDescriptive, StyleConcise, StyleConversational, StyleLiterary:
		return true
	}
	return false
}

// Era is an optional structured reading preference.
type Era string

const (
	EraClassic      Era = "classic"
	EraModern       Era = "modern"
	EraContemporary Era = "contemporary"
)

// Valid reports whether the era is known. The empty value means unset.
func (e Era) Valid() bool {
	switch e {
	case "", EraClassic, EraModern, EraContemporary:
		return true
	}
	return false
}

// ReadingPreferences are the optional structured attributes a user can set
// beyond genres and authors.
type ReadingPreferences struct {
	BookLength   BookLength   `bson:"book_length,omitempty" json:"book_length,omitempty"`
	WritingStyle WritingStyle `bson:"writing_style,omitempty" json:"writing_style,omitempty"`
	Era          Era          `bson:"era,omitempty" json:"era,omitempty"`
}

// Any reports whether at least one structured preference is set.
func (p ReadingPreferences) Any() bool {
	return p.BookLength != "" || p.WritingStyle != "" || p.Era != ""
}

// UserPreferences are a user's declared tastes. Created lazily with empty
// defaults on first access and upserted wholesale on update.
type UserPreferences struct {
	UserID             string             `bson:"user_id" json:"user_id"`
	FavoriteGenres     []Genre            `bson:"favorite_genres" json:"favorite_genres"`
	FavoriteAuthors    []string           `bson:"favorite_authors" json:"favorite_authors"`
	ReadingPreferences ReadingPreferences `bson:"reading_preferences" json:"reading_preferences"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// DefaultPreferences returns the empty preference set created on first access.
func DefaultPreferences(userID string) UserPreferences {
	return UserPreferences{
		UserID:          userID,
		FavoriteGenres:  []Genre{},
		FavoriteAuthors: []string{},
		UpdatedAt:       time.Now().UTC(),
	}
}

// Empty reports whether the user has declared no genre or author preference
// at all. Structured attributes alone do not count: the fallback scorer's
// "general popularity" default applies only when both lists are empty.
func (p UserPreferences) Empty() bool {
	return len(p.FavoriteGenres) == 0 && len(p.FavoriteAuthors) == 0
}

// AIRecommendation is one persisted, ranked recommendation for a user.
// A full batch shares a generation id; regeneration writes the new batch
// before deleting older generations so readers never observe an empty set.
type AIRecommendation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"user_id" json:"user_id"`
	BookID          string             `bson:"book_id" json:"book_id"`
	MatchPercentage float64            `bson:"match_percentage" json:"match_percentage"`
	Reason          string             `bson:"reason" json:"reason"`
	Generation      string             `bson:"generation" json:"-"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}
