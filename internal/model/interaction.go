package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InteractionType classifies a user-book interaction event.
type InteractionType string

const (
	InteractionView            InteractionType = "view"
	InteractionFavorite        InteractionType = "favorite"
	InteractionExchangeRequest InteractionType = "exchange_request"
	InteractionShare           InteractionType = "share"
)

// Valid reports whether the interaction type is known.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionFavorite, InteractionExchangeRequest, InteractionShare:
		return true
	}
	return false
}

// BookInteraction is one append-only entry in the interaction log. Entries
// are never mutated or deleted by normal operation.
type BookInteraction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	BookID    string             `bson:"book_id" json:"book_id"`
	Type      InteractionType    `bson:"interaction_type" json:"interaction_type"`
	Metadata  map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// InteractionCounts are the all-time per-book tallies the trending
// calculator consumes.
type InteractionCounts struct {
	BookID           string `bson:"_id" json:"book_id"`
	Views            int64  `bson:"views" json:"views"`
	ExchangeRequests int64  `bson:"exchange_requests" json:"exchange_requests"`
}
