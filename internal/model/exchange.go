package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExchangeStatus is the lifecycle state of an exchange request.
type ExchangeStatus string

const (
	ExchangePending   ExchangeStatus = "pending"
	ExchangeAccepted  ExchangeStatus = "accepted"
	ExchangeDeclined  ExchangeStatus = "declined"
	ExchangeCompleted ExchangeStatus = "completed"
	ExchangeCancelled ExchangeStatus = "cancelled"
)

// Valid reports whether the status is a known lifecycle state.
func (s ExchangeStatus) Valid() bool {
	switch s {
	case ExchangePending, ExchangeAccepted, ExchangeDeclined, ExchangeCompleted, ExchangeCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from this state.
// ACCEPTED is the only non-initial, non-terminal state: it may still
// transition to COMPLETED.
func (s ExchangeStatus) Terminal() bool {
	switch s {
	case ExchangeDeclined, ExchangeCompleted, ExchangeCancelled:
		return true
	}
	return false
}

// ExchangeResponse is the owner's (or requester's) recorded answer to a
// pending exchange.
type ExchangeResponse struct {
	ResponseType ExchangeStatus `bson:"response_type" json:"response_type"`
	Message      string         `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt    time.Time      `bson:"created_at" json:"created_at"`
}

// Exchange is a proposed transfer of a book between a requester and the
// book's owner.
type Exchange struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequesterID string             `bson:"requester_id" json:"requester_id"`
	OwnerID     string             `bson:"owner_id" json:"owner_id"`
	BookID      string             `bson:"book_id" json:"book_id"`
	Message     string             `bson:"message,omitempty" json:"message,omitempty"`
	Status      ExchangeStatus     `bson:"status" json:"status"`
	Response    *ExchangeResponse  `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
