// Package exchange governs the lifecycle of book-exchange requests:
// PENDING -> {ACCEPTED, DECLINED, CANCELLED}, ACCEPTED -> COMPLETED.
// Acceptance marks the book taken and is the single point of mutual
// exclusion per book.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bookwise/backend/internal/model"
	"bookwise/backend/internal/store"
)

var (
	// ErrBookTaken means the referenced book is not available for exchange.
	ErrBookTaken = errors.New("book is not available for exchange")
	// ErrInvalidTransition means the exchange is not in a state that allows
	// the requested transition.
	ErrInvalidTransition = errors.New("invalid exchange state transition")
)

// BookStore is the slice of the book catalog the state machine needs.
// Lookups return store.ErrNotFound for missing ids.
type BookStore interface {
	GetByID(ctx context.Context, id string) (*model.Book, error)
	MarkTaken(ctx context.Context, id string) (bool, error)
}

// ExchangeStore persists exchange documents.
type ExchangeStore interface {
	Insert(ctx context.Context, ex model.Exchange) (*model.Exchange, error)
	GetByID(ctx context.Context, id string) (*model.Exchange, error)
	Transition(ctx context.Context, id string, from, to model.ExchangeStatus, resp *model.ExchangeResponse) (bool, error)
	ListForUser(ctx context.Context, userID string, status model.ExchangeStatus, skip, limit int64) ([]model.Exchange, error)
}

// NotificationStore receives the notifications emitted by state transitions,
// gated on the recipient's delivery preferences.
type NotificationStore interface {
	Insert(ctx context.Context, notif model.Notification) (string, error)
	GetPreferences(ctx context.Context, userID string) (*model.NotificationPreferences, error)
}

// InteractionStore records the exchange-request events the trending
// calculator consumes.
type InteractionStore interface {
	Insert(ctx context.Context, interaction model.BookInteraction) error
}

// Service is the exchange state machine. No retries are performed anywhere;
// store faults surface to the caller.
type Service struct {
	books         BookStore
	exchanges     ExchangeStore
	notifications NotificationStore
	interactions  InteractionStore
}

// NewService wires the state machine to its stores.
func NewService(books BookStore, exchanges ExchangeStore, notifications NotificationStore, interactions InteractionStore) *Service {
	return &Service{
		books:         books,
		exchanges:     exchanges,
		notifications: notifications,
		interactions:  interactions,
	}
}

// CreateRequest carries the inputs of a new exchange request.
type CreateRequest struct {
	RequesterID string
	OwnerID     string
	BookID      string
	Message     string
}

// Create opens a PENDING exchange for an available book and notifies the
// owner. No lock is held between the availability check and the insert: two
// simultaneous requests may both create a PENDING exchange. Acceptance, not
// creation, is where mutual exclusion is enforced.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Exchange, error) {
	book, err := s.books.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if book.IsTaken {
		return nil, ErrBookTaken
	}

	ex, err := s.exchanges.Insert(ctx, model.Exchange{
		RequesterID: req.RequesterID,
		OwnerID:     req.OwnerID,
		BookID:      req.BookID,
		Message:     req.Message,
	})
	if err != nil {
		return nil, err
	}

	// Feed the trending calculator. A lost event skews a score, not state.
	if err := s.interactions.Insert(ctx, model.BookInteraction{
		UserID: req.RequesterID,
		BookID: req.BookID,
		Type:   model.InteractionExchangeRequest,
	}); err != nil {
		log.Printf("[WARN] Failed to log exchange_request interaction: %v", err)
	}

	s.notify(ctx, model.Notification{
		UserID:  req.OwnerID,
		Type:    model.NotifyExchangeRequest,
		Title:   "New Exchange Request",
		Message: fmt.Sprintf("Someone wants to exchange your book %q", book.Name),
		Data: map[string]any{
			"exchange_id": ex.ID.Hex(),
			"book_id":     req.BookID,
		},
	})

	return ex, nil
}

// Respond records the answer to a PENDING exchange. Accepting marks the book
// taken through a conditional update first; losing that race is reported as
// ErrBookTaken instead of silently double-assigning the book. Declining
// emits a decline notification; cancelling mutates nothing else.
func (s *Service) Respond(ctx context.Context, exchangeID string, responseType model.ExchangeStatus, message string) (*model.Exchange, error) {
	switch responseType {
	case model.ExchangeAccepted, model.ExchangeDeclined, model.ExchangeCancelled:
	default:
		return nil, fmt.Errorf("%w: cannot respond with %q", ErrInvalidTransition, responseType)
	}

	ex, err := s.exchanges.GetByID(ctx, exchangeID)
	if err != nil {
		return nil, err
	}
	if ex.Status.Terminal() {
		return nil, fmt.Errorf("%w: exchange already %s", ErrInvalidTransition, ex.Status)
	}
	if ex.Status != model.ExchangePending {
		return nil, fmt.Errorf("%w: exchange is %s", ErrInvalidTransition, ex.Status)
	}

	book, err := s.books.GetByID(ctx, ex.BookID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if responseType == model.ExchangeAccepted {
		taken, err := s.books.MarkTaken(ctx, ex.BookID)
		if err != nil {
			return nil, err
		}
		if !taken {
			// A racing acceptance for another exchange on the same book won.
			return nil, ErrBookTaken
		}
	}

	resp := &model.ExchangeResponse{
		ResponseType: responseType,
		Message:      message,
		CreatedAt:    time.Now().UTC(),
	}
	moved, err := s.exchanges.Transition(ctx, exchangeID, model.ExchangePending, responseType, resp)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, fmt.Errorf("%w: exchange is no longer pending", ErrInvalidTransition)
	}

	bookName := "your requested book"
	if book != nil {
		bookName = fmt.Sprintf("%q", book.Name)
	}
	switch responseType {
	case model.ExchangeAccepted:
		s.notify(ctx, model.Notification{
			UserID:  ex.RequesterID,
			Type:    model.NotifyExchangeResponse,
			Title:   "Exchange Request Accepted",
			Message: fmt.Sprintf("Your exchange request for %s has been accepted!", bookName),
			Data:    map[string]any{"exchange_id": exchangeID},
		})
	case model.ExchangeDeclined:
		s.notify(ctx, model.Notification{
			UserID:  ex.RequesterID,
			Type:    model.NotifyExchangeResponse,
			Title:   "Exchange Request Declined",
			Message: fmt.Sprintf("Your exchange request for %s was declined.", bookName),
			Data:    map[string]any{"exchange_id": exchangeID},
		})
	}

	return s.exchanges.GetByID(ctx, exchangeID)
}

// Complete moves an ACCEPTED exchange to COMPLETED. No further side effects.
func (s *Service) Complete(ctx context.Context, exchangeID string) (*model.Exchange, error) {
	moved, err := s.exchanges.Transition(ctx, exchangeID, model.ExchangeAccepted, model.ExchangeCompleted, nil)
	if err != nil {
		return nil, err
	}
	if !moved {
		// Distinguish a missing exchange from one in the wrong state.
		ex, err := s.exchanges.GetByID(ctx, exchangeID)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: exchange is %s, not %s", ErrInvalidTransition, ex.Status, model.ExchangeAccepted)
	}
	return s.exchanges.GetByID(ctx, exchangeID)
}

// ListForUser returns a user's exchanges (as requester or owner), newest
// first, optionally filtered by status.
func (s *Service) ListForUser(ctx context.Context, userID string, status model.ExchangeStatus, skip, limit int64) ([]model.Exchange, error) {
	return s.exchanges.ListForUser(ctx, userID, status, skip, limit)
}

// notify inserts a notification unless the recipient has disabled its type,
// logging instead of failing the transition that emitted it. An unreadable
// preference set defaults to delivery.
func (s *Service) notify(ctx context.Context, notif model.Notification) {
	prefs, err := s.notifications.GetPreferences(ctx, notif.UserID)
	if err != nil {
		log.Printf("[WARN] Failed to load notification preferences for user %s: %v", notif.UserID, err)
	} else if !prefs.Allows(notif.Type) {
		return
	}
	if _, err := s.notifications.Insert(ctx, notif); err != nil {
		log.Printf("[WARN] Failed to insert %s notification for user %s: %v", notif.Type, notif.UserID, err)
	}
}
