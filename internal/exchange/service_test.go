package exchange

import (
	"context"
	"testing"
	"time"

	"bookwise/backend/internal/model"
	"bookwise/backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeBooks struct {
	books map[string]*model.Book
}

func (f *fakeBooks) GetByID(_ context.Context, id string) (*model.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *book
	return &clone, nil
}

func (f *fakeBooks) MarkTaken(_ context.Context, id string) (bool, error) {
	book, ok := f.books[id]
	if !ok || book.IsTaken {
		return false, nil
	}
	book.IsTaken = true
	return true, nil
}

type fakeExchanges struct {
	exchanges map[string]*model.Exchange
}

func (f *fakeExchanges) Insert(_ context.Context, ex model.Exchange) (*model.Exchange, error) {
	ex.ID = primitive.NewObjectID()
	ex.Status = model.ExchangePending
	ex.CreatedAt = time.Now().UTC()
	f.exchanges[ex.ID.Hex()] = &ex
	clone := ex
	return &clone, nil
}

func (f *fakeExchanges) GetByID(_ context.Context, id string) (*model.Exchange, error) {
	ex, ok := f.exchanges[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *ex
	return &clone, nil
}

func (f *fakeExchanges) Transition(_ context.Context, id string, from, to model.ExchangeStatus, resp *model.ExchangeResponse) (bool, error) {
	ex, ok := f.exchanges[id]
	if !ok || ex.Status != from {
		return false, nil
	}
	ex.Status = to
	if resp != nil {
		ex.Response = resp
	}
	return true, nil
}

func (f *fakeExchanges) ListForUser(_ context.Context, userID string, status model.ExchangeStatus, skip, limit int64) ([]model.Exchange, error) {
	var out []model.Exchange
	for _, ex := range f.exchanges {
		if ex.RequesterID != userID && ex.OwnerID != userID {
			continue
		}
		if status != "" && ex.Status != status {
			continue
		}
		out = append(out, *ex)
	}
	return out, nil
}

type fakeNotifications struct {
	sent  []model.Notification
	prefs map[string]*model.NotificationPreferences
}

func (f *fakeNotifications) Insert(_ context.Context, notif model.Notification) (string, error) {
	f.sent = append(f.sent, notif)
	return primitive.NewObjectID().Hex(), nil
}

func (f *fakeNotifications) GetPreferences(_ context.Context, userID string) (*model.NotificationPreferences, error) {
	if prefs, ok := f.prefs[userID]; ok {
		clone := *prefs
		return &clone, nil
	}
	defaults := model.DefaultNotificationPreferences(userID)
	return &defaults, nil
}

type fakeInteractionLog struct {
	logged []model.BookInteraction
}

func (f *fakeInteractionLog) Insert(_ context.Context, interaction model.BookInteraction) error {
	f.logged = append(f.logged, interaction)
	return nil
}

type fixture struct {
	service       *Service
	books         *fakeBooks
	exchanges     *fakeExchanges
	notifications *fakeNotifications
	interactions  *fakeInteractionLog
	bookID        string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	books := &fakeBooks{books: map[string]*model.Book{}}
	exchanges := &fakeExchanges{exchanges: map[string]*model.Exchange{}}
	notifications := &fakeNotifications{prefs: map[string]*model.NotificationPreferences{}}
	interactions := &fakeInteractionLog{}

	book := &model.Book{
		ID:      primitive.NewObjectID(),
		OwnerID: "owner-1",
		Name:    "The Dispossessed",
		Genre:   model.GenreSciFi,
	}
	books.books[book.ID.Hex()] = book

	return &fixture{
		service:       NewService(books, exchanges, notifications, interactions),
		books:         books,
		exchanges:     exchanges,
		notifications: notifications,
		interactions:  interactions,
		bookID:        book.ID.Hex(),
	}
}

func (f *fixture) createPending(t *testing.T) *model.Exchange {
	t.Helper()
	ex, err := f.service.Create(context.Background(), CreateRequest{
		RequesterID: "requester-1",
		OwnerID:     "owner-1",
		BookID:      f.bookID,
		Message:     "Trade for my copy of Foundation?",
	})
	require.NoError(t, err)
	return ex
}

func TestCreate_MissingBookIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), CreateRequest{
		RequesterID: "requester-1",
		OwnerID:     "owner-1",
		BookID:      primitive.NewObjectID().Hex(),
	})

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreate_TakenBookIsRejected(t *testing.T) {
	f := newFixture(t)
	f.books.books[f.bookID].IsTaken = true

	_, err := f.service.Create(context.Background(), CreateRequest{
		RequesterID: "requester-1",
		OwnerID:     "owner-1",
		BookID:      f.bookID,
	})

	assert.ErrorIs(t, err, ErrBookTaken)
	assert.Empty(t, f.notifications.sent)
}

func TestCreate_OpensPendingAndNotifiesOwner(t *testing.T) {
	f := newFixture(t)

	ex := f.createPending(t)

	assert.Equal(t, model.ExchangePending, ex.Status)
	require.Len(t, f.notifications.sent, 1)
	notif := f.notifications.sent[0]
	assert.Equal(t, "owner-1", notif.UserID)
	assert.Equal(t, model.NotifyExchangeRequest, notif.Type)
	assert.Contains(t, notif.Message, "The Dispossessed")
}

func TestCreate_LogsExchangeRequestInteraction(t *testing.T) {
	f := newFixture(t)

	f.createPending(t)

	require.Len(t, f.interactions.logged, 1)
	logged := f.interactions.logged[0]
	assert.Equal(t, "requester-1", logged.UserID)
	assert.Equal(t, f.bookID, logged.BookID)
	assert.Equal(t, model.InteractionExchangeRequest, logged.Type)
}

func TestCreate_RespectsDisabledNotificationType(t *testing.T) {
	f := newFixture(t)
	f.notifications.prefs["owner-1"] = &model.NotificationPreferences{
		UserID: "owner-1",
		NotificationTypes: map[model.NotificationType]bool{
			model.NotifyExchangeRequest: false,
		},
	}

	ex := f.createPending(t)

	// The exchange still opens; only the delivery is suppressed.
	assert.Equal(t, model.ExchangePending, ex.Status)
	assert.Empty(t, f.notifications.sent)
}

func TestRespond_RespectsDisabledNotificationType(t *testing.T) {
	f := newFixture(t)
	ex := f.createPending(t)
	f.notifications.prefs["requester-1"] = &model.NotificationPreferences{
		UserID: "requester-1",
		NotificationTypes: map[model.NotificationType]bool{
			model.NotifyExchangeResponse: false,
		},
	}

	updated, err := f.service.Respond(context.Background(), ex.ID.Hex(), model.ExchangeAccepted, "")
	require.NoError(t, err)

	assert.Equal(t, model.ExchangeAccepted, updated.Status)
	assert.Len(t, f.notifications.sent, 1) // creation only
}

func TestRespond_AcceptMarksBookTakenAndNotifiesRequester(t *testing.T) {
	f := newFixture(t)
	ex := f.createPending(t)

	updated, err := f.service.Respond(context.Background(), ex.ID.Hex(), model.ExchangeAccepted, "Deal!")
	require.NoError(t, err)

	assert.Equal(t, model.ExchangeAccepted, updated.Status)
	require.NotNil(t, updated.Response)
	assert.Equal(t, model.ExchangeAccepted, updated.Response.ResponseType)

	book, err := f.books.GetByID(context.Background(), f.bookID)
	require.NoError(t, err)
	assert.True(t, book.IsTaken)

	require.Len(t, f.notifications.sent, 2) // creation + acceptance
	notif := f.notifications.sent[1]
	assert.Equal(t, "requester-1", notif.UserID)
	assert.Equal(t, model.NotifyExchangeResponse, notif.Type)
	assert.Contains(t, notif.Message, "The Dispossessed")
}

func TestRespond_AcceptLosesRaceWhenBookAlreadyTaken(t *testing.T) {
	f := newFixture(t)
	// Both requests were created while the book was still free.
	first := f.createPending(t)
	second := f.createPending(t)

	_, err := f.service.Respond(context.Background(), first.ID.Hex(), model.ExchangeAccepted, "")
	require.NoError(t, err)

	_, err = f.service.Respond(context.Background(), second.ID.Hex(), model.ExchangeAccepted, "")
	assert.ErrorIs(t, err, ErrBookTaken)

	// The losing exchange stays pending.
	ex, err := f.exchanges.GetByID(context.Background(), second.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, model.ExchangePending, ex.Status)
}

func TestRespond_DeclineLeavesBookAvailable(t *testing.T) {
	f := newFixture(t)
	ex := f.createPending(t)

	updated, err := f.service.Respond(context.Background(), ex.ID.Hex(), model.ExchangeDeclined, "Sorry, changed my mind")
	require.NoError(t, err)

	assert.Equal(t, model.ExchangeDeclined, updated.Status)
	book, err := f.books.GetByID(context.Background(), f.bookID)
	require.NoError(t, err)
	assert.False(t, book.IsTaken)

	require.Len(t, f.notifications.sent, 2)
	assert.Equal(t, "Exchange Request Declined", f.notifications.sent[1].Title)
}

func TestRespond_CancelEmitsNoNotification(t *testing.T) {
	f := newFixture(t)
	ex := f.createPending(t)

	updated, err := f.service.Respond(context.Background(), ex.ID.Hex(), model.ExchangeCancelled, "")
	require.NoError(t, err)

	assert.Equal(t, model.ExchangeCancelled, updated.Status)
	assert.Len(t, f.notifications.sent, 1) // creation only
}

func TestRespond_MissingExchangeIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Respond(context.Background(), primitive.NewObjectID().Hex(), model.ExchangeAccepted, "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRespond_NonPendingExchangeIsInvalid(t *testing.T) {
	f := newFixture(t)
	ex := f.createPending(t)

	_, err := f.service.Respond(context.Background(), ex.ID.Hex(), model.ExchangeDeclined, "")
	require.NoError(t, err)

	_, err = f.service.Respond(context.Background(), ex.ID.Hex(), model.ExchangeAccepted, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRespond_RejectsNonResponseStates(t *testing.T) {
	f := newFixture(t)
	ex := f.createPending(t)

	_, err := f.service.Respond(context.Background(), ex.ID.Hex(), model.ExchangeCompleted, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.service.Respond(context.Background(), ex.ID.Hex(), model.ExchangePending, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestComplete_RequiresAcceptedState(t *testing.T) {
	f := newFixture(t)
	ex := f.createPending(t)

	_, err := f.service.Complete(context.Background(), ex.ID.Hex())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Status is unchanged by the failed completion.
	current, err := f.exchanges.GetByID(context.Background(), ex.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, model.ExchangePending, current.Status)
}

func TestComplete_TransitionsAcceptedToCompleted(t *testing.T) {
	f := newFixture(t)
	ex := f.createPending(t)

	_, err := f.service.Respond(context.Background(), ex.ID.Hex(), model.ExchangeAccepted, "")
	require.NoError(t, err)

	completed, err := f.service.Complete(context.Background(), ex.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, model.ExchangeCompleted, completed.Status)
}

func TestComplete_MissingExchangeIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Complete(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
