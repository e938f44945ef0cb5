package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookwise/backend/internal/exchange"
	"bookwise/backend/internal/model"
	"bookwise/backend/internal/store"
)

func testContext(t *testing.T, query string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(http.MethodGet, "/?"+query, nil)
	require.NoError(t, err)
	c.Request = req
	return c, rec
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantSkip  int64
		wantLimit int64
		wantOK    bool
	}{
		{"defaults", "", 0, 20, true},
		{"explicit", "skip=5&limit=50", 5, 50, true},
		{"negative skip", "skip=-1", 0, 0, false},
		{"zero limit", "limit=0", 0, 0, false},
		{"limit over max", "limit=101", 0, 0, false},
		{"garbage", "skip=abc", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := testContext(t, tt.query)
			skip, limit, ok := parsePagination(c, 20, 100)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				return
			}
			assert.Equal(t, tt.wantSkip, skip)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestRespondError_Mapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"book taken", exchange.ErrBookTaken, http.StatusBadRequest},
		{"invalid transition", exchange.ErrInvalidTransition, http.StatusBadRequest},
		{"wrapped not found", errors.Join(errors.New("ctx"), store.ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := testContext(t, "")
			respondError(c, tt.err)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code"`)
		})
	}
}

func TestValidObjectID(t *testing.T) {
	c, rec := testContext(t, "")
	assert.True(t, validObjectID(c, "507f1f77bcf86cd799439011"))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = testContext(t, "")
	assert.False(t, validObjectID(c, "not-an-id"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubExchangeBooks struct {
	book model.Book
}

func (s *stubExchangeBooks) GetByID(_ context.Context, _ string) (*model.Book, error) {
	clone := s.book
	return &clone, nil
}

func (s *stubExchangeBooks) MarkTaken(_ context.Context, _ string) (bool, error) {
	return true, nil
}

type stubExchangeStore struct{}

func (s *stubExchangeStore) Insert(_ context.Context, ex model.Exchange) (*model.Exchange, error) {
	ex.ID = primitive.NewObjectID()
	ex.Status = model.ExchangePending
	return &ex, nil
}

func (s *stubExchangeStore) GetByID(_ context.Context, _ string) (*model.Exchange, error) {
	return nil, store.ErrNotFound
}

func (s *stubExchangeStore) Transition(_ context.Context, _ string, _, _ model.ExchangeStatus, _ *model.ExchangeResponse) (bool, error) {
	return false, nil
}

func (s *stubExchangeStore) ListForUser(_ context.Context, _ string, _ model.ExchangeStatus, _, _ int64) ([]model.Exchange, error) {
	return nil, nil
}

type stubNotifications struct{}

func (s *stubNotifications) Insert(_ context.Context, _ model.Notification) (string, error) {
	return primitive.NewObjectID().Hex(), nil
}

func (s *stubNotifications) GetPreferences(_ context.Context, userID string) (*model.NotificationPreferences, error) {
	defaults := model.DefaultNotificationPreferences(userID)
	return &defaults, nil
}

type stubInteractions struct{}

func (s *stubInteractions) Insert(_ context.Context, _ model.BookInteraction) error {
	return nil
}

func TestHandleCreateExchange_RespondsOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bookID := primitive.NewObjectID()
	svc := exchange.NewService(
		&stubExchangeBooks{book: model.Book{ID: bookID, OwnerID: "owner-1", Name: "Dune"}},
		&stubExchangeStore{},
		&stubNotifications{},
		&stubInteractions{},
	)
	h := New(nil, svc, nil)

	r := gin.New()
	r.POST("/exchanges/request", h.HandleCreateExchange)

	body := `{"requester_id":"requester-1","owner_id":"owner-1","book_id":"` + bookID.Hex() + `"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exchanges/request", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
}

func TestHandleUpdateStats_RejectsNegativeCounters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(nil, nil, nil)

	r := gin.New()
	r.POST("/users/:user_id/stats/update", h.HandleUpdateStats)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/user-1/stats/update",
		strings.NewReader(`{"books_read":-1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
}

func TestFavoriteReadingTime(t *testing.T) {
	at := func(hour int) model.BookInteraction {
		return model.BookInteraction{
			Timestamp: time.Date(2026, 8, 1, hour, 0, 0, 0, time.UTC),
		}
	}

	assert.Equal(t, "", favoriteReadingTime(nil))
	assert.Equal(t, "morning", favoriteReadingTime([]model.BookInteraction{at(6), at(9), at(13)}))
	assert.Equal(t, "evening", favoriteReadingTime([]model.BookInteraction{at(18), at(21), at(2)}))
	assert.Equal(t, "night", favoriteReadingTime([]model.BookInteraction{at(23), at(3)}))
}
