package trending

import (
	"testing"

	"bookwise/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestScore_WeightsViewsAndExchangeRequests(t *testing.T) {
	assert.Equal(t, float64(9), Score(3, 2))
	assert.Equal(t, float64(0), Score(0, 0))
	assert.Equal(t, float64(3), Score(0, 1))
}

func newBook(name string) model.Book {
	return model.Book{ID: primitive.NewObjectID(), Name: name}
}

func TestRank_SortsByTrendScoreDescending(t *testing.T) {
	quiet := newBook("quiet")
	busy := newBook("busy")
	middling := newBook("middling")

	counts := []model.InteractionCounts{
		{BookID: busy.ID.Hex(), Views: 3, ExchangeRequests: 2},     // 9
		{BookID: middling.ID.Hex(), Views: 4, ExchangeRequests: 0}, // 4
	}

	ranked := Rank([]model.Book{quiet, busy, middling}, counts, 0, 10)

	require.Len(t, ranked, 3)
	assert.Equal(t, "busy", ranked[0].Book.Name)
	assert.Equal(t, float64(9), ranked[0].TrendScore)
	assert.Equal(t, int64(3), ranked[0].ViewsCount)
	assert.Equal(t, int64(2), ranked[0].ExchangeRequestsCount)
	assert.Equal(t, "middling", ranked[1].Book.Name)
	assert.Equal(t, "quiet", ranked[2].Book.Name)
	assert.Zero(t, ranked[2].TrendScore)
}

func TestRank_PaginationPartitionsWithoutOverlapOrGaps(t *testing.T) {
	var books []model.Book
	var counts []model.InteractionCounts
	for i := 0; i < 25; i++ {
		b := newBook("book")
		books = append(books, b)
		counts = append(counts, model.InteractionCounts{
			BookID: b.ID.Hex(),
			Views:  int64(i),
		})
	}

	full := Rank(books, counts, 0, 0)
	first := Rank(books, counts, 0, 10)
	second := Rank(books, counts, 10, 10)
	third := Rank(books, counts, 20, 10)

	require.Len(t, full, 25)
	require.Len(t, first, 10)
	require.Len(t, second, 10)
	require.Len(t, third, 5)

	var stitched []model.BookTrending
	stitched = append(stitched, first...)
	stitched = append(stitched, second...)
	stitched = append(stitched, third...)
	assert.Equal(t, full, stitched)

	// Declared sort order holds across page boundaries.
	for i := 1; i < len(stitched); i++ {
		assert.GreaterOrEqual(t, stitched[i-1].TrendScore, stitched[i].TrendScore)
	}
}

func TestRank_SkipPastEndIsEmpty(t *testing.T) {
	ranked := Rank([]model.Book{newBook("only")}, nil, 5, 10)
	assert.Empty(t, ranked)
}
