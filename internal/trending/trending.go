// Package trending turns the append-only interaction log into an all-time
// popularity ranking. There is no recency decay.
package trending

import (
	"sort"

	"bookwise/backend/internal/model"
)

// Weights of the trend score. Exchange requests signal much stronger intent
// than views.
const (
	viewWeight            = 1
	exchangeRequestWeight = 3
)

// Score computes the weighted trend score from all-time counts.
func Score(views, exchangeRequests int64) float64 {
	return float64(views*viewWeight + exchangeRequests*exchangeRequestWeight)
}

// Rank joins every book with its interaction counts, sorts by trend score
// descending (stable, catalog order breaks ties), and applies skip/limit
// pagination after the sort. Books with no logged interactions rank with a
// zero score rather than being dropped.
func Rank(books []model.Book, counts []model.InteractionCounts, skip, limit int) []model.BookTrending {
	byBook := make(map[string]model.InteractionCounts, len(counts))
	for _, c := range counts {
		byBook[c.BookID] = c
	}

	ranked := make([]model.BookTrending, 0, len(books))
	for _, book := range books {
		c := byBook[book.ID.Hex()]
		ranked = append(ranked, model.BookTrending{
			Book:                  book,
			TrendScore:            Score(c.Views, c.ExchangeRequests),
			ViewsCount:            c.Views,
			ExchangeRequestsCount: c.ExchangeRequests,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TrendScore > ranked[j].TrendScore
	})

	if skip >= len(ranked) {
		return []model.BookTrending{}
	}
	ranked = ranked[skip:]
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
