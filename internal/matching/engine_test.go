package matching

import (
	"fmt"
	"testing"

	"bookwise/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fantasyPrefs() model.UserPreferences {
	return model.UserPreferences{
		UserID:          "user-1",
		FavoriteGenres:  []model.Genre{model.GenreFantasy},
		FavoriteAuthors: []string{"Ursula K. Le Guin"},
	}
}

func TestScore_GenreOnlyScoresExactly50(t *testing.T) {
	book := model.Book{
		Name:   "The Silent Citadel",
		Author: "Nobody Known",
		Genre:  model.GenreFantasy,
	}

	score, reasons := Score(fantasyPrefs(), book)

	assert.Equal(t, 50, score)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "favorite genre")
}

func TestScore_GenreAndAuthorScoresExactly90(t *testing.T) {
	book := model.Book{
		Name:   "The Silent Citadel",
		Author: "Ursula K. Le Guin",
		Genre:  model.GenreFantasy,
	}

	score, reasons := Score(fantasyPrefs(), book)

	assert.Equal(t, 90, score)
	assert.Len(t, reasons, 2)
}

func TestScore_NoMatchesNewConditionFloorsAt20(t *testing.T) {
	book := model.Book{
		Name:      "Accounting Basics",
		Author:    "Nobody Known",
		Genre:     model.GenreHistory,
		Condition: model.ConditionNew,
	}

	score, _ := Score(fantasyPrefs(), book)
	assert.Equal(t, ExplorationScore, score)

	book.Condition = model.ConditionFair
	score, reasons := Score(fantasyPrefs(), book)
	assert.Zero(t, score)
	assert.Empty(t, reasons)
}

func TestScore_EmptyBookContributesZeroToEveryRule(t *testing.T) {
	score, reasons := Score(fantasyPrefs(), model.Book{})
	assert.Zero(t, score)
	assert.Empty(t, reasons)
}

func TestScore_GenreMentionCountedOnce(t *testing.T) {
	prefs := model.UserPreferences{
		UserID:         "user-1",
		FavoriteGenres: []model.Genre{model.GenreFantasy, model.GenreHorror},
	}
	// Both genre names appear; only the first favorite genre may contribute.
	book := model.Book{
		Name:        "Untitled",
		Description: "A horror tale wrapped in a fantasy setting.",
		Genre:       model.GenreMystery,
	}

	score, reasons := Score(prefs, book)

	assert.Equal(t, 30, score)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "Fantasy")
}

func TestScore_KeywordSearchStopsAfterFirstHit(t *testing.T) {
	prefs := model.UserPreferences{
		UserID:         "user-1",
		FavoriteGenres: []model.Genre{model.GenreFantasy, model.GenreSciFi},
	}
	// Keywords from both lexicons appear, but only one +20 is awarded.
	book := model.Book{
		Name:        "Untitled",
		Description: "A wizard builds a robot to guard his tower.",
		Genre:       model.GenreMystery,
	}

	score, reasons := Score(prefs, book)

	assert.Equal(t, 20, score)
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "Fantasy")
}

func TestScore_ReadingPreferenceBonusNeedsGoodCondition(t *testing.T) {
	prefs := fantasyPrefs()
	prefs.ReadingPreferences.BookLength = model.LengthLong

	book := model.Book{
		Name:      "The Silent Citadel",
		Genre:     model.GenreFantasy,
		Condition: model.ConditionGood,
	}
	score, _ := Score(prefs, book)
	assert.Equal(t, 60, score)

	book.Condition = model.ConditionPoor
	score, _ = Score(prefs, book)
	assert.Equal(t, 50, score)
}

func TestScore_ClampedTo100WhenEveryRuleFires(t *testing.T) {
	prefs := fantasyPrefs()
	prefs.ReadingPreferences.Era = model.EraModern

	book := model.Book{
		Name:        "A Fantasy of Dragons",
		Author:      "Ursula K. Le Guin",
		Genre:       model.GenreFantasy,
		Description: "Magic and dragons in a crumbling kingdom.",
		Condition:   model.ConditionNew,
	}

	score, reasons := Score(prefs, book)

	assert.Equal(t, 100, score)
	assert.Len(t, reasons, 5)
}

func TestScore_IsPure(t *testing.T) {
	prefs := fantasyPrefs()
	book := model.Book{
		Name:        "A Fantasy of Dragons",
		Author:      "Ursula K. Le Guin",
		Genre:       model.GenreFantasy,
		Description: "Magic and dragons in a crumbling kingdom.",
		Condition:   model.ConditionNew,
	}

	firstScore, firstReasons := Score(prefs, book)
	for i := 0; i < 10; i++ {
		score, reasons := Score(prefs, book)
		require.Equal(t, firstScore, score)
		require.Equal(t, firstReasons, reasons)
	}
	assert.GreaterOrEqual(t, firstScore, 0)
	assert.LessOrEqual(t, firstScore, 100)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, float64(0), ClampScore(-5))
	assert.Equal(t, float64(0), ClampScore(0))
	assert.Equal(t, float64(73), ClampScore(73))
	assert.Equal(t, float64(100), ClampScore(150))
}

func TestRank_FiltersSortsAndCaps(t *testing.T) {
	prefs := fantasyPrefs()

	var books []model.Book
	// 25 genre matches (score 50), interleaved with zero-score books.
	for i := 0; i < 25; i++ {
		books = append(books,
			model.Book{Name: fmt.Sprintf("match-%d", i), Genre: model.GenreFantasy},
			model.Book{Name: fmt.Sprintf("miss-%d", i), Genre: model.GenreHistory},
		)
	}
	// One stronger match that must sort first.
	books = append(books, model.Book{
		Name:   "best",
		Author: "Ursula K. Le Guin",
		Genre:  model.GenreFantasy,
	})

	matches := Rank(prefs, books, RankOptions{Floor: MinScore, Limit: MaxResults})

	require.Len(t, matches, MaxResults)
	assert.Equal(t, "best", matches[0].Book.Name)
	assert.Equal(t, 90, matches[0].Score)
	// Ties keep catalog iteration order.
	for i := 1; i < len(matches); i++ {
		assert.Equal(t, fmt.Sprintf("match-%d", i-1), matches[i].Book.Name)
		assert.Equal(t, 50, matches[i].Score)
	}
}

func TestRank_FloorExcludesLowScores(t *testing.T) {
	prefs := fantasyPrefs()
	books := []model.Book{
		{Name: "new-but-unmatched", Genre: model.GenreHistory, Condition: model.ConditionNew}, // 20
		{Name: "matched", Genre: model.GenreFantasy},                                          // 50
	}

	matches := Rank(prefs, books, RankOptions{Floor: FallbackMinScore})

	require.Len(t, matches, 1)
	assert.Equal(t, "matched", matches[0].Book.Name)
}
