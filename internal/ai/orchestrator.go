// Package ai orchestrates the recommendation, chat, and insights flows. The
// external oracle is best-effort: every oracle fault is absorbed locally and
// answered with the deterministic matching engine or a canned response, so
// callers never observe an oracle outage.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bookwise/backend/internal/ai/prompt"
	"bookwise/backend/internal/ai/response"
	"bookwise/backend/internal/matching"
	"bookwise/backend/internal/model"
	"bookwise/backend/internal/store"
)

const (
	// OracleTimeout is the maximum time allowed per completion attempt.
	OracleTimeout = 30 * time.Second
	// MaxRetries is the number of retries after a failed completion attempt.
	MaxRetries = 1
	// OracleMinPercentage is the floor applied to oracle-returned matches.
	OracleMinPercentage = 60

	// oracleCatalogCap bounds the catalog embedded in the recommendation
	// prompt, for oracle context-size reasons.
	oracleCatalogCap = 50
	// chatCatalogCap bounds the third-party books embedded in a chat prompt.
	chatCatalogCap = 12
	// insightsInteractionCap bounds the interactions embedded in an insights prompt.
	insightsInteractionCap = 20

	completionTemperature = 0.2
	completionMaxTokens   = 2048
)

// LLMClient abstracts the oracle's single-call completion contract.
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string, temperature float32, maxOutputTokens int32) (string, error)
}

// PreferenceStore reads (lazily creating) user preferences.
type PreferenceStore interface {
	GetOrCreate(ctx context.Context, userID string) (*model.UserPreferences, error)
}

// StatsStore reads reading statistics; missing stats are treated as zeros.
type StatsStore interface {
	Get(ctx context.Context, userID string) (*model.ReadingStats, error)
}

// BookStore reads the catalog slices the orchestrator grounds prompts in.
type BookStore interface {
	ListAvailable(ctx context.Context, excludeOwner string, limit int64) ([]model.Book, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error)
}

// RecommendationStore persists regenerated recommendation batches.
type RecommendationStore interface {
	Replace(ctx context.Context, userID string, recs []model.AIRecommendation) error
}

// InteractionStore reads recent interactions for the insights prompt.
type InteractionStore interface {
	ListRecentForUser(ctx context.Context, userID string, limit int64) ([]model.BookInteraction, error)
}

// Orchestrator combines the stores, the matching engine, and the optional
// oracle. A nil LLMClient means the oracle is unavailable and every request
// takes the deterministic path.
type Orchestrator struct {
	llm          LLMClient
	prefs        PreferenceStore
	stats        StatsStore
	books        BookStore
	recs         RecommendationStore
	interactions InteractionStore
}

// NewOrchestrator wires the orchestrator. llm may be nil.
func NewOrchestrator(llm LLMClient, prefs PreferenceStore, stats StatsStore, books BookStore, recs RecommendationStore, interactions InteractionStore) *Orchestrator {
	return &Orchestrator{
		llm:          llm,
		prefs:        prefs,
		stats:        stats,
		books:        books,
		recs:         recs,
		interactions: interactions,
	}
}

// OracleAvailable reports whether an oracle client is configured. Used by
// the health endpoint; requests work either way.
func (o *Orchestrator) OracleAvailable() bool {
	return o.llm != nil
}

// GenerateResult reports the outcome of a recommendation regeneration.
type GenerateResult struct {
	Count   int    `json:"recommendations_count"`
	Message string `json:"message"`
}

// GenerateRecommendations rebuilds a user's stored recommendation set. The
// oracle path and the fallback path are mutually exclusive: the persisted
// batch is always fully one or the other. An empty catalog is a no-op.
func (o *Orchestrator) GenerateRecommendations(ctx context.Context, userID string) (*GenerateResult, error) {
	prefs, err := o.prefs.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := o.loadStats(ctx, userID)

	books, err := o.books.ListAvailable(ctx, userID, oracleCatalogCap)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return &GenerateResult{Count: 0, Message: "No available books for recommendations"}, nil
	}

	recs, fromOracle := o.oracleRecommendations(ctx, userID, *prefs, stats, books)
	if !fromOracle {
		recs = o.fallbackRecommendations(userID, *prefs, books)
	}

	// The oracle path replaces even with zero results; the fallback path
	// keeps the previous set when it has nothing better to offer.
	if fromOracle || len(recs) > 0 {
		if err := o.recs.Replace(ctx, userID, recs); err != nil {
			return nil, err
		}
	}

	return &GenerateResult{
		Count:   len(recs),
		Message: fmt.Sprintf("Generated %d AI-powered recommendations", len(recs)),
	}, nil
}

// Chat answers a free-text question grounded in the user's posted books and
// the currently available catalog. Any failure yields the canned response.
func (o *Orchestrator) Chat(ctx context.Context, userID, message string) string {
	if o.llm == nil {
		return prompt.ChatFallback
	}

	ownBooks, err := o.books.ListByOwner(ctx, userID)
	if err != nil {
		log.Printf("[ORACLE] Chat grounding failed for user %s: %v", userID, err)
		return prompt.ChatFallback
	}
	available, err := o.books.ListAvailable(ctx, userID, chatCatalogCap)
	if err != nil {
		log.Printf("[ORACLE] Chat grounding failed for user %s: %v", userID, err)
		return prompt.ChatFallback
	}

	text, err := o.generateWithRetry(ctx, prompt.BuildChatPrompt(message, ownBooks, available))
	if err != nil {
		log.Printf("[ORACLE] Chat completion failed for user %s: %v", userID, err)
		return prompt.ChatFallback
	}
	return strings.TrimSpace(text)
}

// ReadingInsights produces a short free-text analysis of the user's reading
// behavior, falling back to a canned encouragement on any failure.
func (o *Orchestrator) ReadingInsights(ctx context.Context, userID string) string {
	if o.llm == nil {
		return prompt.InsightsFallback
	}

	stats := o.loadStats(ctx, userID)
	interactions, err := o.interactions.ListRecentForUser(ctx, userID, insightsInteractionCap)
	if err != nil {
		log.Printf("[ORACLE] Insights grounding failed for user %s: %v", userID, err)
		return prompt.InsightsFallback
	}

	text, err := o.generateWithRetry(ctx, prompt.BuildInsightsPrompt(stats, interactions))
	if err != nil {
		log.Printf("[ORACLE] Insights completion failed for user %s: %v", userID, err)
		return prompt.InsightsFallback
	}
	return strings.TrimSpace(text)
}

// oracleRecommendations attempts the oracle path. The bool result reports
// whether the oracle produced a usable (possibly empty) batch; false routes
// the caller to the deterministic fallback.
func (o *Orchestrator) oracleRecommendations(ctx context.Context, userID string, prefs model.UserPreferences, stats model.ReadingStats, books []model.Book) ([]model.AIRecommendation, bool) {
	if o.llm == nil {
		return nil, false
	}

	text, err := o.generateWithRetry(ctx, prompt.BuildRecommendationPrompt(prefs, stats, books))
	if err != nil {
		log.Printf("[ORACLE] Recommendation completion failed for user %s: %v", userID, err)
		return nil, false
	}

	items, err := response.ParseRecommendations(text)
	if err != nil {
		log.Printf("[ORACLE] Unusable recommendation response for user %s: %v", userID, err)
		return nil, false
	}

	known := make(map[string]bool, len(books))
	for _, b := range books {
		known[b.ID.Hex()] = true
	}

	now := time.Now().UTC()
	recs := make([]model.AIRecommendation, 0, len(items))
	for _, item := range items {
		if !known[item.BookID] {
			log.Printf("[ORACLE] Dropping unknown book id %q for user %s", item.BookID, userID)
			continue
		}
		pct := matching.ClampScore(item.MatchPercentage)
		if pct < OracleMinPercentage {
			continue
		}
		recs = append(recs, model.AIRecommendation{
			UserID:          userID,
			BookID:          item.BookID,
			MatchPercentage: pct,
			Reason:          item.Reason,
			CreatedAt:       now,
		})
	}
	return recs, true
}

// fallbackRecommendations scores the top of the catalog with the matching
// engine. Users with no declared preferences get the flat general-popularity
// score instead of zeros.
func (o *Orchestrator) fallbackRecommendations(userID string, prefs model.UserPreferences, books []model.Book) []model.AIRecommendation {
	if len(books) > matching.FallbackCatalogSize {
		books = books[:matching.FallbackCatalogSize]
	}
	now := time.Now().UTC()

	if prefs.Empty() {
		recs := make([]model.AIRecommendation, 0, len(books))
		for _, book := range books {
			recs = append(recs, model.AIRecommendation{
				UserID:          userID,
				BookID:          book.ID.Hex(),
				MatchPercentage: matching.GeneralPopularityScore,
				Reason:          "New discovery based on general popularity",
				CreatedAt:       now,
			})
		}
		return recs
	}

	matches := matching.Rank(prefs, books, matching.RankOptions{Floor: matching.FallbackMinScore})
	recs := make([]model.AIRecommendation, 0, len(matches))
	for _, m := range matches {
		recs = append(recs, model.AIRecommendation{
			UserID:          userID,
			BookID:          m.Book.ID.Hex(),
			MatchPercentage: float64(m.Score),
			Reason:          strings.Join(m.Reasons, ", "),
			CreatedAt:       now,
		})
	}
	return recs
}

// generateWithRetry calls the oracle with a per-attempt timeout and one
// bounded retry before giving up.
func (o *Orchestrator) generateWithRetry(ctx context.Context, p string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[RETRY] Oracle attempt %d/%d", attempt+1, MaxRetries+1)
			time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, OracleTimeout)
		text, err := o.llm.GenerateContent(timeoutCtx, p, completionTemperature, completionMaxTokens)
		cancel()

		if err == nil {
			if text == "" {
				return "", errors.New("empty oracle response")
			}
			return text, nil
		}
		lastErr = err

		// A cancelled caller or an exhausted quota will not succeed on retry.
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		if isRateLimitError(err) {
			log.Printf("[QUOTA] Oracle rate limit exceeded")
			return "", err
		}
	}
	return "", lastErr
}

func (o *Orchestrator) loadStats(ctx context.Context, userID string) model.ReadingStats {
	stats, err := o.stats.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("[WARN] Failed to load reading stats for user %s: %v", userID, err)
		}
		return model.ReadingStats{UserID: userID}
	}
	return *stats
}
