// Package response parses oracle output. The recommendation path expects a
// strict JSON array; the oracle frequently wraps it in a markdown code
// fence, which is stripped before parsing.
package response

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecommendationItem is one entry of the oracle's recommendation contract.
type RecommendationItem struct {
	BookID          string
	MatchPercentage float64
	Reason          string
}

// StripFences removes a wrapping markdown code-fence marker, if present.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// ParseRecommendations parses oracle output as a JSON array of
// {book_id, match_percentage, reason}. Any malformed item, missing key, or
// wrongly typed value fails the whole parse: partial oracle output is never
// trusted.
func ParseRecommendations(text string) ([]RecommendationItem, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(StripFences(text)), &raw); err != nil {
		return nil, fmt.Errorf("oracle response is not a JSON array: %w", err)
	}

	items := make([]RecommendationItem, 0, len(raw))
	for i, entry := range raw {
		var item RecommendationItem
		if err := requireKey(entry, "book_id", &item.BookID); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if err := requireKey(entry, "match_percentage", &item.MatchPercentage); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if err := requireKey(entry, "reason", &item.Reason); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func requireKey[T any](entry map[string]json.RawMessage, key string, dst *T) error {
	raw, ok := entry[key]
	if !ok {
		return fmt.Errorf("missing key %q", key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("bad value for %q: %w", key, err)
	}
	return nil
}
