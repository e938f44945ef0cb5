package store

import (
	"context"
	"fmt"
	"time"

	"bookwise/backend/internal/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Recommendations accesses persisted recommendation batches.
type Recommendations struct {
	c *mongo.Collection
}

// Replace swaps a user's recommendation set for a new batch. The batch is
// stamped with a fresh generation id and inserted before older generations
// are deleted, so a crash between the two steps leaves the previous batch
// readable rather than an empty set. An empty batch clears the set.
func (r *Recommendations) Replace(ctx context.Context, userID string, recs []model.AIRecommendation) error {
	gen := uuid.New().String()
	now := time.Now().UTC()

	if len(recs) > 0 {
		docs := make([]any, len(recs))
		for i := range recs {
			recs[i].UserID = userID
			recs[i].Generation = gen
			if recs[i].CreatedAt.IsZero() {
				recs[i].CreatedAt = now
			}
			docs[i] = recs[i]
		}
		if _, err := r.c.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to insert recommendations: %w", err)
		}
	}

	filter := bson.M{"user_id": userID}
	if len(recs) > 0 {
		filter["generation"] = bson.M{"$ne": gen}
	}
	if _, err := r.c.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete stale recommendations: %w", err)
	}
	return nil
}

// ListForUser returns a user's stored recommendations sorted by match
// percentage descending.
func (r *Recommendations) ListForUser(ctx context.Context, userID string, skip, limit int64) ([]model.AIRecommendation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "match_percentage", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	var recs []model.AIRecommendation
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return recs, nil
}
