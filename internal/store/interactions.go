package store

import (
	"context"
	"fmt"
	"time"

	"bookwise/backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Interactions accesses the append-only user-book interaction log.
type Interactions struct {
	c *mongo.Collection
}

// Insert appends one interaction event. Events are never mutated or deleted.
func (i *Interactions) Insert(ctx context.Context, interaction model.BookInteraction) error {
	interaction.Timestamp = time.Now().UTC()
	if _, err := i.c.InsertOne(ctx, interaction); err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// ListForUser returns every interaction a user has logged.
func (i *Interactions) ListForUser(ctx context.Context, userID string) ([]model.BookInteraction, error) {
	cur, err := i.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	var interactions []model.BookInteraction
	if err := cur.All(ctx, &interactions); err != nil {
		return nil, fmt.Errorf("failed to decode interactions: %w", err)
	}
	return interactions, nil
}

// ListRecentForUser returns the newest interactions for a user, capped at limit.
func (i *Interactions) ListRecentForUser(ctx context.Context, userID string, limit int64) ([]model.BookInteraction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cur, err := i.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent interactions: %w", err)
	}
	var interactions []model.BookInteraction
	if err := cur.All(ctx, &interactions); err != nil {
		return nil, fmt.Errorf("failed to decode interactions: %w", err)
	}
	return interactions, nil
}

// CountsPerBook aggregates the all-time view and exchange-request tallies
// for every book that has at least one logged interaction.
func (i *Interactions) CountsPerBook(ctx context.Context) ([]model.InteractionCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": "$book_id",
			"views": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$interaction_type", model.InteractionView}}, 1, 0,
			}}},
			"exchange_requests": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$interaction_type", model.InteractionExchangeRequest}}, 1, 0,
			}}},
		}}},
	}
	cur, err := i.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate interaction counts: %w", err)
	}
	var counts []model.InteractionCounts
	if err := cur.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode interaction counts: %w", err)
	}
	return counts, nil
}
