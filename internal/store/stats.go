package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookwise/backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Stats accesses accumulated reading statistics, keyed by user id.
type Stats struct {
	c *mongo.Collection
}

// Get fetches a user's reading stats, returning ErrNotFound when absent.
func (s *Stats) Get(ctx context.Context, userID string) (*model.ReadingStats, error) {
	var stats model.ReadingStats
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&stats)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reading stats: %w", err)
	}
	return &stats, nil
}

// GetOrCreate fetches a user's reading stats, persisting the zeroed
// defaults on first access.
func (s *Stats) GetOrCreate(ctx context.Context, userID string) (*model.ReadingStats, error) {
	stats, err := s.Get(ctx, userID)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	defaults := model.DefaultReadingStats(userID)
	if _, err := s.c.InsertOne(ctx, defaults); err != nil {
		return nil, fmt.Errorf("failed to create default reading stats: %w", err)
	}
	return &defaults, nil
}

// Upsert replaces a user's reading stats wholesale.
func (s *Stats) Upsert(ctx context.Context, stats model.ReadingStats) error {
	stats.UpdatedAt = time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": stats.UserID},
		bson.M{"$set": stats},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert reading stats: %w", err)
	}
	return nil
}
