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

// Preferences accesses declared user tastes, keyed by user id.
type Preferences struct {
	c *mongo.Collection
}

// Get fetches a user's preferences, returning ErrNotFound when the user has
// never declared any.
func (p *Preferences) Get(ctx context.Context, userID string) (*model.UserPreferences, error) {
	var prefs model.UserPreferences
	err := p.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prefs)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preferences: %w", err)
	}
	return &prefs, nil
}

// GetOrCreate fetches a user's preferences, lazily persisting the empty
// default set on first access.
func (p *Preferences) GetOrCreate(ctx context.Context, userID string) (*model.UserPreferences, error) {
	prefs, err := p.Get(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	defaults := model.DefaultPreferences(userID)
	if _, err := p.c.InsertOne(ctx, defaults); err != nil {
		return nil, fmt.Errorf("failed to create default preferences: %w", err)
	}
	return &defaults, nil
}

// Upsert replaces a user's preferences wholesale.
func (p *Preferences) Upsert(ctx context.Context, prefs model.UserPreferences) (*model.UserPreferences, error) {
	prefs.UpdatedAt = time.Now().UTC()
	_, err := p.c.UpdateOne(ctx,
		bson.M{"user_id": prefs.UserID},
		bson.M{"$set": prefs},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert preferences: %w", err)
	}
	return p.Get(ctx, prefs.UserID)
}
