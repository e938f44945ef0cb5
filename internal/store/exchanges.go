package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookwise/backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Exchanges accesses the exchange-request collection.
type Exchanges struct {
	c *mongo.Collection
}

// Insert stores a new pending exchange and returns it with its assigned id.
func (e *Exchanges) Insert(ctx context.Context, ex model.Exchange) (*model.Exchange, error) {
	ex.Status = model.ExchangePending
	ex.CreatedAt = time.Now().UTC()
	res, err := e.c.InsertOne(ctx, ex)
	if err != nil {
		return nil, fmt.Errorf("failed to insert exchange: %w", err)
	}
	return e.GetByID(ctx, res.InsertedID.(primitive.ObjectID).Hex())
}

// GetByID fetches one exchange, returning ErrNotFound when absent.
func (e *Exchanges) GetByID(ctx context.Context, id string) (*model.Exchange, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var ex model.Exchange
	err = e.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&ex)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange: %w", err)
	}
	return &ex, nil
}

// Transition conditionally moves an exchange from one status to another,
// optionally recording the response payload. It reports false when the
// exchange was not in the expected status, keeping transitions monotonic
// even under concurrent responders.
func (e *Exchanges) Transition(ctx context.Context, id string, from, to model.ExchangeStatus, resp *model.ExchangeResponse) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, err
	}
	set := bson.M{"status": to}
	if resp != nil {
		set["response"] = resp
	}
	res, err := e.c.UpdateOne(ctx,
		bson.M{"_id": oid, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition exchange: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// ListForUser returns exchanges where the user is requester or owner,
// newest first, optionally filtered by status.
func (e *Exchanges) ListForUser(ctx context.Context, userID string, status model.ExchangeStatus, skip, limit int64) ([]model.Exchange, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"requester_id": userID},
		bson.M{"owner_id": userID},
	}}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := e.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchanges: %w", err)
	}
	var exchanges []model.Exchange
	if err := cur.All(ctx, &exchanges); err != nil {
		return nil, fmt.Errorf("failed to decode exchanges: %w", err)
	}
	return exchanges, nil
}
