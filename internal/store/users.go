package store

import (
	"context"
	"errors"
	"fmt"

	"bookwise/backend/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Users reads the user documents owned by the external auth service. This
// service never writes them; they are looked up only to denormalize names
// into responses.
type Users struct {
	c *mongo.Collection
}

// GetByID fetches one user, returning ErrNotFound when absent.
func (u *Users) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var user model.User
	err = u.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}
