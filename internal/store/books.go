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

// Books accesses the book catalog collection.
type Books struct {
	c *mongo.Collection
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("malformed id %q: %w", id, err)
	}
	return oid, nil
}

// Insert stores a new book listing and returns its assigned id.
func (b *Books) Insert(ctx context.Context, book model.Book) (string, error) {
	book.CreatedAt = time.Now().UTC()
	res, err := b.c.InsertOne(ctx, book)
	if err != nil {
		return "", fmt.Errorf("failed to insert book: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// GetByID fetches one book, returning ErrNotFound when absent.
func (b *Books) GetByID(ctx context.Context, id string) (*model.Book, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var book model.Book
	err = b.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch book: %w", err)
	}
	return &book, nil
}

// Update applies owner-initiated field changes and returns the updated book.
func (b *Books) Update(ctx context.Context, id string, fields bson.M) (*model.Book, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	res, err := b.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return b.GetByID(ctx, id)
}

// List returns the whole catalog in insertion order.
func (b *Books) List(ctx context.Context) ([]model.Book, error) {
	cur, err := b.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	var books []model.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}
	return books, nil
}

// ListAvailable returns untaken books not owned by excludeOwner, capped at
// limit. A zero limit means no cap.
func (b *Books) ListAvailable(ctx context.Context, excludeOwner string, limit int64) ([]model.Book, error) {
	filter := bson.M{"is_taken": false}
	if excludeOwner != "" {
		filter["user_id"] = bson.M{"$ne": excludeOwner}
	}
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := b.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list available books: %w", err)
	}
	var books []model.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}
	return books, nil
}

// ListByOwner returns the books a user has posted.
func (b *Books) ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error) {
	cur, err := b.c.Find(ctx, bson.M{"user_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list owner books: %w", err)
	}
	var books []model.Book
	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("failed to decode books: %w", err)
	}
	return books, nil
}

// MarkTaken atomically flips is_taken from false to true. It reports false
// when the book was already taken (or missing), so callers can treat the
// lost race as an invalid state instead of assuming success.
func (b *Books) MarkTaken(ctx context.Context, id string) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, err
	}
	res, err := b.c.UpdateOne(ctx,
		bson.M{"_id": oid, "is_taken": false},
		bson.M{"$set": bson.M{"is_taken": true}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark book taken: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// IncrementViewCount bumps the denormalized view counter.
func (b *Books) IncrementViewCount(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	_, err = b.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"view_count": 1}})
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}
