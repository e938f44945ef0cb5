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

// Notifications accesses user notifications and their delivery preferences.
type Notifications struct {
	c     *mongo.Collection
	prefs *mongo.Collection
}

// Insert stores a new notification and returns its assigned id.
func (n *Notifications) Insert(ctx context.Context, notif model.Notification) (string, error) {
	notif.CreatedAt = time.Now().UTC()
	notif.Read = false
	res, err := n.c.InsertOne(ctx, notif)
	if err != nil {
		return "", fmt.Errorf("failed to insert notification: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ListForUser returns a user's notifications, newest first.
func (n *Notifications) ListForUser(ctx context.Context, userID string, unreadOnly bool, skip, limit int64) ([]model.Notification, error) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["read"] = false
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := n.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	var notifications []model.Notification
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips the read flag, the only mutable field on a notification.
func (n *Notifications) MarkRead(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := n.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a notification.
func (n *Notifications) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := n.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPreferences fetches a user's delivery preferences, persisting the
// all-enabled defaults on first access.
func (n *Notifications) GetPreferences(ctx context.Context, userID string) (*model.NotificationPreferences, error) {
	var prefs model.NotificationPreferences
	err := n.prefs.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prefs)
	if errors.Is(err, mongo.ErrNoDocuments) {
		defaults := model.DefaultNotificationPreferences(userID)
		if _, err := n.prefs.InsertOne(ctx, defaults); err != nil {
			return nil, fmt.Errorf("failed to create default notification preferences: %w", err)
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notification preferences: %w", err)
	}
	return &prefs, nil
}

// UpsertPreferences replaces a user's delivery preferences wholesale.
func (n *Notifications) UpsertPreferences(ctx context.Context, prefs model.NotificationPreferences) error {
	prefs.UpdatedAt = time.Now().UTC()
	_, err := n.prefs.UpdateOne(ctx,
		bson.M{"user_id": prefs.UserID},
		bson.M{"$set": prefs},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert notification preferences: %w", err)
	}
	return nil
}
