package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType classifies a notification.
type NotificationType string

const (
	NotifyExchangeRequest   NotificationType = "exchange_request"
	NotifyExchangeResponse  NotificationType = "exchange_response"
	NotifyExchangeCompleted NotificationType = "exchange_completed"
	NotifyBookAvailable     NotificationType = "book_available"
	NotifySystemUpdate      NotificationType = "system_update"
	NotifyNewRecommendation NotificationType = "new_recommendation"
)

// Valid reports whether the notification type is known.
func (t NotificationType) Valid() bool {
	switch t {
	case NotifyExchangeRequest, NotifyExchangeResponse, NotifyExchangeCompleted,
		NotifyBookAvailable, NotifySystemUpdate, NotifyNewRecommendation:
		return true
	}
	return false
}

// Notification is a message delivered to a user. The read flag is the only
// field that mutates after creation.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Type      NotificationType   `bson:"type" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Data      map[string]any     `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// NotificationPreferences control which notification types a user receives.
// Types absent from the map default to enabled.
type NotificationPreferences struct {
	UserID             string                    `bson:"user_id" json:"user_id"`
	EmailNotifications bool                      `bson:"email_notifications" json:"email_notifications"`
	PushNotifications  bool                      `bson:"push_notifications" json:"push_notifications"`
	NotificationTypes  map[NotificationType]bool `bson:"notification_types,omitempty" json:"notification_types,omitempty"`
	UpdatedAt          time.Time                 `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// DefaultNotificationPreferences returns the all-enabled default set.
func DefaultNotificationPreferences(userID string) NotificationPreferences {
	return NotificationPreferences{
		UserID:             userID,
		EmailNotifications: true,
		PushNotifications:  true,
	}
}

// Allows reports whether the given notification type is enabled.
func (p NotificationPreferences) Allows(t NotificationType) bool {
	if p.NotificationTypes == nil {
		return true
	}
	enabled, ok := p.NotificationTypes[t]
	if !ok {
		return true
	}
	return enabled
}
