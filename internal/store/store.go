// Package store is the document-store boundary. Every accessor wraps one
// collection with the simple query/update operations the services need; no
// multi-document transactions are used.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a lookup by identity matches no document.
var ErrNotFound = errors.New("not found")

// ConnectTimeout bounds the initial connection attempt.
const ConnectTimeout = 10 * time.Second

// Store bundles the per-collection accessors over one database.
type Store struct {
	client *mongo.Client

	Books           *Books
	Users           *Users
	Exchanges       *Exchanges
	Preferences     *Preferences
	Recommendations *Recommendations
	Interactions    *Interactions
	Notifications   *Notifications
	Stats           *Stats
}

// Connect dials the document store and wires up the collection accessors.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("document store unreachable: %w", err)
	}

	db := client.Database(dbName)
	return &Store{
		client:          client,
		Books:           &Books{c: db.Collection("books")},
		Users:           &Users{c: db.Collection("users")},
		Exchanges:       &Exchanges{c: db.Collection("exchanges")},
		Preferences:     &Preferences{c: db.Collection("preferences")},
		Recommendations: &Recommendations{c: db.Collection("recommendations")},
		Interactions:    &Interactions{c: db.Collection("book_interactions")},
		Notifications: &Notifications{
			c:     db.Collection("notifications"),
			prefs: db.Collection("notification_preferences"),
		},
		Stats: &Stats{c: db.Collection("reading_stats")},
	}, nil
}

// Ping verifies the store is still reachable. Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close releases the underlying connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
