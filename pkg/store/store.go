// Package store persists layout snapshots for the HTTP API.
//
// Two backends implement [Store]:
//   - [MemoryStore]: process-local, for development and tests
//   - [MongoStore]: a MongoDB collection, for deployments with more than
//     one server instance
//
// Stored layouts are addressed by a UUID assigned on Put.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/speedui/gridkit/pkg/snapshot"
)

// ErrNotFound is returned when no layout has the requested id.
var ErrNotFound = errors.New("layout not found")

// Store saves and retrieves layout snapshots.
type Store interface {
	// Put stores l under a new id, sets l.ID and returns the id.
	Put(ctx context.Context, l *snapshot.Layout) (string, error)
	Get(ctx context.Context, id string) (*snapshot.Layout, error)
	Delete(ctx context.Context, id string) error
	// List returns up to limit summaries, newest first.
	List(ctx context.Context, limit int) ([]Summary, error)
	Close(ctx context.Context) error
}

// Summary is the listing view of a stored layout.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	Strategy  string    `json:"strategy" bson:"strategy"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func summarize(l *snapshot.Layout) Summary {
	return Summary{ID: l.ID, Title: l.Title, Strategy: l.Strategy, CreatedAt: l.CreatedAt}
}

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50
