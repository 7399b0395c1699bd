// Package store persists saved diagrams.
//
// A saved diagram is the source text plus bookkeeping metadata; parse
// results are never stored since parsing is deterministic and the
// grammar may evolve between versions. Two backends are provided:
// [MemoryStore] for development and testing, and [MongoStore] for the
// server.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mermaidflow/pkg/diagram"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a diagram does not exist.
	ErrNotFound = errors.New("not found")
)

// Diagram is one saved diagram.
type Diagram struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Source    string       `json:"source" bson:"source"`
	Type      diagram.Type `json:"type" bson:"type"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// New builds a Diagram with a fresh id and timestamps.
func New(name, source string, typ diagram.Type) *Diagram {
	now := time.Now().UTC()
	return &Diagram{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    source,
		Type:      typ,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the modification timestamp.
func (d *Diagram) Touch() {
	d.UpdatedAt = time.Now().UTC()
}

// Store persists diagrams.
type Store interface {
	// Put inserts or replaces a diagram by id.
	Put(ctx context.Context, d *Diagram) error

	// Get returns a diagram by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Diagram, error)

	// List returns all diagrams ordered by creation time.
	List(ctx context.Context) ([]*Diagram, error)

	// Delete removes a diagram by id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
