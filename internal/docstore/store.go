// Package docstore is the document store abstraction: schema-less documents
// grouped in named collections.
package docstore

import (
	"context"
	"errors"
)

// Collection names used by the service.
const (
	CollectionUsers    = "users"
	CollectionStudents = "students"
)

// ErrNotFound is returned (wrapped) when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Document is one stored record.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// Flatten returns the fields with the id merged in under "id". A stored
// "id" field takes precedence over the document id.
func (d Document) Flatten() map[string]interface{} {
	out := make(map[string]interface{}, len(d.Fields)+1)
	out["id"] = d.ID
	for k, v := range d.Fields {
		out[k] = v
	}
	return out
}

// Store is the document capability of the database platform.
type Store interface {
	// Create stores fields under a generated id and returns that id.
	Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Delete removes the document; deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([]Document, error)
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
