// File: internal/user/repository.go
package user

import (
	"context"
	"fmt"

	"campus_identity_backend/internal/common"
	"campus_identity_backend/internal/docstore"
)

// Repository defines the data operations on the legacy users collection.
// Ids are document ids and unrelated to directory uids.
type Repository interface {
	Create(ctx context.Context, fields map[string]interface{}) (string, error)
	FindAll(ctx context.Context) ([]docstore.Document, error)
	FindByID(ctx context.Context, id string) (*docstore.Document, error)
	Delete(ctx context.Context, id string) error
}

type documentRepository struct {
	store docstore.Store
}

// NewDocumentRepository creates a users repository on the document store.
func NewDocumentRepository(store docstore.Store) Repository {
	return &documentRepository{store: store}
}

func (r *documentRepository) Create(ctx context.Context, fields map[string]interface{}) (string, error) {
	return r.store.Create(ctx, docstore.CollectionUsers, fields)
}

func (r *documentRepository) FindAll(ctx context.Context) ([]docstore.Document, error) {
	return r.store.List(ctx, docstore.CollectionUsers)
}

// FindByID returns common.ErrNotFound when the document does not exist.
func (r *documentRepository) FindByID(ctx context.Context, id string) (*docstore.Document, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionUsers, id)
	if err != nil {
		if docstore.IsNotFound(err) {
			return nil, common.ErrNotFound.WithDetails(fmt.Sprintf("User document %s not found.", id))
		}
		return nil, err
	}
	return doc, nil
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, docstore.CollectionUsers, id)
}
