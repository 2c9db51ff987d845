// Package docstoretest provides test doubles for docstore.Store.
package docstoretest

import (
	"context"

	"campus_identity_backend/internal/docstore"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of docstore.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	args := m.Called(ctx, collection, fields)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	args := m.Called(ctx, collection, id)
	var doc *docstore.Document
	if v := args.Get(0); v != nil {
		doc = v.(*docstore.Document)
	}
	return doc, args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *MockStore) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	args := m.Called(ctx, collection)
	var docs []docstore.Document
	if v := args.Get(0); v != nil {
		docs = v.([]docstore.Document)
	}
	return docs, args.Error(1)
}

var _ docstore.Store = (*MockStore)(nil)
