package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus_identity_backend/internal/platform/crypto"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// documentIDLength matches the length of Firestore auto-generated ids.
const documentIDLength = 20

// documentRecord is the SQL row backing one document.
type documentRecord struct {
	Collection string                 `gorm:"primaryKey;size:128"`
	ID         string                 `gorm:"primaryKey;size:64"`
	Fields     map[string]interface{} `gorm:"serializer:json;type:text;not null"`
	CreatedAt  time.Time              `gorm:"not null;index"`
}

func (documentRecord) TableName() string { return "documents" }

// GormStore implements Store on a SQL database through GORM. Fields are kept
// in a JSON-serialized text column so any driver works.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormStore migrates the documents table and returns the store.
func NewGormStore(db *gorm.DB, logger *zap.Logger) (*GormStore, error) {
	if err := db.AutoMigrate(&documentRecord{}); err != nil {
		return nil, fmt.Errorf("migrate documents table: %w", err)
	}
	return &GormStore{db: db, logger: logger.Named("GormStore")}, nil
}

func (s *GormStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	id, err := crypto.GenerateDocumentID(documentIDLength)
	if err != nil {
		return "", fmt.Errorf("generate document id: %w", err)
	}

	rec := documentRecord{Collection: collection, ID: id, Fields: fields}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		s.logger.Error("Failed to insert document", zap.String("collection", collection), zap.Error(err))
		return "", fmt.Errorf("insert document into %s: %w", collection, err)
	}
	return id, nil
}

func (s *GormStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	var rec documentRecord
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		s.logger.Error("Failed to load document", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("load document %s/%s: %w", collection, id, err)
	}
	return rec.toDocument(), nil
}

func (s *GormStore) Delete(ctx context.Context, collection, id string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&documentRecord{}).Error
	if err != nil {
		s.logger.Error("Failed to delete document", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, collection string) ([]Document, error) {
	var recs []documentRecord
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at ASC, id ASC").
		Find(&recs).Error
	if err != nil {
		s.logger.Error("Failed to list documents", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("list documents in %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(recs))
	for i := range recs {
		docs = append(docs, *recs[i].toDocument())
	}
	return docs, nil
}

func (r *documentRecord) toDocument() *Document {
	fields := r.Fields
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return &Document{ID: r.ID, Fields: fields}
}

var _ Store = (*GormStore)(nil)
