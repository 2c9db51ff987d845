// File: internal/user/service.go
package user

import (
	"context"
	"net/http"

	"campus_identity_backend/internal/common"

	"go.uber.org/zap"
)

var (
	ErrNamesRequired = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "First name and last name are required.")
	ErrIDRequired    = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "User ID is required")
	// ErrNoUsers is returned by List when the collection is empty.
	ErrNoUsers = common.NewAPIError(http.StatusNotFound, "NOT_FOUND", "No users found")
	// ErrUserNotFound is returned when a document id does not exist.
	ErrUserNotFound = common.NewAPIError(http.StatusNotFound, "NOT_FOUND", "User not found")
)

// Service implements the legacy document-backed user operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.Named("UserService"),
	}
}

// Create stores {firstName,lastName} and returns the new document id.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (string, error) {
	if req.FirstName == "" || req.LastName == "" {
		return "", ErrNamesRequired
	}
	id, err := s.repo.Create(ctx, req.Fields())
	if err != nil {
		s.logger.Error("Error creating user document", zap.Error(err))
		return "", err
	}
	return id, nil
}

// List returns every user document flattened to {id,...fields}.
func (s *Service) List(ctx context.Context) ([]map[string]interface{}, error) {
	docs, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Error fetching user documents", zap.Error(err))
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoUsers
	}
	users := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.Flatten())
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id string) (map[string]interface{}, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateLookupError(id, err)
	}
	return doc.Flatten(), nil
}

// Delete removes the document, reporting ErrUserNotFound when it does not exist.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.translateLookupError(id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Error deleting user document", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) translateLookupError(id string, err error) error {
	if apiErr, ok := common.IsAPIError(err); ok && apiErr.StatusCode == http.StatusNotFound {
		s.logger.Info("User document not found", zap.String("id", id))
		return ErrUserNotFound
	}
	s.logger.Error("Error fetching user document", zap.String("id", id), zap.Error(err))
	return err
}
