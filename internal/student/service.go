// File: internal/student/service.go
package student

import (
	"context"
	"fmt"
	"net/http"

	"campus_identity_backend/internal/common"
	"campus_identity_backend/internal/config"
	"campus_identity_backend/internal/directory"
	"campus_identity_backend/internal/docstore"

	"go.uber.org/zap"
)

var (
	ErrCreateFieldsRequired = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "Missing required fields: email, firstName, lastName")
	ErrUIDRequired          = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "Missing required field: uid")
	ErrUIDQueryRequired     = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "Missing required query parameter: uid")
)

// Service implements the student operations. A student is a directory account
// whose claims hold the profile and role "student".
type Service struct {
	dir             directory.Directory
	store           docstore.Store
	pageSize        int
	defaultPassword string
	logger          *zap.Logger
}

// NewService creates a new student service.
func NewService(dir directory.Directory, store docstore.Store, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		dir:             dir,
		store:           store,
		pageSize:        cfg.DirectoryPageSize,
		defaultPassword: cfg.StudentDefaultPassword,
		logger:          logger.Named("StudentService"),
	}
}

// Create creates the student account and stores its profile claims. It
// returns the new uid.
func (s *Service) Create(ctx context.Context, req CreateStudentRequest) (string, error) {
	if req.Email == "" || req.FirstName == "" || req.LastName == "" {
		return "", ErrCreateFieldsRequired
	}

	acct, err := s.dir.CreateAccount(ctx, directory.NewAccount{
		Email:         req.Email,
		Password:      s.defaultPassword,
		DisplayName:   fmt.Sprintf("%s %s", req.FirstName, req.LastName),
		EmailVerified: false,
	})
	if err != nil {
		s.logger.Error("Error creating student", zap.String("email", req.Email), zap.Error(err))
		return "", err
	}
	if err := s.dir.SetClaims(ctx, acct.UID, req.Claims()); err != nil {
		s.logger.Error("Error setting student claims", zap.String("uid", acct.UID), zap.Error(err))
		return "", err
	}
	return acct.UID, nil
}

// ListAll scans the whole directory and keeps the student accounts.
func (s *Service) ListAll(ctx context.Context) ([]StudentClaims, error) {
	accounts, err := directory.ListAll(ctx, s.dir, s.pageSize, IsStudent)
	if err != nil {
		s.logger.Error("Error retrieving student claims", zap.Error(err))
		return nil, err
	}
	students := make([]StudentClaims, 0, len(accounts))
	for i := range accounts {
		students = append(students, StudentClaims{
			UID:    accounts[i].UID,
			Email:  accounts[i].Email,
			Claims: claimsOrEmpty(accounts[i].Claims),
		})
	}
	return students, nil
}

// Delete removes the account and then the students/<uid> document. The two
// steps are not atomic: a document failure after the account is gone is
// returned as an error and the account is not restored.
func (s *Service) Delete(ctx context.Context, uid string) error {
	if uid == "" {
		return ErrUIDRequired
	}
	if err := s.dir.DeleteAccount(ctx, uid); err != nil {
		s.logger.Error("Error deleting student account", zap.String("uid", uid), zap.Error(err))
		return err
	}
	if err := s.store.Delete(ctx, docstore.CollectionStudents, uid); err != nil {
		s.logger.Error("Student account deleted but document delete failed; document left orphaned",
			zap.String("uid", uid), zap.Error(err))
		return err
	}
	return nil
}

// Update replaces the profile claims when any profile field is supplied and
// then updates the email when one is supplied.
func (s *Service) Update(ctx context.Context, uid string, req UpdateStudentRequest) error {
	if uid == "" {
		return ErrUIDQueryRequired
	}

	claims := req.Claims()
	if claims == nil && req.Email == "" {
		// Nothing to write, but the account must still exist.
		if _, err := s.dir.GetAccount(ctx, uid); err != nil {
			s.logger.Error("Error updating student", zap.String("uid", uid), zap.Error(err))
			return err
		}
		return nil
	}

	if claims != nil {
		if err := s.dir.SetClaims(ctx, uid, claims); err != nil {
			s.logger.Error("Error updating student claims", zap.String("uid", uid), zap.Error(err))
			return err
		}
	}
	if req.Email != "" {
		email := req.Email
		if _, err := s.dir.UpdateAccount(ctx, uid, directory.AccountUpdate{Email: &email}); err != nil {
			s.logger.Error("Error updating student email", zap.String("uid", uid), zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, uid string) (*StudentDetail, error) {
	if uid == "" {
		return nil, ErrUIDQueryRequired
	}
	acct, err := s.dir.GetAccount(ctx, uid)
	if err != nil {
		s.logger.Error("Error retrieving student", zap.String("uid", uid), zap.Error(err))
		return nil, err
	}
	return toStudentDetail(acct), nil
}
