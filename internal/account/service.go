// File: internal/account/service.go
package account

import (
	"context"
	"net/http"

	"campus_identity_backend/internal/common"
	"campus_identity_backend/internal/config"
	"campus_identity_backend/internal/directory"

	"go.uber.org/zap"
)

// Validation failures. Every one of them is returned before the directory is called.
var (
	ErrCreateFieldsRequired   = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "Email, password, and role are required.")
	ErrInvalidRole            = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid role specified.")
	ErrUIDRequired            = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "User ID is required.")
	ErrNothingToUpdate        = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "No fields provided for update.")
	ErrPasswordFieldsRequired = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "User ID and new password are required.")
	ErrIdentifierRequired     = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "Either uid or email query parameter is required.")
	ErrEmailRequired          = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "Email is required.")
	ErrClaimsFieldsRequired   = common.NewAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "User ID and claims are required.")
)

// Service implements the generic account operations on top of a Directory.
type Service struct {
	dir      directory.Directory
	pageSize int
	logger   *zap.Logger
}

// NewService creates a new account service.
func NewService(dir directory.Directory, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		dir:      dir,
		pageSize: cfg.DirectoryPageSize,
		logger:   logger.Named("AccountService"),
	}
}

// Create creates the account and assigns its role claim.
func (s *Service) Create(ctx context.Context, req CreateAccountRequest) (*AccountSummary, error) {
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, ErrCreateFieldsRequired
	}
	if !IsAllowedRole(req.Role) {
		return nil, ErrInvalidRole
	}

	acct, err := s.dir.CreateAccount(ctx, directory.NewAccount{Email: req.Email, Password: req.Password})
	if err != nil {
		s.logger.Error("Error creating user", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	if err := s.dir.SetClaims(ctx, acct.UID, map[string]interface{}{"role": req.Role}); err != nil {
		s.logger.Error("Error setting role claim on new user", zap.String("uid", acct.UID), zap.Error(err))
		return nil, err
	}

	return &AccountSummary{UID: acct.UID, Email: acct.Email, Role: req.Role}, nil
}

func (s *Service) Delete(ctx context.Context, uid string) error {
	if uid == "" {
		return ErrUIDRequired
	}
	if err := s.dir.DeleteAccount(ctx, uid); err != nil {
		s.logger.Error("Error deleting user", zap.String("uid", uid), zap.Error(err))
		return err
	}
	return nil
}

// Update applies the supplied fields and, when a role is given, replaces the
// claims with {role}. With only a role, the account itself is not updated.
func (s *Service) Update(ctx context.Context, req UpdateAccountRequest) (*AccountSummary, error) {
	if req.UID == "" {
		return nil, ErrUIDRequired
	}
	if req.Role != "" && !IsAllowedRole(req.Role) {
		return nil, ErrInvalidRole
	}
	update := req.ToUpdate()
	if update.IsEmpty() && req.Role == "" {
		return nil, ErrNothingToUpdate
	}

	var (
		acct *directory.Account
		err  error
	)
	if !update.IsEmpty() {
		acct, err = s.dir.UpdateAccount(ctx, req.UID, update)
	} else {
		acct, err = s.dir.GetAccount(ctx, req.UID)
	}
	if err != nil {
		s.logger.Error("Error updating user", zap.String("uid", req.UID), zap.Error(err))
		return nil, err
	}

	role := acct.Role()
	if req.Role != "" {
		if err := s.dir.SetClaims(ctx, req.UID, map[string]interface{}{"role": req.Role}); err != nil {
			s.logger.Error("Error updating user role", zap.String("uid", req.UID), zap.Error(err))
			return nil, err
		}
		role = req.Role
	}

	return &AccountSummary{UID: acct.UID, Email: acct.Email, DisplayName: acct.DisplayName, Role: role}, nil
}

func (s *Service) SetPassword(ctx context.Context, uid, newPassword string) error {
	if uid == "" || newPassword == "" {
		return ErrPasswordFieldsRequired
	}
	if _, err := s.dir.UpdateAccount(ctx, uid, directory.AccountUpdate{Password: &newPassword}); err != nil {
		s.logger.Error("Error setting user password", zap.String("uid", uid), zap.Error(err))
		return err
	}
	return nil
}

// Get fetches by uid, or by email when no uid is given.
func (s *Service) Get(ctx context.Context, uid, email string) (*AccountDetail, error) {
	var (
		acct *directory.Account
		err  error
	)
	switch {
	case uid != "":
		acct, err = s.dir.GetAccount(ctx, uid)
	case email != "":
		acct, err = s.dir.GetAccountByEmail(ctx, email)
	default:
		return nil, ErrIdentifierRequired
	}
	if err != nil {
		s.logger.Error("Error fetching user", zap.String("uid", uid), zap.String("email", email), zap.Error(err))
		return nil, err
	}
	detail := ToAccountDetail(acct)
	return &detail, nil
}

// ListAll returns every account in the directory. Any page failure fails the call.
func (s *Service) ListAll(ctx context.Context) ([]AccountDetail, error) {
	accounts, err := directory.ListAll(ctx, s.dir, s.pageSize, nil)
	if err != nil {
		s.logger.Error("Error listing users", zap.Error(err))
		return nil, err
	}
	return ToAccountDetails(accounts), nil
}

// GetByEmail is the strict lookup; a missing account is a not-found error.
func (s *Service) GetByEmail(ctx context.Context, email string) (*AccountDetail, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	acct, err := s.dir.GetAccountByEmail(ctx, email)
	if err != nil {
		if directory.IsNotFound(err) {
			s.logger.Info("User not found by email", zap.String("email", email))
		} else {
			s.logger.Error("Error fetching user by email", zap.String("email", email), zap.Error(err))
		}
		return nil, err
	}
	detail := ToAccountDetail(acct)
	return &detail, nil
}

// Exists reports whether an account uses email. Not-found is a normal answer.
func (s *Service) Exists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, ErrEmailRequired
	}
	_, err := s.dir.GetAccountByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if directory.IsNotFound(err) {
		return false, nil
	}
	s.logger.Error("Error checking user existence", zap.String("email", email), zap.Error(err))
	return false, err
}

// SetClaims replaces the account's claims with claims.
func (s *Service) SetClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	if uid == "" || claims == nil {
		return ErrClaimsFieldsRequired
	}
	if err := s.dir.SetClaims(ctx, uid, claims); err != nil {
		s.logger.Error("Error setting custom claims", zap.String("uid", uid), zap.Error(err))
		return err
	}
	return nil
}
