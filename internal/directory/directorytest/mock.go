package directorytest

import (
	"context"

	"campus_identity_backend/internal/directory"

	"github.com/stretchr/testify/mock"
)

// MockDirectory is a testify mock of directory.Directory.
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) CreateAccount(ctx context.Context, account directory.NewAccount) (*directory.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Account), args.Error(1)
}

func (m *MockDirectory) GetAccount(ctx context.Context, uid string) (*directory.Account, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Account), args.Error(1)
}

func (m *MockDirectory) GetAccountByEmail(ctx context.Context, email string) (*directory.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Account), args.Error(1)
}

func (m *MockDirectory) UpdateAccount(ctx context.Context, uid string, update directory.AccountUpdate) (*directory.Account, error) {
	args := m.Called(ctx, uid, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Account), args.Error(1)
}

func (m *MockDirectory) DeleteAccount(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockDirectory) SetClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	args := m.Called(ctx, uid, claims)
	return args.Error(0)
}

func (m *MockDirectory) ListAccounts(ctx context.Context, pageSize int, pageToken string) (*directory.Page, error) {
	args := m.Called(ctx, pageSize, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Page), args.Error(1)
}

var _ directory.Directory = (*MockDirectory)(nil)
