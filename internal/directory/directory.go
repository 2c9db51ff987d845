// Package directory is the account directory abstraction: the identity
// provider's account-management API seen as a plain Go interface so handlers
// never touch a backend SDK.
package directory

import (
	"context"
)

// DefaultPageSize is the number of accounts requested per listing call.
const DefaultPageSize = 100

// Account is a directory account as handlers see it. Password is write-only
// and never appears here.
type Account struct {
	UID           string
	Email         string
	DisplayName   string
	PhoneNumber   string
	PhotoURL      string
	EmailVerified bool
	Disabled      bool
	Claims        map[string]interface{}
	Metadata      Metadata
}

// Metadata holds directory-assigned timestamps in epoch milliseconds.
type Metadata struct {
	CreationTimestamp  int64
	LastLogInTimestamp int64
}

// Role returns the role stored in the account claims, or "".
func (a *Account) Role() string {
	if a == nil || a.Claims == nil {
		return ""
	}
	role, _ := a.Claims["role"].(string)
	return role
}

// NewAccount describes an account to create.
type NewAccount struct {
	Email         string
	Password      string
	DisplayName   string
	EmailVerified bool
}

// AccountUpdate is a partial update; nil fields are left untouched.
type AccountUpdate struct {
	Email       *string
	Password    *string
	DisplayName *string
}

// IsEmpty reports whether the update carries no field at all.
func (u AccountUpdate) IsEmpty() bool {
	return u.Email == nil && u.Password == nil && u.DisplayName == nil
}

// Page is one slice of a listing walk. NextPageToken is "" on the last page.
type Page struct {
	Accounts      []Account
	NextPageToken string
}

// Directory is the account-management capability of the identity provider.
// Implementations return *Error for provider failures so callers can branch
// on the classification instead of on message text.
type Directory interface {
	CreateAccount(ctx context.Context, account NewAccount) (*Account, error)
	GetAccount(ctx context.Context, uid string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdateAccount(ctx context.Context, uid string, update AccountUpdate) (*Account, error)
	DeleteAccount(ctx context.Context, uid string) error
	// SetClaims replaces the whole claims map; there is no merge.
	SetClaims(ctx context.Context, uid string, claims map[string]interface{}) error
	ListAccounts(ctx context.Context, pageSize int, pageToken string) (*Page, error)
}

// ListAll walks every page of the directory and returns the accounts for
// which keep returns true (all accounts when keep is nil). A failure on any
// page aborts the walk and no partial result is returned.
func ListAll(ctx context.Context, d Directory, pageSize int, keep func(*Account) bool) ([]Account, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	accounts := []Account{}
	token := ""
	for {
		page, err := d.ListAccounts(ctx, pageSize, token)
		if err != nil {
			return nil, err
		}
		for i := range page.Accounts {
			if keep == nil || keep(&page.Accounts[i]) {
				accounts = append(accounts, page.Accounts[i])
			}
		}
		if page.NextPageToken == "" {
			return accounts, nil
		}
		token = page.NextPageToken
	}
}
