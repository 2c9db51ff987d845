// Package directorytest provides in-memory and mock Directory
// implementations for tests.
package directorytest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"campus_identity_backend/internal/directory"

	"github.com/google/uuid"
)

// ErrInjected is returned by Fake when a failure is injected.
var ErrInjected = &directory.Error{Kind: directory.KindProvider, Code: directory.CodeInternalError, Message: "injected failure"}

// Fake is an in-memory Directory. Page tokens are decimal offsets into the
// uid-sorted account list.
type Fake struct {
	mu       sync.Mutex
	accounts map[string]*directory.Account
	order    []string

	// FailListOnPage makes ListAccounts fail on that 1-based page number.
	FailListOnPage int
	// ListCalls counts ListAccounts invocations.
	ListCalls int
	// Calls counts every method invocation.
	Calls int
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{accounts: map[string]*directory.Account{}}
}

// Seed inserts accounts directly, bypassing CreateAccount.
func (f *Fake) Seed(accounts ...directory.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range accounts {
		a := accounts[i]
		if a.UID == "" {
			a.UID = uuid.NewString()
		}
		if _, exists := f.accounts[a.UID]; !exists {
			f.order = append(f.order, a.UID)
		}
		f.accounts[a.UID] = &a
	}
	sort.Strings(f.order)
}

// Len returns the number of stored accounts.
func (f *Fake) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.accounts)
}

func (f *Fake) CreateAccount(_ context.Context, account directory.NewAccount) (*directory.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if account.Email == "" {
		return nil, &directory.Error{Kind: directory.KindInvalidArgument, Code: directory.CodeInvalidArgument, Message: "email must be a non-empty string"}
	}
	for _, a := range f.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return nil, &directory.Error{Kind: directory.KindAlreadyExists, Code: directory.CodeEmailAlreadyExists, Message: "The email address is already in use by another account."}
		}
	}

	a := &directory.Account{
		UID:           uuid.NewString(),
		Email:         account.Email,
		DisplayName:   account.DisplayName,
		EmailVerified: account.EmailVerified,
	}
	f.accounts[a.UID] = a
	f.order = append(f.order, a.UID)
	sort.Strings(f.order)
	return copyAccount(a), nil
}

func (f *Fake) GetAccount(_ context.Context, uid string) (*directory.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	a, ok := f.accounts[uid]
	if !ok {
		return nil, directory.NotFound(fmt.Sprintf("no user record found for the given identifier: %s", uid))
	}
	return copyAccount(a), nil
}

func (f *Fake) GetAccountByEmail(_ context.Context, email string) (*directory.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	for _, a := range f.accounts {
		if strings.EqualFold(a.Email, email) {
			return copyAccount(a), nil
		}
	}
	return nil, directory.NotFound(fmt.Sprintf("no user exists with the email: %q", email))
}

func (f *Fake) UpdateAccount(_ context.Context, uid string, update directory.AccountUpdate) (*directory.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if update.IsEmpty() {
		return nil, &directory.Error{Kind: directory.KindInvalidArgument, Code: directory.CodeInvalidArgument, Message: "update parameters must not be empty"}
	}
	a, ok := f.accounts[uid]
	if !ok {
		return nil, directory.NotFound(fmt.Sprintf("no user record found for the given identifier: %s", uid))
	}
	if update.Email != nil {
		a.Email = *update.Email
	}
	if update.DisplayName != nil {
		a.DisplayName = *update.DisplayName
	}
	return copyAccount(a), nil
}

func (f *Fake) DeleteAccount(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if _, ok := f.accounts[uid]; !ok {
		return directory.NotFound(fmt.Sprintf("no user record found for the given identifier: %s", uid))
	}
	delete(f.accounts, uid)
	for i, id := range f.order {
		if id == uid {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *Fake) SetClaims(_ context.Context, uid string, claims map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	a, ok := f.accounts[uid]
	if !ok {
		return directory.NotFound(fmt.Sprintf("no user record found for the given identifier: %s", uid))
	}
	a.Claims = copyClaims(claims)
	return nil
}

func (f *Fake) ListAccounts(_ context.Context, pageSize int, pageToken string) (*directory.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.ListCalls++

	if f.FailListOnPage > 0 && f.ListCalls == f.FailListOnPage {
		return nil, ErrInjected
	}

	offset := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil || n < 0 {
			return nil, errors.New("invalid page token")
		}
		offset = n
	}
	end := offset + pageSize
	if end > len(f.order) {
		end = len(f.order)
	}

	page := &directory.Page{Accounts: []directory.Account{}}
	for _, uid := range f.order[min(offset, len(f.order)):end] {
		page.Accounts = append(page.Accounts, *copyAccount(f.accounts[uid]))
	}
	if end < len(f.order) {
		page.NextPageToken = strconv.Itoa(end)
	}
	return page, nil
}

func copyAccount(a *directory.Account) *directory.Account {
	c := *a
	c.Claims = copyClaims(a.Claims)
	return &c
}

func copyClaims(claims map[string]interface{}) map[string]interface{} {
	if claims == nil {
		return nil
	}
	out := make(map[string]interface{}, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	return out
}

var _ directory.Directory = (*Fake)(nil)
