package directory

import (
	"context"
	"errors"

	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/errorutils"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
)

// FirebaseDirectory implements Directory on top of Firebase Authentication.
type FirebaseDirectory struct {
	client *auth.Client
	logger *zap.Logger
}

// NewFirebaseDirectory wraps a Firebase Auth client.
func NewFirebaseDirectory(client *auth.Client, logger *zap.Logger) *FirebaseDirectory {
	return &FirebaseDirectory{client: client, logger: logger.Named("FirebaseDirectory")}
}

func (d *FirebaseDirectory) CreateAccount(ctx context.Context, account NewAccount) (*Account, error) {
	params := (&auth.UserToCreate{}).
		Email(account.Email).
		Password(account.Password).
		EmailVerified(account.EmailVerified)
	if account.DisplayName != "" {
		params = params.DisplayName(account.DisplayName)
	}

	record, err := d.client.CreateUser(ctx, params)
	if err != nil {
		return nil, d.classify("create account", err)
	}
	return toAccount(record), nil
}

func (d *FirebaseDirectory) GetAccount(ctx context.Context, uid string) (*Account, error) {
	record, err := d.client.GetUser(ctx, uid)
	if err != nil {
		return nil, d.classify("get account", err)
	}
	return toAccount(record), nil
}

func (d *FirebaseDirectory) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	record, err := d.client.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, d.classify("get account by email", err)
	}
	return toAccount(record), nil
}

func (d *FirebaseDirectory) UpdateAccount(ctx context.Context, uid string, update AccountUpdate) (*Account, error) {
	if update.IsEmpty() {
		return nil, &Error{Kind: KindInvalidArgument, Code: CodeInvalidArgument, Message: "update parameters must not be empty"}
	}

	params := &auth.UserToUpdate{}
	if update.Email != nil {
		params = params.Email(*update.Email)
	}
	if update.Password != nil {
		params = params.Password(*update.Password)
	}
	if update.DisplayName != nil {
		params = params.DisplayName(*update.DisplayName)
	}

	record, err := d.client.UpdateUser(ctx, uid, params)
	if err != nil {
		return nil, d.classify("update account", err)
	}
	return toAccount(record), nil
}

func (d *FirebaseDirectory) DeleteAccount(ctx context.Context, uid string) error {
	if err := d.client.DeleteUser(ctx, uid); err != nil {
		return d.classify("delete account", err)
	}
	return nil
}

func (d *FirebaseDirectory) SetClaims(ctx context.Context, uid string, claims map[string]interface{}) error {
	if err := d.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return d.classify("set claims", err)
	}
	return nil
}

func (d *FirebaseDirectory) ListAccounts(ctx context.Context, pageSize int, pageToken string) (*Page, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	pager := iterator.NewPager(d.client.Users(ctx, ""), pageSize, pageToken)
	var records []*auth.ExportedUserRecord
	next, err := pager.NextPage(&records)
	if err != nil {
		return nil, d.classify("list accounts", err)
	}

	page := &Page{Accounts: make([]Account, 0, len(records)), NextPageToken: next}
	for _, r := range records {
		if r == nil || r.UserRecord == nil {
			continue
		}
		page.Accounts = append(page.Accounts, *toAccount(r.UserRecord))
	}
	return page, nil
}

// classify turns a Firebase error into a *Error using the SDK's typed
// predicates.
func (d *FirebaseDirectory) classify(op string, err error) *Error {
	de := classifyFirebaseError(err)
	d.logger.Debug("Firebase auth call failed",
		zap.String("operation", op),
		zap.String("code", de.Code),
		zap.String("kind", de.Kind.String()),
		zap.Error(err),
	)
	return de
}

func classifyFirebaseError(err error) *Error {
	de := &Error{Kind: KindProvider, Code: CodeInternalError, Message: err.Error(), Err: err}
	switch {
	case auth.IsUserNotFound(err):
		de.Kind, de.Code = KindNotFound, CodeUserNotFound
	case auth.IsEmailAlreadyExists(err):
		de.Kind, de.Code = KindAlreadyExists, CodeEmailAlreadyExists
	case auth.IsUIDAlreadyExists(err):
		de.Kind, de.Code = KindAlreadyExists, CodeUIDAlreadyExists
	case auth.IsPhoneNumberAlreadyExists(err):
		de.Kind, de.Code = KindAlreadyExists, CodePhoneAlreadyExists
	case errorutils.IsNotFound(err):
		de.Kind, de.Code = KindNotFound, CodeUserNotFound
	case errorutils.IsInvalidArgument(err):
		de.Kind, de.Code = KindInvalidArgument, CodeInvalidArgument
	case errorutils.IsPermissionDenied(err):
		de.Code = CodeInsufficientAccess
	case errorutils.IsUnauthenticated(err):
		de.Code = CodeUnauthenticated
	case errorutils.IsUnavailable(err):
		de.Code = CodeServiceUnavailable
	case isArgumentCheckError(err):
		de.Kind, de.Code = KindInvalidArgument, CodeInvalidArgument
	}
	return de
}

// platformErrorChecks match every error the SDK builds from a backend or
// transport failure.
var platformErrorChecks = []func(error) bool{
	errorutils.IsInvalidArgument,
	errorutils.IsFailedPrecondition,
	errorutils.IsOutOfRange,
	errorutils.IsUnauthenticated,
	errorutils.IsPermissionDenied,
	errorutils.IsNotFound,
	errorutils.IsConflict,
	errorutils.IsAborted,
	errorutils.IsAlreadyExists,
	errorutils.IsResourceExhausted,
	errorutils.IsCancelled,
	errorutils.IsDataLoss,
	errorutils.IsUnknown,
	errorutils.IsInternal,
	errorutils.IsUnavailable,
	errorutils.IsDeadlineExceeded,
}

// isArgumentCheckError reports whether err came from the SDK's own argument
// validation, such as a malformed email or oversized claims. Those are
// plain errors raised before any request is sent.
func isArgumentCheckError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	for _, hasCode := range platformErrorChecks {
		if hasCode(err) {
			return false
		}
	}
	return true
}

func toAccount(r *auth.UserRecord) *Account {
	if r == nil {
		return nil
	}
	a := &Account{
		EmailVerified: r.EmailVerified,
		Disabled:      r.Disabled,
		Claims:        r.CustomClaims,
	}
	if r.UserInfo != nil {
		a.UID = r.UID
		a.Email = r.Email
		a.DisplayName = r.DisplayName
		a.PhoneNumber = r.PhoneNumber
		a.PhotoURL = r.PhotoURL
	}
	if r.UserMetadata != nil {
		a.Metadata = Metadata{
			CreationTimestamp:  r.UserMetadata.CreationTimestamp,
			LastLogInTimestamp: r.UserMetadata.LastLogInTimestamp,
		}
	}
	return a
}

var _ Directory = (*FirebaseDirectory)(nil)
