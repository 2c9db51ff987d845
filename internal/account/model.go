// File: internal/account/model.go
package account

import (
	"net/http"
	"time"

	"campus_identity_backend/internal/directory"
)

// Roles an account may be given through these endpoints. "student" is
// reserved for the student endpoints.
const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleModerator = "moderator"
)

var allowedRoles = map[string]bool{
	RoleAdmin:     true,
	RoleUser:      true,
	RoleModerator: true,
}

// IsAllowedRole reports whether role may be assigned to a generic account.
func IsAllowedRole(role string) bool {
	return allowedRoles[role]
}

// CreateAccountRequest is the body of POST /createUserV2.
type CreateAccountRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// UIDRequest carries a uid in the body; the query string is the fallback.
type UIDRequest struct {
	UID string `json:"uid" form:"uid"`
}

// UpdateAccountRequest is the body of /updateUserV2. Empty strings count as
// not supplied.
type UpdateAccountRequest struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// ToUpdate returns the partial directory update for the supplied fields.
func (r UpdateAccountRequest) ToUpdate() directory.AccountUpdate {
	var u directory.AccountUpdate
	if r.Email != "" {
		u.Email = &r.Email
	}
	if r.Password != "" {
		u.Password = &r.Password
	}
	if r.DisplayName != "" {
		u.DisplayName = &r.DisplayName
	}
	return u
}

// SetPasswordRequest is the body of /setPasswordUserAccountV2.
type SetPasswordRequest struct {
	UID         string `json:"uid" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// EmailRequest carries an email in the body; the query string is the fallback.
type EmailRequest struct {
	Email string `json:"email" form:"email"`
}

// SetClaimsRequest is the body of /setCustomUserClaimsV2.
type SetClaimsRequest struct {
	UID    string                 `json:"uid"`
	Claims map[string]interface{} `json:"claims"`
}

// AccountSummary is returned by create and update.
type AccountSummary struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Role        string `json:"role,omitempty"`
}

// AccountMetadata mirrors the identity provider's timestamps as HTTP dates.
// LastSignInTime is null until the first sign in.
type AccountMetadata struct {
	CreationTime   *string `json:"creationTime"`
	LastSignInTime *string `json:"lastSignInTime"`
}

// AccountDetail is the full account view returned by the get endpoints.
type AccountDetail struct {
	UID           string                 `json:"uid"`
	Email         string                 `json:"email"`
	DisplayName   string                 `json:"displayName"`
	PhoneNumber   string                 `json:"phoneNumber"`
	PhotoURL      string                 `json:"photoURL"`
	EmailVerified bool                   `json:"emailVerified"`
	CustomClaims  map[string]interface{} `json:"customClaims"`
	Disabled      bool                   `json:"disabled"`
	Metadata      AccountMetadata        `json:"metadata"`
}

// ToAccountDetail converts a directory account to its API view.
func ToAccountDetail(a *directory.Account) AccountDetail {
	claims := a.Claims
	if claims == nil {
		claims = map[string]interface{}{}
	}
	return AccountDetail{
		UID:           a.UID,
		Email:         a.Email,
		DisplayName:   a.DisplayName,
		PhoneNumber:   a.PhoneNumber,
		PhotoURL:      a.PhotoURL,
		EmailVerified: a.EmailVerified,
		CustomClaims:  claims,
		Disabled:      a.Disabled,
		Metadata: AccountMetadata{
			CreationTime:   httpDate(a.Metadata.CreationTimestamp),
			LastSignInTime: httpDate(a.Metadata.LastLogInTimestamp),
		},
	}
}

// ToAccountDetails converts a slice of accounts.
func ToAccountDetails(accounts []directory.Account) []AccountDetail {
	out := make([]AccountDetail, 0, len(accounts))
	for i := range accounts {
		out = append(out, ToAccountDetail(&accounts[i]))
	}
	return out
}

func httpDate(millis int64) *string {
	if millis <= 0 {
		return nil
	}
	s := time.UnixMilli(millis).UTC().Format(http.TimeFormat)
	return &s
}
