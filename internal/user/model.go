// File: internal/user/model.go
package user

// CreateUserRequest is the body of POST /createUser.
type CreateUserRequest struct {
	FirstName string `json:"fname" binding:"required"`
	LastName  string `json:"lname" binding:"required"`
}

// Fields returns the stored document fields.
func (r CreateUserRequest) Fields() map[string]interface{} {
	return map[string]interface{}{
		"firstName": r.FirstName,
		"lastName":  r.LastName,
	}
}
