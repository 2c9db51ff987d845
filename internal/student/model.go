// File: internal/student/model.go
package student

import "campus_identity_backend/internal/directory"

// RoleStudent is the role claim every student account carries.
const RoleStudent = "student"

// CreateStudentRequest is the body of POST /createStudentV2.
type CreateStudentRequest struct {
	Email          string `json:"email" binding:"required"`
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	DateOfBirth    string `json:"dateOfBirth"`
	EnrollmentDate string `json:"enrollmentDate"`
	Major          string `json:"major"`
}

// Claims builds the profile claims for a new student. Optional fields are
// left out when empty.
func (r CreateStudentRequest) Claims() map[string]interface{} {
	claims := map[string]interface{}{
		"firstName": r.FirstName,
		"lastName":  r.LastName,
		"role":      RoleStudent,
	}
	putIfSet(claims, "dateOfBirth", r.DateOfBirth)
	putIfSet(claims, "enrollmentDate", r.EnrollmentDate)
	putIfSet(claims, "major", r.Major)
	return claims
}

// UpdateStudentRequest is the body of /updateStudentV2. Every field is optional.
type UpdateStudentRequest struct {
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	DateOfBirth    string `json:"dateOfBirth"`
	EnrollmentDate string `json:"enrollmentDate"`
	Major          string `json:"major"`
}

// Claims returns the replacement claims for the supplied profile fields, or
// nil when no profile field was supplied. Fields not supplied are dropped
// from the stored claims.
func (r UpdateStudentRequest) Claims() map[string]interface{} {
	claims := map[string]interface{}{}
	putIfSet(claims, "firstName", r.FirstName)
	putIfSet(claims, "lastName", r.LastName)
	putIfSet(claims, "dateOfBirth", r.DateOfBirth)
	putIfSet(claims, "enrollmentDate", r.EnrollmentDate)
	putIfSet(claims, "major", r.Major)
	if len(claims) == 0 {
		return nil
	}
	claims["role"] = RoleStudent
	return claims
}

// DeleteStudentRequest carries the uid in the body; the query string is the fallback.
type DeleteStudentRequest struct {
	UID string `json:"uid"`
}

// StudentClaims is one entry of the student listing.
type StudentClaims struct {
	UID    string                 `json:"uid"`
	Email  string                 `json:"email"`
	Claims map[string]interface{} `json:"claims"`
}

// StudentDetail is returned by /getStudentByIdV2.
type StudentDetail struct {
	UID         string                 `json:"uid"`
	Email       string                 `json:"email"`
	DisplayName string                 `json:"displayName"`
	Claims      map[string]interface{} `json:"claims"`
}

// IsStudent reports whether the account's role claim is "student".
func IsStudent(a *directory.Account) bool {
	return a.Role() == RoleStudent
}

func toStudentDetail(a *directory.Account) *StudentDetail {
	return &StudentDetail{
		UID:         a.UID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Claims:      claimsOrEmpty(a.Claims),
	}
}

func claimsOrEmpty(claims map[string]interface{}) map[string]interface{} {
	if claims == nil {
		return map[string]interface{}{}
	}
	return claims
}

func putIfSet(m map[string]interface{}, key, value string) {
	if value != "" {
		m[key] = value
	}
}
