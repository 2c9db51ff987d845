package student

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"campus_identity_backend/internal/config"
	"campus_identity_backend/internal/directory"
	"campus_identity_backend/internal/directory/directorytest"
	"campus_identity_backend/internal/docstore"
	"campus_identity_backend/internal/docstore/docstoretest"
	"campus_identity_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testConfig(pageSize int) *config.Config {
	return &config.Config{DirectoryPageSize: pageSize, StudentDefaultPassword: "defaultPassword"}
}

func newRouter(dir directory.Directory, store docstore.Store, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(middleware.MethodNotAllowed())
	svc := NewService(dir, store, cfg, zap.NewNop())
	NewHandler(svc, zap.NewNop()).RegisterRoutes(&r.RouterGroup, middleware.StudentCORS(cfg))
	return r
}

func do(r *gin.Engine, method, target string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		raw, _ := json.Marshal(body)
		req = httptest.NewRequest(method, target, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateStudent_Scenario(t *testing.T) {
	fake := directorytest.NewFake()
	r := newRouter(fake, new(docstoretest.MockStore), testConfig(100))

	w := do(r, http.MethodPost, "/createStudentV2", gin.H{"email": "a@b.com", "firstName": "A", "lastName": "B"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 1, fake.Len())

	acct, err := fake.GetAccountByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Student created successfully: %s", acct.UID), w.Body.String())
	assert.Equal(t, "A B", acct.DisplayName)
	assert.False(t, acct.EmailVerified)
	assert.Equal(t, map[string]interface{}{"firstName": "A", "lastName": "B", "role": "student"}, acct.Claims)
}

func TestCreateStudent_UsesConfiguredPassword(t *testing.T) {
	m := new(directorytest.MockDirectory)
	m.On("CreateAccount", mock.Anything, directory.NewAccount{
		Email: "a@b.com", Password: "changeMe!", DisplayName: "A B", EmailVerified: false,
	}).Return(&directory.Account{UID: "s1", Email: "a@b.com"}, nil)
	m.On("SetClaims", mock.Anything, "s1", map[string]interface{}{
		"firstName": "A", "lastName": "B", "major": "Math", "role": "student",
	}).Return(nil)

	cfg := testConfig(100)
	cfg.StudentDefaultPassword = "changeMe!"
	r := newRouter(m, new(docstoretest.MockStore), cfg)

	w := do(r, http.MethodPost, "/createStudentV2", gin.H{"email": "a@b.com", "firstName": "A", "lastName": "B", "major": "Math"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Student created successfully: s1", w.Body.String())
	m.AssertExpectations(t)
}

func TestCreateStudent_ProviderFailureIsPlain500(t *testing.T) {
	fake := directorytest.NewFake()
	fake.Seed(directory.Account{UID: "x", Email: "a@b.com"})
	r := newRouter(fake, new(docstoretest.MockStore), testConfig(100))

	w := do(r, http.MethodPost, "/createStudentV2", gin.H{"email": "a@b.com", "firstName": "A", "lastName": "B"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, InternalServerErrorText, w.Body.String())
}

func TestValidationAndMethodFailures_NeverCallProviders(t *testing.T) {
	cases := []struct {
		name   string
		method string
		target string
		body   interface{}
		status int
		text   string
	}{
		{"create missing lastName", http.MethodPost, "/createStudentV2", gin.H{"email": "a@b.com", "firstName": "A"}, http.StatusBadRequest, "Missing required fields: email, firstName, lastName"},
		{"create wrong method", http.MethodGet, "/createStudentV2", nil, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"list wrong method", http.MethodPost, "/getAllStudentClaimsV2", nil, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"delete missing uid", http.MethodDelete, "/deleteStudentV2", gin.H{}, http.StatusBadRequest, "Missing required field: uid"},
		{"delete wrong method", http.MethodPost, "/deleteStudentV2", gin.H{"uid": "s1"}, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"update missing uid", http.MethodPatch, "/updateStudentV2", gin.H{"major": "Art"}, http.StatusBadRequest, "Missing required query parameter: uid"},
		{"update wrong method", http.MethodPut, "/updateStudentV2?uid=s1", gin.H{"major": "Art"}, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"get missing uid", http.MethodGet, "/getStudentByIdV2", nil, http.StatusBadRequest, "Missing required query parameter: uid"},
		{"get wrong method", http.MethodDelete, "/getStudentByIdV2?uid=s1", nil, http.StatusMethodNotAllowed, "Method Not Allowed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := new(directorytest.MockDirectory)
			store := new(docstoretest.MockStore)
			r := newRouter(dir, store, testConfig(100))

			w := do(r, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.text, w.Body.String())
			assert.Empty(t, dir.Calls)
			assert.Empty(t, store.Calls)
		})
	}
}

func TestListStudents_FiltersAcrossPages(t *testing.T) {
	fake := directorytest.NewFake()
	for i := 0; i < 7; i++ {
		role := "user"
		if i%2 == 0 {
			role = RoleStudent
		}
		fake.Seed(directory.Account{
			UID:    fmt.Sprintf("u%02d", i),
			Email:  fmt.Sprintf("u%02d@b.com", i),
			Claims: map[string]interface{}{"role": role},
		})
	}
	fake.Seed(directory.Account{UID: "u99", Email: "noclaims@b.com"})
	r := newRouter(fake, new(docstoretest.MockStore), testConfig(3))

	w := do(r, http.MethodGet, "/getAllStudentClaimsV2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success  bool            `json:"success"`
		Students []StudentClaims `json:"students"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Students, 4)
	for _, s := range body.Students {
		assert.Equal(t, RoleStudent, s.Claims["role"])
	}
	assert.Equal(t, 3, fake.ListCalls)
}

func TestListStudents_PageFailureIs500WithoutPartialList(t *testing.T) {
	fake := directorytest.NewFake()
	for i := 0; i < 5; i++ {
		fake.Seed(directory.Account{UID: fmt.Sprintf("s%d", i), Claims: map[string]interface{}{"role": RoleStudent}})
	}
	fake.FailListOnPage = 2
	r := newRouter(fake, new(docstoretest.MockStore), testConfig(2))

	w := do(r, http.MethodGet, "/getAllStudentClaimsV2", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, InternalServerErrorText, w.Body.String())
}

func TestDeleteStudent_DeletesAccountThenDocument(t *testing.T) {
	fake := directorytest.NewFake()
	fake.Seed(directory.Account{UID: "s1", Email: "s1@b.com"})
	store := new(docstoretest.MockStore)
	store.On("Delete", mock.Anything, docstore.CollectionStudents, "s1").Return(nil)
	r := newRouter(fake, store, testConfig(100))

	w := do(r, http.MethodDelete, "/deleteStudentV2", gin.H{"uid": "s1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Student with UID s1 deleted successfully.", w.Body.String())
	assert.Equal(t, 0, fake.Len())
	store.AssertExpectations(t)
}

func TestDeleteStudent_UIDFromQuery(t *testing.T) {
	fake := directorytest.NewFake()
	fake.Seed(directory.Account{UID: "s1"})
	store := new(docstoretest.MockStore)
	store.On("Delete", mock.Anything, docstore.CollectionStudents, "s1").Return(nil)
	r := newRouter(fake, store, testConfig(100))

	w := do(r, http.MethodDelete, "/deleteStudentV2?uid=s1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteStudent_MissingDocumentStillSucceeds(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "docs.db")), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	store, err := docstore.NewGormStore(db, zap.NewNop())
	require.NoError(t, err)

	fake := directorytest.NewFake()
	fake.Seed(directory.Account{UID: "s1", Email: "s1@b.com"})
	r := newRouter(fake, store, testConfig(100))

	w := do(r, http.MethodDelete, "/deleteStudentV2", gin.H{"uid": "s1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, fake.Len())
}

func TestDeleteStudent_DocumentFailureLeavesAccountDeleted(t *testing.T) {
	fake := directorytest.NewFake()
	fake.Seed(directory.Account{UID: "s1"})
	store := new(docstoretest.MockStore)
	store.On("Delete", mock.Anything, docstore.CollectionStudents, "s1").Return(errors.New("unavailable"))
	r := newRouter(fake, store, testConfig(100))

	w := do(r, http.MethodDelete, "/deleteStudentV2", gin.H{"uid": "s1"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, InternalServerErrorText, w.Body.String())
	assert.Equal(t, 0, fake.Len(), "account removal is not rolled back")
}

func TestDeleteStudent_AccountFailureSkipsDocument(t *testing.T) {
	store := new(docstoretest.MockStore)
	r := newRouter(directorytest.NewFake(), store, testConfig(100))

	w := do(r, http.MethodDelete, "/deleteStudentV2", gin.H{"uid": "missing"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStudent_ReplacesClaims(t *testing.T) {
	fake := directorytest.NewFake()
	fake.Seed(directory.Account{UID: "s1", Email: "old@b.com", Claims: map[string]interface{}{
		"firstName": "A", "lastName": "B", "major": "Math", "role": RoleStudent,
	}})
	r := newRouter(fake, new(docstoretest.MockStore), testConfig(100))

	w := do(r, http.MethodPatch, "/updateStudentV2?uid=s1", gin.H{"major": "Art"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Student with UID s1 updated successfully.", w.Body.String())

	acct, err := fake.GetAccount(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"major": "Art", "role": RoleStudent}, acct.Claims)
	assert.Equal(t, "old@b.com", acct.Email)
}

func TestUpdateStudent_ClaimsBeforeEmail(t *testing.T) {
	m := new(directorytest.MockDirectory)
	setClaims := m.On("SetClaims", mock.Anything, "s1", map[string]interface{}{"firstName": "Z", "role": RoleStudent}).Return(nil)
	m.On("UpdateAccount", mock.Anything, "s1", mock.MatchedBy(func(u directory.AccountUpdate) bool {
		return u.Email != nil && *u.Email == "new@b.com" && u.Password == nil
	})).Return(&directory.Account{UID: "s1"}, nil).NotBefore(setClaims)
	r := newRouter(m, new(docstoretest.MockStore), testConfig(100))

	w := do(r, http.MethodPost, "/updateStudentV2?uid=s1", gin.H{"firstName": "Z", "email": "new@b.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	m.AssertExpectations(t)
}

func TestUpdateStudent_EmailOnlyKeepsClaims(t *testing.T) {
	fake := directorytest.NewFake()
	fake.Seed(directory.Account{UID: "s1", Email: "old@b.com", Claims: map[string]interface{}{"major": "Math", "role": RoleStudent}})
	r := newRouter(fake, new(docstoretest.MockStore), testConfig(100))

	w := do(r, http.MethodPatch, "/updateStudentV2?uid=s1", gin.H{"email": "new@b.com"})
	require.Equal(t, http.StatusOK, w.Code)

	acct, err := fake.GetAccount(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "new@b.com", acct.Email)
	assert.Equal(t, map[string]interface{}{"major": "Math", "role": RoleStudent}, acct.Claims)
}

func TestUpdateStudent_NothingSuppliedOnlyChecksAccount(t *testing.T) {
	m := new(directorytest.MockDirectory)
	m.On("GetAccount", mock.Anything, "s1").Return(&directory.Account{UID: "s1"}, nil).Once()
	r := newRouter(m, new(docstoretest.MockStore), testConfig(100))

	w := do(r, http.MethodPatch, "/updateStudentV2?uid=s1", gin.H{})
	assert.Equal(t, http.StatusOK, w.Code)
	m.AssertExpectations(t)
	m.AssertNumberOfCalls(t, "GetAccount", 1)
	m.AssertNotCalled(t, "SetClaims", mock.Anything, mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "UpdateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStudent_NothingSuppliedUnknownUIDIs500(t *testing.T) {
	fake := directorytest.NewFake()
	r := newRouter(fake, new(docstoretest.MockStore), testConfig(100))

	w := do(r, http.MethodPatch, "/updateStudentV2?uid=ghost", gin.H{})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, InternalServerErrorText, w.Body.String())
	assert.Equal(t, 0, fake.Len())
}

func TestGetStudent(t *testing.T) {
	m := new(directorytest.MockDirectory)
	m.On("GetAccount", mock.Anything, "s1").Return(&directory.Account{
		UID: "s1", Email: "s1@b.com", DisplayName: "A B", Claims: map[string]interface{}{"role": RoleStudent},
	}, nil).Once()
	r := newRouter(m, new(docstoretest.MockStore), testConfig(100))

	w := do(r, http.MethodGet, "/getStudentByIdV2?uid=s1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool          `json:"success"`
		Student StudentDetail `json:"student"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, StudentDetail{UID: "s1", Email: "s1@b.com", DisplayName: "A B", Claims: map[string]interface{}{"role": RoleStudent}}, body.Student)
	m.AssertExpectations(t)
	m.AssertNumberOfCalls(t, "GetAccount", 1)
}

func TestGetStudent_NotFoundIs500(t *testing.T) {
	r := newRouter(directorytest.NewFake(), new(docstoretest.MockStore), testConfig(100))

	w := do(r, http.MethodGet, "/getStudentByIdV2?uid=nobody", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, InternalServerErrorText, w.Body.String())
}

func TestStudentCORS_PreflightShortCircuits(t *testing.T) {
	cfg := testConfig(100)
	cfg.StudentCORSEnabled = true
	cfg.StudentCORSAllowedOrigins = []string{"https://school.example"}
	cfg.StudentCORSAllowedMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	cfg.StudentCORSAllowedHeaders = []string{"Content-Type"}
	cfg.StudentCORSAllowCredentials = true

	dir := new(directorytest.MockDirectory)
	r := newRouter(dir, new(docstoretest.MockStore), cfg)

	for _, path := range []string{"/createStudentV2", "/getAllStudentClaimsV2", "/deleteStudentV2", "/updateStudentV2", "/getStudentByIdV2"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://school.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code, path)
		assert.Equal(t, "https://school.example", w.Header().Get("Access-Control-Allow-Origin"), path)
	}
	assert.Empty(t, dir.Calls)

	dir.On("GetAccount", mock.Anything, "s1").Return(&directory.Account{UID: "s1"}, nil)
	req := httptest.NewRequest(http.MethodGet, "/getStudentByIdV2?uid=s1", nil)
	req.Header.Set("Origin", "https://school.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://school.example", w.Header().Get("Access-Control-Allow-Origin"))
}
