package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"campus_identity_backend/internal/docstore"
	"campus_identity_backend/internal/docstore/docstoretest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newRouter(store docstore.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	svc := NewService(NewDocumentRepository(store), zap.NewNop())
	NewHandler(svc, zap.NewNop()).RegisterRoutes(&r.RouterGroup)
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

// UserDocumentsTestSuite runs the handlers against a real SQL document store.
type UserDocumentsTestSuite struct {
	suite.Suite
	store  *docstore.GormStore
	router *gin.Engine
}

func (s *UserDocumentsTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(filepath.Join(s.T().TempDir(), "docs.db")), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	s.Require().NoError(err)
	store, err := docstore.NewGormStore(db, zap.NewNop())
	s.Require().NoError(err)
	s.store = store
	s.router = newRouter(store)
}

func (s *UserDocumentsTestSuite) createUser(first, last string) string {
	w := do(s.router, http.MethodPost, "/createUser", gin.H{"fname": first, "lname": last})
	s.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	prefix, suffix := "Document created with ID: ", " បានជោគជ័យ"
	s.Require().True(strings.HasPrefix(body, prefix) && strings.HasSuffix(body, suffix), body)
	id := strings.TrimSuffix(strings.TrimPrefix(body, prefix), suffix)
	s.Require().Equal(fmt.Sprintf(CreatedTextFormat, id), body)
	return id
}

func (s *UserDocumentsTestSuite) TestEmptyCollectionIs404() {
	w := do(s.router, http.MethodGet, "/getUsers", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("No users found", w.Body.String())
}

func (s *UserDocumentsTestSuite) TestCreateGetListDelete() {
	id := s.createUser("Ada", "Lovelace")
	s.createUser("Alan", "Turing")

	w := do(s.router, http.MethodGet, "/getUserById?id="+id, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var got map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal(map[string]interface{}{"id": id, "firstName": "Ada", "lastName": "Lovelace"}, got)

	w = do(s.router, http.MethodGet, "/getUsers", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var all []map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &all))
	s.Len(all, 2)

	w = do(s.router, http.MethodDelete, "/deleteUserById?id="+id, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(fmt.Sprintf("User with ID %s deleted successfully.", id), w.Body.String())

	w = do(s.router, http.MethodGet, "/getUserById?id="+id, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("User not found", w.Body.String())

	w = do(s.router, http.MethodDelete, "/deleteUserById?id="+id, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func TestUserDocuments(t *testing.T) {
	suite.Run(t, new(UserDocumentsTestSuite))
}

func TestValidationFailures_NeverCallStore(t *testing.T) {
	cases := []struct {
		name   string
		method string
		target string
		body   interface{}
		status int
		text   string
	}{
		{"create missing lname", http.MethodPost, "/createUser", gin.H{"fname": "Ada"}, http.StatusBadRequest, "First name and last name are required."},
		{"create no body", http.MethodPost, "/createUser", nil, http.StatusBadRequest, "First name and last name are required."},
		{"get missing id", http.MethodGet, "/getUserById", nil, http.StatusBadRequest, "User ID is required"},
		{"delete missing id", http.MethodDelete, "/deleteUserById", nil, http.StatusBadRequest, "User ID is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := new(docstoretest.MockStore)
			w := do(newRouter(store), tc.method, tc.target, tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.text, w.Body.String())
			assert.Empty(t, store.Calls)
		})
	}

	store := new(docstoretest.MockStore)
	w := do(newRouter(store), http.MethodGet, "/deleteUserById?id=x", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Empty(t, store.Calls)
}

func TestStoreFailuresAre500(t *testing.T) {
	boom := errors.New("unavailable")
	store := new(docstoretest.MockStore)
	store.On("Create", mock.Anything, docstore.CollectionUsers, mock.Anything).Return("", boom)
	store.On("List", mock.Anything, docstore.CollectionUsers).Return(nil, boom)
	store.On("Get", mock.Anything, docstore.CollectionUsers, "x").Return(nil, boom)
	r := newRouter(store)

	w := do(r, http.MethodPost, "/createUser", gin.H{"fname": "A", "lname": "B"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error creating document", w.Body.String())

	w = do(r, http.MethodGet, "/getUsers", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error fetching users", w.Body.String())

	w = do(r, http.MethodGet, "/getUserById?id=x", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error fetching user", w.Body.String())

	w = do(r, http.MethodDelete, "/deleteUserById?id=x", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error deleting user", w.Body.String())
}

func TestDelete_FailureAfterLookupIs500(t *testing.T) {
	store := new(docstoretest.MockStore)
	store.On("Get", mock.Anything, docstore.CollectionUsers, "x").
		Return(&docstore.Document{ID: "x", Fields: map[string]interface{}{}}, nil)
	store.On("Delete", mock.Anything, docstore.CollectionUsers, "x").Return(errors.New("unavailable"))

	w := do(newRouter(store), http.MethodDelete, "/deleteUserById?id=x", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error deleting user", w.Body.String())
	store.AssertExpectations(t)
}
