package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondSuccess_MergesPayload(t *testing.T) {
	c, w := newTestContext()
	RespondSuccess(c, http.StatusCreated, "done", gin.H{"count": 2, "success": false})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"], "envelope flag wins over payload")
	assert.Equal(t, "done", body["message"])
	assert.Equal(t, float64(2), body["count"])
}

func TestRespondFailure(t *testing.T) {
	c, w := newTestContext()
	RespondFailure(c, http.StatusBadRequest, "bad")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, c.IsAborted())
	assert.Equal(t, map[string]interface{}{"success": false, "message": "bad"}, decode(t, w))
}

func TestRespondFailureWithCode(t *testing.T) {
	c, w := newTestContext()
	RespondFailureWithCode(c, http.StatusNotFound, "missing", "auth/user-not-found")

	assert.Equal(t, map[string]interface{}{
		"success": false, "message": "missing", "code": "auth/user-not-found",
	}, decode(t, w))
}

func TestRespondProviderError(t *testing.T) {
	c, w := newTestContext()
	RespondProviderError(c, http.StatusInternalServerError, "boom", "auth/internal-error")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]interface{}{
		"success": false,
		"error":   map[string]interface{}{"message": "boom", "code": "auth/internal-error"},
	}, decode(t, w))
	assert.Equal(t, "auth/internal-error", c.GetString(ProviderErrorCodeKey))
}

func TestRespondText(t *testing.T) {
	c, w := newTestContext()
	RespondText(c, http.StatusInternalServerError, "Internal Server Error")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.True(t, c.IsAborted())
}

func TestAPIError_WithDetailsCopies(t *testing.T) {
	withDetails := ErrNotFound.WithDetails("x")
	assert.Equal(t, "x", withDetails.Details)
	assert.Nil(t, ErrNotFound.Details)

	got, ok := IsAPIError(withDetails)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, got.StatusCode)
}
