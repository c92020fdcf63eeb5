package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/handlers"
	modelUser "habitTrackerAPI/internal/types/user"
	"habitTrackerAPI/services"
)

func newTestRouter() (*services.MemoryStore, http.Handler) {
	store := services.NewMemoryStoreBare()
	return store, handlers.NewRouter(store)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// TestSignUpAndLoginFlow simulates the complete flow: register, list,
// fetch, update, then log in with the same credentials.
func TestSignUpAndLoginFlow(t *testing.T) {
	_, router := newTestRouter()

	rr := doJSON(t, router, http.MethodPost, "/users", map[string]string{
		"name":     "Amy",
		"email":    "a@x.com",
		"password": "pw123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created modelUser.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 0, created.Streak)
	assert.NotContains(t, rr.Body.String(), "pw123")

	rr = doJSON(t, router, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var users []modelUser.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &users))
	require.Len(t, users, 1)

	rr = doJSON(t, router, http.MethodGet, "/users/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodPatch, "/users/"+created.ID, map[string]any{
		"name":       "Amy B",
		"avatar_url": "https://example.com/amy.png",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var updated modelUser.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Amy B", updated.Name)
	assert.Equal(t, "https://example.com/amy.png", updated.AvatarURL)

	rr = doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{
		"email":    "a@x.com",
		"password": "pw123",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var loggedIn modelUser.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loggedIn))
	assert.Equal(t, created.ID, loggedIn.ID)
}

func TestLoginUniformRejection(t *testing.T) {
	_, router := newTestRouter()

	rr := doJSON(t, router, http.MethodPost, "/users", map[string]string{
		"name": "Amy", "email": "a@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	wrongPassword := doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	unknownEmail := doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "pw123",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestCreateUserValidation(t *testing.T) {
	_, router := newTestRouter()

	rr := doJSON(t, router, http.MethodPost, "/users", map[string]string{
		"email": "a@x.com", "password": "pw123",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetUserNotFound(t *testing.T) {
	_, router := newTestRouter()

	rr := doJSON(t, router, http.MethodGet, "/users/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
