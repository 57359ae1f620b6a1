package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexcard/backend/internal/models"
)

func TestGetProfileCreatesOnFirstAccess(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "user-1")

	rec := env.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var prof models.Profile
	decodeData(t, rec, &prof)
	assert.Equal(t, "user-1", prof.UserID)
	assert.Equal(t, "user-1@example.com", prof.Email)
}

func TestUpsertProfile(t *testing.T) {
	env := newTestEnv(t)
	token := mintToken(t, "user-1")

	name := "Jordan"
	photo := "https://example.com/avatar.png"
	rec := env.do(t, http.MethodPost, "/api/users", token, models.UpsertProfileRequest{
		DisplayName: &name,
		PhotoURL:    &photo,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var prof models.Profile
	decodeData(t, rec, &prof)
	assert.Equal(t, "Jordan", prof.DisplayName)
	assert.Equal(t, photo, prof.PhotoURL)

	// Subsequent reads return the saved profile.
	rec = env.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &prof)
	assert.Equal(t, "Jordan", prof.DisplayName)
}

func TestProfileRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
