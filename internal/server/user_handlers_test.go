package server

import (
	"fmt"
	"net/http"
	"testing"

	"snapgold/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMyProfilePhotoHandler(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	owner := createHandlerTestUser(t, db, 0)
	other := createHandlerTestUser(t, db, 0)
	category := createHandlerTestCategory(t, db, "Street", owner.ID)
	myPhoto := createHandlerTestPhoto(t, db, owner.ID, category.ID)
	otherPhoto := createHandlerTestPhoto(t, db, other.ID, category.ID)

	app := newAuthedApp(owner.ID)
	app.Put("/api/users/me/profile-photo", s.UpdateMyProfilePhoto)

	resp := doJSON(t, app, http.MethodPut, "/api/users/me/profile-photo",
		map[string]any{"photo_id": myPhoto.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me models.User
	decodeBody(t, resp, &me)
	assert.Equal(t, myPhoto.ID, me.ProfilePhotoID)
	assert.Equal(t, int64(10), me.GoldBalance, "first profile photo bonus")

	// Someone else's photo cannot become my profile photo.
	resp = doJSON(t, app, http.MethodPut, "/api/users/me/profile-photo",
		map[string]any{"photo_id": otherPhoto.ID})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	// Missing photo id is a validation error.
	resp = doJSON(t, app, http.MethodPut, "/api/users/me/profile-photo",
		map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	// Nonexistent photo.
	resp = doJSON(t, app, http.MethodPut, "/api/users/me/profile-photo",
		map[string]any{"photo_id": 9999})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetUserProfileHandler(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	user := createHandlerTestUser(t, db, 42)

	app := newAuthedApp(user.ID)
	app.Get("/api/users/:id", s.GetUserProfile)

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", user.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.User
	decodeBody(t, resp, &got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, int64(42), got.GoldBalance)

	resp = doJSON(t, app, http.MethodGet, "/api/users/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetUserPhotosHandler(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	owner := createHandlerTestUser(t, db, 0)
	category := createHandlerTestCategory(t, db, "Street", owner.ID)
	for i := 0; i < 4; i++ {
		createHandlerTestPhoto(t, db, owner.ID, category.ID)
	}

	app := newAuthedApp(owner.ID)
	app.Get("/api/users/:id/photos", s.GetUserPhotos)

	resp := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/users/%d/photos?limit=3", owner.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var photos []models.Photo
	decodeBody(t, resp, &photos)
	assert.Len(t, photos, 3)
}
