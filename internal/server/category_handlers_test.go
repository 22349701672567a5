package server

import (
	"net/http"
	"testing"

	"snapgold/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryHandler(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	creator := createHandlerTestUser(t, db, 0)

	app := newAuthedApp(creator.ID)
	app.Post("/api/categories", s.CreateCategory)

	resp := doJSON(t, app, http.MethodPost, "/api/categories", map[string]any{
		"name": "  Street   Photography ",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Category
	decodeBody(t, resp, &created)
	assert.Equal(t, "Street Photography", created.Name)
	assert.Equal(t, creator.ID, created.CreatedByUserID)

	// The creator earns the category creation award.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, creator.ID).Error)
	assert.Equal(t, int64(10), reloaded.GoldBalance)
}

func TestCreateCategoryHandler_Duplicate(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	creator := createHandlerTestUser(t, db, 0)
	createHandlerTestCategory(t, db, "Sunsets", creator.ID)

	app := newAuthedApp(creator.ID)
	app.Post("/api/categories", s.CreateCategory)

	resp := doJSON(t, app, http.MethodPost, "/api/categories", map[string]any{
		"name": "sunsets",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestCreateCategoryHandler_Validation(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	creator := createHandlerTestUser(t, db, 0)

	app := newAuthedApp(creator.ID)
	app.Post("/api/categories", s.CreateCategory)

	for _, name := range []string{"", "   ", "admin picks"} {
		resp := doJSON(t, app, http.MethodPost, "/api/categories", map[string]any{
			"name": name,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "name %q", name)
		_ = resp.Body.Close()
	}
}

func TestGetCategoriesHandler(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	creator := createHandlerTestUser(t, db, 0)
	createHandlerTestCategory(t, db, "Wildlife", creator.ID)
	createHandlerTestCategory(t, db, "Macro", creator.ID)

	app := newAuthedApp(0)
	app.Get("/api/categories", s.GetCategories)
	app.Get("/api/categories/:id", s.GetCategory)

	resp := doJSON(t, app, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []models.Category
	decodeBody(t, resp, &categories)
	require.Len(t, categories, 2)
	assert.Equal(t, "Macro", categories[0].Name)
	assert.Equal(t, "Wildlife", categories[1].Name)

	resp = doJSON(t, app, http.MethodGet, "/api/categories/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetCategoryPhotosHandler(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db)
	owner := createHandlerTestUser(t, db, 0)
	category := createHandlerTestCategory(t, db, "Street", owner.ID)
	for i := 0; i < 3; i++ {
		createHandlerTestPhoto(t, db, owner.ID, category.ID)
	}

	app := newAuthedApp(0)
	app.Get("/api/categories/:id/photos", s.GetCategoryPhotos)

	resp := doJSON(t, app, http.MethodGet, "/api/categories/1/photos", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var photos []models.Photo
	decodeBody(t, resp, &photos)
	assert.Len(t, photos, 3)

	resp = doJSON(t, app, http.MethodGet, "/api/categories/9999/photos", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}
