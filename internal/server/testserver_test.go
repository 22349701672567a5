package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"snapgold/internal/config"
	"snapgold/internal/models"
	"snapgold/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Photo{},
		&models.Annotation{},
		&models.GoldTransaction{},
		&models.IapPurchase{},
		&models.Report{},
	))
	return db
}

func handlerTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:                  "test-secret-key-12345678901234567890123456789012",
		Port:                       "8480",
		Env:                        "test",
		WelcomeGold:                100,
		FirstProfilePhotoGold:      10,
		CategoryCreationGold:       10,
		CacheTTLSeconds:            300,
		DisallowedCategoryPrefixes: "snapgold,admin",
	}
}

// newTestServer wires a Server against an in-memory database with no Redis,
// so aggregate reads hit the database directly.
func newTestServer(t *testing.T, db *gorm.DB) *Server {
	t.Helper()
	cfg := handlerTestConfig()
	transfer := repository.NewGoldTransferExecutor(db)
	return &Server{
		config:         cfg,
		db:             db,
		transfer:       transfer,
		userRepo:       repository.NewUserRepository(db, transfer, cfg),
		categoryRepo:   repository.NewCategoryRepository(db, transfer, cfg),
		photoRepo:      repository.NewPhotoRepository(db),
		annotationRepo: repository.NewAnnotationRepository(db, transfer),
		reportRepo:     repository.NewReportRepository(db),
		iapRepo:        repository.NewIapRepository(db, transfer),
		gallery:        repository.NewGalleryRepository(db),
	}
}

// newAuthedApp returns a fiber app whose requests run as the given user,
// bypassing token validation. Route registration is left to the caller.
func newAuthedApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
	return app
}

func createHandlerTestUser(t *testing.T, db *gorm.DB, balance int64) *models.User {
	t.Helper()
	user := &models.User{
		RegistrationReference: uuid.NewString(),
		GoldBalance:           balance,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createHandlerTestCategory(t *testing.T, db *gorm.DB, name string, creatorID uint) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, CreatedByUserID: creatorID}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createHandlerTestPhoto(t *testing.T, db *gorm.DB, userID, categoryID uint) *models.Photo {
	t.Helper()
	photo := &models.Photo{
		UserID:      userID,
		CategoryID:  categoryID,
		StandardURL: "https://example.com/" + uuid.NewString() + ".jpg",
		Status:      models.PhotoStatusActive,
	}
	require.NoError(t, db.Create(photo).Error)
	return photo
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}
