package repository

import (
	"testing"

	"snapgold/internal/config"
	"snapgold/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Photo{},
		&models.Annotation{},
		&models.GoldTransaction{},
		&models.IapPurchase{},
		&models.Report{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                       "0",
		JWTSecret:                  "test-secret",
		WelcomeGold:                100,
		FirstProfilePhotoGold:      10,
		CategoryCreationGold:       10,
		CacheTTLSeconds:            300,
		DisallowedCategoryPrefixes: "snapgold,admin",
		Env:                        "test",
	}
}

func createTestUser(t *testing.T, db *gorm.DB, balance int64) *models.User {
	t.Helper()
	user := &models.User{
		RegistrationReference: uuid.NewString(),
		GoldBalance:           balance,
		SchemaVersion:         models.CurrentSchemaVersion,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string, createdBy uint) *models.Category {
	t.Helper()
	category := &models.Category{
		Name:            name,
		CreatedByUserID: createdBy,
		SchemaVersion:   models.CurrentSchemaVersion,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	return category
}

func createTestPhoto(t *testing.T, db *gorm.DB, userID, categoryID uint) *models.Photo {
	t.Helper()
	photo := &models.Photo{
		UserID:        userID,
		CategoryID:    categoryID,
		StandardURL:   "https://example.com/" + uuid.NewString() + ".jpg",
		Status:        models.PhotoStatusActive,
		SchemaVersion: models.CurrentSchemaVersion,
	}
	if err := db.Create(photo).Error; err != nil {
		t.Fatalf("Failed to create test photo: %v", err)
	}
	return photo
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		t.Fatalf("Failed to reload user %d: %v", id, err)
	}
	return &user
}

func ledgerCount(t *testing.T, db *gorm.DB, txType models.TransactionType) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.GoldTransaction{}).
		Where("type = ?", txType).
		Count(&count).Error; err != nil {
		t.Fatalf("Failed to count ledger entries: %v", err)
	}
	return count
}
