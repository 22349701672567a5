package repository

import (
	"context"
	"errors"
	"strings"

	"snapgold/internal/config"
	"snapgold/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for photo categories.
type CategoryRepository interface {
	// Create registers a new category name. First-of-name wins: a later
	// creation with the same name (case-insensitively) is rejected.
	Create(ctx context.Context, name string, createdByUserID uint) (*models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
}

type categoryRepository struct {
	db       *gorm.DB
	transfer GoldTransferExecutor
	cfg      *config.Config
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB, transfer GoldTransferExecutor, cfg *config.Config) CategoryRepository {
	return &categoryRepository{db: db, transfer: transfer, cfg: cfg}
}

// NormalizeCategoryName trims the name and collapses interior whitespace runs
// to single spaces. Returns an empty string for a blank name.
func NormalizeCategoryName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func (r *categoryRepository) validateName(name string) error {
	if name == "" {
		return models.NewValidationError("category name must not be empty")
	}
	if len(name) > 128 {
		return models.NewValidationError("category name is too long (max 128 characters)")
	}
	lower := strings.ToLower(name)
	for _, prefix := range r.cfg.CategoryPrefixDenyList() {
		if strings.HasPrefix(lower, prefix) {
			return models.NewValidationError("category name uses a reserved prefix")
		}
	}
	return nil
}

func (r *categoryRepository) Create(ctx context.Context, name string, createdByUserID uint) (*models.Category, error) {
	name = NormalizeCategoryName(name)
	if err := r.validateName(name); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:            name,
		CreatedByUserID: createdByUserID,
		SchemaVersion:   models.CurrentSchemaVersion,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).
			Where("LOWER(name) = ?", strings.ToLower(name)).
			Count(&count).Error; err != nil {
			return models.NewDataLayerError(err)
		}
		if count > 0 {
			return models.NewDuplicateError("a category with this name already exists")
		}
		if err := tx.Create(category).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.NewDuplicateError("a category with this name already exists")
			}
			return models.NewDataLayerError(err)
		}
		if r.cfg.CategoryCreationGold > 0 && createdByUserID != 0 {
			if _, err := r.transfer.ExecuteTx(tx, TransferParams{
				ToUserID:    createdByUserID,
				Amount:      r.cfg.CategoryCreationGold,
				Type:        models.CategoryUpVoteTransaction,
				SystemGiven: true,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewDataLayerError(err)
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}
	return categories, nil
}
