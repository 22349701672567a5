package repository

import (
	"context"
	"errors"

	"snapgold/internal/models"

	"gorm.io/gorm"
)

// PhotoRepository defines persistence operations for photos and their streams.
type PhotoRepository interface {
	Insert(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	GetByID(ctx context.Context, id uint) (*models.Photo, error)
	Update(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	UpdateStatus(ctx context.Context, id uint, status models.PhotoStatus) error
	Delete(ctx context.Context, id uint) error
	// GetCategoryPhotoStream pages the active photos of a category, newest first.
	GetCategoryPhotoStream(ctx context.Context, categoryID uint, limit, offset int) ([]models.Photo, error)
	// GetUserPhotoStream pages a user's active photos, newest first.
	GetUserPhotoStream(ctx context.Context, userID uint, limit, offset int) ([]models.Photo, error)
}

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository returns a new PhotoRepository implementation.
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Insert(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	if photo.UserID == 0 {
		return nil, models.NewValidationError("photo must have an owner")
	}
	if photo.CategoryID == 0 {
		return nil, models.NewValidationError("photo must belong to a category")
	}
	if photo.Status == "" {
		photo.Status = models.PhotoStatusActive
	}
	if !photo.Status.Valid() {
		return nil, models.NewValidationError("unknown photo status")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Denormalize the category name at write time. The copy is not
		// re-synced on later renames (accepted staleness window).
		var category models.Category
		if err := tx.First(&category, photo.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Category", photo.CategoryID)
			}
			return models.NewDataLayerError(err)
		}
		photo.CategoryName = category.Name
		photo.GoldCount = 0
		photo.SchemaVersion = models.CurrentSchemaVersion
		if err := tx.Create(photo).Error; err != nil {
			return models.NewDataLayerError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, photo.ID)
}

func (r *photoRepository) GetByID(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Annotations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Annotations.FromUser").
		First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Photo", id)
		}
		return nil, models.NewDataLayerError(err)
	}
	return &photo, nil
}

func (r *photoRepository) Update(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	if !photo.Status.Valid() {
		return nil, models.NewValidationError("unknown photo status")
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Photo
		if err := tx.First(&current, photo.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Photo", photo.ID)
			}
			return models.NewDataLayerError(err)
		}

		updates := map[string]interface{}{
			"caption": photo.Caption,
			"status":  photo.Status,
		}
		if photo.CategoryID != 0 && photo.CategoryID != current.CategoryID {
			var category models.Category
			if err := tx.First(&category, photo.CategoryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewNotFoundError("Category", photo.CategoryID)
				}
				return models.NewDataLayerError(err)
			}
			updates["category_id"] = category.ID
			updates["category_name"] = category.Name
		}

		// GoldCount is owned by the annotation path; it is never written
		// from caller-supplied state.
		if err := tx.Model(&current).Updates(updates).Error; err != nil {
			return models.NewDataLayerError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, photo.ID)
}

func (r *photoRepository) UpdateStatus(ctx context.Context, id uint, status models.PhotoStatus) error {
	if !status.Valid() {
		return models.NewValidationError("unknown photo status")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Photo{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return models.NewDataLayerError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Photo", id)
	}
	return nil
}

func (r *photoRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Photo{}).
			Where("id = ?", id).
			Update("status", models.PhotoStatusDeleted)
		if res.Error != nil {
			return models.NewDataLayerError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Photo", id)
		}
		if err := tx.Delete(&models.Photo{}, id).Error; err != nil {
			return models.NewDataLayerError(err)
		}
		return nil
	})
	return err
}

func (r *photoRepository) GetCategoryPhotoStream(ctx context.Context, categoryID uint, limit, offset int) ([]models.Photo, error) {
	return r.stream(ctx, "category_id = ?", categoryID, limit, offset)
}

func (r *photoRepository) GetUserPhotoStream(ctx context.Context, userID uint, limit, offset int) ([]models.Photo, error) {
	return r.stream(ctx, "user_id = ?", userID, limit, offset)
}

func (r *photoRepository) stream(ctx context.Context, cond string, arg uint, limit, offset int) ([]models.Photo, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	var photos []models.Photo
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where(cond, arg).
		Where("status = ?", models.PhotoStatusActive).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&photos).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}
	return photos, nil
}
