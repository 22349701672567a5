package repository

import (
	"context"
	"errors"
	"fmt"

	"snapgold/internal/models"

	"gorm.io/gorm"
)

// AnnotationRepository defines persistence operations for photo annotations.
// An annotation with a gold grant is created atomically with the gold transfer
// backing it: if the transfer cannot be applied, no annotation appears.
type AnnotationRepository interface {
	Insert(ctx context.Context, annotation *models.Annotation) (*models.Annotation, error)
	GetByID(ctx context.Context, id uint) (*models.Annotation, error)
	ListByPhoto(ctx context.Context, photoID uint) ([]models.Annotation, error)
	// Delete retracts an annotation. The photo's gold count drops by the
	// annotation's grant, but the ledger and user balances are untouched:
	// retraction is not a refund.
	Delete(ctx context.Context, id uint) error
}

type annotationRepository struct {
	db       *gorm.DB
	transfer GoldTransferExecutor
}

// NewAnnotationRepository returns a new AnnotationRepository implementation.
func NewAnnotationRepository(db *gorm.DB, transfer GoldTransferExecutor) AnnotationRepository {
	return &annotationRepository{db: db, transfer: transfer}
}

func (r *annotationRepository) Insert(ctx context.Context, annotation *models.Annotation) (*models.Annotation, error) {
	if annotation.Text == "" {
		return nil, models.NewValidationError("annotation text is required")
	}
	if annotation.GoldCount < 0 {
		return nil, models.NewValidationError("annotation gold count must not be negative")
	}
	if annotation.FromUserID == 0 {
		return nil, models.NewValidationError("annotation must have an author")
	}

	var photo models.Photo
	if err := r.db.WithContext(ctx).First(&photo, annotation.PhotoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Photo", annotation.PhotoID)
		}
		return nil, models.NewDataLayerError(err)
	}

	if annotation.GoldCount > 0 {
		// Overdraft policy is a business rule, validated here before any
		// transfer is attempted. The executor's debit guard backs this up
		// under concurrency.
		var annotator models.User
		if err := r.db.WithContext(ctx).First(&annotator, annotation.FromUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("User", annotation.FromUserID)
			}
			return nil, models.NewDataLayerError(err)
		}
		if annotation.GoldCount > annotator.GoldBalance {
			return nil, models.NewBalanceTooLowError(annotator.ID, annotation.GoldCount, annotator.GoldBalance)
		}
	}

	annotation.SchemaVersion = models.CurrentSchemaVersion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if annotation.GoldCount > 0 {
			if _, err := r.transfer.ExecuteTx(tx, TransferParams{
				ToUserID:   photo.UserID,
				FromUserID: annotation.FromUserID,
				Amount:     annotation.GoldCount,
				Type:       models.PhotoGoldTransaction,
				PhotoID:    photo.ID,
			}); err != nil {
				return err
			}
		}
		if err := tx.Create(annotation).Error; err != nil {
			return models.NewDataLayerError(err)
		}
		if annotation.GoldCount > 0 {
			// Keep the denormalized photo total in sync with its annotations.
			res := tx.Model(&models.Photo{}).
				Where("id = ?", photo.ID).
				Update("gold_count", gorm.Expr("gold_count + ?", annotation.GoldCount))
			if res.Error != nil {
				return models.NewDataLayerError(res.Error)
			}
			if res.RowsAffected == 0 {
				return models.NewDataLayerError(fmt.Errorf("photo %d vanished during annotation insert", photo.ID))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, annotation.ID)
}

func (r *annotationRepository) GetByID(ctx context.Context, id uint) (*models.Annotation, error) {
	var annotation models.Annotation
	if err := r.db.WithContext(ctx).Preload("FromUser").First(&annotation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Annotation", id)
		}
		return nil, models.NewDataLayerError(err)
	}
	return &annotation, nil
}

func (r *annotationRepository) ListByPhoto(ctx context.Context, photoID uint) ([]models.Annotation, error) {
	var annotations []models.Annotation
	if err := r.db.WithContext(ctx).
		Preload("FromUser").
		Where("photo_id = ?", photoID).
		Order("created_at ASC, id ASC").
		Find(&annotations).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}
	return annotations, nil
}

func (r *annotationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var annotation models.Annotation
		if err := tx.First(&annotation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Annotation", id)
			}
			return models.NewDataLayerError(err)
		}
		if err := tx.Delete(&annotation).Error; err != nil {
			return models.NewDataLayerError(err)
		}
		if annotation.GoldCount > 0 {
			// The photo total may only drop by what this annotation put in;
			// anything else means the denormalized count has drifted.
			res := tx.Model(&models.Photo{}).
				Where("id = ? AND gold_count >= ?", annotation.PhotoID, annotation.GoldCount).
				Update("gold_count", gorm.Expr("gold_count - ?", annotation.GoldCount))
			if res.Error != nil {
				return models.NewDataLayerError(res.Error)
			}
			if res.RowsAffected == 0 {
				return models.NewDataLayerError(fmt.Errorf("photo %d gold count out of sync with annotations", annotation.PhotoID))
			}
		}
		return nil
	})
}
