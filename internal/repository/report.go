package repository

import (
	"context"
	"errors"

	"snapgold/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines persistence operations for moderation reports.
type ReportRepository interface {
	// Insert files a report against a photo or annotation. The targeted
	// content must exist; the report starts out Active.
	Insert(ctx context.Context, report *models.Report) (*models.Report, error)
	ListActive(ctx context.Context, limit, offset int) ([]models.Report, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Insert(ctx context.Context, report *models.Report) (*models.Report, error) {
	if report.ReporterUserID == 0 {
		return nil, models.NewValidationError("report must have a reporter")
	}
	if report.Reason == "" {
		return nil, models.NewValidationError("report reason is required")
	}

	var err error
	switch report.ContentType {
	case models.ReportContentPhoto:
		err = r.db.WithContext(ctx).First(&models.Photo{}, report.ContentID).Error
	case models.ReportContentAnnotation:
		err = r.db.WithContext(ctx).First(&models.Annotation{}, report.ContentID).Error
	default:
		return nil, models.NewValidationError("unknown report content type")
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(string(report.ContentType), report.ContentID)
		}
		return nil, models.NewDataLayerError(err)
	}

	report.Active = true
	report.SchemaVersion = models.CurrentSchemaVersion
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}
	return report, nil
}

func (r *reportRepository) ListActive(ctx context.Context, limit, offset int) ([]models.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	var reports []models.Report
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}
	return reports, nil
}
