package repository

import (
	"context"
	"strings"

	"snapgold/internal/models"

	"gorm.io/gorm"
)

// IapRepository fulfills in-app purchases of gold. Each platform receipt may
// be settled at most once; a duplicate receipt id is rejected without touching
// the purchaser's balance again.
type IapRepository interface {
	Insert(ctx context.Context, purchase *models.IapPurchase) (*models.IapPurchase, error)
	GetByReceiptID(ctx context.Context, receiptID string) (*models.IapPurchase, error)
}

type iapRepository struct {
	db       *gorm.DB
	transfer GoldTransferExecutor
}

// NewIapRepository returns a new IapRepository implementation.
func NewIapRepository(db *gorm.DB, transfer GoldTransferExecutor) IapRepository {
	return &iapRepository{db: db, transfer: transfer}
}

func (r *iapRepository) Insert(ctx context.Context, purchase *models.IapPurchase) (*models.IapPurchase, error) {
	purchase.ReceiptID = strings.TrimSpace(purchase.ReceiptID)
	if purchase.ReceiptID == "" {
		return nil, models.NewValidationError("receipt id is required")
	}
	if purchase.UserID == 0 {
		return nil, models.NewValidationError("purchase must have a purchaser")
	}
	if purchase.GoldIncrement <= 0 {
		return nil, models.NewValidationError("purchase gold increment must be positive")
	}

	purchase.SchemaVersion = models.CurrentSchemaVersion
	// Receipt row and gold grant share one transaction: a failed transfer
	// must leave no settled receipt behind, and a duplicate receipt must
	// grant nothing.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.IapPurchase{}).
			Where("receipt_id = ?", purchase.ReceiptID).
			Count(&count).Error; err != nil {
			return models.NewDataLayerError(err)
		}
		if count > 0 {
			return models.NewDuplicateError("this receipt has already been redeemed")
		}
		if err := tx.Create(purchase).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.NewDuplicateError("this receipt has already been redeemed")
			}
			return models.NewDataLayerError(err)
		}
		_, err := r.transfer.ExecuteTx(tx, TransferParams{
			ToUserID:    purchase.UserID,
			Amount:      purchase.GoldIncrement,
			Type:        models.IapGoldTransaction,
			SystemGiven: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (r *iapRepository) GetByReceiptID(ctx context.Context, receiptID string) (*models.IapPurchase, error) {
	var purchase models.IapPurchase
	if err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		First(&purchase).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("IapPurchase", receiptID)
		}
		return nil, models.NewDataLayerError(err)
	}
	return &purchase, nil
}
