// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"

	"snapgold/internal/models"
	"snapgold/internal/observability"

	"gorm.io/gorm"
)

// TransferParams describes a single gold transfer. FromUserID is ignored when
// SystemGiven is set; PhotoID is zero for transfers not tied to a photo.
type TransferParams struct {
	ToUserID    uint
	FromUserID  uint
	Amount      int64
	Type        models.TransactionType
	PhotoID     uint
	SystemGiven bool
}

// GoldTransferExecutor atomically applies a gold balance change between user
// rows and appends an immutable ledger entry, as one indivisible unit of work.
// No partially-applied state is ever visible to concurrent readers.
//
// The executor relies on the store to linearize concurrent transfers touching
// the same user: balances are mutated with single guarded UPDATE statements
// (never read-modify-write round trips), so two concurrent transfers can never
// overwrite each other's balance with a lost update.
type GoldTransferExecutor interface {
	// Execute runs the transfer in its own transaction.
	Execute(ctx context.Context, p TransferParams) (*models.GoldTransaction, error)
	// ExecuteTx runs the transfer inside the caller's transaction so a
	// dependent write (annotation append, receipt row) can share its fate.
	ExecuteTx(tx *gorm.DB, p TransferParams) (*models.GoldTransaction, error)
}

type goldTransferExecutor struct {
	db *gorm.DB
}

// NewGoldTransferExecutor creates a new gold transfer executor.
func NewGoldTransferExecutor(db *gorm.DB) GoldTransferExecutor {
	return &goldTransferExecutor{db: db}
}

func (e *goldTransferExecutor) Execute(ctx context.Context, p TransferParams) (*models.GoldTransaction, error) {
	var txn *models.GoldTransaction
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		txn, txErr = e.ExecuteTx(tx, p)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (e *goldTransferExecutor) ExecuteTx(tx *gorm.DB, p TransferParams) (*models.GoldTransaction, error) {
	if p.Amount <= 0 {
		observability.GoldTransferFailures.WithLabelValues("invalid_amount").Inc()
		return nil, models.NewValidationError("transfer amount must be a positive integer")
	}
	if !p.SystemGiven && p.FromUserID == 0 {
		observability.GoldTransferFailures.WithLabelValues("missing_from_user").Inc()
		return nil, models.NewValidationError("a from-user is required unless the transfer is system-given")
	}

	// Credit the recipient. Zero rows means the user does not exist; more
	// than one row for a unique id is a data integrity fault and must be
	// surfaced, never silently resolved.
	res := tx.Model(&models.User{}).
		Where("id = ?", p.ToUserID).
		Updates(map[string]interface{}{
			"gold_balance": gorm.Expr("gold_balance + ?", p.Amount),
		})
	if res.Error != nil {
		observability.GoldTransferFailures.WithLabelValues("store").Inc()
		return nil, models.NewDataLayerError(res.Error)
	}
	switch {
	case res.RowsAffected == 0:
		observability.GoldTransferFailures.WithLabelValues("to_user_not_found").Inc()
		return nil, models.NewNotFoundError("User", p.ToUserID)
	case res.RowsAffected > 1:
		observability.GoldTransferFailures.WithLabelValues("integrity").Inc()
		return nil, models.NewDataLayerError(fmt.Errorf("user id %d resolved to %d rows", p.ToUserID, res.RowsAffected))
	}

	if !p.SystemGiven {
		// Debit the sender. The balance guard in the WHERE clause keeps
		// the no-negative-balance invariant even under concurrent
		// transfers; callers still pre-validate for a friendlier error.
		res := tx.Model(&models.User{}).
			Where("id = ? AND gold_balance >= ?", p.FromUserID, p.Amount).
			Updates(map[string]interface{}{
				"gold_balance": gorm.Expr("gold_balance - ?", p.Amount),
				"gold_given":   gorm.Expr("gold_given + ?", p.Amount),
			})
		if res.Error != nil {
			observability.GoldTransferFailures.WithLabelValues("store").Inc()
			return nil, models.NewDataLayerError(res.Error)
		}
		if res.RowsAffected == 0 {
			// Disambiguate: missing user vs insufficient balance.
			var from models.User
			if err := tx.Select("id", "gold_balance").First(&from, p.FromUserID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					observability.GoldTransferFailures.WithLabelValues("from_user_not_found").Inc()
					return nil, models.NewNotFoundError("User", p.FromUserID)
				}
				observability.GoldTransferFailures.WithLabelValues("store").Inc()
				return nil, models.NewDataLayerError(err)
			}
			observability.GoldTransferFailures.WithLabelValues("balance_too_low").Inc()
			return nil, models.NewBalanceTooLowError(p.FromUserID, p.Amount, from.GoldBalance)
		}
		if res.RowsAffected > 1 {
			observability.GoldTransferFailures.WithLabelValues("integrity").Inc()
			return nil, models.NewDataLayerError(fmt.Errorf("user id %d resolved to %d rows", p.FromUserID, res.RowsAffected))
		}
	}

	txn := &models.GoldTransaction{
		ToUserID:      p.ToUserID,
		GoldCount:     p.Amount,
		Type:          p.Type,
		PhotoID:       p.PhotoID,
		SystemGiven:   p.SystemGiven,
		SchemaVersion: models.CurrentSchemaVersion,
	}
	if !p.SystemGiven {
		txn.FromUserID = p.FromUserID
	}
	if err := tx.Create(txn).Error; err != nil {
		observability.GoldTransferFailures.WithLabelValues("ledger").Inc()
		return nil, models.NewDataLayerError(err)
	}

	observability.RecordTransfer(string(p.Type), p.SystemGiven, p.Amount)
	return txn, nil
}
