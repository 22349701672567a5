// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"snapgold/internal/config"
	"snapgold/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for user accounts, including
// the system-granted gold bonuses tied to the account lifecycle.
type UserRepository interface {
	// Create makes a new account for an unseen registration reference,
	// seeding it with the configured welcome bonus through the transfer
	// executor so the ledger records the grant.
	Create(ctx context.Context, registrationReference string) (*models.User, error)
	// ResolveOrCreate returns the existing account for the reference or
	// creates one with the welcome bonus on first sight.
	ResolveOrCreate(ctx context.Context, registrationReference string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByRegistrationReference(ctx context.Context, registrationReference string) (*models.User, error)
	// UpdateProfilePhoto points the account at a new profile photo. The
	// first transition from no photo to a photo grants the configured
	// one-time bonus, exactly once per account.
	UpdateProfilePhoto(ctx context.Context, userID, photoID uint) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db       *gorm.DB
	transfer GoldTransferExecutor
	cfg      *config.Config
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB, transfer GoldTransferExecutor, cfg *config.Config) UserRepository {
	return &userRepository{db: db, transfer: transfer, cfg: cfg}
}

func (r *userRepository) Create(ctx context.Context, registrationReference string) (*models.User, error) {
	registrationReference = strings.TrimSpace(registrationReference)
	if registrationReference == "" {
		return nil, models.NewValidationError("registration reference is required")
	}

	user := &models.User{
		RegistrationReference: registrationReference,
		SchemaVersion:         models.CurrentSchemaVersion,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.NewDuplicateError("an account already exists for this registration reference")
			}
			return models.NewDataLayerError(err)
		}
		// Every new account gets the welcome grant through the transfer
		// executor so supply growth is always ledger-backed.
		if r.cfg.WelcomeGold > 0 {
			if _, err := r.transfer.ExecuteTx(tx, TransferParams{
				ToUserID:    user.ID,
				Amount:      r.cfg.WelcomeGold,
				Type:        models.WelcomeGoldTransaction,
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
	return r.GetByID(ctx, user.ID)
}

func (r *userRepository) ResolveOrCreate(ctx context.Context, registrationReference string) (*models.User, error) {
	user, err := r.GetByRegistrationReference(ctx, registrationReference)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	user, err = r.Create(ctx, registrationReference)
	if models.HasCode(err, models.CodeDuplicate) {
		// Lost a creation race; the winner's account is the account.
		return r.GetByRegistrationReference(ctx, registrationReference)
	}
	return user, err
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewDataLayerError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByRegistrationReference(ctx context.Context, registrationReference string) (*models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("registration_reference = ?", registrationReference).
		Limit(2).
		Find(&users).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}
	switch len(users) {
	case 0:
		return nil, nil
	case 1:
		return &users[0], nil
	default:
		// A reference resolving to several accounts is an integrity fault,
		// never silently coerced to "pick the first".
		return nil, models.NewDataLayerError(errors.New("registration reference resolved to multiple accounts"))
	}
}

func (r *userRepository) UpdateProfilePhoto(ctx context.Context, userID, photoID uint) (*models.User, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.User
		if err := tx.First(&current, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", userID)
			}
			return models.NewDataLayerError(err)
		}

		firstPhoto := current.ProfilePhotoID == 0 && photoID != 0

		// Balances are never written from caller-supplied state; the
		// transfer executor is the only writer of gold columns.
		if err := tx.Model(&current).Update("profile_photo_id", photoID).Error; err != nil {
			return models.NewDataLayerError(err)
		}

		if firstPhoto && r.cfg.FirstProfilePhotoGold > 0 {
			// Exactly once per account: the ledger is the guard, so a
			// cleared-then-set photo cannot re-trigger the bonus.
			var granted int64
			if err := tx.Model(&models.GoldTransaction{}).
				Where("to_user_id = ? AND type = ?", userID, models.FirstProfilePicUpdateTransaction).
				Count(&granted).Error; err != nil {
				return models.NewDataLayerError(err)
			}
			if granted == 0 {
				if _, err := r.transfer.ExecuteTx(tx, TransferParams{
					ToUserID:    userID,
					Amount:      r.cfg.FirstProfilePhotoGold,
					Type:        models.FirstProfilePicUpdateTransaction,
					SystemGiven: true,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, userID)
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewDataLayerError(err)
	}
	return users, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports "UNIQUE constraint failed"
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
