// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// CurrentSchemaVersion tags every persisted row so future migrations can
// identify the document shape they are reading.
const CurrentSchemaVersion = "1"

// User represents an account in the SnapGold application. Users are created on
// first successful resolution of an unknown registration reference and are
// never hard-deleted.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// RegistrationReference is the opaque identifier issued by the external
	// identity provider. It is the only link between an account and its
	// authentication identity.
	RegistrationReference string `gorm:"uniqueIndex;size:255;not null" json:"registration_reference"`
	// GoldBalance is the currently spendable gold. Must never go negative.
	GoldBalance int64 `gorm:"not null;default:0" json:"gold_balance"`
	// GoldGiven accumulates all gold the user has ever granted to others.
	// Monotonically non-decreasing.
	GoldGiven      int64          `gorm:"not null;default:0" json:"gold_given"`
	ProfilePhotoID uint           `gorm:"default:0" json:"profile_photo_id"`
	SchemaVersion  string         `gorm:"size:8;not null;default:'1'" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Photos []Photo `gorm:"foreignKey:UserID" json:"photos,omitempty"`
}
