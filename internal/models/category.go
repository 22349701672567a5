package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups photos under a user-created name. Names are unique
// case-insensitively; first-of-name wins and later duplicates are rejected.
type Category struct {
	ID   uint `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:128;not null" json:"name"`
	// CreatedByUserID records the user whose creation won the name.
	CreatedByUserID uint           `gorm:"index" json:"created_by_user_id"`
	SchemaVersion   string         `gorm:"size:8;not null;default:'1'" json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Photos []Photo `gorm:"foreignKey:CategoryID" json:"photos,omitempty"`
}

// CategoryPreview is a category summarized with a bounded number of
// representative photo thumbnails for the app start page.
type CategoryPreview struct {
	Category   Category `json:"category"`
	PhotoCount int64    `json:"photo_count"`
	Thumbnails []Photo  `json:"thumbnails"`
}
