package models

import (
	"time"

	"gorm.io/gorm"
)

// PhotoStatus is the moderation/visibility state of a photo.
type PhotoStatus string

const (
	PhotoStatusActive              PhotoStatus = "Active"
	PhotoStatusHidden              PhotoStatus = "Hidden"
	PhotoStatusUnderReview         PhotoStatus = "UnderReview"
	PhotoStatusDeleted             PhotoStatus = "Deleted"
	PhotoStatusDoesntFitCategory   PhotoStatus = "DoesntFitCategory"
	PhotoStatusObjectionableContent PhotoStatus = "ObjectionableContent"
)

// Valid reports whether s is one of the known photo statuses.
func (s PhotoStatus) Valid() bool {
	switch s {
	case PhotoStatusActive, PhotoStatusHidden, PhotoStatusUnderReview,
		PhotoStatusDeleted, PhotoStatusDoesntFitCategory, PhotoStatusObjectionableContent:
		return true
	}
	return false
}

// Photo is an uploaded picture in a category.
//
// GoldCount is denormalized: it must always equal the sum of GoldCount across
// the photo's non-retracted annotations. CategoryName is a denormalized copy
// refreshed at insert/update time; it is not re-synced if the category is
// later renamed (accepted staleness window).
type Photo struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UserID       uint        `gorm:"not null;index" json:"user_id"`
	CategoryID   uint        `gorm:"not null;index" json:"category_id"`
	CategoryName string      `gorm:"size:128" json:"category_name"`
	ThumbnailURL string      `gorm:"size:512" json:"thumbnail_url"`
	StandardURL  string      `gorm:"size:512" json:"standard_url"`
	HighResURL   string      `gorm:"size:512" json:"high_res_url"`
	Caption      string      `gorm:"size:2000" json:"caption"`
	Status       PhotoStatus `gorm:"size:32;not null;default:'Active';index" json:"status"`
	GoldCount    int64       `gorm:"not null;default:0" json:"gold_count"`
	// OSPlatform records which client uploaded the photo.
	OSPlatform    string         `gorm:"size:32" json:"os_platform"`
	SchemaVersion string         `gorm:"size:8;not null;default:'1'" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	User        User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Annotations []Annotation `gorm:"foreignKey:PhotoID" json:"annotations,omitempty"`
}

// Annotation is a comment on a photo, optionally carrying a gold grant.
// When GoldCount > 0 the annotation is created atomically with a gold
// transfer from the annotator to the photo owner.
type Annotation struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	PhotoID uint `gorm:"not null;index" json:"photo_id"`
	// FromUserID is the annotator granting the gold (or just commenting).
	FromUserID    uint           `gorm:"not null;index" json:"from_user_id"`
	Text          string         `gorm:"size:2000;not null" json:"text"`
	GoldCount     int64          `gorm:"not null;default:0" json:"gold_count"`
	SchemaVersion string         `gorm:"size:8;not null;default:'1'" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	FromUser User `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
}
