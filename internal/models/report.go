package models

import (
	"time"
)

// ReportContentType identifies what kind of content a report targets.
type ReportContentType string

const (
	ReportContentPhoto      ReportContentType = "Photo"
	ReportContentAnnotation ReportContentType = "Annotation"
)

// ReportReasonType is the reporter-selected category of the complaint.
type ReportReasonType string

const (
	ReportReasonSpam          ReportReasonType = "Spam"
	ReportReasonInappropriate ReportReasonType = "Inappropriate"
	ReportReasonCopyright     ReportReasonType = "Copyright"
	ReportReasonOther         ReportReasonType = "Other"
)

// Report is a moderation flag filed against a photo or annotation.
type Report struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	ReporterUserID uint              `gorm:"not null;index" json:"reporter_user_id"`
	ContentID      uint              `gorm:"not null;index" json:"content_id"`
	ContentType    ReportContentType `gorm:"size:32;not null" json:"content_type"`
	Reason         ReportReasonType  `gorm:"size:32;not null" json:"reason"`
	Active         bool              `gorm:"not null;default:true" json:"active"`
	SchemaVersion  string            `gorm:"size:8;not null;default:'1'" json:"-"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
