package models

import (
	"time"
)

// TransactionType classifies every entry in the gold ledger.
type TransactionType string

const (
	PhotoGoldTransaction            TransactionType = "PhotoGoldTransaction"
	CategoryUpVoteTransaction       TransactionType = "CategoryUpVoteTransaction"
	WelcomeGoldTransaction          TransactionType = "WelcomeGoldTransaction"
	FirstProfilePicUpdateTransaction TransactionType = "FirstProfilePicUpdateTransaction"
	IapGoldTransaction              TransactionType = "IapGoldTransaction"
)

// GoldTransaction is an immutable ledger entry recording a completed gold
// transfer. Rows are append-only: never updated, never deleted. The ledger is
// the audit trail reconciling every balance change in the system.
//
// FromUserID is zero for system-granted transfers (bonuses, IAP fulfillment),
// in which case only the recipient balance changed and total supply grew.
type GoldTransaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ToUserID      uint            `gorm:"not null;index" json:"to_user_id"`
	FromUserID    uint            `gorm:"index" json:"from_user_id,omitempty"`
	GoldCount     int64           `gorm:"not null" json:"gold_count"`
	Type          TransactionType `gorm:"size:48;not null;index" json:"type"`
	PhotoID       uint            `gorm:"index" json:"photo_id,omitempty"`
	SystemGiven   bool            `gorm:"not null;default:false" json:"system_given"`
	SchemaVersion string          `gorm:"size:8;not null;default:'1'" json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IapPurchase records a fulfilled in-app purchase of gold. ReceiptID is the
// platform receipt's unique identifier; a second fulfillment attempt with the
// same receipt must be rejected without touching any balance.
type IapPurchase struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	ReceiptID     string    `gorm:"uniqueIndex;size:255;not null" json:"receipt_id"`
	ProductID     string    `gorm:"size:128" json:"product_id"`
	GoldIncrement int64     `gorm:"not null" json:"gold_increment"`
	Platform      string    `gorm:"size:32" json:"platform"`
	SchemaVersion string    `gorm:"size:8;not null;default:'1'" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
