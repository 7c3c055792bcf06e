package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultReferralReward is paid per completed referral when a course is
// created without an explicit amount.
var DefaultReferralReward = decimal.NewFromInt(1000)

type Course struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string          `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	Duration       string          `gorm:"size:100" json:"duration"`
	Fee            decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"fee"`
	ReferralReward decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"referralReward"`
	ImageURL       *string         `gorm:"size:255" json:"imageUrl,omitempty"`
	Active         bool            `gorm:"not null;index" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
