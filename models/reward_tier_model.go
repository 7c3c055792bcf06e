package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TierName string

const (
	TierBronze   TierName = "bronze"
	TierSilver   TierName = "silver"
	TierGold     TierName = "gold"
	TierPlatinum TierName = "platinum"
)

func (n TierName) Valid() bool {
	switch n {
	case TierBronze, TierSilver, TierGold, TierPlatinum:
		return true
	}
	return false
}

// RewardTier is a band of completed-referral counts, inclusive on both ends.
// RewardAmount is informational; rewards are computed from course amounts
// plus BonusPercentage.
type RewardTier struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Tier            TierName        `gorm:"size:20;not null;uniqueIndex" json:"tier"`
	MinReferrals    int             `gorm:"not null;index" json:"minReferrals"`
	MaxReferrals    int             `gorm:"not null" json:"maxReferrals"`
	RewardAmount    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"rewardAmount"`
	Description     string          `gorm:"type:text" json:"description"`
	BonusPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"bonusPercentage"`
	Active          bool            `gorm:"not null;index" json:"active"`
	ValidUntil      time.Time       `gorm:"not null;index" json:"validUntil"`
	Conditions      []string        `gorm:"type:text;serializer:json" json:"conditions"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *RewardTier) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BeforeSave stores ValidUntil in UTC so validity comparisons are stable
// across drivers that persist timestamps as text.
func (t *RewardTier) BeforeSave(tx *gorm.DB) error {
	t.ValidUntil = t.ValidUntil.UTC()
	return nil
}

// Contains reports whether count falls in the tier's inclusive range.
func (t *RewardTier) Contains(count int) bool {
	return count >= t.MinReferrals && count <= t.MaxReferrals
}
