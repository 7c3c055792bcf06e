package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReferralStatus string

const (
	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusCompleted ReferralStatus = "completed"
	ReferralStatusCancelled ReferralStatus = "cancelled"
)

func (s ReferralStatus) Valid() bool {
	switch s {
	case ReferralStatusPending, ReferralStatusCompleted, ReferralStatusCancelled:
		return true
	}
	return false
}

// Contact identifies a referrer or a referee.
type Contact struct {
	Name  string `gorm:"size:255;not null" json:"name"`
	Email string `gorm:"size:255;not null" json:"email"`
	Phone string `gorm:"size:20;not null" json:"phone"`
}

// Referral is unique by referee email; the index is created in database.Migrate
// because both embedded contacts share the Contact type.
type Referral struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Referrer      Contact        `gorm:"embedded;embeddedPrefix:referrer_" json:"referrer"`
	Referee       Contact        `gorm:"embedded;embeddedPrefix:referee_" json:"referee"`
	CourseID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"courseId"`
	Status        ReferralStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	RewardClaimed bool           `gorm:"not null;default:false" json:"rewardClaimed"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReferralStatusCount is one row of a referrer's grouped status counts.
type ReferralStatusCount struct {
	Status ReferralStatus `json:"status"`
	Count  int64          `json:"count"`
}

// CourseReferralStats summarises the referrals naming one course.
type CourseReferralStats struct {
	CourseID        uuid.UUID `json:"courseId"`
	Name            string    `json:"name"`
	ReferralCount   int       `json:"referralCount"`
	ActiveReferrals int       `json:"activeReferrals"`
}
