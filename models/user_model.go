package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const RoleAdmin = "admin"

// User is an administrative account allowed to manage the catalogs and
// referral statuses.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"fullName"`
	Email    string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null" json:"role"`
	IsActive bool      `gorm:"not null" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
