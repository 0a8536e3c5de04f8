package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a dashboard account
type User struct {
	UID            uuid.UUID      `gorm:"type:text;primary_key" json:"uid"`
	Username       string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash   string         `gorm:"not null" json:"-"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	GoogleSubject  string         `gorm:"index" json:"-"`
	DefaultSpaceID *uuid.UUID     `gorm:"type:text" json:"default_space,omitempty"`
	Spaces         []Space        `gorm:"foreignKey:OwnerID" json:"spaces,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName ensures GORM uses the "users" table
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UID == uuid.Nil {
		u.UID = uuid.New()
	}
	return nil
}
