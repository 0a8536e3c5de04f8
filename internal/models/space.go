package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Space represents one dashboard page owned by a user
type Space struct {
	UID         uuid.UUID      `gorm:"type:text;primary_key" json:"uid"`
	OwnerID     uuid.UUID      `gorm:"type:text;not null;index" json:"owner"`
	Owner       User           `gorm:"foreignKey:OwnerID" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	IsHomepage  bool           `gorm:"default:false;index" json:"is_homepage"`
	NumClones   int            `gorm:"default:0" json:"num_clones"`
	ClonedFrom  *uuid.UUID     `gorm:"type:text" json:"cloned_from,omitempty"`
	Widgets     []Widget       `gorm:"foreignKey:SpaceID" json:"widgets,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName ensures GORM uses the "spaces" table
func (Space) TableName() string {
	return "spaces"
}

// BeforeCreate hook to generate UUID
func (s *Space) BeforeCreate(tx *gorm.DB) error {
	if s.UID == uuid.Nil {
		s.UID = uuid.New()
	}
	return nil
}

// Bookmark marks a space saved by a user
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uuid.UUID `gorm:"type:text;not null;uniqueIndex:idx_bookmark_user_space" json:"user"`
	SpaceID   uuid.UUID `gorm:"type:text;not null;uniqueIndex:idx_bookmark_user_space" json:"space"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName ensures GORM uses the "bookmarks" table
func (Bookmark) TableName() string {
	return "bookmarks"
}
