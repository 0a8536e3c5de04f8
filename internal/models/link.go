package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Link caches Open Graph metadata for a URL placed in a link widget.
// URLs are shared across users, so the row is unique per url.
type Link struct {
	UID         uuid.UUID              `gorm:"type:text;primary_key" json:"uid"`
	CreatedByID uuid.UUID              `gorm:"type:text;not null;index" json:"-"`
	URL         string                 `gorm:"size:2000;not null;uniqueIndex" json:"url"`
	Metadata    map[string]interface{} `gorm:"serializer:json" json:"metadata"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// TableName overrides the table name
func (Link) TableName() string {
	return "links"
}

// BeforeCreate hook to generate UUID
func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.UID == uuid.Nil {
		l.UID = uuid.New()
	}
	return nil
}
