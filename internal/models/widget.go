package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WidgetType identifies what a widget renders
type WidgetType int

const (
	WidgetText          WidgetType = 1
	WidgetLink          WidgetType = 10
	WidgetImage         WidgetType = 20
	WidgetDateTime      WidgetType = 30
	WidgetWeather       WidgetType = 40
	WidgetWeatherWindow WidgetType = 50
)

// Valid reports whether t is a known widget type
func (t WidgetType) Valid() bool {
	switch t {
	case WidgetText, WidgetLink, WidgetImage, WidgetDateTime, WidgetWeather, WidgetWeatherWindow:
		return true
	}
	return false
}

// Widget represents one card placed on a space
type Widget struct {
	UID       uuid.UUID              `gorm:"type:text;primary_key" json:"uid"`
	SpaceID   uuid.UUID              `gorm:"type:text;not null;index" json:"space"`
	Type      WidgetType             `gorm:"not null" json:"widget_type"`
	Content   map[string]interface{} `gorm:"serializer:json" json:"content"`
	CardStyle map[string]interface{} `gorm:"serializer:json" json:"card_style"`
	Layout    map[string]interface{} `gorm:"serializer:json" json:"layout"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	DeletedAt gorm.DeletedAt         `gorm:"index" json:"-"`
}

// TableName ensures GORM uses the "widgets" table
func (Widget) TableName() string {
	return "widgets"
}

// BeforeCreate hook to generate UUID
func (w *Widget) BeforeCreate(tx *gorm.DB) error {
	if w.UID == uuid.Nil {
		w.UID = uuid.New()
	}
	return nil
}
