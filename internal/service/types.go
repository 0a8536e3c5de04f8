package service

import (
	"github.com/google/uuid"

	"github.com/homely-dev/homely/internal/models"
)

// CreateWidgetRequest is the payload for creating a widget.
type CreateWidgetRequest struct {
	Space     string                 `json:"space" binding:"required"`
	Type      models.WidgetType      `json:"widget_type" binding:"required"`
	Content   map[string]interface{} `json:"content"`
	CardStyle map[string]interface{} `json:"card_style"`
	Layout    map[string]interface{} `json:"layout"`
}

// UpdateWidgetRequest is a partial widget update; nil fields are untouched.
type UpdateWidgetRequest struct {
	Content   map[string]interface{} `json:"content"`
	CardStyle map[string]interface{} `json:"card_style"`
	Layout    map[string]interface{} `json:"layout"`
}

// CreateSpaceRequest is the payload for creating a space.
type CreateSpaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateSpaceRequest is a partial space update; nil fields are untouched.
type UpdateSpaceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsHomepage  *bool   `json:"is_homepage"`
}

// UpdateUserRequest is a partial profile update; nil fields are untouched.
type UpdateUserRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	DefaultSpace *string `json:"default_space"`
}

// SpaceView is a space enriched with per-viewer bookmark state.
type SpaceView struct {
	models.Space
	IsBookmarked bool  `json:"is_bookmarked"`
	NumBookmarks int64 `json:"num_bookmarks"`
}

// UserView is the profile shape returned by /users/me/.
type UserView struct {
	UID          uuid.UUID      `json:"uid"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	DefaultSpace string         `json:"default_space,omitempty"`
	Spaces       []models.Space `json:"spaces"`
}
