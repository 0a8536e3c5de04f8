package apiclient

import "time"

// WidgetType identifies the kind of content a widget renders.
type WidgetType int

const (
	WidgetText          WidgetType = 1
	WidgetLink          WidgetType = 10
	WidgetImage         WidgetType = 20
	WidgetDateTime      WidgetType = 30
	WidgetWeather       WidgetType = 40
	WidgetWeatherWindow WidgetType = 50
)

// Layout describes a widget's grid placement.
type Layout struct {
	I                   string `json:"i,omitempty"`
	X                   int    `json:"x"`
	Y                   int    `json:"y"`
	W                   int    `json:"w"`
	H                   int    `json:"h"`
	Static              bool   `json:"static,omitempty"`
	PreserveAspectRatio bool   `json:"preserveAspectRatio,omitempty"`
	IsResizable         bool   `json:"isResizable,omitempty"`
}

// Widget is a single configurable dashboard element.
type Widget struct {
	UID       string         `json:"uid"`
	Space     string         `json:"space"`
	Type      WidgetType     `json:"widget_type"`
	Content   map[string]any `json:"content"`
	CardStyle map[string]any `json:"card_style"`
	Layout    Layout         `json:"layout"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
	UpdatedAt time.Time      `json:"updated_at,omitempty"`
}

// WidgetInput is the payload for creating a widget.
type WidgetInput struct {
	Space     string         `json:"space"`
	Type      WidgetType     `json:"widget_type"`
	Content   map[string]any `json:"content"`
	CardStyle map[string]any `json:"card_style"`
	Layout    Layout         `json:"layout"`
}

// WidgetUpdate is the payload for patching a widget.
type WidgetUpdate struct {
	Content   map[string]any `json:"content,omitempty"`
	CardStyle map[string]any `json:"card_style,omitempty"`
	Layout    *Layout        `json:"layout,omitempty"`
}

// Space is a named collection of widgets owned by a user.
type Space struct {
	UID          string    `json:"uid"`
	Owner        string    `json:"owner"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	IsHomepage   bool      `json:"is_homepage"`
	IsBookmarked bool      `json:"is_bookmarked"`
	NumBookmarks int       `json:"num_bookmarks"`
	NumClones    int       `json:"num_clones"`
	ClonedFrom   string    `json:"cloned_from,omitempty"`
	Widgets      []Widget  `json:"widgets,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// User is the authenticated account, including the default space choice.
type User struct {
	UID          string   `json:"uid"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	DefaultSpace string   `json:"default_space,omitempty"`
	Spaces       []string `json:"spaces,omitempty"`
}

// UserUpdate is the payload for patching the current user.
type UserUpdate struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	DefaultSpace *string `json:"default_space,omitempty"`
}

// LoginRequest is a password login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair carries the access and refresh tokens issued on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user,omitempty"`
}
