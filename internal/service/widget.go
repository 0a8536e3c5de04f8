package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homely-dev/homely/internal/models"
)

// WidgetService contains the business logic for widget operations.
type WidgetService struct {
	db *gorm.DB
}

// NewWidgetService creates a new WidgetService.
func NewWidgetService(db *gorm.DB) *WidgetService {
	return &WidgetService{db: db}
}

// Create places a new widget on a space owned by the viewer.
func (s *WidgetService) Create(req CreateWidgetRequest, viewerID uuid.UUID) (*models.Widget, error) {
	if !req.Type.Valid() {
		return nil, &ValidationError{Message: fmt.Sprintf("unknown widget_type %d", req.Type)}
	}

	spaceID, err := uuid.Parse(req.Space)
	if err != nil {
		return nil, &ValidationError{Message: "space must be a valid space id"}
	}

	var space models.Space
	if err := s.db.First(&space, "uid = ?", spaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if space.OwnerID != viewerID {
		return nil, ErrForbidden
	}

	widget := models.Widget{
		SpaceID:   spaceID,
		Type:      req.Type,
		Content:   req.Content,
		CardStyle: req.CardStyle,
		Layout:    req.Layout,
	}
	if err := s.db.Create(&widget).Error; err != nil {
		return nil, fmt.Errorf("create widget: %w", err)
	}
	return &widget, nil
}

// Get returns a widget by id if the viewer owns its space.
func (s *WidgetService) Get(id string, viewerID uuid.UUID) (*models.Widget, error) {
	return s.loadOwned(id, viewerID)
}

// Update replaces the provided sections of a widget wholesale. Merging
// partial content edits is the client's concern.
func (s *WidgetService) Update(id string, req UpdateWidgetRequest, viewerID uuid.UUID) (*models.Widget, error) {
	widget, err := s.loadOwned(id, viewerID)
	if err != nil {
		return nil, err
	}

	if req.Content != nil {
		widget.Content = req.Content
	}
	if req.CardStyle != nil {
		widget.CardStyle = req.CardStyle
	}
	if req.Layout != nil {
		widget.Layout = req.Layout
	}

	if err := s.db.Save(widget).Error; err != nil {
		return nil, err
	}
	return widget, nil
}

// Delete removes a widget owned by the viewer.
func (s *WidgetService) Delete(id string, viewerID uuid.UUID) error {
	widget, err := s.loadOwned(id, viewerID)
	if err != nil {
		return err
	}
	return s.db.Delete(widget).Error
}

func (s *WidgetService) loadOwned(id string, viewerID uuid.UUID) (*models.Widget, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var widget models.Widget
	if err := s.db.First(&widget, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var space models.Space
	if err := s.db.First(&space, "uid = ?", widget.SpaceID).Error; err != nil {
		return nil, err
	}
	if space.OwnerID != viewerID {
		return nil, ErrForbidden
	}
	return &widget, nil
}

// List returns the viewer's widgets, optionally filtered to one space.
func (s *WidgetService) List(viewerID uuid.UUID, spaceID string) ([]models.Widget, error) {
	query := s.db.
		Joins("JOIN spaces ON spaces.uid = widgets.space_id").
		Where("spaces.owner_id = ?", viewerID)

	if spaceID != "" {
		uid, err := uuid.Parse(spaceID)
		if err != nil {
			return nil, &ValidationError{Message: "space must be a valid space id"}
		}
		query = query.Where("widgets.space_id = ?", uid)
	}

	var widgets []models.Widget
	if err := query.Order("widgets.created_at ASC").Find(&widgets).Error; err != nil {
		return nil, err
	}
	return widgets, nil
}
