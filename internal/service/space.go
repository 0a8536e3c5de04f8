package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homely-dev/homely/internal/models"
)

// SpaceService contains the business logic for space operations.
type SpaceService struct {
	db *gorm.DB
}

// NewSpaceService creates a new SpaceService.
func NewSpaceService(db *gorm.DB) *SpaceService {
	return &SpaceService{db: db}
}

// viewerID is uuid.Nil for anonymous requests.
func (s *SpaceService) view(space *models.Space, viewerID uuid.UUID) (*SpaceView, error) {
	var numBookmarks int64
	if err := s.db.Model(&models.Bookmark{}).Where("space_id = ?", space.UID).Count(&numBookmarks).Error; err != nil {
		return nil, err
	}

	bookmarked := false
	if viewerID != uuid.Nil {
		var n int64
		if err := s.db.Model(&models.Bookmark{}).
			Where("space_id = ? AND user_id = ?", space.UID, viewerID).
			Count(&n).Error; err != nil {
			return nil, err
		}
		bookmarked = n > 0
	}

	return &SpaceView{Space: *space, IsBookmarked: bookmarked, NumBookmarks: numBookmarks}, nil
}

func (s *SpaceService) views(spaces []models.Space, viewerID uuid.UUID) ([]SpaceView, error) {
	out := make([]SpaceView, 0, len(spaces))
	for i := range spaces {
		v, err := s.view(&spaces[i], viewerID)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// List returns the viewer's own spaces, or the public homepage set when
// homepageOnly is set.
func (s *SpaceService) List(viewerID uuid.UUID, homepageOnly bool) ([]SpaceView, error) {
	var spaces []models.Space

	query := s.db.Preload("Widgets").Order("created_at ASC")
	if homepageOnly {
		query = query.Where("is_homepage = ?", true)
	} else {
		if viewerID == uuid.Nil {
			return []SpaceView{}, nil
		}
		query = query.Where("owner_id = ?", viewerID)
	}

	if err := query.Find(&spaces).Error; err != nil {
		return nil, err
	}
	return s.views(spaces, viewerID)
}

// Get returns a single space with its widgets. Non-homepage spaces are
// visible only to their owner.
func (s *SpaceService) Get(id string, viewerID uuid.UUID) (*SpaceView, error) {
	space, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !space.IsHomepage && space.OwnerID != viewerID {
		return nil, ErrForbidden
	}
	return s.view(space, viewerID)
}

func (s *SpaceService) load(id string) (*models.Space, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var space models.Space
	if err := s.db.Preload("Widgets").First(&space, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &space, nil
}

// Create makes a new empty space owned by the viewer.
func (s *SpaceService) Create(req CreateSpaceRequest, ownerID uuid.UUID) (*SpaceView, error) {
	if req.Name == "" {
		return nil, &ValidationError{Message: "name is required"}
	}

	space := models.Space{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.db.Create(&space).Error; err != nil {
		return nil, fmt.Errorf("create space: %w", err)
	}
	return s.view(&space, ownerID)
}

// Update applies a partial update to an owned space.
func (s *SpaceService) Update(id string, req UpdateSpaceRequest, viewerID uuid.UUID) (*SpaceView, error) {
	space, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if space.OwnerID != viewerID {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, &ValidationError{Message: "name cannot be empty"}
		}
		space.Name = *req.Name
	}
	if req.Description != nil {
		space.Description = *req.Description
	}
	if req.IsHomepage != nil {
		space.IsHomepage = *req.IsHomepage
	}

	if err := s.db.Save(space).Error; err != nil {
		return nil, err
	}
	return s.view(space, viewerID)
}

// Delete removes an owned space and all its widgets and bookmarks.
func (s *SpaceService) Delete(id string, viewerID uuid.UUID) error {
	space, err := s.load(id)
	if err != nil {
		return err
	}
	if space.OwnerID != viewerID {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("space_id = ?", space.UID).Delete(&models.Widget{}).Error; err != nil {
			return err
		}
		if err := tx.Where("space_id = ?", space.UID).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		// Unset as default for any user pointing at it.
		if err := tx.Model(&models.User{}).
			Where("default_space_id = ?", space.UID).
			Update("default_space_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(space).Error
	})
}

// Clone copies a space and its widgets into a new space owned by the
// viewer, with fresh identifiers throughout.
func (s *SpaceService) Clone(id string, viewerID uuid.UUID) (*SpaceView, error) {
	src, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !src.IsHomepage && src.OwnerID != viewerID {
		return nil, ErrForbidden
	}

	clone := models.Space{
		OwnerID:     viewerID,
		Name:        src.Name + " (copy)",
		Description: src.Description,
		ClonedFrom:  &src.UID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&clone).Error; err != nil {
			return fmt.Errorf("create clone: %w", err)
		}

		for _, w := range src.Widgets {
			cw := models.Widget{
				SpaceID:   clone.UID,
				Type:      w.Type,
				Content:   w.Content,
				CardStyle: w.CardStyle,
				Layout:    w.Layout,
			}
			if err := tx.Create(&cw).Error; err != nil {
				return fmt.Errorf("clone widget: %w", err)
			}
		}

		return tx.Model(src).Update("num_clones", gorm.Expr("num_clones + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Space cloned", "source", src.UID, "clone", clone.UID, "user_id", viewerID)
	return s.Get(clone.UID.String(), viewerID)
}

// ToggleBookmark flips the viewer's bookmark on a space and returns the
// updated view.
func (s *SpaceService) ToggleBookmark(id string, viewerID uuid.UUID) (*SpaceView, error) {
	space, err := s.load(id)
	if err != nil {
		return nil, err
	}

	var existing models.Bookmark
	err = s.db.Where("space_id = ? AND user_id = ?", space.UID, viewerID).First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.Delete(&existing).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		bm := models.Bookmark{UserID: viewerID, SpaceID: space.UID}
		if err := s.db.Create(&bm).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.view(space, viewerID)
}

// Bookmarked returns the spaces the viewer has bookmarked.
func (s *SpaceService) Bookmarked(viewerID uuid.UUID) ([]SpaceView, error) {
	var bookmarks []models.Bookmark
	if err := s.db.Where("user_id = ?", viewerID).Find(&bookmarks).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(bookmarks))
	for _, b := range bookmarks {
		ids = append(ids, b.SpaceID)
	}
	if len(ids) == 0 {
		return []SpaceView{}, nil
	}

	var spaces []models.Space
	if err := s.db.Preload("Widgets").Where("uid IN ?", ids).Find(&spaces).Error; err != nil {
		return nil, err
	}
	return s.views(spaces, viewerID)
}
