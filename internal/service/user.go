package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homely-dev/homely/internal/auth"
	"github.com/homely-dev/homely/internal/models"
)

// UserService contains the business logic for account operations.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Create registers a new account with a starter space set as its default.
func (s *UserService) Create(username, email, password string) (*models.User, error) {
	if username == "" || email == "" {
		return nil, &ValidationError{Message: "username and email are required"}
	}
	if len(password) < 8 {
		return nil, &ValidationError{Message: "password must be at least 8 characters"}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		// Every account starts with one space so the dashboard is never empty.
		space := models.Space{
			OwnerID: user.UID,
			Name:    "My Space",
		}
		if err := tx.Create(&space).Error; err != nil {
			return fmt.Errorf("create starter space: %w", err)
		}

		user.DefaultSpaceID = &space.UID
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureDefaultSpace gives users created through Google sign-in their
// starter space on first profile fetch.
func (s *UserService) EnsureDefaultSpace(user *models.User) error {
	if user.DefaultSpaceID != nil {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		space := models.Space{
			OwnerID: user.UID,
			Name:    "My Space",
		}
		if err := tx.Create(&space).Error; err != nil {
			return fmt.Errorf("create starter space: %w", err)
		}
		user.DefaultSpaceID = &space.UID
		return tx.Save(user).Error
	})
}

// Me returns the profile view with the user's spaces attached.
func (s *UserService) Me(userID uuid.UUID) (*UserView, error) {
	var user models.User
	if err := s.db.Preload("Spaces").First(&user, "uid = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	view := &UserView{
		UID:       user.UID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Spaces:    user.Spaces,
	}
	if user.DefaultSpaceID != nil {
		view.DefaultSpace = user.DefaultSpaceID.String()
	}
	return view, nil
}

// UpdateMe applies a partial profile update. A default_space change is
// rejected unless the target space exists and belongs to the user.
func (s *UserService) UpdateMe(userID uuid.UUID, req UpdateUserRequest) (*UserView, error) {
	var user models.User
	if err := s.db.First(&user, "uid = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.DefaultSpace != nil {
		spaceID, err := uuid.Parse(*req.DefaultSpace)
		if err != nil {
			return nil, &ValidationError{Message: "default_space must be a valid space id"}
		}

		var space models.Space
		if err := s.db.First(&space, "uid = ?", spaceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ValidationError{Message: "default_space does not exist"}
			}
			return nil, err
		}
		if space.OwnerID != user.UID {
			return nil, &ValidationError{Message: "default_space must be owned by you"}
		}
		user.DefaultSpaceID = &space.UID
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return s.Me(user.UID)
}

// DB exposes the underlying handle for account lookups done outside the
// service layer, such as Google sign-in conversion.
func (s *UserService) DB() *gorm.DB { return s.db }
