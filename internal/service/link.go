package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homely-dev/homely/internal/models"
)

// LinkService caches Open Graph metadata for URLs used by link widgets.
type LinkService struct {
	db      *gorm.DB
	fetcher MetadataFetcher
}

// NewLinkService creates a new LinkService.
func NewLinkService(db *gorm.DB, fetcher MetadataFetcher) *LinkService {
	return &LinkService{db: db, fetcher: fetcher}
}

// GetOrCreate returns the cached link for the URL, scraping its
// metadata on first sight. The cache is shared across users; the
// first requester is recorded as the creator.
func (s *LinkService) GetOrCreate(ctx context.Context, rawURL string, viewerID uuid.UUID) (*models.Link, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &ValidationError{Message: "url must be a valid http(s) URL"}
	}

	var link models.Link
	err = s.db.First(&link, "url = ?", rawURL).Error
	if err == nil {
		return &link, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	metadata, err := s.fetcher.FetchMetadata(ctx, rawURL)
	if err != nil {
		// The page being unreachable should not block placing the
		// widget. Store the link bare so a later refresh can fill it.
		slog.Warn("Failed to fetch link metadata", "url", rawURL, "error", err)
		metadata = map[string]interface{}{}
	}

	link = models.Link{
		CreatedByID: viewerID,
		URL:         rawURL,
		Metadata:    metadata,
	}
	if err := s.db.Create(&link).Error; err != nil {
		// Lost a race with a concurrent create for the same URL.
		var existing models.Link
		if lookupErr := s.db.First(&existing, "url = ?", rawURL).Error; lookupErr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("create link: %w", err)
	}
	return &link, nil
}
