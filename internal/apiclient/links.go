package apiclient

import (
	"context"
	"time"
)

// Link is cached Open Graph metadata for a URL.
type Link struct {
	UID       string                 `json:"uid"`
	URL       string                 `json:"url"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at,omitempty"`
	UpdatedAt time.Time              `json:"updated_at,omitempty"`
}

// GetLink resolves metadata for a URL, creating the cache entry
// server-side on first request.
func (c *Client) GetLink(ctx context.Context, linkURL string) (*Link, error) {
	var l Link
	_, err := c.Post(ctx, "/links/", map[string]string{"url": linkURL}, &l)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
