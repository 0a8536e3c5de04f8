package apiclient

import (
	"context"
	"fmt"
	"net/url"
)

// ListSpaces returns spaces visible to the caller. Params are passed through
// as query parameters (e.g. is_homepage=true).
func (c *Client) ListSpaces(ctx context.Context, params url.Values) ([]Space, error) {
	path := "/spaces/"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var spaces []Space
	_, err := c.Get(ctx, path, &spaces)
	if err != nil {
		return nil, err
	}
	return spaces, nil
}

// GetSpace returns a space with its widgets.
func (c *Client) GetSpace(ctx context.Context, uid string) (*Space, error) {
	var s Space
	_, err := c.Get(ctx, fmt.Sprintf("/spaces/%s/", uid), &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSpace creates a new space.
func (c *Client) CreateSpace(ctx context.Context, name string) (*Space, error) {
	var s Space
	_, err := c.Post(ctx, "/spaces/", map[string]string{"name": name}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSpace patches a space's metadata.
func (c *Client) UpdateSpace(ctx context.Context, uid string, patch map[string]any) (*Space, error) {
	var s Space
	_, err := c.Patch(ctx, fmt.Sprintf("/spaces/%s/", uid), patch, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSpace deletes a space by ID.
func (c *Client) DeleteSpace(ctx context.Context, uid string) error {
	_, err := c.Delete(ctx, fmt.Sprintf("/spaces/%s/", uid))
	return err
}

// ToggleBookmark toggles the caller's bookmark on a space.
func (c *Client) ToggleBookmark(ctx context.Context, uid string) (*Space, error) {
	var s Space
	_, err := c.Post(ctx, fmt.Sprintf("/spaces/%s/toggle-bookmark/", uid), nil, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CloneSpace copies a space and its widgets into the caller's account.
func (c *Client) CloneSpace(ctx context.Context, uid string) (*Space, error) {
	var s Space
	_, err := c.Post(ctx, fmt.Sprintf("/spaces/%s/clone/", uid), nil, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
