package apiclient

import (
	"context"
	"fmt"
)

// GetWidget returns a widget by ID.
func (c *Client) GetWidget(ctx context.Context, uid string) (*Widget, error) {
	var w Widget
	_, err := c.Get(ctx, fmt.Sprintf("/widgets/%s/", uid), &w)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWidget creates a new widget.
func (c *Client) CreateWidget(ctx context.Context, input WidgetInput) (*Widget, error) {
	var w Widget
	_, err := c.Post(ctx, "/widgets/", input, &w)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateWidget patches an existing widget.
func (c *Client) UpdateWidget(ctx context.Context, uid string, update WidgetUpdate) (*Widget, error) {
	var w Widget
	_, err := c.Patch(ctx, fmt.Sprintf("/widgets/%s/", uid), update, &w)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// DeleteWidget deletes a widget by ID.
func (c *Client) DeleteWidget(ctx context.Context, uid string) error {
	_, err := c.Delete(ctx, fmt.Sprintf("/widgets/%s/", uid))
	return err
}
