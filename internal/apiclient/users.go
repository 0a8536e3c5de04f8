package apiclient

import "context"

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	_, err := c.Get(ctx, "/users/me/", &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMe patches the authenticated user, including the default space.
func (c *Client) UpdateMe(ctx context.Context, update UserUpdate) (*User, error) {
	var u User
	_, err := c.Patch(ctx, "/users/me/", update, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
