package apiclient

import "context"

// Login exchanges a username and password for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var pair TokenPair
	_, err := c.Post(ctx, "/auth/login/", LoginRequest{Username: username, Password: password}, &pair)
	if err != nil {
		return nil, err
	}
	c.token = pair.Access
	return &pair, nil
}

// LoginWithGoogle converts a Google ID token into a Homely token pair.
func (c *Client) LoginWithGoogle(ctx context.Context, googleToken string) (*TokenPair, error) {
	var pair TokenPair
	_, err := c.Post(ctx, "/auth/google/", map[string]string{"token": googleToken}, &pair)
	if err != nil {
		return nil, err
	}
	c.token = pair.Access
	return &pair, nil
}

// VerifyToken reports whether an access token is still valid. Transport and
// validation failures both read as "not valid"; the session layer treats that
// as a prompt to refresh, never as a fatal error.
func (c *Client) VerifyToken(ctx context.Context, token string) bool {
	var res struct {
		Code string `json:"code"`
	}
	_, err := c.Post(ctx, "/auth/token/verify/", map[string]string{"token": token}, &res)
	if err != nil {
		return false
	}
	return res.Code != "token_not_valid"
}

// RefreshToken exchanges a refresh token for a fresh access token. Returns
// empty on any failure rather than an error, mirroring VerifyToken.
func (c *Client) RefreshToken(ctx context.Context, refresh string) string {
	var res struct {
		Access string `json:"access"`
		Code   string `json:"code"`
	}
	_, err := c.Post(ctx, "/auth/token/refresh/", map[string]string{"refresh": refresh}, &res)
	if err != nil || res.Code == "token_not_valid" {
		return ""
	}
	return res.Access
}

// Logout invalidates the caller's sessions server side.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Post(ctx, "/auth/logout/", nil, nil)
	return err
}
