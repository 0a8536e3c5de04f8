package fonts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const webfontsURL = "https://www.googleapis.com/webfonts/v1/webfonts"

// GoogleClient fetches the catalog from the Google Webfonts API.
type GoogleClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewGoogleClient creates a client authenticating with apiKey.
func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: webfontsURL,
	}
}

// Fonts fetches the full catalog, alphabetically sorted.
func (c *GoogleClient) Fonts(ctx context.Context) ([]Font, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("sort", "alpha")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fonts API returned status %d", resp.StatusCode)
	}

	var body struct {
		Items []Font `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Items, nil
}
