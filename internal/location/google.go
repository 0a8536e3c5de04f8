package location

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	geolocateURL = "https://www.googleapis.com/geolocation/v1/geolocate"
	geocodeURL   = "https://maps.googleapis.com/maps/api/geocode/json"
)

// GoogleClient resolves locations through the Google geolocation and
// geocoding APIs.
type GoogleClient struct {
	apiKey     string
	httpClient *http.Client

	geolocateURL string
	geocodeURL   string
}

// NewGoogleClient creates a client authenticating with apiKey.
func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		geolocateURL: geolocateURL,
		geocodeURL:   geocodeURL,
	}
}

// Geolocate resolves the caller's coordinates from network information.
func (c *GoogleClient) Geolocate(ctx context.Context) (float64, float64, error) {
	u := c.geolocateURL + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader([]byte("{}")))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var body struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, err
	}
	return body.Location.Lat, body.Location.Lng, nil
}

// ReverseGeocode resolves coordinates into address results.
func (c *GoogleClient) ReverseGeocode(ctx context.Context, lat, lng float64) ([]Place, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("latlng", fmt.Sprintf("%f,%f", lat, lng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.geocodeURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var body struct {
		Results []Place `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Results, nil
}
