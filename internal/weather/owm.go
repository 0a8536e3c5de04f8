package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const oneCallURL = "https://api.openweathermap.org/data/3.0/onecall"

// Provider fetches a weather report for coordinates.
type Provider interface {
	OneCall(ctx context.Context, lat, lng float64, units string) (*Report, error)
}

// OWMClient is an OpenWeatherMap One Call client.
type OWMClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewOWMClient creates a client authenticating with apiKey.
func NewOWMClient(apiKey string) *OWMClient {
	return &OWMClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: oneCallURL,
	}
}

// OneCall fetches current conditions, the daily forecast and the location's
// timezone. Minutely, hourly and alert blocks are excluded.
func (c *OWMClient) OneCall(ctx context.Context, lat, lng float64, units string) (*Report, error) {
	params := url.Values{}
	params.Set("appid", c.apiKey)
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lng))
	params.Set("units", units)
	params.Set("exclude", "minutely,hourly,alerts")

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
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var body struct {
		Timezone string `json:"timezone"`
		Current  struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
			WindSpeed float64 `json:"wind_speed"`
			Sunrise   int64   `json:"sunrise"`
			Sunset    int64   `json:"sunset"`
			Weather   []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
		} `json:"current"`
		Daily []struct {
			Dt   int64 `json:"dt"`
			Temp struct {
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"temp"`
			Weather []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	report := &Report{
		Timezone: body.Timezone,
		Currently: Conditions{
			Temp:      body.Current.Temp,
			FeelsLike: body.Current.FeelsLike,
			Humidity:  body.Current.Humidity,
			WindSpeed: body.Current.WindSpeed,
			Sunrise:   body.Current.Sunrise,
			Sunset:    body.Current.Sunset,
		},
	}
	if len(body.Current.Weather) > 0 {
		report.Currently.Description = body.Current.Weather[0].Description
		report.Currently.Icon = body.Current.Weather[0].Icon
	}
	for _, d := range body.Daily {
		day := DayForecast{Date: d.Dt, Min: d.Temp.Min, Max: d.Temp.Max}
		if len(d.Weather) > 0 {
			day.Description = d.Weather[0].Description
			day.Icon = d.Weather[0].Icon
		}
		report.Forecast = append(report.Forecast, day)
	}
	return report, nil
}
