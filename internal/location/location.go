// Package location resolves and memoizes the user's current geographic
// location. Resolution happens at most once per session: concurrent callers
// share one in-flight lookup instead of launching duplicates.
package location

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Location is a resolved place. FormattedAddress is the cache and dedup key
// used by the weather layer.
type Location struct {
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
}

// AddressComponent is one component of a reverse-geocoded address.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Place is one reverse-geocoding result.
type Place struct {
	FormattedAddress  string             `json:"formatted_address"`
	AddressComponents []AddressComponent `json:"address_components"`
}

// Geocoder is the provider surface: IP geolocation plus reverse geocoding.
type Geocoder interface {
	Geolocate(ctx context.Context) (lat, lng float64, err error)
	ReverseGeocode(ctx context.Context, lat, lng float64) ([]Place, error)
}

// Service caches the current location for the session.
type Service struct {
	geo   Geocoder
	group singleflight.Group

	mu      sync.Mutex
	current *Location
}

// NewService creates a location service resolving through geo.
func NewService(geo Geocoder) *Service {
	return &Service{geo: geo}
}

// Current returns the resolved location, resolving it on first use. A
// boolean-guard would still let two callers in the same tick both start a
// lookup, so the in-flight resolution itself is shared.
func (s *Service) Current(ctx context.Context) (Location, error) {
	s.mu.Lock()
	if s.current != nil {
		loc := *s.current
		s.mu.Unlock()
		return loc, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do("current", func() (any, error) {
		loc, err := s.resolve(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.current = &loc
		s.mu.Unlock()
		return loc, nil
	})
	if err != nil {
		return Location{}, err
	}
	return v.(Location), nil
}

// Invalidate drops the cached location so the next Current resolves again.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *Service) resolve(ctx context.Context) (Location, error) {
	lat, lng, err := s.geo.Geolocate(ctx)
	if err != nil {
		return Location{}, fmt.Errorf("geolocating: %w", err)
	}

	places, err := s.geo.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return Location{}, fmt.Errorf("reverse geocoding: %w", err)
	}
	if len(places) == 0 {
		return Location{}, fmt.Errorf("no reverse geocoding results for %f,%f", lat, lng)
	}

	return Location{
		Name:             placeLabel(places[0]),
		FormattedAddress: places[0].FormattedAddress,
		Lat:              lat,
		Lng:              lng,
	}, nil
}

// placeLabel derives a human label, preferring the most local component:
// neighborhood, then sublocality, then locality, then the full address.
func placeLabel(p Place) string {
	for _, wanted := range []string{"neighborhood", "sublocality", "locality"} {
		for _, c := range p.AddressComponents {
			for _, t := range c.Types {
				if t == wanted {
					return c.LongName
				}
			}
		}
	}
	return p.FormattedAddress
}
