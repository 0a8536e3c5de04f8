// Package weather fetches and caches forecast data for the dashboard's
// weather widgets. Entries are shared across every widget pointing at the
// same location and refreshed by a single poller that only runs while at
// least one widget is connected.
package weather

import (
	"sync"
	"time"

	"github.com/homely-dev/homely/internal/location"
)

// DefaultTTL is the freshness window for cached entries.
const DefaultTTL = 30 * time.Minute

// Conditions describes the current weather at a location.
type Conditions struct {
	Temp        float64 `json:"temp"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Sunrise     int64   `json:"sunrise"`
	Sunset      int64   `json:"sunset"`
}

// DayForecast is one day of the daily forecast.
type DayForecast struct {
	Date        int64   `json:"dt"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// Report is what the provider returns for one location.
type Report struct {
	Currently Conditions    `json:"currently"`
	Forecast  []DayForecast `json:"forecast"`
	Timezone  string        `json:"timezone"`
}

// FetchParams records what an entry was fetched with; a units mismatch
// makes the entry stale regardless of age.
type FetchParams struct {
	Units    string            `json:"units"`
	Location location.Location `json:"location"`
}

// Entry is a cached report keyed by the location's formatted address.
type Entry struct {
	Report
	FetchedOn   time.Time   `json:"fetched_on"`
	FetchedWith FetchParams `json:"fetched_with"`
}

// Cache is a TTL cache of weather entries keyed by formatted address.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given freshness window. A non-positive
// ttl falls back to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached entry for a location, fresh or not.
func (c *Cache) Get(loc location.Location) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[loc.FormattedAddress]
	return e, ok
}

// ShouldFetch reports whether a fetch is needed: no entry, units mismatch,
// or the entry's age has reached the TTL. Staleness is a pure function of
// FetchedOn and the requested units.
func (c *Cache) ShouldFetch(loc location.Location, units string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[loc.FormattedAddress]
	if !ok {
		return true
	}
	if units != "" && e.FetchedWith.Units != units {
		return true
	}
	return c.now().Sub(e.FetchedOn) >= c.ttl
}

// Put stores a report, replacing any prior entry for the location.
func (c *Cache) Put(loc location.Location, units string, report Report) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := Entry{
		Report:      report,
		FetchedOn:   c.now(),
		FetchedWith: FetchParams{Units: units, Location: loc},
	}
	c.entries[loc.FormattedAddress] = e
	return e
}

// Snapshot copies the cache contents for persistence.
func (c *Cache) Snapshot() map[string]Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]Entry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Restore seeds the cache from a persisted snapshot. Stale entries are kept;
// ShouldFetch handles them on first use while the widget shows the
// last-known value.
func (c *Cache) Restore(entries map[string]Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range entries {
		c.entries[k] = v
	}
}
