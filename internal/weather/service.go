package weather

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/homely-dev/homely/internal/location"
)

// DefaultPollInterval is how often connected widgets are refreshed.
const DefaultPollInterval = time.Hour

// Item is one independently resolved weather slot on a widget: its own
// location-or-current-location choice and its own units.
type Item struct {
	Location           *location.Location
	UseCurrentLocation bool
	Units              string
}

// ContentSource is the widget store's query surface. The service never
// mutates widgets; it only reads their configuration.
type ContentSource interface {
	WidgetContent(uid string) (map[string]any, bool)
}

// Locator resolves the user's current location.
type Locator interface {
	Current(ctx context.Context) (location.Location, error)
}

// Service keeps weather fresh for the set of connected widgets. The poll
// ticker runs only while that set is non-empty.
type Service struct {
	provider     Provider
	cache        *Cache
	widgets      ContentSource
	locations    Locator
	pollInterval time.Duration
	defaultUnits string

	mu        sync.Mutex
	connected []string
	stop      chan struct{}
}

// NewService wires the weather service. A non-positive pollInterval falls
// back to DefaultPollInterval.
func NewService(provider Provider, cache *Cache, widgets ContentSource, locations Locator, pollInterval time.Duration, defaultUnits string) *Service {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if defaultUnits == "" {
		defaultUnits = "metric"
	}
	return &Service{
		provider:     provider,
		cache:        cache,
		widgets:      widgets,
		locations:    locations,
		pollInterval: pollInterval,
		defaultUnits: defaultUnits,
	}
}

// Cache exposes the shared entry cache for readers.
func (s *Service) Cache() *Cache { return s.cache }

// Connect registers a widget's interest in live weather, fetches
// immediately and starts the poller if it was idle. Connect counts: a
// widget connected twice must disconnect twice.
func (s *Service) Connect(ctx context.Context, widgetID string) {
	if err := s.UpdateWidget(ctx, widgetID); err != nil {
		slog.Warn("initial weather fetch failed", "widget", widgetID, "error", err)
	}

	s.mu.Lock()
	s.connected = append(s.connected, widgetID)
	s.startLocked()
	s.mu.Unlock()
}

// Disconnect removes one registration of a widget. Disconnecting an id that
// was never connected is a no-op. The poller stops when the last
// registration goes away.
func (s *Service) Disconnect(widgetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, id := range s.connected {
		if id == widgetID {
			s.connected = append(s.connected[:i], s.connected[i+1:]...)
			break
		}
	}
	if len(s.connected) == 0 {
		s.stopLocked()
	}
}

// Active reports whether the poll ticker is running.
func (s *Service) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// startLocked starts the poll loop if it is not already running.
func (s *Service) startLocked() {
	if s.stop != nil {
		return
	}
	stop := make(chan struct{})
	s.stop = stop

	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.UpdateAllWeatherWidgets(context.Background())
			}
		}
	}()
}

func (s *Service) stopLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

// UpdateAllWeatherWidgets refreshes every connected widget, one at a time,
// tolerating per-widget failure.
func (s *Service) UpdateAllWeatherWidgets(ctx context.Context) {
	s.mu.Lock()
	ids := append([]string(nil), s.connected...)
	s.mu.Unlock()

	for _, id := range ids {
		if err := s.UpdateWidget(ctx, id); err != nil {
			slog.Warn("weather refresh failed", "widget", id, "error", err)
		}
	}
}

// UpdateWidget refreshes the cache for every weather item a widget holds.
// Items fail independently; the last error is returned. A widget the store
// no longer knows is a no-op.
func (s *Service) UpdateWidget(ctx context.Context, widgetID string) error {
	content, ok := s.widgets.WidgetContent(widgetID)
	if !ok {
		return nil
	}

	var lastErr error
	for _, item := range ItemsFromContent(content) {
		if _, err := s.Resolve(ctx, item); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Resolve returns a fresh-enough entry for an item, fetching from the
// provider when the cache says so. On provider failure the last-known
// entry, if any, is returned alongside the error.
func (s *Service) Resolve(ctx context.Context, item Item) (Entry, error) {
	units := item.Units
	if units == "" {
		units = s.defaultUnits
	}

	var loc location.Location
	if item.UseCurrentLocation || item.Location == nil {
		current, err := s.locations.Current(ctx)
		if err != nil {
			return Entry{}, err
		}
		loc = current
	} else {
		loc = *item.Location
	}

	if !s.cache.ShouldFetch(loc, units) {
		e, _ := s.cache.Get(loc)
		return e, nil
	}

	report, err := s.provider.OneCall(ctx, loc.Lat, loc.Lng, units)
	if err != nil {
		e, _ := s.cache.Get(loc)
		return e, err
	}
	return s.cache.Put(loc, units, *report), nil
}

// ItemsFromContent decodes the weather items of a widget's content payload.
// Older widgets carry a single item at the top level instead of an items
// list; both shapes are understood.
func ItemsFromContent(content map[string]any) []Item {
	raw, ok := content["items"].([]any)
	if !ok {
		if item, ok := itemFromMap(content); ok {
			return []Item{item}
		}
		return nil
	}

	var items []Item
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if item, ok := itemFromMap(m); ok {
			items = append(items, item)
		}
	}
	return items
}

func itemFromMap(m map[string]any) (Item, bool) {
	item := Item{}
	if v, ok := m["use_current_location"].(bool); ok {
		item.UseCurrentLocation = v
	}
	if v, ok := m["units"].(string); ok {
		item.Units = v
	}
	if locMap, ok := m["location"].(map[string]any); ok {
		loc := location.Location{}
		if v, ok := locMap["name"].(string); ok {
			loc.Name = v
		}
		if v, ok := locMap["formatted_address"].(string); ok {
			loc.FormattedAddress = v
		}
		if v, ok := locMap["lat"].(float64); ok {
			loc.Lat = v
		}
		if v, ok := locMap["lng"].(float64); ok {
			loc.Lng = v
		}
		item.Location = &loc
	}
	if item.Location == nil && !item.UseCurrentLocation {
		return Item{}, false
	}
	return item, true
}
