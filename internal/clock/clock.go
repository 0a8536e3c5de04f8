// Package clock maintains one shared ticking "now" for every widget that
// displays time. The 1s ticker runs only while at least one widget is
// connected; formatting and time-of-day derivations are pure functions of
// the shared tick.
package clock

import (
	"sync"
	"time"
)

const tickInterval = time.Second

// Config is a widget's per-slot time configuration: an explicit timezone
// or the local one.
type Config struct {
	Timezone     string
	UseLocalTime bool
}

// TimeOfDay buckets the day for theming purposes.
type TimeOfDay string

const (
	Night   TimeOfDay = "night"
	Sunrise TimeOfDay = "sunrise"
	Day     TimeOfDay = "day"
	Sunset  TimeOfDay = "sunset"
)

// Gradient is a two-stop background gradient for a time of day.
type Gradient struct {
	From string
	To   string
}

var gradients = map[TimeOfDay]Gradient{
	Night:   {From: "#0f2027", To: "#203a43"},
	Sunrise: {From: "#ff9966", To: "#ff5e62"},
	Day:     {From: "#2980b9", To: "#6dd5fa"},
	Sunset:  {From: "#c33764", To: "#1d2671"},
}

// Service is the shared clock.
type Service struct {
	mu        sync.Mutex
	now       time.Time
	connected []string
	stop      chan struct{}
}

// NewService creates a stopped clock primed with the current time.
func NewService() *Service {
	return &Service{now: time.Now()}
}

// Connect registers a widget on the shared ticker, starting it on the
// first registration. Connect counts: duplicate connects need matching
// disconnects.
func (s *Service) Connect(widgetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = append(s.connected, widgetID)
	if s.stop != nil {
		return
	}

	stop := make(chan struct{})
	s.stop = stop
	s.now = time.Now()

	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case t := <-ticker.C:
				s.mu.Lock()
				s.now = t
				s.mu.Unlock()
			}
		}
	}()
}

// Disconnect removes one registration. Unknown ids are a no-op; the ticker
// stops when the last registration goes away.
func (s *Service) Disconnect(widgetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, id := range s.connected {
		if id == widgetID {
			s.connected = append(s.connected[:i], s.connected[i+1:]...)
			break
		}
	}
	if len(s.connected) == 0 && s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// Running reports whether the ticker is active.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// Now returns the shared tick.
func (s *Service) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// in shifts the shared tick into the config's zone. An unknown timezone
// falls back to local time rather than erroring; a widget with a bad zone
// still shows something sensible.
func (s *Service) in(cfg Config) time.Time {
	now := s.Now()
	if cfg.UseLocalTime || cfg.Timezone == "" {
		return now
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return now
	}
	return now.In(loc)
}

// Format renders the shared tick in the config's zone with a Go reference
// layout.
func (s *Service) Format(cfg Config, layout string) string {
	return s.in(cfg).Format(layout)
}

// GetTimeOfDay buckets the shared tick in the config's zone.
func (s *Service) GetTimeOfDay(cfg Config) TimeOfDay {
	return timeOfDay(s.in(cfg))
}

// GetColorGradient returns the background gradient for the config's
// current time of day.
func (s *Service) GetColorGradient(cfg Config) Gradient {
	return gradients[s.GetTimeOfDay(cfg)]
}

func timeOfDay(t time.Time) TimeOfDay {
	switch hour := t.Hour(); {
	case hour < 5:
		return Night
	case hour < 9:
		return Sunrise
	case hour < 17:
		return Day
	case hour < 20:
		return Sunset
	default:
		return Night
	}
}
