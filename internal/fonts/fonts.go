// Package fonts lazily loads the font catalog and derives a minimal
// stylesheet URL from only the font families the connected widgets
// actually reference.
package fonts

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

const stylesheetBase = "https://fonts.googleapis.com/css2"

// Font is one catalog entry.
type Font struct {
	Family   string            `json:"family"`
	Variants []string          `json:"variants"`
	Category string            `json:"category"`
	Subsets  []string          `json:"subsets"`
	Files    map[string]string `json:"files"`
	Version  string            `json:"version"`
}

// Provider fetches the full font list, alphabetically sorted.
type Provider interface {
	Fonts(ctx context.Context) ([]Font, error)
}

// Catalog loads the font list once per session and tracks which widget
// needs which family.
type Catalog struct {
	provider Provider
	group    singleflight.Group

	mu        sync.Mutex
	fonts     []Font
	byFamily  map[string]Font
	loaded    bool
	connected map[string]string // widget id -> family
}

// NewCatalog creates an empty catalog loading through provider.
func NewCatalog(provider Provider) *Catalog {
	return &Catalog{
		provider:  provider,
		byFamily:  make(map[string]Font),
		connected: make(map[string]string),
	}
}

// Load returns the catalog, fetching it on first use. Concurrent callers
// share one in-flight load.
func (c *Catalog) Load(ctx context.Context) ([]Font, error) {
	c.mu.Lock()
	if c.loaded {
		fonts := c.fonts
		c.mu.Unlock()
		return fonts, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("load", func() (any, error) {
		fonts, err := c.provider.Fonts(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.fonts = fonts
		c.byFamily = make(map[string]Font, len(fonts))
		for _, f := range fonts {
			c.byFamily[f.Family] = f
		}
		c.loaded = true
		c.mu.Unlock()
		return fonts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Font), nil
}

// ByFamily returns a catalog entry by family name, if loaded.
func (c *Catalog) ByFamily(family string) (Font, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.byFamily[family]
	return f, ok
}

// Connect records that a widget renders with a font family.
func (c *Catalog) Connect(widgetID, family string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected[widgetID] = family
}

// Disconnect forgets a widget. Unknown ids are a no-op.
func (c *Catalog) Disconnect(widgetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.connected, widgetID)
}

// StylesheetURL builds the font-loading stylesheet URL from the families
// of the currently connected widgets, deduplicated and sorted. Empty when
// nothing is connected. Recomputed from current state on every call.
func (c *Catalog) StylesheetURL() string {
	c.mu.Lock()
	families := make(map[string]bool)
	for _, family := range c.connected {
		if family != "" {
			families[family] = true
		}
	}
	c.mu.Unlock()

	if len(families) == 0 {
		return ""
	}

	sorted := make([]string, 0, len(families))
	for f := range families {
		sorted = append(sorted, f)
	}
	sort.Strings(sorted)

	var sb strings.Builder
	sb.WriteString(stylesheetBase)
	for i, f := range sorted {
		if i == 0 {
			sb.WriteString("?family=")
		} else {
			sb.WriteString("&family=")
		}
		sb.WriteString(url.QueryEscape(f))
	}
	sb.WriteString("&display=swap")
	return sb.String()
}
