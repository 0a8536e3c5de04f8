package fonts

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeProvider struct {
	loads int32
	fonts []Font
}

func (f *fakeProvider) Fonts(ctx context.Context) ([]Font, error) {
	atomic.AddInt32(&f.loads, 1)
	return f.fonts, nil
}

func TestLoadIsSingleFlight(t *testing.T) {
	provider := &fakeProvider{fonts: []Font{
		{Family: "Inter", Category: "sans-serif"},
		{Family: "Lora", Category: "serif"},
	}}
	catalog := NewCatalog(provider)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := catalog.Load(context.Background()); err != nil {
				t.Errorf("Load: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&provider.loads); n != 1 {
		t.Fatalf("expected one catalog load, got %d", n)
	}

	// Subsequent loads hit the cache.
	if _, err := catalog.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n := atomic.LoadInt32(&provider.loads); n != 1 {
		t.Fatalf("cached catalog reloaded: %d loads", n)
	}

	if _, ok := catalog.ByFamily("Lora"); !ok {
		t.Fatal("family index missing after load")
	}
}

func TestStylesheetURLTracksConnectedWidgets(t *testing.T) {
	catalog := NewCatalog(&fakeProvider{})

	if got := catalog.StylesheetURL(); got != "" {
		t.Fatalf("expected empty URL with no widgets, got %q", got)
	}

	catalog.Connect("W1", "Open Sans")
	catalog.Connect("W2", "Inter")
	catalog.Connect("W3", "Inter") // shared family, counted once

	want := "https://fonts.googleapis.com/css2?family=Inter&family=Open+Sans&display=swap"
	if got := catalog.StylesheetURL(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	catalog.Disconnect("W2")
	if got := catalog.StylesheetURL(); got != want {
		t.Fatalf("family still referenced by W3, URL must not change: %q", got)
	}

	catalog.Disconnect("W3")
	want = "https://fonts.googleapis.com/css2?family=Open+Sans&display=swap"
	if got := catalog.StylesheetURL(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	catalog.Disconnect("W1")
	catalog.Disconnect("W1") // double disconnect is a no-op
	if got := catalog.StylesheetURL(); got != "" {
		t.Fatalf("expected empty URL after all disconnects, got %q", got)
	}
}
