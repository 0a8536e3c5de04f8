package location

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeGeocoder struct {
	geolocates int32
	geocodes   int32
	places     []Place
}

func (f *fakeGeocoder) Geolocate(ctx context.Context) (float64, float64, error) {
	atomic.AddInt32(&f.geolocates, 1)
	return 47.49, 19.04, nil
}

func (f *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) ([]Place, error) {
	atomic.AddInt32(&f.geocodes, 1)
	return f.places, nil
}

func TestCurrentIsSingleFlight(t *testing.T) {
	geo := &fakeGeocoder{places: []Place{{
		FormattedAddress: "Budapest, Hungary",
		AddressComponents: []AddressComponent{
			{LongName: "Budapest", Types: []string{"locality", "political"}},
		},
	}}}
	svc := NewService(geo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Current(context.Background()); err != nil {
				t.Errorf("Current: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&geo.geolocates); n != 1 {
		t.Fatalf("expected one geolocate, got %d", n)
	}

	loc, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if loc.Name != "Budapest" {
		t.Fatalf("expected locality label, got %q", loc.Name)
	}
	if n := atomic.LoadInt32(&geo.geolocates); n != 1 {
		t.Fatalf("cached location re-resolved: %d geolocates", n)
	}

	svc.Invalidate()
	if _, err := svc.Current(context.Background()); err != nil {
		t.Fatalf("Current after invalidate: %v", err)
	}
	if n := atomic.LoadInt32(&geo.geolocates); n != 2 {
		t.Fatalf("expected re-resolution after invalidate, got %d", n)
	}
}

func TestPlaceLabelPreference(t *testing.T) {
	tests := []struct {
		name  string
		place Place
		want  string
	}{
		{
			name: "neighborhood wins",
			place: Place{
				FormattedAddress: "X",
				AddressComponents: []AddressComponent{
					{LongName: "Downtown", Types: []string{"locality"}},
					{LongName: "Old Town", Types: []string{"neighborhood"}},
				},
			},
			want: "Old Town",
		},
		{
			name: "sublocality beats locality",
			place: Place{
				FormattedAddress: "X",
				AddressComponents: []AddressComponent{
					{LongName: "Springfield", Types: []string{"locality"}},
					{LongName: "Riverside", Types: []string{"sublocality"}},
				},
			},
			want: "Riverside",
		},
		{
			name:  "falls back to formatted address",
			place: Place{FormattedAddress: "1 Main St, Springfield"},
			want:  "1 Main St, Springfield",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := placeLabel(tt.place); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
