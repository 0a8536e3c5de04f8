package store

import (
	"context"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/homely-dev/homely/internal/apiclient"
)

type fakeSpaceAPI struct {
	mu      sync.Mutex
	gets    int
	spaces  map[string]*apiclient.Space
	nextUID int
}

func newFakeSpaceAPI() *fakeSpaceAPI {
	return &fakeSpaceAPI{spaces: make(map[string]*apiclient.Space)}
}

func (f *fakeSpaceAPI) ListSpaces(ctx context.Context, params url.Values) ([]apiclient.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiclient.Space
	for _, s := range f.spaces {
		if params.Get("is_homepage") == "true" && !s.IsHomepage {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSpaceAPI) GetSpace(ctx context.Context, uid string) (*apiclient.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	s, ok := f.spaces[uid]
	if !ok {
		return nil, &apiclient.APIError{StatusCode: 404, Body: "not found"}
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSpaceAPI) CreateSpace(ctx context.Context, name string) (*apiclient.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextUID++
	s := &apiclient.Space{UID: "S" + name, Owner: "U1", Name: name}
	f.spaces[s.UID] = s
	cp := *s
	return &cp, nil
}

func (f *fakeSpaceAPI) UpdateSpace(ctx context.Context, uid string, patch map[string]any) (*apiclient.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.spaces[uid]
	if name, ok := patch["name"].(string); ok {
		s.Name = name
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSpaceAPI) DeleteSpace(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.spaces, uid)
	return nil
}

func (f *fakeSpaceAPI) ToggleBookmark(ctx context.Context, uid string) (*apiclient.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.spaces[uid]
	s.IsBookmarked = !s.IsBookmarked
	cp := *s
	return &cp, nil
}

func (f *fakeSpaceAPI) CloneSpace(ctx context.Context, uid string) (*apiclient.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	src := f.spaces[uid]
	clone := &apiclient.Space{UID: uid + "-clone", Owner: "U1", Name: src.Name + " (clone)"}
	f.spaces[clone.UID] = clone
	cp := *clone
	return &cp, nil
}

type fakeUserAPI struct {
	mu   sync.Mutex
	user apiclient.User
}

func (f *fakeUserAPI) UpdateMe(ctx context.Context, update apiclient.UserUpdate) (*apiclient.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if update.DefaultSpace != nil {
		f.user.DefaultSpace = *update.DefaultSpace
	}
	cp := f.user
	return &cp, nil
}

func testSpaceStore(t *testing.T) (*SpaceStore, *fakeSpaceAPI, *fakeWidgetAPI) {
	t.Helper()
	spaceAPI := newFakeSpaceAPI()
	widgetAPI := &fakeWidgetAPI{}
	users := &fakeUserAPI{user: apiclient.User{UID: "U1", Username: "ana"}}
	ws := NewWidgetStore(widgetAPI)
	ss := NewSpaceStore(spaceAPI, users, ws)
	ss.SeedFromUser(&apiclient.User{UID: "U1", Username: "ana"})
	return ss, spaceAPI, widgetAPI
}

func TestFetchSpaceRefetchesUntilWidgetsLoaded(t *testing.T) {
	ss, api, _ := testSpaceStore(t)
	api.spaces["S1"] = &apiclient.Space{UID: "S1", Owner: "U1", Name: "home",
		Widgets: []apiclient.Widget{hydrated("W1", "S1")}}

	// Metadata arrives without widgets (e.g. from a list response).
	ss.upsert(&apiclient.Space{UID: "S1", Owner: "U1", Name: "home"})

	got, err := ss.FetchSpace(context.Background(), "S1")
	if err != nil {
		t.Fatalf("FetchSpace: %v", err)
	}
	if !got.FetchedWidgets {
		t.Fatal("expected FetchedWidgets after fetch")
	}
	if api.gets != 1 {
		t.Fatalf("expected one GET, got %d", api.gets)
	}
	if _, ok := ss.Widgets().WidgetByID("W1"); !ok {
		t.Fatal("widgets not fed to widget store")
	}

	// Second fetch must come from cache.
	if _, err := ss.FetchSpace(context.Background(), "S1"); err != nil {
		t.Fatalf("FetchSpace (cached): %v", err)
	}
	if api.gets != 1 {
		t.Fatalf("cached space refetched: %d GETs", api.gets)
	}
}

func TestCreateSpaceUsesTwoWordName(t *testing.T) {
	ss, _, _ := testSpaceStore(t)

	sp, err := ss.CreateSpace(context.Background())
	if err != nil {
		t.Fatalf("CreateSpace: %v", err)
	}
	words := strings.Fields(sp.Name)
	if len(words) != 2 {
		t.Fatalf("expected two-word name, got %q", sp.Name)
	}
}

func TestDefaultSpaceExclusivity(t *testing.T) {
	ss, api, _ := testSpaceStore(t)
	for _, uid := range []string{"S1", "S2", "S3"} {
		api.spaces[uid] = &apiclient.Space{UID: uid, Owner: "U1", Name: uid}
	}
	if err := ss.FetchMySpaces(context.Background()); err != nil {
		t.Fatalf("FetchMySpaces: %v", err)
	}

	countDefaults := func() int {
		n := 0
		for _, sp := range ss.MySpaces() {
			if sp.IsDefault {
				n++
			}
		}
		return n
	}

	for _, uid := range []string{"S1", "S3", "S3", "S2"} {
		if err := ss.SetDefaultSpace(context.Background(), uid); err != nil {
			t.Fatalf("SetDefaultSpace(%s): %v", uid, err)
		}
		if n := countDefaults(); n != 1 {
			t.Fatalf("after setting %s: %d defaults, want 1", uid, n)
		}
	}

	if err := ss.SetDefaultSpace(context.Background(), ""); err != nil {
		t.Fatalf("SetDefaultSpace(clear): %v", err)
	}
	if n := countDefaults(); n != 0 {
		t.Fatalf("after clearing: %d defaults, want 0", n)
	}

	// Default space sorts first.
	if err := ss.SetDefaultSpace(context.Background(), "S3"); err != nil {
		t.Fatalf("SetDefaultSpace: %v", err)
	}
	my := ss.MySpaces()
	if len(my) != 3 || my[0].UID != "S3" {
		t.Fatalf("expected default first, got %v", my)
	}
}

func TestEditModeDiscardRestoresExactWidgetSet(t *testing.T) {
	ss, api, _ := testSpaceStore(t)
	api.spaces["S1"] = &apiclient.Space{UID: "S1", Owner: "U1", Name: "home",
		Widgets: []apiclient.Widget{hydrated("W1", "S1"), hydrated("W2", "S1")}}
	if _, err := ss.FetchSpace(context.Background(), "S1"); err != nil {
		t.Fatalf("FetchSpace: %v", err)
	}

	ws := ss.Widgets()
	before := ws.snapshotSpace("S1")

	ss.StartEditMode("S1")

	// Arbitrary draft churn: edit one, delete one, create one.
	ws.DraftUpdateWidget("W1", WidgetPatch{Content: map[string]any{"text": "changed"}})
	ws.DraftDeleteWidget("W2")
	draft := ws.DraftCreateWidget("S1", DraftInput{Type: apiclient.WidgetLink})

	ss.DiscardAndStopEditMode("S1")

	after := ws.snapshotSpace("S1")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("discard did not restore widget set:\nbefore: %+v\nafter:  %+v", before, after)
	}
	if _, ok := ws.WidgetByID(draft.UID); ok {
		t.Fatal("widget created during edit session survived discard")
	}
	w2, ok := ws.WidgetByID("W2")
	if !ok || w2.State.Deleted {
		t.Fatal("widget deleted during edit session not resurrected")
	}

	sp, _ := ss.Space("S1")
	if sp.EditMode {
		t.Fatal("edit mode flag not cleared")
	}
}

func TestToggleBookmarkAnonymousIsNoOp(t *testing.T) {
	spaceAPI := newFakeSpaceAPI()
	spaceAPI.spaces["S1"] = &apiclient.Space{UID: "S1", Owner: "U2", Name: "public"}
	ws := NewWidgetStore(&fakeWidgetAPI{})
	ss := NewSpaceStore(spaceAPI, &fakeUserAPI{}, ws)

	if err := ss.ToggleBookmark(context.Background(), "S1"); err != nil {
		t.Fatalf("ToggleBookmark: %v", err)
	}
	if spaceAPI.spaces["S1"].IsBookmarked {
		t.Fatal("anonymous toggle must not reach the server")
	}

	ss.SeedFromUser(&apiclient.User{UID: "U1"})
	if err := ss.ToggleBookmark(context.Background(), "S1"); err != nil {
		t.Fatalf("ToggleBookmark: %v", err)
	}
	if !spaceAPI.spaces["S1"].IsBookmarked {
		t.Fatal("authenticated toggle must reach the server")
	}
	if got := ss.MyBookmarkedSpaces(); len(got) != 1 || got[0].UID != "S1" {
		t.Fatalf("bookmarked view wrong: %v", got)
	}
}

func TestFetchHomepageSpaces(t *testing.T) {
	ss, api, _ := testSpaceStore(t)
	api.spaces["S1"] = &apiclient.Space{UID: "S1", Owner: "U2", Name: "front", IsHomepage: true}
	api.spaces["S2"] = &apiclient.Space{UID: "S2", Owner: "U2", Name: "private"}

	ids, err := ss.FetchHomepageSpaces(context.Background())
	if err != nil {
		t.Fatalf("FetchHomepageSpaces: %v", err)
	}
	if len(ids) != 1 || ids[0] != "S1" {
		t.Fatalf("expected only homepage spaces, got %v", ids)
	}
}

func TestFetchSpaceReturnsStableCopyUnderConcurrency(t *testing.T) {
	ss, api, _ := testSpaceStore(t)
	api.spaces["S1"] = &apiclient.Space{
		UID: "S1", Owner: "U1", Name: "Shelf",
		Widgets: []apiclient.Widget{},
	}

	if _, err := ss.FetchSpace(context.Background(), "S1"); err != nil {
		t.Fatal(err)
	}

	// Readers must get a snapshot taken under the lock; mutating the
	// collection concurrently must never tear a returned value.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := ss.FetchSpace(context.Background(), "S1")
				if err != nil {
					t.Error(err)
					return
				}
				if got.UID != "S1" {
					t.Errorf("torn read: %+v", got)
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			if _, err := ss.UpdateSpace(context.Background(), "S1", map[string]any{"name": "Shelf"}); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	wg.Wait()
}
