package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/homely-dev/homely/internal/apiclient"
)

// fakeWidgetAPI records calls and hands out sequential server uids.
type fakeWidgetAPI struct {
	mu      sync.Mutex
	creates int
	updates int
	deletes int
	nextUID int

	failUpdate map[string]error
	failDelete map[string]error
}

func (f *fakeWidgetAPI) calls() (creates, updates, deletes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates, f.updates, f.deletes
}

func (f *fakeWidgetAPI) CreateWidget(ctx context.Context, input apiclient.WidgetInput) (*apiclient.Widget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	f.nextUID++
	return &apiclient.Widget{
		UID:       fmt.Sprintf("W%d", f.nextUID),
		Space:     input.Space,
		Type:      input.Type,
		Content:   input.Content,
		CardStyle: input.CardStyle,
		Layout:    input.Layout,
	}, nil
}

func (f *fakeWidgetAPI) UpdateWidget(ctx context.Context, uid string, update apiclient.WidgetUpdate) (*apiclient.Widget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failUpdate[uid]; err != nil {
		return nil, err
	}
	f.updates++
	w := &apiclient.Widget{UID: uid, Content: update.Content, CardStyle: update.CardStyle}
	if update.Layout != nil {
		w.Layout = *update.Layout
	}
	return w, nil
}

func (f *fakeWidgetAPI) DeleteWidget(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failDelete[uid]; err != nil {
		return err
	}
	f.deletes++
	return nil
}

func testWidgetStore(t *testing.T) (*WidgetStore, *fakeWidgetAPI) {
	t.Helper()
	api := &fakeWidgetAPI{}
	return NewWidgetStore(api), api
}

func hydrated(uid, space string) apiclient.Widget {
	return apiclient.Widget{
		UID:     uid,
		Space:   space,
		Type:    apiclient.WidgetText,
		Content: map[string]any{"text": "hello"},
		Layout:  apiclient.Layout{W: 2, H: 2},
	}
}

func TestDraftCreateThenDeleteIsPurelyLocal(t *testing.T) {
	s, api := testWidgetStore(t)

	w := s.DraftCreateWidget("S1", DraftInput{
		Type:    apiclient.WidgetText,
		Content: map[string]any{"text": "hi"},
	})
	if !strings.HasPrefix(w.UID, "draft-") {
		t.Fatalf("expected temporary id, got %q", w.UID)
	}
	if !w.State.New || !w.State.Dirty || !w.State.Selected {
		t.Fatalf("unexpected state after draft create: %+v", w.State)
	}

	s.DraftDeleteWidget(w.UID)

	if _, ok := s.WidgetByID(w.UID); ok {
		t.Fatal("expected record removed after deleting a new draft")
	}
	if err := s.SaveDirtyWidgets(context.Background(), "S1"); err != nil {
		t.Fatalf("SaveDirtyWidgets: %v", err)
	}
	if c, u, d := api.calls(); c+u+d != 0 {
		t.Fatalf("expected no network calls, got creates=%d updates=%d deletes=%d", c, u, d)
	}
}

func TestDraftUpdateDeepMerges(t *testing.T) {
	s, _ := testWidgetStore(t)
	s.SetSpaceWidgets("S1", []apiclient.Widget{{
		UID:   "W1",
		Space: "S1",
		Type:  apiclient.WidgetText,
		Content: map[string]any{
			"text": "hello",
			"styles": map[string]any{
				"fontFamily": "Inter",
				"fontSize":   14,
			},
			"tags": []any{"a", "b"},
		},
	}})

	got, ok := s.DraftUpdateWidget("W1", WidgetPatch{
		Content: map[string]any{
			"styles": map[string]any{"fontSize": 18},
			"tags":   []any{"c"},
		},
	})
	if !ok {
		t.Fatal("expected widget to exist")
	}
	if !got.State.Dirty {
		t.Fatal("expected dirty after draft update")
	}
	if got.Content["text"] != "hello" {
		t.Fatalf("unpatched field changed: %v", got.Content["text"])
	}
	styles := got.Content["styles"].(map[string]any)
	if styles["fontSize"] != 18 || styles["fontFamily"] != "Inter" {
		t.Fatalf("nested merge wrong: %v", styles)
	}
	tags := got.Content["tags"].([]any)
	if len(tags) != 1 || tags[0] != "c" {
		t.Fatalf("arrays must replace wholesale, got %v", tags)
	}
}

func TestDraftUpdateUnknownIDIsNoOp(t *testing.T) {
	s, _ := testWidgetStore(t)
	if _, ok := s.DraftUpdateWidget("nope", WidgetPatch{Content: map[string]any{"x": 1}}); ok {
		t.Fatal("expected no-op for unknown id")
	}
	s.DraftDeleteWidget("nope")
	s.SelectWidgetByID("nope")
	s.MarkWidgetDirty("nope")
}

func TestDraftDeletePersistedWidget(t *testing.T) {
	s, _ := testWidgetStore(t)
	s.SetSpaceWidgets("S1", []apiclient.Widget{hydrated("W1", "S1")})
	s.SelectWidgetByID("W1")

	s.DraftDeleteWidget("W1")

	w, ok := s.WidgetByID("W1")
	if !ok {
		t.Fatal("persisted widget must stay in the collection until saved")
	}
	if !w.State.Deleted || !w.State.Dirty || w.State.Selected {
		t.Fatalf("unexpected state after draft delete: %+v", w.State)
	}
	if ids := s.ActiveWidgetsBySpace()["S1"]; len(ids) != 0 {
		t.Fatalf("deleted widget still active: %v", ids)
	}
	if ids := s.AllWidgetsBySpace()["S1"]; len(ids) != 1 {
		t.Fatalf("deleted widget missing from all-widgets view: %v", ids)
	}
}

func TestSaveLifecycleSwapsTemporaryID(t *testing.T) {
	s, api := testWidgetStore(t)

	draft := s.DraftCreateWidget("S1", DraftInput{
		Type:    apiclient.WidgetText,
		Content: map[string]any{"text": "hi"},
	})

	if err := s.SaveDirtyWidgets(context.Background(), "S1"); err != nil {
		t.Fatalf("SaveDirtyWidgets: %v", err)
	}

	if _, ok := s.WidgetByID(draft.UID); ok {
		t.Fatal("temporary record must be removed after save")
	}
	saved, ok := s.WidgetByID("W1")
	if !ok {
		t.Fatal("expected server record W1 in collection")
	}
	if saved.State != (State{}) {
		t.Fatalf("expected all flags cleared, got %+v", saved.State)
	}
	if saved.Content["text"] != "hi" {
		t.Fatalf("content lost in swap: %v", saved.Content)
	}
	if saved.Layout.I != "W1" {
		t.Fatalf("layout key not rekeyed to server id: %q", saved.Layout.I)
	}
	if c, _, _ := api.calls(); c != 1 {
		t.Fatalf("expected exactly one create, got %d", c)
	}
}

func TestSaveClearsDirtyOnUpdate(t *testing.T) {
	s, api := testWidgetStore(t)
	s.SetSpaceWidgets("S1", []apiclient.Widget{hydrated("W1", "S1")})
	s.DraftUpdateWidget("W1", WidgetPatch{Content: map[string]any{"text": "edited"}})

	if err := s.SaveDirtyWidgets(context.Background(), "S1"); err != nil {
		t.Fatalf("SaveDirtyWidgets: %v", err)
	}

	w, _ := s.WidgetByID("W1")
	if w.State.Dirty {
		t.Fatal("expected dirty cleared after successful save")
	}
	if w.Content["text"] != "edited" {
		t.Fatalf("expected server response merged, got %v", w.Content)
	}
	if _, u, _ := api.calls(); u != 1 {
		t.Fatalf("expected one update, got %d", u)
	}
}

func TestSavePartialFailureIsIsolated(t *testing.T) {
	s, api := testWidgetStore(t)
	api.failUpdate = map[string]error{"W2": errors.New("boom")}

	s.SetSpaceWidgets("S1", []apiclient.Widget{
		hydrated("W1", "S1"), hydrated("W2", "S1"), hydrated("W3", "S1"),
	})
	for _, uid := range []string{"W1", "W2", "W3"} {
		s.MarkWidgetDirty(uid)
	}

	err := s.SaveDirtyWidgets(context.Background(), "S1")
	if err == nil {
		t.Fatal("expected error from failing widget")
	}
	if !strings.Contains(err.Error(), "W2") {
		t.Fatalf("error should name the failing widget: %v", err)
	}

	w1, _ := s.WidgetByID("W1")
	w2, _ := s.WidgetByID("W2")
	w3, _ := s.WidgetByID("W3")
	if w1.State.Dirty || w3.State.Dirty {
		t.Fatal("siblings of the failing widget must be saved")
	}
	if !w2.State.Dirty {
		t.Fatal("failing widget must stay dirty for retry")
	}
	if s.IsSaving() {
		t.Fatal("IsSaving must clear even on failure")
	}
}

func TestDeleteWidgetsBySpaceCascades(t *testing.T) {
	s, api := testWidgetStore(t)
	s.SetSaveWindow(20 * time.Millisecond)
	s.SetSpaceWidgets("S1", []apiclient.Widget{
		hydrated("W1", "S1"), hydrated("W2", "S1"), hydrated("W3", "S1"),
	})

	s.DeleteWidgetsBySpace("S1")

	for _, uid := range []string{"W1", "W2", "W3"} {
		w, _ := s.WidgetByID(uid)
		if !w.State.Deleted || !w.State.Dirty {
			t.Fatalf("widget %s not flagged for deletion: %+v", uid, w.State)
		}
	}
	if ids := s.ActiveWidgetsBySpace()["S1"]; len(ids) != 0 {
		t.Fatalf("expected no active widgets, got %v", ids)
	}

	waitFor(t, time.Second, func() bool {
		return len(s.AllWidgetsBySpace()["S1"]) == 0
	})
	if _, _, d := api.calls(); d != 3 {
		t.Fatalf("expected 3 deletes, got %d", d)
	}
}

func TestScheduleSaveCoalescesBursts(t *testing.T) {
	s, api := testWidgetStore(t)
	s.SetSaveWindow(30 * time.Millisecond)
	s.SetSpaceWidgets("S1", []apiclient.Widget{hydrated("W1", "S1")})

	// Simulate a continuous drag: many mutations, many schedules.
	for i := 0; i < 10; i++ {
		s.DraftUpdateWidget("W1", WidgetPatch{Layout: &apiclient.Layout{X: i, W: 2, H: 2}})
		s.ScheduleSave("S1")
		time.Sleep(2 * time.Millisecond)
	}

	waitFor(t, time.Second, func() bool {
		w, _ := s.WidgetByID("W1")
		return !w.State.Dirty
	})
	if _, u, _ := api.calls(); u != 1 {
		t.Fatalf("expected burst coalesced into one update, got %d", u)
	}
	w, _ := s.WidgetByID("W1")
	if w.Layout.X != 9 {
		t.Fatalf("expected last position to win, got x=%d", w.Layout.X)
	}
}

func TestMaxLayoutPosition(t *testing.T) {
	s, _ := testWidgetStore(t)
	s.SetSpaceWidgets("S1", []apiclient.Widget{
		{UID: "W1", Space: "S1", Layout: apiclient.Layout{X: 0, Y: 0, W: 2, H: 3}},
		{UID: "W2", Space: "S1", Layout: apiclient.Layout{X: 4, Y: 2, W: 2, H: 2}},
	})

	x, y := s.MaxLayoutPosition("S1")
	if x != 6 || y != 4 {
		t.Fatalf("got (%d,%d), want (6,4)", x, y)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before timeout")
}
