// Package store holds the client-side state for the dashboard: the
// normalized widget collection with its draft/dirty/delete lifecycle, and
// the space collection that composes it. All mutation goes through store
// methods; callers only ever see copies of the records.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homely-dev/homely/internal/apiclient"
)

// DefaultSaveWindow is the quiet period the debounced save waits for before
// flushing dirty widgets.
const DefaultSaveWindow = 500 * time.Millisecond

// State carries the local-only lifecycle flags of a widget. It is never
// sent to the server.
type State struct {
	Selected bool
	Dirty    bool
	Deleted  bool
	New      bool
}

// Widget is a widget record plus its local lifecycle state.
type Widget struct {
	apiclient.Widget
	State State
}

// DraftInput is the caller-supplied part of a new widget. The uid, space and
// state are computed by the store.
type DraftInput struct {
	Type      apiclient.WidgetType
	Content   map[string]any
	CardStyle map[string]any
	Layout    apiclient.Layout
}

// WidgetPatch is a draft update. Content and CardStyle merge key-wise into
// the existing maps (nested maps recurse, slices and scalars replace);
// Layout, when set, replaces the existing layout wholesale.
type WidgetPatch struct {
	Content   map[string]any
	CardStyle map[string]any
	Layout    *apiclient.Layout
}

// WidgetAPI is the server surface the widget store syncs against.
type WidgetAPI interface {
	CreateWidget(ctx context.Context, input apiclient.WidgetInput) (*apiclient.Widget, error)
	UpdateWidget(ctx context.Context, uid string, update apiclient.WidgetUpdate) (*apiclient.Widget, error)
	DeleteWidget(ctx context.Context, uid string) error
}

// WidgetStore is the single source of truth for all widgets across all
// loaded spaces.
type WidgetStore struct {
	api WidgetAPI

	mu         sync.Mutex
	collection map[string]*Widget
	order      []string // uids in insertion order
	spaces     []string // space ids seen so far
	saving     bool

	saveWindow time.Duration
	timersMu   sync.Mutex
	timers     map[string]*time.Timer // per-space debounce timers
}

// NewWidgetStore creates an empty widget store syncing through api.
func NewWidgetStore(api WidgetAPI) *WidgetStore {
	return &WidgetStore{
		api:        api,
		collection: make(map[string]*Widget),
		saveWindow: DefaultSaveWindow,
		timers:     make(map[string]*time.Timer),
	}
}

// SetSaveWindow overrides the debounce quiet period. Zero restores the default.
func (s *WidgetStore) SetSaveWindow(d time.Duration) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if d <= 0 {
		d = DefaultSaveWindow
	}
	s.saveWindow = d
}

// SetSpaceWidgets bulk-upserts server-hydrated widgets for a space,
// overwriting any existing records with matching ids. Idempotent.
func (s *WidgetStore) SetSpaceWidgets(spaceID string, widgets []apiclient.Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registerSpace(spaceID)
	for _, w := range widgets {
		rec := &Widget{Widget: w}
		rec.Space = spaceID
		rec.Layout.I = rec.UID
		s.insert(rec)
	}
}

// registerSpace records a space id once. Caller holds the lock.
func (s *WidgetStore) registerSpace(spaceID string) {
	for _, id := range s.spaces {
		if id == spaceID {
			return
		}
	}
	s.spaces = append(s.spaces, spaceID)
}

// insert adds or replaces a record, keeping the insertion order stable.
// Caller holds the lock.
func (s *WidgetStore) insert(rec *Widget) {
	if _, ok := s.collection[rec.UID]; !ok {
		s.order = append(s.order, rec.UID)
	}
	s.collection[rec.UID] = rec
}

// remove deletes a record and its order entry. Caller holds the lock.
func (s *WidgetStore) remove(uid string) {
	delete(s.collection, uid)
	for i, id := range s.order {
		if id == uid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// WidgetByID returns a copy of the widget, if present.
func (s *WidgetStore) WidgetByID(uid string) (Widget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collection[uid]
	if !ok {
		return Widget{}, false
	}
	return cloneWidget(rec), true
}

// WidgetContent returns a copy of a widget's content payload. This is the
// query surface the weather and font services read widget configuration
// through.
func (s *WidgetStore) WidgetContent(uid string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collection[uid]
	if !ok {
		return nil, false
	}
	return cloneMap(rec.Content), true
}

// AllWidgetsBySpace groups widget ids by space, in insertion order.
// Derived from the collection on every call.
func (s *WidgetStore) AllWidgetsBySpace() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groupBySpace(false)
}

// ActiveWidgetsBySpace is AllWidgetsBySpace without widgets pending deletion.
func (s *WidgetStore) ActiveWidgetsBySpace() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groupBySpace(true)
}

func (s *WidgetStore) groupBySpace(skipDeleted bool) map[string][]string {
	bySpace := make(map[string][]string)
	for _, uid := range s.order {
		rec := s.collection[uid]
		if _, ok := bySpace[rec.Space]; !ok {
			bySpace[rec.Space] = []string{}
		}
		if skipDeleted && rec.State.Deleted {
			continue
		}
		bySpace[rec.Space] = append(bySpace[rec.Space], uid)
	}
	return bySpace
}

// LayoutsBySpace returns the layouts of the active widgets of every known
// space.
func (s *WidgetStore) LayoutsBySpace() map[string][]apiclient.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make(map[string][]apiclient.Layout)
	for _, spaceID := range s.spaces {
		res[spaceID] = []apiclient.Layout{}
	}
	for _, uid := range s.order {
		rec := s.collection[uid]
		if rec.State.Deleted {
			continue
		}
		res[rec.Space] = append(res[rec.Space], rec.Layout)
	}
	return res
}

// MaxLayoutPosition returns the bottom-right extent of a space's active
// widgets, used to place new widgets below existing ones.
func (s *WidgetStore) MaxLayoutPosition(spaceID string) (x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, uid := range s.order {
		rec := s.collection[uid]
		if rec.Space != spaceID || rec.State.Deleted {
			continue
		}
		if rec.Layout.X+rec.Layout.W > x {
			x = rec.Layout.X + rec.Layout.W
		}
		if rec.Layout.Y+rec.Layout.H > y {
			y = rec.Layout.Y + rec.Layout.H
		}
	}
	return x, y
}

// SelectWidgetByID flags a widget as selected. Unknown ids are a no-op.
func (s *WidgetStore) SelectWidgetByID(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.collection[uid]; ok {
		rec.State.Selected = true
	}
}

// UnselectAllWidgets clears the selected flag on every widget in a space.
func (s *WidgetStore) UnselectAllWidgets(spaceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.collection {
		if rec.Space == spaceID {
			rec.State.Selected = false
		}
	}
}

// MarkWidgetDirty flags a widget for the next save. Unknown ids are a no-op.
func (s *WidgetStore) MarkWidgetDirty(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.collection[uid]; ok {
		rec.State.Dirty = true
	}
}

// DraftCreateWidget inserts a local-only widget with a temporary id. The
// record is new+dirty+selected until the next save swaps it for the
// server-issued one.
func (s *WidgetStore) DraftCreateWidget(spaceID string, input DraftInput) Widget {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid := "draft-" + uuid.NewString()
	rec := &Widget{
		Widget: apiclient.Widget{
			UID:       uid,
			Space:     spaceID,
			Type:      input.Type,
			Content:   cloneMap(input.Content),
			CardStyle: cloneMap(input.CardStyle),
			Layout:    input.Layout,
		},
		State: State{Selected: true, Dirty: true, New: true},
	}
	rec.Layout.I = uid

	s.registerSpace(spaceID)
	s.insert(rec)
	return cloneWidget(rec)
}

// DraftUpdateWidget merges a patch into a widget and marks it dirty.
// Unknown ids are a no-op.
func (s *WidgetStore) DraftUpdateWidget(uid string, patch WidgetPatch) (Widget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collection[uid]
	if !ok {
		return Widget{}, false
	}

	applyPatch(rec, patch)
	rec.State.Dirty = true
	return cloneWidget(rec), true
}

// DraftDeleteWidget removes a never-persisted widget outright, or flags a
// persisted one for deletion on the next save.
func (s *WidgetStore) DraftDeleteWidget(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collection[uid]
	if !ok {
		return
	}

	if rec.State.New {
		s.remove(uid)
		return
	}

	rec.State.Deleted = true
	rec.State.Dirty = true
	rec.State.Selected = false
}

// DeleteWidgetsBySpace flags every widget in a space for deletion and
// schedules the debounced save. Used for the space deletion cascade.
func (s *WidgetStore) DeleteWidgetsBySpace(spaceID string) {
	s.mu.Lock()
	for _, uid := range s.order {
		rec := s.collection[uid]
		if rec.Space != spaceID {
			continue
		}
		rec.State.Deleted = true
		rec.State.Dirty = true
		rec.State.Selected = false
	}
	s.mu.Unlock()

	s.ScheduleSave(spaceID)
}

// IsSaving reports whether a batched save is in flight.
func (s *WidgetStore) IsSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// SaveDirtyWidgets flushes every dirty widget of a space to the server,
// sequentially in insertion order. A failing widget keeps its dirty state
// and does not disturb its siblings; all failures are joined into the
// returned error.
func (s *WidgetStore) SaveDirtyWidgets(ctx context.Context, spaceID string) error {
	s.mu.Lock()
	s.saving = true
	var pending []string
	for _, uid := range s.order {
		rec := s.collection[uid]
		if rec.Space == spaceID && rec.State.Dirty {
			pending = append(pending, uid)
		}
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}()

	var errs []error
	for _, uid := range pending {
		if err := s.saveOne(ctx, uid); err != nil {
			errs = append(errs, fmt.Errorf("widget %s: %w", uid, err))
		}
	}
	return errors.Join(errs...)
}

// saveOne syncs a single dirty widget. The store lock is released around
// the network call; the record is re-checked afterwards because other
// mutations may have run in the meantime.
func (s *WidgetStore) saveOne(ctx context.Context, uid string) error {
	s.mu.Lock()
	rec, ok := s.collection[uid]
	if !ok || !rec.State.Dirty {
		s.mu.Unlock()
		return nil
	}
	snapshot := cloneWidget(rec)
	s.mu.Unlock()

	switch {
	case snapshot.State.New:
		layout := snapshot.Layout
		layout.I = "" // the grid key is local, the server assigns the uid
		created, err := s.api.CreateWidget(ctx, apiclient.WidgetInput{
			Space:     snapshot.Space,
			Type:      snapshot.Type,
			Content:   snapshot.Content,
			CardStyle: snapshot.CardStyle,
			Layout:    layout,
		})
		if err != nil {
			return err
		}

		s.mu.Lock()
		s.remove(uid)
		newRec := &Widget{Widget: *created}
		newRec.Layout.I = newRec.UID
		s.insert(newRec)
		s.mu.Unlock()
		return nil

	case snapshot.State.Deleted:
		if err := s.api.DeleteWidget(ctx, uid); err != nil {
			return err
		}

		s.mu.Lock()
		s.remove(uid)
		s.mu.Unlock()
		return nil

	default:
		layout := snapshot.Layout
		updated, err := s.api.UpdateWidget(ctx, uid, apiclient.WidgetUpdate{
			Content:   snapshot.Content,
			CardStyle: snapshot.CardStyle,
			Layout:    &layout,
		})
		if err != nil {
			return err
		}

		s.mu.Lock()
		if rec, ok := s.collection[uid]; ok {
			rec.Content = updated.Content
			rec.CardStyle = updated.CardStyle
			rec.Layout = updated.Layout
			rec.Layout.I = rec.UID
			rec.UpdatedAt = updated.UpdatedAt
			rec.State.Dirty = false
		}
		s.mu.Unlock()
		return nil
	}
}

// ScheduleSave coalesces rapid repeated save requests (continuous drag,
// batch deletes) into one flush per space after a quiet period. Callers
// needing a guaranteed flush use SaveDirtyWidgets directly.
func (s *WidgetStore) ScheduleSave(spaceID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if t, ok := s.timers[spaceID]; ok {
		t.Reset(s.saveWindow)
		return
	}

	s.timers[spaceID] = time.AfterFunc(s.saveWindow, func() {
		s.timersMu.Lock()
		delete(s.timers, spaceID)
		s.timersMu.Unlock()

		if err := s.SaveDirtyWidgets(context.Background(), spaceID); err != nil {
			slog.Error("debounced widget save failed", "space", spaceID, "error", err)
		}
	})
}

// snapshotSpace deep-clones every widget of a space, in insertion order.
// Caller must not hold the lock.
func (s *WidgetStore) snapshotSpace(spaceID string) []Widget {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap []Widget
	for _, uid := range s.order {
		rec := s.collection[uid]
		if rec.Space == spaceID {
			snap = append(snap, cloneWidget(rec))
		}
	}
	return snap
}

// restoreSpace replaces a space's widget set with a previously taken
// snapshot, discarding records created since and resurrecting records
// deleted since.
func (s *WidgetStore) restoreSpace(spaceID string, snapshot []Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, uid := range append([]string(nil), s.order...) {
		if s.collection[uid].Space == spaceID {
			s.remove(uid)
		}
	}
	for i := range snapshot {
		w := cloneWidget(&snapshot[i])
		s.insert(&w)
	}
}
