package store

import (
	"context"
	"net/url"
	"sort"
	"sync"

	"github.com/homely-dev/homely/internal/apiclient"
)

// Space is a space record plus client-side flags. IsDefault mirrors the
// user profile's default_space choice; FetchedWidgets distinguishes a space
// whose metadata arrived in a list response from one whose widgets have
// actually been loaded.
type Space struct {
	apiclient.Space
	IsDefault      bool
	FetchedWidgets bool
	EditMode       bool
}

// SpaceAPI is the server surface the space store talks to.
type SpaceAPI interface {
	ListSpaces(ctx context.Context, params url.Values) ([]apiclient.Space, error)
	GetSpace(ctx context.Context, uid string) (*apiclient.Space, error)
	CreateSpace(ctx context.Context, name string) (*apiclient.Space, error)
	UpdateSpace(ctx context.Context, uid string, patch map[string]any) (*apiclient.Space, error)
	DeleteSpace(ctx context.Context, uid string) error
	ToggleBookmark(ctx context.Context, uid string) (*apiclient.Space, error)
	CloneSpace(ctx context.Context, uid string) (*apiclient.Space, error)
}

// UserAPI is the slice of the user endpoint the space store needs to
// persist the default-space choice.
type UserAPI interface {
	UpdateMe(ctx context.Context, update apiclient.UserUpdate) (*apiclient.User, error)
}

// SpaceStore owns space metadata and composes the widget store for
// space-scoped widget operations. It never holds a second copy of widget
// data outside the bounded edit-mode backups.
type SpaceStore struct {
	api     SpaceAPI
	users   UserAPI
	widgets *WidgetStore

	mu         sync.Mutex
	collection map[string]*Space
	userID     string // empty while anonymous
	backups    map[string][]Widget
}

// NewSpaceStore creates an empty space store.
func NewSpaceStore(api SpaceAPI, users UserAPI, widgets *WidgetStore) *SpaceStore {
	return &SpaceStore{
		api:        api,
		users:      users,
		widgets:    widgets,
		collection: make(map[string]*Space),
		backups:    make(map[string][]Widget),
	}
}

// Widgets exposes the composed widget store.
func (s *SpaceStore) Widgets() *WidgetStore { return s.widgets }

// SeedFromUser records the authenticated user and marks their default
// space. Called by the session store after login or auto-login.
func (s *SpaceStore) SeedFromUser(user *apiclient.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		s.userID = ""
		return
	}
	s.userID = user.UID
	for _, rec := range s.collection {
		rec.IsDefault = rec.UID == user.DefaultSpace
	}
	if user.DefaultSpace != "" {
		if rec, ok := s.collection[user.DefaultSpace]; ok {
			rec.IsDefault = true
		} else {
			s.collection[user.DefaultSpace] = &Space{
				Space:     apiclient.Space{UID: user.DefaultSpace, Owner: user.UID},
				IsDefault: true,
			}
		}
	}
}

// upsert folds a server response into the collection, preserving
// client-side flags, and feeds any embedded widgets to the widget store.
// Caller must not hold the lock. The returned copy is taken under the
// lock so concurrent mutations cannot tear it.
func (s *SpaceStore) upsert(resp *apiclient.Space) Space {
	s.mu.Lock()
	rec, ok := s.collection[resp.UID]
	if !ok {
		rec = &Space{}
		s.collection[resp.UID] = rec
	}
	widgets := resp.Widgets
	cleaned := *resp
	cleaned.Widgets = nil
	isDefault := rec.IsDefault
	fetched := rec.FetchedWidgets
	editMode := rec.EditMode
	rec.Space = cleaned
	rec.IsDefault = isDefault
	rec.EditMode = editMode
	rec.FetchedWidgets = fetched || widgets != nil
	out := *rec
	s.mu.Unlock()

	if widgets != nil {
		s.widgets.SetSpaceWidgets(resp.UID, widgets)
	}
	return out
}

// Space returns a copy of a cached space record.
func (s *SpaceStore) Space(uid string) (Space, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collection[uid]
	if !ok {
		return Space{}, false
	}
	return *rec, true
}

// FetchSpace returns the cached space unless its widgets were never
// fetched, in which case it refetches even when metadata is already known.
func (s *SpaceStore) FetchSpace(ctx context.Context, uid string) (Space, error) {
	s.mu.Lock()
	rec, ok := s.collection[uid]
	if ok && rec.FetchedWidgets {
		out := *rec
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	resp, err := s.api.GetSpace(ctx, uid)
	if err != nil {
		return Space{}, err
	}
	if resp.Widgets == nil {
		resp.Widgets = []apiclient.Widget{}
	}
	return s.upsert(resp), nil
}

// FetchHomepageSpaces loads the spaces flagged for anonymous/homepage
// display and returns their ids.
func (s *SpaceStore) FetchHomepageSpaces(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("is_homepage", "true")

	spaces, err := s.api.ListSpaces(ctx, params)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(spaces))
	for i := range spaces {
		s.upsert(&spaces[i])
		ids = append(ids, spaces[i].UID)
	}
	return ids, nil
}

// FetchMySpaces loads every space owned by or bookmarked for the current
// user.
func (s *SpaceStore) FetchMySpaces(ctx context.Context) error {
	spaces, err := s.api.ListSpaces(ctx, nil)
	if err != nil {
		return err
	}
	for i := range spaces {
		s.upsert(&spaces[i])
	}
	return nil
}

// CreateSpace persists a new space named after two random dictionary
// words. Spaces have no draft phase; they are server-backed from birth.
func (s *SpaceStore) CreateSpace(ctx context.Context) (Space, error) {
	resp, err := s.api.CreateSpace(ctx, randomSpaceName())
	if err != nil {
		return Space{}, err
	}
	if resp.Widgets == nil {
		resp.Widgets = []apiclient.Widget{}
	}
	return s.upsert(resp), nil
}

// UpdateSpace patches space metadata (name, description, homepage flag).
func (s *SpaceStore) UpdateSpace(ctx context.Context, uid string, patch map[string]any) (Space, error) {
	resp, err := s.api.UpdateSpace(ctx, uid, patch)
	if err != nil {
		return Space{}, err
	}
	return s.upsert(resp), nil
}

// DeleteSpace cascades deletion through the widget store (flag + debounced
// save) and removes the space both server-side and locally.
func (s *SpaceStore) DeleteSpace(ctx context.Context, uid string) error {
	s.widgets.DeleteWidgetsBySpace(uid)

	if err := s.api.DeleteSpace(ctx, uid); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.collection, uid)
	delete(s.backups, uid)
	s.mu.Unlock()
	return nil
}

// CloneSpace copies a space (widgets included) into the current user's
// account.
func (s *SpaceStore) CloneSpace(ctx context.Context, uid string) (Space, error) {
	resp, err := s.api.CloneSpace(ctx, uid)
	if err != nil {
		return Space{}, err
	}
	return s.upsert(resp), nil
}

// ToggleBookmark flips the user's bookmark on a space. A no-op while
// anonymous.
func (s *SpaceStore) ToggleBookmark(ctx context.Context, uid string) error {
	s.mu.Lock()
	anonymous := s.userID == ""
	s.mu.Unlock()
	if anonymous {
		return nil
	}

	resp, err := s.api.ToggleBookmark(ctx, uid)
	if err != nil {
		return err
	}
	s.upsert(resp)
	return nil
}

// SetDefaultSpace makes uid the user's default space, unsetting the
// previous holder. An empty uid clears the default. The choice is
// persisted on the user profile, not the space resource.
func (s *SpaceStore) SetDefaultSpace(ctx context.Context, uid string) error {
	var ptr *string
	if uid != "" {
		ptr = &uid
	} else {
		empty := ""
		ptr = &empty
	}

	if _, err := s.users.UpdateMe(ctx, apiclient.UserUpdate{DefaultSpace: ptr}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.collection {
		rec.IsDefault = uid != "" && rec.UID == uid
	}
	return nil
}

// StartEditMode deep-clones the space's current widget set so a later
// discard can restore it exactly. Starting twice keeps the first backup.
func (s *SpaceStore) StartEditMode(uid string) {
	s.mu.Lock()
	rec, ok := s.collection[uid]
	if ok {
		rec.EditMode = true
	}
	_, backed := s.backups[uid]
	s.mu.Unlock()
	if backed {
		return
	}

	snap := s.widgets.snapshotSpace(uid)

	s.mu.Lock()
	s.backups[uid] = snap
	s.mu.Unlock()
}

// StopEditMode drops the backup without touching widgets.
func (s *SpaceStore) StopEditMode(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.collection[uid]; ok {
		rec.EditMode = false
	}
	delete(s.backups, uid)
}

// SaveAndStopEditMode flushes dirty widgets, then leaves edit mode.
func (s *SpaceStore) SaveAndStopEditMode(ctx context.Context, uid string) error {
	err := s.widgets.SaveDirtyWidgets(ctx, uid)
	s.StopEditMode(uid)
	return err
}

// DiscardAndStopEditMode restores the widget set from the edit-mode
// backup, negating every draft mutation made since StartEditMode, then
// leaves edit mode.
func (s *SpaceStore) DiscardAndStopEditMode(uid string) {
	s.mu.Lock()
	snap, ok := s.backups[uid]
	s.mu.Unlock()

	if ok {
		s.widgets.restoreSpace(uid, snap)
	}
	s.StopEditMode(uid)
}

// MySpaces returns the current user's spaces, default first, then by name.
func (s *SpaceStore) MySpaces() []Space {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Space
	for _, rec := range s.collection {
		if s.userID != "" && rec.Owner == s.userID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MyBookmarkedSpaces returns the spaces the current user has bookmarked.
func (s *SpaceStore) MyBookmarkedSpaces() []Space {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Space
	for _, rec := range s.collection {
		if rec.IsBookmarked {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
