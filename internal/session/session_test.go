package session

import (
	"context"
	"errors"
	"testing"

	"github.com/homely-dev/homely/internal/apiclient"
	"github.com/homely-dev/homely/internal/localstate"
)

type fakeAuthAPI struct {
	token       string
	validAccess string
	refreshed   string
	user        *apiclient.User
	meErr       error
	loginErr    error
	logoutCalls int
}

func (f *fakeAuthAPI) SetToken(token string) { f.token = token }

func (f *fakeAuthAPI) Login(ctx context.Context, username, password string) (*apiclient.TokenPair, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &apiclient.TokenPair{Access: "A1", Refresh: "R1", User: f.user}, nil
}

func (f *fakeAuthAPI) LoginWithGoogle(ctx context.Context, googleToken string) (*apiclient.TokenPair, error) {
	return &apiclient.TokenPair{Access: "GA1", Refresh: "GR1", User: f.user}, nil
}

func (f *fakeAuthAPI) VerifyToken(ctx context.Context, token string) bool {
	return token != "" && token == f.validAccess
}

func (f *fakeAuthAPI) RefreshToken(ctx context.Context, refresh string) string {
	return f.refreshed
}

func (f *fakeAuthAPI) Logout(ctx context.Context) error {
	f.logoutCalls++
	return nil
}

func (f *fakeAuthAPI) Me(ctx context.Context) (*apiclient.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.user, nil
}

type memCredentials struct {
	stored *localstate.Credentials
	clears int
}

func (m *memCredentials) Load() (*localstate.Credentials, error) {
	if m.stored == nil {
		return &localstate.Credentials{}, nil
	}
	cp := *m.stored
	return &cp, nil
}

func (m *memCredentials) Save(creds *localstate.Credentials) error {
	cp := *creds
	m.stored = &cp
	return nil
}

func (m *memCredentials) Clear() error {
	m.stored = nil
	m.clears++
	return nil
}

type seedRecorder struct{ seeded *apiclient.User }

func (r *seedRecorder) SeedFromUser(user *apiclient.User) { r.seeded = user }

func testUser() *apiclient.User {
	return &apiclient.User{UID: "U1", Username: "maria", DefaultSpace: "S1"}
}

func TestAutoLoginWithValidAccessToken(t *testing.T) {
	api := &fakeAuthAPI{validAccess: "A1", user: testUser()}
	creds := &memCredentials{stored: &localstate.Credentials{AccessToken: "A1", RefreshToken: "R1"}}
	seed := &seedRecorder{}
	sess := New(api, creds, seed)

	if err := sess.AutoLogin(context.Background()); err != nil {
		t.Fatalf("AutoLogin: %v", err)
	}
	if !sess.Authenticated() {
		t.Fatal("expected authenticated session")
	}
	if api.token != "A1" {
		t.Fatalf("client token = %q, want A1", api.token)
	}
	if seed.seeded == nil || seed.seeded.UID != "U1" {
		t.Fatal("dependent stores not seeded from user")
	}
}

func TestAutoLoginRefreshesExpiredAccessToken(t *testing.T) {
	api := &fakeAuthAPI{validAccess: "other", refreshed: "A2", user: testUser()}
	creds := &memCredentials{stored: &localstate.Credentials{AccessToken: "A1", RefreshToken: "R1"}}
	sess := New(api, creds, &seedRecorder{})

	if err := sess.AutoLogin(context.Background()); err != nil {
		t.Fatalf("AutoLogin: %v", err)
	}
	if !sess.Authenticated() {
		t.Fatal("expected authenticated session after refresh")
	}
	if api.token != "A2" {
		t.Fatalf("client token = %q, want refreshed A2", api.token)
	}
	if creds.stored == nil || creds.stored.AccessToken != "A2" {
		t.Fatalf("refreshed token not persisted: %+v", creds.stored)
	}
}

func TestAutoLoginFallsBackToAnonymous(t *testing.T) {
	api := &fakeAuthAPI{validAccess: "", refreshed: "", user: testUser()}
	creds := &memCredentials{stored: &localstate.Credentials{AccessToken: "A1", RefreshToken: "R1"}}
	sess := New(api, creds, &seedRecorder{})

	if err := sess.AutoLogin(context.Background()); err != nil {
		t.Fatalf("AutoLogin must not error on expired tokens: %v", err)
	}
	if sess.Authenticated() {
		t.Fatal("expected anonymous session")
	}
	if creds.clears != 1 {
		t.Fatalf("dead credentials not cleared: %d clears", creds.clears)
	}
}

func TestAutoLoginWithoutStoredCredentialsIsNoOp(t *testing.T) {
	api := &fakeAuthAPI{}
	sess := New(api, &memCredentials{}, &seedRecorder{})

	if err := sess.AutoLogin(context.Background()); err != nil {
		t.Fatalf("AutoLogin: %v", err)
	}
	if sess.Authenticated() || api.token != "" {
		t.Fatal("expected untouched anonymous session")
	}
}

func TestLoginPersistsCredentialsAndSeeds(t *testing.T) {
	api := &fakeAuthAPI{user: testUser()}
	creds := &memCredentials{}
	seed := &seedRecorder{}
	sess := New(api, creds, seed)

	user, err := sess.Login(context.Background(), "maria", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "maria" {
		t.Fatalf("user = %+v", user)
	}
	if creds.stored == nil || creds.stored.RefreshToken != "R1" {
		t.Fatalf("credentials not persisted: %+v", creds.stored)
	}
	if seed.seeded == nil {
		t.Fatal("stores not seeded on login")
	}
}

func TestLoginFailurePropagates(t *testing.T) {
	wantErr := errors.New("bad credentials")
	sess := New(&fakeAuthAPI{loginErr: wantErr}, &memCredentials{}, nil)

	if _, err := sess.Login(context.Background(), "maria", "wrong"); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if sess.Authenticated() {
		t.Fatal("failed login must stay anonymous")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	api := &fakeAuthAPI{user: testUser()}
	creds := &memCredentials{}
	sess := New(api, creds, &seedRecorder{})

	if _, err := sess.Login(context.Background(), "maria", "hunter2"); err != nil {
		t.Fatal(err)
	}
	if err := sess.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sess.Authenticated() {
		t.Fatal("still authenticated after logout")
	}
	if api.token != "" {
		t.Fatalf("client token not cleared: %q", api.token)
	}
	if creds.stored != nil {
		t.Fatal("credentials not cleared")
	}
	if api.logoutCalls != 1 {
		t.Fatalf("server logout called %d times", api.logoutCalls)
	}
}
