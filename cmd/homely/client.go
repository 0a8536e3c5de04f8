package main

import (
	"context"
	"fmt"

	"github.com/homely-dev/homely/internal/apiclient"
	"github.com/homely-dev/homely/internal/config"
	"github.com/homely-dev/homely/internal/logger"
	"github.com/homely-dev/homely/internal/session"
	"github.com/homely-dev/homely/internal/store"
)

// clientContext bundles everything a client-side command needs.
type clientContext struct {
	api     *apiclient.Client
	session *session.Session
	spaces  *store.SpaceStore
	widgets *store.WidgetStore
}

// newClientContext loads config, builds the API client and stores, and
// restores the stored session. requireAuth makes an anonymous session an
// error.
func newClientContext(ctx context.Context, requireAuth bool) (*clientContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	logger.Init(cfg.Log.Format, cfg.Log.Level)

	api := apiclient.NewWithoutAuth(cfg.API.URL)
	widgets := store.NewWidgetStore(api)
	spaces := store.NewSpaceStore(api, api, widgets)
	sess := session.New(api, session.FileCredentials{}, spaces)

	if err := sess.AutoLogin(ctx); err != nil {
		return nil, err
	}
	if requireAuth && !sess.Authenticated() {
		return nil, fmt.Errorf("not signed in, run 'homely login' first")
	}

	return &clientContext{
		api:     api,
		session: sess,
		spaces:  spaces,
		widgets: widgets,
	}, nil
}
