// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/pdiddy/govinfo-table/internal/govinfo"
	"github.com/pdiddy/govinfo-table/internal/httpcache"
	"github.com/pdiddy/govinfo-table/internal/httputil"
	"github.com/pdiddy/govinfo-table/internal/secrets"
	"github.com/pdiddy/govinfo-table/internal/table"
	"github.com/pdiddy/govinfo-table/pkg/types"
)

// app is the wiring shared by the subcommands.
type app struct {
	cfg      types.Config
	log      io.Writer
	cache    *httpcache.Cache // nil when disabled
	registry *table.Registry
}

// newApp loads configuration and builds the registry. The response cache
// is opened only when fetch is set. The caller must call close.
func newApp(cmd *cobra.Command, fetch bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: logWriter(cmd)}

	var cache httputil.Cache
	if fetch && !cfg.Cache.Disabled {
		c, err := httpcache.Open(cfg.Cache)
		if err != nil {
			return nil, err
		}
		a.cache = c
		cache = c
	}

	client := httputil.NewClient(cfg.HTTP, cache, a.log)
	a.registry = table.NewRegistry(
		govinfo.NewFamily(cfg.GovInfo.Host, client, govinfo.Options{BaseURL: cfg.GovInfo.BaseURL}),
	)
	return a, nil
}

func (a *app) close() {
	if a.cache != nil {
		a.cache.Close()
	}
}

// resolveURI fills in api_key when the URI has none, from the flag, config,
// or environment first and the secrets directory last.
func (a *app) resolveURI(uri string) (string, error) {
	key := loadedSecrets.Default(secrets.GovInfoAPIKey, a.cfg.GovInfo.APIKey)
	return withAPIKey(uri, key)
}

// withAPIKey adds api_key=key to uri unless it already carries a non-empty
// api_key or key is empty.
func withAPIKey(uri, key string) (string, error) {
	if key == "" {
		return uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parsing URI: %w", err)
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", fmt.Errorf("parsing URI query: %w", err)
	}
	if q.Get("api_key") != "" {
		return uri, nil
	}
	q.Set("api_key", key)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
