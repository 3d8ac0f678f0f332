package main

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"

	"countme-core/internal/config"
	"countme-core/internal/remote"
	"countme-core/internal/store"
	"countme-core/internal/sync"
)

// bootstrap opens the local store and builds a sync engine against the
// configured CouchDB remote. The remote being unreachable is not fatal; the
// engine reports it per cycle and the local store keeps working.
func bootstrap(ctx context.Context, cfg *config.Config) (*store.Store, *sync.Engine, error) {
	var loc *time.Location
	if cfg.Store.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Store.Timezone)
		if err != nil {
			return nil, nil, fmt.Errorf("load timezone %q: %w", cfg.Store.Timezone, err)
		}
	}

	st, err := store.Open(cfg.Store.Path, loc)
	if err != nil {
		return nil, nil, err
	}

	couchURL := fmt.Sprintf("http://%s:%s@%s:%s",
		cfg.Remote.User,
		cfg.Remote.Password,
		cfg.Remote.Host,
		cfg.Remote.Port,
	)
	client, err := kivik.New("couch", couchURL)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("configure couchdb client: %w", err)
	}

	docs := remote.NewCouchStore(client, cfg.Remote.Name)
	if err := docs.EnsureDatabase(ctx); err != nil {
		log.Printf("remote database unavailable, continuing offline: %v", err)
	}

	var auth remote.AuthProvider
	if cfg.Sync.Token != "" {
		auth = &remote.TokenAuth{Token: cfg.Sync.Token, Secret: cfg.JWT.Secret}
	} else {
		auth = remote.StaticAuth(cfg.Sync.UserID)
	}

	var reach remote.Reachability = remote.AlwaysOnline{}
	if cfg.Sync.ProbeURL != "" {
		reach = &remote.HTTPProbe{URL: cfg.Sync.ProbeURL}
	}

	queue := sync.NewQueue(cfg.Sync.QueueCapacity)
	policy := sync.RetryPolicy{
		MaxAttempts: cfg.Sync.MaxAttempts,
		BaseDelay:   cfg.Sync.BaseDelay,
		MaxDelay:    cfg.Sync.MaxDelay,
	}
	engine := sync.NewEngine(st, docs, auth, reach, queue, policy, nil)

	// Re-queue whatever the previous run did not finish uploading.
	pending, err := st.Pending(ctx)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	for _, entry := range pending {
		engine.Enqueue(entry.Entity, entry.ID, sync.OpUpsert)
	}

	return st, engine, nil
}
