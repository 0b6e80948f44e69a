package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/logging/events"
	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
	"golang.org/x/sync/singleflight"
)

// flightTimeout bounds a shared fetch once it no longer follows any caller's
// context.
const flightTimeout = time.Minute

// Provider serves a level from the store while fresh and falls through to the
// wrapped provider otherwise. Concurrent fetches of one key are collapsed.
// Cache failures are logged and never fail a fetch. A nil store disables
// caching.
type Provider struct {
	store   *Store
	level   string
	ttl     time.Duration
	fetch   func(ctx context.Context, locator string) ([]nav.Record, error)
	rootKey string
	group   singleflight.Group
}

// Wrap caches next's children under level.
func Wrap(store *Store, level string, next nav.Provider, ttl time.Duration) *Provider {
	return &Provider{store: store, level: level, ttl: ttl, fetch: next.Children}
}

// WrapRoot caches the root listing under level, keyed by account.
func WrapRoot(store *Store, level, account string, next nav.RootProvider, ttl time.Duration) *Provider {
	return &Provider{
		store:   store,
		level:   level,
		ttl:     ttl,
		rootKey: account,
		fetch: func(ctx context.Context, _ string) ([]nav.Record, error) {
			return next.Root(ctx)
		},
	}
}

// Root fetches the list for the account given to WrapRoot.
func (p *Provider) Root(ctx context.Context) ([]nav.Record, error) {
	return p.Children(ctx, p.rootKey)
}

// Children returns the cached list for locator when fresh, otherwise fetches
// and stores it.
func (p *Provider) Children(ctx context.Context, locator string) ([]nav.Record, error) {
	key := Key(p.level, locator)
	if p.store != nil {
		records, ok, err := p.store.Load(ctx, key, p.ttl)
		switch {
		case err != nil:
			events.Cache.Error("load", key, err)
			logging.Error(fmt.Errorf("cache load: %w", err))
		case ok:
			events.Cache.Hit(key, len(records))
			return records, nil
		default:
			events.Cache.Miss(key)
		}
	}
	return p.load(ctx, key, locator)
}

// Refresh fetches locator ignoring freshness and updates the store.
func (p *Provider) Refresh(ctx context.Context, locator string) ([]nav.Record, error) {
	return p.load(ctx, Key(p.level, locator), locator)
}

// RefreshRoot is Refresh for the root listing.
func (p *Provider) RefreshRoot(ctx context.Context) ([]nav.Record, error) {
	return p.Refresh(ctx, p.rootKey)
}

func (p *Provider) load(ctx context.Context, key, locator string) ([]nav.Record, error) {
	ch := p.group.DoChan(key, func() (interface{}, error) {
		// The flight is shared, so no single caller's cancellation may end it.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		if p.store != nil {
			unlock := p.store.lock(key)
			defer unlock()
		}
		records, err := p.fetch(fctx, locator)
		if err != nil {
			return nil, err
		}
		if p.store != nil {
			if err := p.store.Save(fctx, key, records); err != nil {
				events.Cache.Error("save", key, err)
				logging.Error(fmt.Errorf("cache save: %w", err))
			}
		}
		return records, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return nav.CloneRecords(res.Val.([]nav.Record)), nil
	}
}
