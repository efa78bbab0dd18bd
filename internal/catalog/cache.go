package catalog

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"lg/fastfood-nutrition-api/internal/metrics"
)

// Loader reads the full searchable menu from the system of record.
type Loader interface {
	LoadSearchItems(ctx context.Context) ([]SearchItem, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) ([]SearchItem, error)

// LoadSearchItems calls f(ctx).
func (f LoaderFunc) LoadSearchItems(ctx context.Context) ([]SearchItem, error) { return f(ctx) }

// Snapshot is one loaded copy of the menu.
type Snapshot struct {
	Items    []SearchItem `json:"items"`
	LoadedAt time.Time    `json:"loaded_at"`
}

// SharedStore lets several API instances reuse one snapshot. Get returns
// ok=false when nothing is stored.
type SharedStore interface {
	Get(ctx context.Context) (snap Snapshot, ok bool, err error)
	Put(ctx context.Context, snap Snapshot) error
}

// Cache owns the search snapshot. Reads serve the in-memory copy while it is
// younger than the TTL; an older copy is reloaded on the next read, from the
// shared store when it holds a fresh one and from the Loader otherwise.
// Concurrent reloads are collapsed into one.
type Cache struct {
	loader Loader
	shared SharedStore
	ttl    time.Duration
	now    func() time.Time
	log    logrus.FieldLogger

	mu    sync.RWMutex
	snap  Snapshot
	group singleflight.Group
}

// reloadTimeout bounds one shared reload. The reload runs detached from the
// caller that started it, so this is the only deadline it has.
const reloadTimeout = 30 * time.Second

// Option configures a Cache.
type Option func(*Cache)

// WithSharedStore makes the cache read and publish snapshots through s.
func WithSharedStore(s SharedStore) Option { return func(c *Cache) { c.shared = s } }

// WithClock replaces time.Now when judging snapshot age.
func WithClock(now func() time.Time) Option { return func(c *Cache) { c.now = now } }

// WithLogger sets the logger for reload warnings. Defaults to the logrus
// standard logger.
func WithLogger(l logrus.FieldLogger) Option { return func(c *Cache) { c.log = l } }

// NewCache returns an empty cache; the first Items call loads it.
func NewCache(loader Loader, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		loader: loader,
		ttl:    ttl,
		now:    time.Now,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Items returns a copy of the current snapshot, reloading it first when stale.
// If a reload fails and an older snapshot exists, the older one is served.
func (c *Cache) Items(ctx context.Context) ([]SearchItem, error) {
	snap := c.current()
	if c.fresh(snap) {
		return slices.Clone(snap.Items), nil
	}

	_, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		if c.fresh(c.current()) {
			return nil, nil
		}
		return nil, c.detachedReload(ctx, false)
	})
	snap = c.current()
	if err != nil {
		if snap.LoadedAt.IsZero() {
			return nil, err
		}
		c.log.WithError(err).WithField("loaded_at", snap.LoadedAt).
			Warn("catalog refresh failed, serving stale snapshot")
	}
	return slices.Clone(snap.Items), nil
}

// Refresh reloads from the Loader regardless of age and publishes the result
// to the shared store.
func (c *Cache) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		return nil, c.detachedReload(ctx, true)
	})
	return err
}

// LoadedAt reports when the in-memory snapshot was loaded; zero if never.
func (c *Cache) LoadedAt() time.Time {
	return c.current().LoadedAt
}

func (c *Cache) current() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *Cache) fresh(s Snapshot) bool {
	return !s.LoadedAt.IsZero() && c.now().Sub(s.LoadedAt) < c.ttl
}

func (c *Cache) set(s Snapshot) {
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
}

// detachedReload runs reload on a context that ignores ctx's cancellation.
// Every caller waiting on the same flight shares the result, so one client
// going away must not fail the load for the rest.
func (c *Cache) detachedReload(ctx context.Context, force bool) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reloadTimeout)
	defer cancel()
	return c.reload(ctx, force)
}

func (c *Cache) reload(ctx context.Context, force bool) error {
	if !force && c.shared != nil {
		snap, ok, err := c.shared.Get(ctx)
		switch {
		case err != nil:
			c.log.WithError(err).Warn("catalog shared store read failed")
		case ok && c.fresh(snap):
			c.set(snap)
			metrics.ObserveCatalogRefresh("shared", true, len(snap.Items))
			return nil
		}
	}

	items, err := c.loader.LoadSearchItems(ctx)
	if err != nil {
		metrics.ObserveCatalogRefresh("database", false, 0)
		return err
	}
	snap := Snapshot{Items: items, LoadedAt: c.now()}
	c.set(snap)
	metrics.ObserveCatalogRefresh("database", true, len(items))
	c.log.WithField("items", len(items)).Info("catalog snapshot loaded")

	if c.shared != nil {
		if err := c.shared.Put(ctx, snap); err != nil {
			c.log.WithError(err).Warn("catalog shared store write failed")
		}
	}
	return nil
}
