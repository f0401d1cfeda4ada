package library

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/player/internal/models"
	"github.com/desertthunder/player/internal/services"
	"github.com/desertthunder/player/internal/shared"
)

const initialBackoff = time.Second

// Catalog holds the most recent library scan and serves it as song metadata.
//
// Reads never block on a scan: Refresh swaps in a new snapshot only after the scan
// succeeds, and a failed refresh leaves the previous snapshot in place.
type Catalog struct {
	source  Source
	logger  *log.Logger
	backoff time.Duration

	mu         sync.RWMutex
	entries    []Entry
	byRef      map[string]Entry
	generation uint64
	refreshed  time.Time
	hooks      []func(generation uint64)
}

// NewCatalog creates an empty catalog backed by source.
func NewCatalog(source Source, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Catalog{
		source:  source,
		logger:  logger,
		backoff: initialBackoff,
		byRef:   make(map[string]Entry),
	}
}

// OnRefresh registers fn to run after every successful refresh with the new generation.
// Hooks run on the refreshing goroutine, outside the catalog lock.
func (c *Catalog) OnRefresh(fn func(generation uint64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Refresh rescans the source and replaces the snapshot.
func (c *Catalog) Refresh(ctx context.Context) error {
	start := time.Now()
	entries, err := c.source.Scan(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to refresh library: %w", err)
	}

	byRef := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byRef[e.Song.BlobRef] = e
	}

	c.mu.Lock()
	c.entries = entries
	c.byRef = byRef
	c.generation++
	c.refreshed = time.Now()
	gen := c.generation
	hooks := append([]func(uint64){}, c.hooks...)
	c.mu.Unlock()

	c.logger.Info("library refreshed", "songs", len(entries), "generation", gen, "took", time.Since(start).Round(time.Millisecond))

	for _, fn := range hooks {
		fn(gen)
	}
	return nil
}

// Songs returns a copy of the current metadata list in scan order.
func (c *Catalog) Songs() []models.SongMetadata {
	c.mu.RLock()
	defer c.mu.RUnlock()

	songs := make([]models.SongMetadata, len(c.entries))
	for i, e := range c.entries {
		songs[i] = e.Song
	}
	return songs
}

// Entries returns a copy of the current snapshot.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Entry, len(c.entries))
	copy(entries, c.entries)
	return entries
}

// FetchMeta serves the current snapshot, letting a catalog stand in for a remote server.
func (c *Catalog) FetchMeta(ctx context.Context) ([]models.SongMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.Songs(), nil
}

// Lookup returns the entry whose content address is ref, or [shared.ErrNotFound].
func (c *Catalog) Lookup(ref string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byRef[ref]
	if !ok {
		return Entry{}, fmt.Errorf("%w: blob ref %q", shared.ErrNotFound, ref)
	}
	return e, nil
}

// Generation counts successful refreshes; 0 means never refreshed.
func (c *Catalog) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// LastRefresh returns when the snapshot was taken.
func (c *Catalog) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshed
}

// Run refreshes every interval until ctx is done. Failures are logged and the
// previous snapshot is kept.
func (c *Catalog) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("unable to refresh library", "error", err)
			}
		}
	}
}

// Bootstrap performs the first refresh, retrying with a doubling pause until it
// succeeds, ctx is done, or maxWait has passed.
func (c *Catalog) Bootstrap(ctx context.Context, maxWait time.Duration) error {
	pause := c.backoff
	giveUp := time.Now().Add(maxWait)

	for {
		err := c.Refresh(ctx)
		if err == nil {
			return nil
		}
		if time.Now().After(giveUp) {
			return fmt.Errorf("giving up on library after %v: %w", maxWait, err)
		}

		c.logger.Warn("could not load library, will retry", "error", err, "retry_in", pause)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
		pause *= 2
	}
}

var _ services.Fetcher = (*Catalog)(nil)
