package server

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/player/internal/player"
	"github.com/desertthunder/player/internal/search"
	"github.com/desertthunder/player/internal/services"
	"github.com/desertthunder/player/internal/shared"
)

// PlayerProvider holds the current player session and replaces it on [PlayerProvider.Rebuild].
type PlayerProvider struct {
	fetcher services.Fetcher
	factory search.Factory
	opts    player.Options
	logger  *log.Logger

	mu      sync.RWMutex
	current *player.Session
}

// NewPlayerProvider creates a provider with no session; call Rebuild before serving.
func NewPlayerProvider(fetcher services.Fetcher, factory search.Factory, opts player.Options, logger *log.Logger) *PlayerProvider {
	return &PlayerProvider{
		fetcher: fetcher,
		factory: factory,
		opts:    opts,
		logger:  logger,
	}
}

// Rebuild runs the session pipeline and swaps in the result. On failure the previous
// session stays current.
func (p *PlayerProvider) Rebuild(ctx context.Context) error {
	s, err := player.Init(ctx, p.fetcher, p.factory, p.opts, p.logger)
	if err != nil {
		return err
	}

	p.mu.Lock()
	old := p.current
	p.current = s
	p.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			p.logger.Warn("failed to close previous session", "session", old.ID, "error", err)
		}
	}
	p.logger.Info("player session built", "session", s.ID, "songs", s.Len())
	return nil
}

// Current returns the current session, or nil before the first successful Rebuild.
func (p *PlayerProvider) Current() *player.Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Search queries the current session. A query that races a rebuild and hits the closed
// index is retried once against the new session.
func (p *PlayerProvider) Search(query string, limit int) (*player.Session, []player.Hit, error) {
	for attempt := 0; ; attempt++ {
		s := p.Current()
		if s == nil {
			return nil, nil, errSessionNotReady
		}
		hits, err := s.Search(query, limit)
		if errors.Is(err, shared.ErrIndexClosed) && attempt == 0 {
			continue
		}
		return s, hits, err
	}
}

var errSessionNotReady = errors.New("player session not ready")
