package player

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/player/internal/metadata"
	"github.com/desertthunder/player/internal/models"
	"github.com/desertthunder/player/internal/search"
	"github.com/desertthunder/player/internal/services"
	"github.com/desertthunder/player/internal/shared"
)

// Session is one run of the startup pipeline. It is read-only once built, so it can be
// shared by concurrent readers.
//
// Songs, the index refs, the playlist ordinals and Config.Songs all use the same
// numbering: ordinal i is Songs[i].
type Session struct {
	ID       string
	Created  time.Time
	Songs    []models.SongMetadata
	Index    *search.Index
	Playlist template.HTML
	Config   Config
}

// Hit is a search result resolved to its song.
type Hit struct {
	Index int                 `json:"index"`
	Score float64             `json:"score"`
	Song  models.SongMetadata `json:"song"`
}

// Init fetches metadata and builds a session: sort, index, playlist markup and
// playback config, in that order.
//
// Any failure is returned wrapped in [shared.ErrInitFailed].
func Init(ctx context.Context, fetcher services.Fetcher, factory search.Factory, opts Options, logger *log.Logger) (*Session, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("%w: no metadata source", shared.ErrInitFailed)
	}
	raw, err := fetcher.FetchMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch metadata: %w", shared.ErrInitFailed, err)
	}
	return Build(raw, factory, opts, logger)
}

// Build runs the pipeline over an already fetched song list. A nil factory selects the
// default search engine.
func Build(raw []models.SongMetadata, factory search.Factory, opts Options, logger *log.Logger) (*Session, error) {
	if factory == nil {
		factory = func() (search.Engine, error) { return search.NewEngine("", search.Options{}) }
	}

	sorted := metadata.Sort(raw)
	if opts.Debug && logger != nil && !metadata.IsSorted(sorted) {
		logger.Error("sorted songs out of order", "songs", len(sorted))
	}

	engine, err := factory()
	if err != nil {
		return nil, fmt.Errorf("%w: create search engine: %w", shared.ErrInitFailed, err)
	}
	index, err := search.Build(sorted, engine)
	if err != nil {
		engine.Close()
		return nil, fmt.Errorf("%w: %w", shared.ErrInitFailed, err)
	}

	playlist, err := RenderPlaylist(len(sorted))
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("%w: %w", shared.ErrInitFailed, err)
	}

	s := &Session{
		ID:       shared.GenerateID(),
		Created:  time.Now(),
		Songs:    sorted,
		Index:    index,
		Playlist: playlist,
		Config:   BuildConfig(sorted, opts),
	}

	if logger != nil {
		logger.Debug("player session ready", "session", s.ID, "songs", len(sorted), "indexed", index.Len())
	}
	return s, nil
}

// Len returns the number of songs in the session.
func (s *Session) Len() int {
	return len(s.Songs)
}

// Search queries the session index and resolves hits, best first. limit <= 0 keeps all.
func (s *Session) Search(query string, limit int) ([]Hit, error) {
	results, err := s.Index.Query(query)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		song, ok := s.Index.Song(r.Ref)
		if !ok {
			continue
		}
		hits = append(hits, Hit{Index: r.Ref, Score: r.Score, Song: song})
	}
	return hits, nil
}

// Close releases the search index.
func (s *Session) Close() error {
	if s.Index == nil {
		return nil
	}
	return s.Index.Close()
}
