// package search builds a queryable index over ordered song metadata
package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/player/internal/models"
	"github.com/desertthunder/player/internal/shared"
)

// Engine names accepted by [NewEngine].
const (
	EngineTrigram = "trigram"
	EngineFuzzy   = "fuzzy"
	EngineSQLite  = "sqlite"
)

// Result is a ranked hit. Ref is the ordinal of the matching song.
type Result struct {
	Ref   int
	Score float64
}

// Engine is the full-text capability behind an [Index].
//
// Tokenization, normalization and ranking are the engine's concern. Query returns hits
// best first; a query nothing matches returns no results and no error.
type Engine interface {
	Add(doc models.IndexDocument) error
	Query(text string) ([]Result, error)
	Len() int
	Close() error
}

// Options configures engines that need external resources.
type Options struct {
	Database string // SQLite path, ":memory:" when empty
}

// Factory creates a fresh, empty engine.
type Factory func() (Engine, error)

// Engines returns the supported engine names.
func Engines() []string {
	return []string{EngineTrigram, EngineFuzzy, EngineSQLite}
}

// NewEngine creates an empty engine by name. An empty name selects the trigram engine.
func NewEngine(name string, opts Options) (Engine, error) {
	switch strings.ToLower(name) {
	case "", EngineTrigram:
		return NewTrigramEngine(), nil
	case EngineFuzzy:
		return NewFuzzyEngine(), nil
	case EngineSQLite:
		return NewSQLiteEngine(opts.Database)
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", shared.ErrUnknownEngine, name, strings.Join(Engines(), ", "))
	}
}

// NewFactory validates name and returns a [Factory] producing engines of that kind.
func NewFactory(name string, opts Options) (Factory, error) {
	if name != "" && !slices.Contains(Engines(), strings.ToLower(name)) {
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownEngine, name)
	}
	return func() (Engine, error) {
		return NewEngine(name, opts)
	}, nil
}

// rank orders results best first, breaking ties by ordinal so output is deterministic.
func rank(results []Result) {
	slices.SortStableFunc(results, func(a, b Result) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return a.Ref - b.Ref
	})
}
