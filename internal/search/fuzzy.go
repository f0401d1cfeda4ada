package search

import (
	"strings"
	"sync"

	"github.com/desertthunder/player/internal/models"
	"github.com/sahilm/fuzzy"
)

// FuzzyEngine matches the query as a subsequence of each document's text.
type FuzzyEngine struct {
	mu    sync.RWMutex
	refs  []int
	texts []string
}

// NewFuzzyEngine creates an empty [FuzzyEngine].
func NewFuzzyEngine() *FuzzyEngine {
	return &FuzzyEngine{}
}

// Add indexes the searchable fields of doc.
func (e *FuzzyEngine) Add(doc models.IndexDocument) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refs = append(e.refs, doc.Index)
	e.texts = append(e.texts, doc.Text())
	return nil
}

// Len returns the number of documents added.
func (e *FuzzyEngine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.texts)
}

// Query returns documents containing the runes of text in order.
func (e *FuzzyEngine) Query(text string) ([]Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	matches := fuzzy.FindFrom(text, fuzzySource(e.texts))
	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, Result{Ref: e.refs[m.Index], Score: float64(m.Score)})
	}
	rank(results)
	return results, nil
}

// Close is a no-op.
func (e *FuzzyEngine) Close() error {
	return nil
}

// fuzzySource adapts document texts to [fuzzy.Source].
type fuzzySource []string

func (s fuzzySource) String(i int) string { return s[i] }
func (s fuzzySource) Len() int            { return len(s) }
