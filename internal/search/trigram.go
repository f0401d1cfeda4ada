package search

import (
	"strings"
	"sync"
	"unicode"

	"github.com/desertthunder/player/internal/models"
	"golang.org/x/text/unicode/norm"
)

// minCoverage is the fraction of a word's trigrams that must appear in a document.
const minCoverage = 0.4

// TrigramEngine is an in-memory engine matching query words against document trigrams.
//
// Every query word must match (AND). Words of one or two runes match by substring.
type TrigramEngine struct {
	mu       sync.RWMutex
	refs     []int
	texts    []string
	trigrams []map[string]struct{}
}

// NewTrigramEngine creates an empty [TrigramEngine].
func NewTrigramEngine() *TrigramEngine {
	return &TrigramEngine{}
}

// Add indexes the searchable fields of doc.
func (e *TrigramEngine) Add(doc models.IndexDocument) error {
	text := normalize(doc.Text())

	e.mu.Lock()
	defer e.mu.Unlock()
	e.refs = append(e.refs, doc.Index)
	e.texts = append(e.texts, text)
	e.trigrams = append(e.trigrams, generateTrigrams(text))
	return nil
}

// Query scores every document against the words of text.
func (e *TrigramEngine) Query(text string) ([]Result, error) {
	words := strings.Fields(normalize(text))
	if len(words) == 0 {
		return nil, nil
	}

	wordTrigrams := make([]map[string]struct{}, len(words))
	for i, word := range words {
		wordTrigrams[i] = generateTrigrams(word)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var results []Result
	for i := range e.texts {
		if score := e.score(i, words, wordTrigrams); score > 0 {
			results = append(results, Result{Ref: e.refs[i], Score: score})
		}
	}
	rank(results)
	return results, nil
}

// score averages per-word similarity; any non-matching word zeroes the document.
func (e *TrigramEngine) score(idx int, words []string, wordTrigrams []map[string]struct{}) float64 {
	text := e.texts[idx]
	total := 0.0

	for i, word := range words {
		if len([]rune(word)) <= 2 {
			if !strings.Contains(text, word) {
				return 0
			}
			total += 1.0
			continue
		}

		coverage := trigramCoverage(wordTrigrams[i], e.trigrams[idx])
		if coverage < minCoverage {
			return 0
		}
		if strings.Contains(text, word) {
			coverage += 0.5
		}
		total += coverage
	}

	return total / float64(len(words))
}

// Len returns the number of documents added.
func (e *TrigramEngine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.texts)
}

// Close is a no-op.
func (e *TrigramEngine) Close() error {
	return nil
}

// normalize lowercases s and strips diacritics so "cafe" matches "Café".
func normalize(s string) string {
	s = norm.NFD.String(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// generateTrigrams returns the set of trigrams of s padded with two leading and trailing spaces.
func generateTrigrams(s string) map[string]struct{} {
	if s == "" {
		return nil
	}

	tris := make(map[string]struct{})
	runes := []rune("  " + s + "  ")

	for i := 0; i <= len(runes)-3; i++ {
		tri := string(runes[i : i+3])
		if strings.TrimSpace(tri) != "" {
			tris[tri] = struct{}{}
		}
	}

	return tris
}

// trigramCoverage returns |query ∩ doc| / |query|.
func trigramCoverage(query, doc map[string]struct{}) float64 {
	if len(query) == 0 {
		return 0
	}

	hits := 0
	for tri := range query {
		if _, ok := doc[tri]; ok {
			hits++
		}
	}

	return float64(hits) / float64(len(query))
}
