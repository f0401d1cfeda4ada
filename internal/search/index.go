package search

import (
	"fmt"
	"strings"

	"github.com/desertthunder/player/internal/models"
)

// Index is a search index over one ordered song sequence.
//
// Build it once per session and pass it to whoever needs to query; it is read-only
// afterwards.
type Index struct {
	engine Engine
	songs  []models.SongMetadata
}

// Project builds one [models.IndexDocument] per song; document i carries Index i and
// verbatim copies of the searchable fields of sorted[i].
func Project(sorted []models.SongMetadata) []models.IndexDocument {
	docs := make([]models.IndexDocument, len(sorted))
	for i, song := range sorted {
		docs[i] = models.IndexDocument{
			Index:  i,
			Title:  song.Title,
			Artist: song.Artist,
			Album:  song.Album,
			Genre:  song.Genre,
		}
	}
	return docs
}

// Build registers the projection of sorted with engine and returns the resulting [Index].
//
// sorted must already be ordered; its positions become the reference keys. An empty
// sequence yields an empty index.
func Build(sorted []models.SongMetadata, engine Engine) (*Index, error) {
	if engine == nil {
		return nil, fmt.Errorf("build index: nil engine")
	}
	for _, doc := range Project(sorted) {
		if err := engine.Add(doc); err != nil {
			return nil, fmt.Errorf("build index: add document %d: %w", doc.Index, err)
		}
	}
	return &Index{engine: engine, songs: sorted}, nil
}

// Query returns ranked hits for text. A blank query returns no results.
func (ix *Index) Query(text string) ([]Result, error) {
	if strings.TrimSpace(text) == "" || len(ix.songs) == 0 {
		return nil, nil
	}
	return ix.engine.Query(text)
}

// Songs maps results back to the songs they reference, skipping refs out of range.
func (ix *Index) Songs(results []Result) []models.SongMetadata {
	songs := make([]models.SongMetadata, 0, len(results))
	for _, r := range results {
		if r.Ref < 0 || r.Ref >= len(ix.songs) {
			continue
		}
		songs = append(songs, ix.songs[r.Ref])
	}
	return songs
}

// Song returns the song with ordinal ref.
func (ix *Index) Song(ref int) (models.SongMetadata, bool) {
	if ref < 0 || ref >= len(ix.songs) {
		return models.SongMetadata{}, false
	}
	return ix.songs[ref], true
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return ix.engine.Len()
}

// Close releases the engine's resources.
func (ix *Index) Close() error {
	return ix.engine.Close()
}
