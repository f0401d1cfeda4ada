// package services defines the [Fetcher] interface for retrieving song metadata
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/player/internal/models"
	"github.com/desertthunder/player/internal/shared"
)

// Fetcher retrieves the raw, unordered song metadata list.
type Fetcher interface {
	// FetchMeta returns every song the source knows about.
	// A source with no songs returns an empty slice and no error.
	FetchMeta(ctx context.Context) ([]models.SongMetadata, error)
}

// StaticFetcher serves a fixed song list, e.g. one loaded with [LoadMetaFile].
type StaticFetcher struct {
	Songs []models.SongMetadata
}

// FetchMeta returns a copy of the fixed list.
func (f *StaticFetcher) FetchMeta(ctx context.Context) ([]models.SongMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	songs := make([]models.SongMetadata, len(f.Songs))
	copy(songs, f.Songs)
	return songs, nil
}

// LoadMetaFile reads a saved api/meta response from path.
func LoadMetaFile(path string) (*StaticFetcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer f.Close()

	songs, err := DecodeMeta(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &StaticFetcher{Songs: songs}, nil
}

// DecodeMeta parses a JSON array of song metadata. Missing fields decode to empty strings
// and unknown fields are ignored; a JSON null yields an empty list.
func DecodeMeta(r io.Reader) ([]models.SongMetadata, error) {
	var songs []models.SongMetadata
	if err := json.NewDecoder(r).Decode(&songs); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidResponse, err)
	}
	if songs == nil {
		songs = []models.SongMetadata{}
	}
	return songs, nil
}
