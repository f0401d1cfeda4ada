// package metadata orders song metadata by its case-insensitive (Genre, Artist, Album) key
package metadata

import (
	"slices"
	"strings"

	"github.com/desertthunder/player/internal/models"
)

// Key returns the composite sort key of a song with each field upper-case folded.
func Key(song models.SongMetadata) [3]string {
	return [3]string{
		strings.ToUpper(song.Genre),
		strings.ToUpper(song.Artist),
		strings.ToUpper(song.Album),
	}
}

// Compare orders two songs by genre, then artist, then album, ignoring case.
//
// Returns a negative number when a sorts first, a positive number when b does, and 0
// when all three folded fields are equal. Empty fields sort before non-empty ones.
func Compare(a, b models.SongMetadata) int {
	if c := strings.Compare(strings.ToUpper(a.Genre), strings.ToUpper(b.Genre)); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToUpper(a.Artist), strings.ToUpper(b.Artist)); c != 0 {
		return c
	}
	return strings.Compare(strings.ToUpper(a.Album), strings.ToUpper(b.Album))
}

// Sort returns a new slice holding the same songs ordered by [Compare].
//
// The input is left untouched. Songs with equal keys keep their input order.
func Sort(songs []models.SongMetadata) []models.SongMetadata {
	sorted := make([]models.SongMetadata, len(songs))
	copy(sorted, songs)
	slices.SortStableFunc(sorted, Compare)
	return sorted
}

// IsSorted reports whether every adjacent pair is in [Compare] order.
func IsSorted(songs []models.SongMetadata) bool {
	return slices.IsSortedFunc(songs, Compare)
}

// Genres returns the distinct genres of an ordered slice in order of first appearance,
// merging values that differ only by case.
func Genres(sorted []models.SongMetadata) []string {
	var genres []string
	seen := make(map[string]struct{})
	for _, song := range sorted {
		folded := strings.ToUpper(song.Genre)
		if _, ok := seen[folded]; ok {
			continue
		}
		seen[folded] = struct{}{}
		genres = append(genres, song.Genre)
	}
	return genres
}
