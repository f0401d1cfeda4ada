// package library scans directories of audio files into song metadata
package library

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"time"

	"github.com/desertthunder/player/internal/models"
	"github.com/dhowden/tag"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// BlobRefPrefix names the hash used for content addresses.
const BlobRefPrefix = "sha224-"

// Entry is one audio file found by a scan.
type Entry struct {
	Song    models.SongMetadata `json:"song"`
	Path    string              `json:"path"`
	Size    int64               `json:"size"`
	ModTime time.Time           `json:"mod_time"`
}

// HumanSize formats Size for display, e.g. "4.2 MiB".
func (e Entry) HumanSize() string {
	if e.Size <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(e.Size))
}

// Source produces library entries. [Scanner] is the filesystem implementation.
type Source interface {
	Scan(ctx context.Context, progress chan<- ProgressUpdate) ([]Entry, error)
}

// Tags holds the text tags a song needs. Empty fields are absent tags.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Genre  string
}

// complete reports whether the tags a playable entry requires are present.
func (t Tags) complete() bool {
	return t.Title != "" && t.Album != "" && t.Artist != ""
}

// TagReader extracts tags from an audio stream.
type TagReader func(r io.ReadSeeker) (Tags, error)

// Detector returns the MIME type of the file at path.
type Detector func(path string) (string, error)

// ReadTags reads ID3, MP4, FLAC and Ogg tags with [tag.ReadFrom].
func ReadTags(r io.ReadSeeker) (Tags, error) {
	m, err := tag.ReadFrom(r)
	if err != nil {
		return Tags{}, err
	}
	return Tags{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
		Genre:  strings.TrimSpace(m.Genre()),
	}, nil
}

// DetectType sniffs the file's content with [mimetype.DetectFile].
func DetectType(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	return mt.String(), nil
}

// IsAudio reports whether a MIME type is an audio type.
func IsAudio(mediaType string) bool {
	return strings.HasPrefix(mediaType, "audio/")
}

// ComputeBlobRef returns the content address of everything read from r.
func ComputeBlobRef(r io.Reader) (string, error) {
	h := sha256.New224()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return BlobRefPrefix + hex.EncodeToString(h.Sum(nil)), nil
}
