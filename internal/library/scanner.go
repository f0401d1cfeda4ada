package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/player/internal/models"
)

// errSkip marks a file that is not a playable song.
var errSkip = errors.New("skip")

// Scanner walks library roots for tagged audio files.
//
// A file becomes an [Entry] when its content sniffs as audio/* and it carries title,
// album and artist tags. Missing roots and unreadable files are logged and skipped.
type Scanner struct {
	Roots    []string
	ReadTags TagReader
	Detect   Detector

	logger *log.Logger
}

// NewScanner creates a [Scanner] using [ReadTags] and [DetectType].
func NewScanner(roots []string, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scanner{
		Roots:    roots,
		ReadTags: ReadTags,
		Detect:   DetectType,
		logger:   logger,
	}
}

// Scan walks every root in order. Within a root files are visited in lexical order.
// Files with identical content share a blob ref; only the first is kept.
func (s *Scanner) Scan(ctx context.Context, progress chan<- ProgressUpdate) ([]Entry, error) {
	var (
		entries []Entry
		seen    = make(map[string]string)
		skipped int
	)

	for i, root := range s.Roots {
		sendProgress(progress, walkRootUpdate(i+1, len(s.Roots), root))

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				if path == root {
					return err
				}
				s.logger.Warn("unreadable path", "path", path, "error", err)
				skipped++
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			entry, err := s.scanFile(path)
			if errors.Is(err, errSkip) {
				skipped++
				sendProgress(progress, skipFileUpdate(len(entries), path, err.Error()))
				return nil
			}
			if err != nil {
				s.logger.Warn("failed to scan file", "path", path, "error", err)
				skipped++
				return nil
			}

			if first, ok := seen[entry.Song.BlobRef]; ok {
				s.logger.Debug("duplicate content", "path", path, "first", first)
				skipped++
				return nil
			}
			seen[entry.Song.BlobRef] = path

			entries = append(entries, entry)
			sendProgress(progress, foundSongUpdate(len(entries), entry))
			return nil
		})

		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(err, fs.ErrNotExist):
			s.logger.Warn("library root does not exist", "root", root)
		case err != nil:
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}

	sendProgress(progress, scanDoneUpdate(len(entries), skipped))
	s.logger.Debug("scan complete", "songs", len(entries), "skipped", skipped)

	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// scanFile builds an entry for path or returns an error wrapping errSkip.
func (s *Scanner) scanFile(path string) (Entry, error) {
	mediaType, err := s.Detect(path)
	if err != nil {
		return Entry{}, err
	}
	if !IsAudio(mediaType) {
		return Entry{}, fmt.Errorf("%w: %s", errSkip, mediaType)
	}

	f, err := os.Open(path)
	if err != nil {
		return Entry{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Entry{}, err
	}

	tags, err := s.ReadTags(f)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: no tags: %v", errSkip, err)
	}
	if !tags.complete() {
		return Entry{}, fmt.Errorf("%w: missing title, album or artist tag", errSkip)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Entry{}, err
	}
	ref, err := ComputeBlobRef(f)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Song: models.SongMetadata{
			Title:     tags.Title,
			Artist:    tags.Artist,
			Album:     tags.Album,
			Genre:     tags.Genre,
			BlobRef:   ref,
			MediaType: mediaType,
		},
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

var _ Source = (*Scanner)(nil)
