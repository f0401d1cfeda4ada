// package formatter exports an ordered song list to various formats (CSV, Markdown, plain text, M3U, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/player/internal/metadata"
	"github.com/desertthunder/player/internal/models"
	"github.com/desertthunder/player/internal/shared"
	"github.com/dustin/go-humanize"
)

// Export formats accepted by [Export].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatText     = "txt"
	FormatM3U      = "m3u"
	FormatJSON     = "json"
)

const unknownGenre = "Unknown Genre"

// Playlist is an ordered song list with the settings exports need.
//
// Songs must already be sorted; each song's position is its ordinal.
type Playlist struct {
	Title          string
	Songs          []models.SongMetadata
	DownloadPrefix string // Base for M3U entry URLs
}

// Formats returns the supported format names.
func Formats() []string {
	return []string{FormatCSV, FormatMarkdown, FormatText, FormatM3U, FormatJSON}
}

// normalizeFormat maps aliases to canonical format names.
func normalizeFormat(format string) string {
	switch f := strings.ToLower(strings.TrimPrefix(format, ".")); f {
	case "markdown":
		return FormatMarkdown
	case "text":
		return FormatText
	case "m3u8":
		return FormatM3U
	default:
		return f
	}
}

// Export renders pl in the named format.
func Export(format string, pl Playlist) ([]byte, error) {
	switch normalizeFormat(format) {
	case FormatCSV:
		return ExportToCSV(pl)
	case FormatMarkdown:
		return ExportToMarkdown(pl)
	case FormatText:
		return ExportToText(pl)
	case FormatM3U:
		return ExportToM3U(pl)
	case FormatJSON:
		return shared.MarshalJSON(pl.Songs, true)
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", shared.ErrInvalidFormat, format, strings.Join(Formats(), ", "))
	}
}

// ExportToCSV writes one row per song with columns: Index, Title, Artist, Album, Genre, BlobRef
func ExportToCSV(pl Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "Title", "Artist", "Album", "Genre", "BlobRef"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range pl.Songs {
		record := []string{
			strconv.Itoa(i),
			song.Title,
			song.Artist,
			song.Album,
			song.Genre,
			song.BlobRef,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown writes a section per genre. Genres compare case-insensitively, so
// "rock" and "Rock" share a section titled by whichever sorts first.
func ExportToMarkdown(pl Playlist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title(pl)))
	buf.WriteString(fmt.Sprintf("**Songs**: %s\n", humanize.Comma(int64(len(pl.Songs)))))
	buf.WriteString(fmt.Sprintf("**Genres**: %d\n", len(metadata.Genres(pl.Songs))))

	current := "\x00"
	for i, song := range pl.Songs {
		if genre := metadata.Key(song)[0]; genre != current {
			current = genre
			heading := song.Genre
			if heading == "" {
				heading = unknownGenre
			}
			buf.WriteString(fmt.Sprintf("\n## %s\n\n", heading))
		}

		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		buf.WriteString(fmt.Sprintf("- `%d` %s - %s%s\n", i, song.Artist, song.Title, albumPart))
	}

	return buf.Bytes(), nil
}

// ExportToText writes a numbered list using song ordinals.
func ExportToText(pl Playlist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", title(pl)))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(pl.Songs)))

	for i, song := range pl.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i, song.Artist, song.Title))
	}

	return buf.Bytes(), nil
}

// ExportToM3U writes an extended M3U playlist whose entries point at the download route.
func ExportToM3U(pl Playlist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("#EXTM3U\n")
	buf.WriteString(fmt.Sprintf("#PLAYLIST:%s\n", title(pl)))

	for _, song := range pl.Songs {
		buf.WriteString(fmt.Sprintf("#EXTINF:-1,%s - %s\n", song.Artist, song.Title))
		buf.WriteString(pl.DownloadPrefix + song.BlobRef + "\n")
	}

	return buf.Bytes(), nil
}

// WriteExport renders pl and writes it to path.
//
// Defaults to "{title}.{format}" in the working directory.
func WriteExport(format string, pl Playlist, path string) (string, error) {
	data, err := Export(format, pl)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = fmt.Sprintf("%s.%s", slug(title(pl)), normalizeFormat(format))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return path, nil
}

func title(pl Playlist) string {
	if pl.Title == "" {
		return "Library"
	}
	return pl.Title
}

// slug lowercases s and replaces runs of anything but letters and digits with "-".
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
