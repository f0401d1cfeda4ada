package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/player/internal/models"
	"github.com/desertthunder/player/internal/player"
)

var _ list.Item = songItem{}

// songItem wraps a song and its ordinal to implement [list.Item].
type songItem struct {
	ordinal int
	song    models.SongMetadata
	score   float64
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string {
	title := i.song.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("%d. %s", i.ordinal, title)
}
func (i songItem) Description() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{i.song.Artist, i.song.Album, i.song.Genre} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	desc := strings.Join(parts, " • ")
	if i.score > 0 {
		desc = fmt.Sprintf("%s • score %.2f", desc, i.score)
	}
	return desc
}

// libraryItems lists every song of s in ordinal order.
func libraryItems(s *player.Session) []list.Item {
	items := make([]list.Item, len(s.Songs))
	for i, song := range s.Songs {
		items[i] = songItem{ordinal: i, song: song}
	}
	return items
}

// hitItems lists search hits best first.
func hitItems(hits []player.Hit) []list.Item {
	items := make([]list.Item, len(hits))
	for i, hit := range hits {
		items[i] = songItem{ordinal: hit.Index, song: hit.Song, score: hit.Score}
	}
	return items
}
