package player

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/desertthunder/player/internal/shared"
)

var songContainer = template.Must(template.New("playlist").Parse(
	`{{range .}}<div class="song amplitude-song-container amplitude-play-pause" data-amplitude-song-index="{{.}}">
  <div class="song-meta-data-container">
    <span class="song-name" data-amplitude-song-info="name" data-amplitude-song-index="{{.}}"></span>
    <span class="song-artist" data-amplitude-song-info="artist" data-amplitude-song-index="{{.}}"></span>
  </div>
</div>
{{end}}`))

// RenderPlaylist renders n song containers with ordinals 0 through n-1.
//
// The spans are left empty; the playback engine fills in name and artist by ordinal.
// Zero songs render an empty fragment.
func RenderPlaylist(n int) (template.HTML, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: negative song count %d", shared.ErrInvalidInput, n)
	}
	if n == 0 {
		return "", nil
	}

	ordinals := make([]int, n)
	for i := range ordinals {
		ordinals[i] = i
	}

	var buf bytes.Buffer
	if err := songContainer.Execute(&buf, ordinals); err != nil {
		return "", fmt.Errorf("failed to render playlist: %w", err)
	}
	return template.HTML(buf.String()), nil
}
