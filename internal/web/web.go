// Package web embeds the player page template and its static assets.
//
// The page is a thin shell around AmplitudeJS: the playlist fragment and the playback
// configuration are rendered server-side from a [player.Session] and inlined, so the
// browser never has to sort or index anything itself.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/desertthunder/player/internal/player"
	"github.com/dustin/go-humanize"
)

//go:embed templates/index.html
var templates embed.FS

//go:embed static
var static embed.FS

var page = template.Must(template.ParseFS(templates, "templates/index.html"))

// PageData is the input of the player page template.
type PageData struct {
	Title     string
	SessionID string
	Summary   string
	Playlist  template.HTML
	Config    template.JS
}

// Static returns the embedded assets rooted so that "static/app.css" resolves.
func Static() fs.FS {
	return static
}

// NewPageData prepares the page for s.
func NewPageData(title string, s *player.Session) (PageData, error) {
	cfg, err := json.Marshal(s.Config)
	if err != nil {
		return PageData{}, fmt.Errorf("failed to encode player config: %w", err)
	}

	return PageData{
		Title:     title,
		SessionID: s.ID,
		Summary:   fmt.Sprintf("%s songs, loaded %s", humanize.Comma(int64(s.Len())), humanize.Time(s.Created)),
		Playlist:  s.Playlist,
		Config:    template.JS(cfg),
	}, nil
}

// RenderPage writes the player page.
func RenderPage(w io.Writer, data PageData) error {
	return page.Execute(w, data)
}
