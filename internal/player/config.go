// package player assembles a playback session from fetched song metadata
package player

import (
	"strings"

	"github.com/desertthunder/player/internal/models"
	"github.com/desertthunder/player/internal/shared"
)

const (
	DefaultDownloadPrefix = "../ui/download/"
	DefaultCoverArtURL    = "static/placeholder.svg"
	DefaultSampleRate     = 50
)

// Key codes bound to playback actions.
const (
	KeyLeftArrow  = 37
	KeyRightArrow = 39
	KeySpace      = 32
)

// Options controls how songs are presented to the playback engine.
type Options struct {
	DownloadPrefix string // Prepended verbatim to each BlobRef
	CoverArtURL    string // Same artwork for every song
	Debug          bool
	SampleRate     int // Waveform samples; <= 0 selects DefaultSampleRate
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		DownloadPrefix: DefaultDownloadPrefix,
		CoverArtURL:    DefaultCoverArtURL,
		Debug:          true,
		SampleRate:     DefaultSampleRate,
	}
}

// OptionsFromConfig maps the [player] config section onto [Options].
func OptionsFromConfig(cfg shared.PlayerConfig) Options {
	return Options{
		DownloadPrefix: cfg.DownloadPrefix,
		CoverArtURL:    cfg.CoverArtURL,
		Debug:          cfg.Debug,
		SampleRate:     cfg.SampleRate,
	}
}

// Song is one entry of the playback engine's song list.
type Song struct {
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	URL         string `json:"url"`
	CoverArtURL string `json:"cover_art_url"`
}

// Waveforms configures waveform rendering.
type Waveforms struct {
	SampleRate int `json:"sample_rate"`
}

// Config is the object handed to Amplitude.init.
type Config struct {
	Bindings  map[int]string `json:"bindings"`
	Debug     bool           `json:"debug"`
	Songs     []Song         `json:"songs"`
	Waveforms Waveforms      `json:"waveforms"`
}

// Bindings returns the keyboard map: left arrow for previous, right arrow for next and
// space for play/pause.
func Bindings() map[int]string {
	return map[int]string{
		KeyLeftArrow:  "prev",
		KeyRightArrow: "next",
		KeySpace:      "play_pause",
	}
}

// BuildConfig converts the ordered songs into playback configuration. Song i of the
// result is sorted[i].
func BuildConfig(sorted []models.SongMetadata, opts Options) Config {
	rate := opts.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}

	songs := make([]Song, len(sorted))
	for i, md := range sorted {
		songs[i] = Song{
			Name:        md.Title,
			Artist:      md.Artist,
			Album:       md.Album,
			URL:         SongURL(opts.DownloadPrefix, md.BlobRef),
			CoverArtURL: opts.CoverArtURL,
		}
	}

	return Config{
		Bindings:  Bindings(),
		Debug:     opts.Debug,
		Songs:     songs,
		Waveforms: Waveforms{SampleRate: rate},
	}
}

// SongURL joins prefix and ref without escaping; refs are expected to be URL-safe.
func SongURL(prefix, ref string) string {
	var b strings.Builder
	b.Grow(len(prefix) + len(ref))
	b.WriteString(prefix)
	b.WriteString(ref)
	return b.String()
}
