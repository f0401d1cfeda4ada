package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/player/internal/library"
	"github.com/desertthunder/player/internal/models"
	"github.com/desertthunder/player/internal/shared"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
)

// LibraryScan scans the library once and lists what the server would publish.
func (r *Runner) LibraryScan(ctx context.Context, cmd *cli.Command) error {
	paths := r.config.Library.Paths
	if cmd.IsSet("library") {
		paths = cmd.StringSlice("library")
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: no library paths (set library.paths or pass --library)", shared.ErrMissingArgument)
	}
	verbose := cmd.Bool("verbose")

	progressCh := make(chan library.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if !verbose {
				continue
			}
			switch update.Phase {
			case library.WalkRoot:
				r.writePlain("📂 %s\n", update.Message)
			case library.FoundSong:
				r.writePlain("   ♪ %s\n", update.Message)
			case library.SkipFile:
				r.writePlain("   - %s\n", update.Message)
			case library.ScanDone:
				r.writePlain("\n%s\n\n", update.Message)
			}
		}
	}()

	scanner := library.NewScanner(paths, r.logger)
	entries, err := scanner.Scan(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		songs := make([]models.SongMetadata, len(entries))
		for i, e := range entries {
			songs[i] = e.Song
		}
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Library")
	var total uint64
	for i, e := range entries {
		total += uint64(e.Size)
		r.writePlain("%3d. %s - %s", i+1, e.Song.Artist, e.Song.Title)
		if e.Song.Album != "" {
			r.writePlain(" (%s)", e.Song.Album)
		}
		r.writePlain(" [%s, %s]\n", e.HumanSize(), humanize.Time(e.ModTime))
	}
	r.writePlainln("%s songs, %s", humanize.Comma(int64(len(entries))), humanize.IBytes(total))
	return nil
}
