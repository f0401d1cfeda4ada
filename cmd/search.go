package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/player/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search queries the session index and prints hits best first with their ordinals.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	session, err := r.openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	r.logger.Info("searching", "query", query, "songs", session.Len())
	hits, err := session.Search(query, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(hits, cmd.Bool("pretty"))
	}

	if len(hits) == 0 {
		r.writePlain("No songs match %q\n", query)
		return nil
	}

	r.writePlain("Found %d songs:\n\n", len(hits))
	for _, hit := range hits {
		r.writePlain("[%d] %s - %s", hit.Index, hit.Song.Artist, hit.Song.Title)
		if hit.Song.Album != "" {
			r.writePlain(" (%s)", hit.Song.Album)
		}
		r.writePlain("\n")
	}
	return nil
}
