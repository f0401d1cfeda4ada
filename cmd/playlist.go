package main

import (
	"context"

	"github.com/desertthunder/player/internal/formatter"
	"github.com/urfave/cli/v3"
)

// PlaylistRender prints the playlist container markup for the fetched songs.
func (r *Runner) PlaylistRender(ctx context.Context, cmd *cli.Command) error {
	session, err := r.openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	r.logger.Debug("rendered playlist", "session", session.ID, "songs", session.Len())
	return r.writePlain("%s", session.Playlist)
}

// PlaylistConfig prints the playback configuration object.
func (r *Runner) PlaylistConfig(ctx context.Context, cmd *cli.Command) error {
	session, err := r.openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	return r.writeJSON(session.Config, cmd.Bool("pretty"))
}

// PlaylistExport writes the sorted song list in the requested format.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	session, err := r.openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer session.Close()

	format := cmd.String("format")
	pl := formatter.Playlist{
		Title:          cmd.String("title"),
		Songs:          session.Songs,
		DownloadPrefix: r.config.Player.DownloadPrefix,
	}

	path, err := formatter.WriteExport(format, pl, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("exported playlist", "format", format, "path", path, "songs", session.Len())
	r.writePlain("✓ Exported %d songs to %s\n", session.Len(), path)
	return nil
}
