package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/player/internal/library"
	"github.com/desertthunder/player/internal/server"
	"github.com/desertthunder/player/internal/shared"
	"github.com/urfave/cli/v3"
)

// serveOpts is the serve command's configuration after flag overrides.
type serveOpts struct {
	server shared.ServerConfig
	paths  []string
	engine string
}

func (r *Runner) serveOptions(cmd *cli.Command) serveOpts {
	opts := serveOpts{
		server: r.config.Server,
		paths:  r.config.Library.Paths,
		engine: cmd.String("engine"),
	}
	if cmd.IsSet("host") {
		opts.server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		opts.server.Port = cmd.Int("port")
	}
	if cmd.IsSet("prefix") {
		opts.server.Prefix = cmd.String("prefix")
	}
	if cmd.IsSet("library") {
		opts.paths = cmd.StringSlice("library")
	}
	return opts
}

// buildServer scans the library and wires the catalog, player provider and HTTP server.
//
// Every catalog refresh rebuilds the player session. Returns once the first scan
// succeeds and a session is built, or with the error that prevented either.
func (r *Runner) buildServer(ctx context.Context, opts serveOpts) (*server.Server, *library.Catalog, error) {
	factory, err := r.factoryFor(opts.engine)
	if err != nil {
		return nil, nil, err
	}

	scanner := library.NewScanner(opts.paths, shared.WithLogger(r.logger, "component", "scanner"))
	catalog := library.NewCatalog(scanner, shared.WithLogger(r.logger, "component", "catalog"))
	provider := server.NewPlayerProvider(catalog, factory, r.playerOptions(), shared.WithLogger(r.logger, "component", "player"))

	catalog.OnRefresh(func(gen uint64) {
		if err := provider.Rebuild(ctx); err != nil {
			r.logger.Error("failed to rebuild player session", "generation", gen, "error", err)
		}
	})

	if err := catalog.Bootstrap(ctx, r.config.Library.BootstrapTimeout.Duration); err != nil {
		return nil, nil, err
	}
	// The refresh hook only logs, so a failed first rebuild is retried here.
	if provider.Current() == nil {
		if err := provider.Rebuild(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to build player session: %w", err)
		}
	}

	return server.New(opts.server, catalog, provider, shared.WithLogger(r.logger, "component", "http")), catalog, nil
}

// Serve runs the library server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	opts := r.serveOptions(cmd)
	if len(opts.paths) == 0 {
		return fmt.Errorf("%w: no library paths (set library.paths or pass --library)", shared.ErrMissingArgument)
	}

	r.logger.Info("scanning library", "paths", opts.paths)
	srv, catalog, err := r.buildServer(ctx, opts)
	if err != nil {
		return err
	}

	go catalog.Run(ctx, r.config.Library.RefreshInterval.Duration)

	r.logger.Info("serving", "addr", opts.server.Addr(), "prefix", opts.server.Prefix, "songs", len(catalog.Songs()))
	return srv.ListenAndServe(ctx)
}
