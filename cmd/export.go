package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/donmerendolo/exportify-cli/internal/cache"
	"github.com/donmerendolo/exportify-cli/internal/export"
	"github.com/donmerendolo/exportify-cli/internal/models"
	"github.com/donmerendolo/exportify-cli/internal/shared"
	"github.com/donmerendolo/exportify-cli/internal/spotify"
	"github.com/donmerendolo/exportify-cli/internal/ui"
	"github.com/urfave/cli/v3"
)

// Export is the root action: it exports the selected targets, or in list
// mode prints the library table. Exactly one target selector must be given.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	all := cmd.Bool("all")
	playlists := cmd.StringSlice("playlist")
	users := cmd.StringSlice("user")
	list := cmd.Bool("list")

	selectors := 0
	for _, on := range []bool{all, len(playlists) > 0, len(users) > 0, list} {
		if on {
			selectors++
		}
	}
	if selectors == 0 {
		cli.ShowAppHelp(cmd)
		return fmt.Errorf("%w: one of --all, --playlist, --user or --list is required", shared.ErrInvalidIdentifier)
	}
	if selectors > 1 {
		return fmt.Errorf("%w: --all, --playlist, --user and --list are mutually exclusive", shared.ErrInvalidIdentifier)
	}

	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	opts, err := resolveOptions(cmd, config)
	if err != nil {
		return err
	}

	client, err := spotify.NewClient(config.Spotify)
	if err != nil {
		return err
	}
	client.SetRateLimit(opts.RateLimit)
	if err := client.Authenticate(ctx, config.Spotify.Token()); err != nil {
		return err
	}

	var albums export.AlbumSource
	if config.Cache.Enabled && !list {
		store, err := cache.Open(config.Cache.Path)
		if err != nil {
			r.logger.Warn("album cache unavailable", "path", config.Cache.Path, "error", err)
		} else {
			defer store.Close()
			albums = store
		}
	}

	engine, err := export.NewEngine(client, albums, opts, r.logger)
	if err != nil {
		return err
	}

	if list {
		return r.list(ctx, engine)
	}

	targets, failures, err := engine.ResolveTargets(ctx, all, playlists, users)
	if err != nil {
		return err
	}
	for _, f := range failures {
		r.logger.Error("could not resolve target", "target", f.Token, "error", f.Err)
	}
	if len(targets) == 0 {
		if err := runError(nil, failures); err != nil {
			return fmt.Errorf("no targets could be resolved: %w", err)
		}
		return fmt.Errorf("nothing to export")
	}

	result := r.runExport(ctx, engine, targets, opts)

	for _, res := range result.Results {
		for _, warning := range res.Warnings {
			r.logger.Warn(warning, "playlist", res.Handle.Name)
		}
	}

	if len(result.Results) > 1 || result.Failed > 0 {
		r.writePlain("Exported %d tracks from %d of %d playlists\n",
			result.ExportedTracks, result.Succeeded, len(result.Results))
	}

	return runError(result, failures)
}

// runError folds per-target failures into the action's error. When any
// failure traces back to rejected credentials the error keeps the
// unauthorized type, so the exit path suggests re-login instead of a bare
// failure count.
func runError(result *export.RunResult, failures []export.TargetFailure) error {
	failed := len(failures)
	unauthorized := false
	for _, f := range failures {
		if errors.Is(f.Err, shared.ErrUnauthorized) {
			unauthorized = true
		}
	}
	if result != nil {
		failed += result.Failed
		for _, res := range result.Results {
			if res.Err != nil && errors.Is(res.Err, shared.ErrUnauthorized) {
				unauthorized = true
			}
		}
	}

	if failed == 0 {
		return nil
	}
	if unauthorized {
		return fmt.Errorf("%w: %d target(s) failed", shared.ErrUnauthorized, failed)
	}
	return fmt.Errorf("%d target(s) failed", failed)
}

// runExport drives the engine while a consumer drains the progress channel,
// either the interactive bar or plain log lines.
func (r *Runner) runExport(ctx context.Context, engine *export.Engine, targets []models.ExportTarget, opts shared.Options) *export.RunResult {
	progress := make(chan export.ProgressUpdate, 64)
	consumed := make(chan struct{})

	if opts.ShowBar {
		go func() {
			defer close(consumed)
			if err := ui.RunProgress(progress, r.output); err != nil {
				r.logger.Warn("progress display failed", "error", err)
				for range progress {
				}
			}
		}()
	} else {
		go func() {
			defer close(consumed)
			for update := range progress {
				switch update.Phase {
				case export.TargetDone, export.TargetFailed:
					r.writePlain("%s\n", update.Message)
				}
			}
		}()
	}

	result := engine.Export(ctx, targets, progress)
	close(progress)
	<-consumed
	return result
}

// list prints the library snapshot as a table and performs no exports.
func (r *Runner) list(ctx context.Context, engine *export.Engine) error {
	account, err := engine.Account(ctx)
	if err != nil {
		return err
	}
	handles, err := engine.Resolver().Library(ctx)
	if err != nil {
		return err
	}

	name := account.DisplayName
	if name == "" {
		name = account.ID
	}
	r.writePlain("Playlists for %s\n\n", name)
	r.writePlain("%s", ui.RenderPlaylistTable(handles))
	r.writePlain("\n%d playlists\n", len(handles))
	return nil
}

// resolveOptions overlays explicitly set flags on the config-derived options.
func resolveOptions(cmd *cli.Command, config *shared.Config) (shared.Options, error) {
	opts := config.Options()

	if cmd.IsSet("output") {
		opts.OutputDir = cmd.String("output")
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "./playlists"
	}
	if cmd.IsSet("format") {
		opts.Formats = cmd.StringSlice("format")
	}
	if cmd.IsSet("uris") {
		opts.IncludeURIs = cmd.Bool("uris")
	}
	if cmd.IsSet("external-ids") {
		opts.IncludeExternalIDs = cmd.Bool("external-ids")
	}
	if cmd.IsSet("no-bar") {
		opts.ShowBar = !cmd.Bool("no-bar")
	}
	if cmd.IsSet("sort-key") {
		opts.SortKey = cmd.String("sort-key")
	}
	if opts.SortKey == "" {
		opts.SortKey = export.SentinelSortKey
	}
	if cmd.IsSet("reverse") {
		opts.Reverse = cmd.Bool("reverse")
	}

	formats, err := shared.NormalizeFormats(opts.Formats)
	if err != nil {
		return opts, err
	}
	opts.Formats = formats

	return opts, nil
}
