package main

import (
	"context"
	"fmt"

	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
	"github.com/nicholasnucifora/spotify-filterer/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Playlists lists the user's Spotify playlists with an optional limit.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.library == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("listing playlists with limit %v", limit)

	playlists, err := r.library.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		if p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}

	return nil
}

// Snapshot saves the given playlists to local files.
func (r *Runner) Snapshot(ctx context.Context, cmd *cli.Command) error {
	if r.library == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	links := cmd.Args().Slice()
	if len(links) == 0 {
		return fmt.Errorf("%w: pass at least one playlist link or id", shared.ErrMissingArgument)
	}

	ids := make([]string, 0, len(links))
	for _, link := range links {
		id, err := shared.ParsePlaylistID(link)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		ids = append(ids, id)
	}

	opts := tasks.SnapshotOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := r.engine.Snapshot(ctx, progress, ids, opts)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	r.writePlainln("✓ Snapshot complete")
	r.writePlain("  Playlists: %d (%d failed)\n", result.TotalPlaylists, result.FailedSnapshots)
	r.writePlain("  Directory: %s\n", result.OutputDirectory)
	r.writePlain("  Manifest: %s\n", result.ManifestPath)
	return nil
}
