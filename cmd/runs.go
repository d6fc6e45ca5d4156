package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Runs lists recorded filter runs, most recent first.
func (r *Runner) Runs(ctx context.Context, cmd *cli.Command) error {
	repo, db, err := r.openRuns()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if playlistID := cmd.String("playlist"); playlistID != "" {
		criteria["playlist_id"] = playlistID
	}
	if limit := cmd.Int("limit"); limit > 0 {
		criteria["limit"] = limit
	}

	runs, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, true)
	}

	if len(runs) == 0 {
		r.writePlain("No filter runs recorded yet.\n")
		return nil
	}

	r.writePlain("Found %d filter runs:\n\n", len(runs))
	for _, run := range runs {
		r.writePlain("#%d  %s (%s)\n", run.Sequence, run.PlaylistName, run.PlaylistID)
		r.writePlain("    %s\n", run.Created.Format("2006-01-02 15:04"))
		r.writePlain("    unavailable %d, exact %d, fuzzy %d, internal %d\n",
			run.Unavailable, run.Exact, run.Fuzzy, run.Internal)
		r.writePlain("    removed %d entries (%d unique)", run.Removed, run.UniqueTracks)
		if run.Failed > 0 {
			r.writePlain(", %d failed", run.Failed)
		}
		if run.Warnings > 0 {
			r.writePlain(", %d warnings", run.Warnings)
		}
		r.writePlain("\n\n")
	}

	return nil
}
