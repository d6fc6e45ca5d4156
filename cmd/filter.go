package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nicholasnucifora/spotify-filterer/internal/formatter"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
	"github.com/nicholasnucifora/spotify-filterer/internal/tasks"
	"github.com/nicholasnucifora/spotify-filterer/internal/ui"
	"github.com/urfave/cli/v3"
)

// Filter runs a full filter pass against the target playlist and prints the
// removal report.
func (r *Runner) Filter(ctx context.Context, cmd *cli.Command) error {
	if r.library == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	opts := tasks.FilterOptions{
		TargetLink:        cmd.String("target"),
		FilterLinks:       cmd.StringSlice("filter"),
		UseLikedSongs:     cmd.Bool("liked"),
		RemoveUnavailable: cmd.Bool("unavailable"),
		RemoveDuplicates:  cmd.Bool("duplicates"),
		DryRun:            cmd.Bool("dry-run"),
		Verify:            cmd.Bool("verify") || r.config.Removal.Verify,
	}

	matchCfg := r.matchConfig()
	if threshold := cmd.Int("threshold"); threshold > 0 {
		matchCfg.DupThreshold = threshold
	}
	engine := tasks.NewFilterEngine(r.library, matchCfg, r.logger)

	if cmd.Bool("pick") {
		model := ui.NewModel(ctx, r.library, engine, opts)
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("picker failed: %w", err)
		}

		result, err := model.Result()
		if err != nil {
			return err
		}
		if result == nil {
			// User quit without running.
			return nil
		}
		return r.finishRun(cmd, result)
	}

	if opts.TargetLink == "" {
		return fmt.Errorf("%w: --target is required (or use --pick)", shared.ErrMissingArgument)
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("  [%s] %s\n", update.Phase, update.Message)
		}
	}()

	result, err := engine.Run(ctx, progress, opts)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	return r.finishRun(cmd, result)
}

// finishRun records the run, writes the optional report file, and prints the
// summary.
func (r *Runner) finishRun(cmd *cli.Command, result *tasks.FilterRunResult) error {
	if repo, db, err := r.openRuns(); err != nil {
		r.logger.Warn("run history unavailable", "error", err)
	} else {
		defer db.Close()
		if !result.DryRun {
			if err := repo.Create(result.Record()); err != nil {
				r.logger.Warn("failed to record filter run", "error", err)
			}
		}
	}

	report := &formatter.RunReport{
		Playlist:     result.Playlist,
		Plan:         result.Plan,
		Warnings:     result.Warnings,
		Removal:      result.Removal,
		StillPresent: result.StillPresent,
		DryRun:       result.DryRun,
	}

	if format := cmd.String("report"); format != "" {
		path, err := formatter.WriteReport(report, format, cmd.String("output"))
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		r.writePlain("✓ Report written to %s\n", path)
	}

	return r.writePlain("%s\n", formatter.RenderSummary(report))
}
