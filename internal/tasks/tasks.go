package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/nicholasnucifora/spotify-filterer/internal/dedupe"
	"github.com/nicholasnucifora/spotify-filterer/internal/models"
	"github.com/nicholasnucifora/spotify-filterer/internal/services"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
)

// FilterOptions configures a single filter run.
type FilterOptions struct {
	TargetLink        string   // target playlist link, URI or bare id
	FilterLinks       []string // filter playlist links to deduplicate against
	UseLikedSongs     bool     // include the user's saved tracks as a filter source
	RemoveUnavailable bool     // flag local and unplayable tracks for removal
	RemoveDuplicates  bool     // detect cross-playlist and in-playlist duplicates
	DryRun            bool     // build the plan but remove nothing
	Verify            bool     // re-fetch the playlist after removal and diff
}

// FilterRunResult contains all data from a full filter run.
type FilterRunResult struct {
	Playlist     *models.Playlist // target playlist
	TotalEntries int              // playlist entries before filtering, counting repeats
	Plan         *dedupe.Plan     // merged removal plan
	Warnings     []dedupe.Match   // possible duplicates below the removal threshold
	Removal      dedupe.RemovalResult
	StillPresent []string // planned removals still present after verification
	DryRun       bool
}

// Record converts the run result into a [models.FilterRun] history row.
func (r *FilterRunResult) Record() *models.FilterRun {
	run := models.NewFilterRun("", r.Playlist.ID, r.Playlist.Name)
	counts := r.Plan.Counts()
	run.Unavailable = counts.Unavailable
	run.Exact = counts.Exact
	run.Fuzzy = counts.Fuzzy
	run.Internal = counts.Internal
	run.Removed = r.Removal.Removed
	run.UniqueTracks = r.Removal.UniqueTracks
	run.Failed = len(r.Removal.FailedIDs)
	run.Warnings = len(r.Warnings)
	return run
}

// Engine defines operations for filtering playlists.
type Engine interface {
	// Run performs a full filter pass: fetches the target playlist, flags
	// unavailable tracks, matches against the filter sources, detects
	// in-playlist duplicates and removes the merged plan.
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts FilterOptions) (*FilterRunResult, error)
}

// FilterEngine implements Engine against a [services.Library].
type FilterEngine struct {
	library services.Library
	cfg     dedupe.Config
	logger  *log.Logger
}

// NewFilterEngine creates a FilterEngine. The logger may be nil.
func NewFilterEngine(library services.Library, cfg dedupe.Config, logger *log.Logger) *FilterEngine {
	return &FilterEngine{library: library, cfg: cfg, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *FilterEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run performs a full filter pass against the target playlist.
//
// Fetch failures abort the run; removal failures do not. A batch that fails
// to remove is recorded on the result and the run continues, so the caller
// always gets the full picture of what was and wasn't removed.
func (e *FilterEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts FilterOptions) (*FilterRunResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	hasFilterSource := len(opts.FilterLinks) > 0 || opts.UseLikedSongs
	if !opts.RemoveUnavailable && !(opts.RemoveDuplicates || hasFilterSource) {
		return nil, fmt.Errorf("%w: nothing to filter: enable unavailable removal, duplicate detection or a filter source", shared.ErrInvalidInput)
	}

	targetID, err := shared.ParsePlaylistID(opts.TargetLink)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	e.sendProgress(progress, fetchTargetUpdate(targetID))

	playlist, err := e.library.GetPlaylist(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch target playlist: %w", err)
	}

	occurrences, err := e.library.GetPlaylistTracks(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch target tracks: %w", err)
	}

	result := &FilterRunResult{
		Playlist:     playlist,
		TotalEntries: len(occurrences),
		DryRun:       opts.DryRun,
	}

	multiplicity := models.Multiplicity(occurrences)
	unique := models.UniqueByID(occurrences)

	e.sendProgress(progress, foundTargetUpdate(playlist, len(occurrences)))

	var unavailable []models.Track
	if opts.RemoveUnavailable {
		for _, t := range unique {
			if t.Unavailable() {
				unavailable = append(unavailable, t)
			}
		}
		e.sendProgress(progress, availabilityUpdate(len(unavailable), len(unique)))
	}

	var exact []models.Track
	var fuzzy, internal, warnings []dedupe.Match

	if opts.RemoveDuplicates || hasFilterSource {
		filterTracks, err := e.fetchFilterTracks(ctx, progress, opts)
		if err != nil {
			return nil, err
		}

		claimed := make(map[string]bool, len(unavailable))
		for _, t := range unavailable {
			claimed[t.ID] = true
		}

		// Exact id matches against the filter sources come first so the
		// fuzzy pass only works on genuinely different entries.
		filterIDs := make(map[string]bool, len(filterTracks))
		for _, t := range filterTracks {
			if t.ID != "" {
				filterIDs[t.ID] = true
			}
		}

		var remaining []models.Track
		for _, t := range unique {
			if claimed[t.ID] {
				continue
			}
			if filterIDs[t.ID] {
				exact = append(exact, t)
				claimed[t.ID] = true
				continue
			}
			remaining = append(remaining, t)
		}

		e.sendProgress(progress, matchTracksUpdate(len(remaining), len(filterTracks)))

		if len(filterTracks) > 0 {
			fuzzy, warnings = dedupe.MatchAgainstFilter(remaining, filterTracks, e.cfg)
		}

		if opts.RemoveDuplicates {
			// Tracks already claimed by the fuzzy pass must not anchor
			// internal duplicate groups: a track whose only duplicate is
			// being removed anyway has to survive.
			fuzzyIDs := make(map[string]bool, len(fuzzy))
			for _, m := range fuzzy {
				fuzzyIDs[m.Target.ID] = true
			}
			kept := remaining[:0:0]
			for _, t := range remaining {
				if !fuzzyIDs[t.ID] {
					kept = append(kept, t)
				}
			}
			internal = dedupe.FindInternalDuplicates(kept, e.cfg)
		}
	}

	plan := dedupe.BuildPlan(unavailable, exact, fuzzy, internal)
	result.Plan = plan
	result.Warnings = warnings

	e.sendProgress(progress, buildPlanUpdate(len(plan.Decisions)))

	if e.logger != nil {
		counts := plan.Counts()
		e.logger.Info("removal plan built",
			"playlist", playlist.Name,
			"unavailable", counts.Unavailable,
			"exact", counts.Exact,
			"fuzzy", counts.Fuzzy,
			"internal", counts.Internal,
			"warnings", len(warnings))
	}

	if opts.DryRun || plan.Empty() {
		return result, nil
	}

	ids := plan.IDs()
	batches := (len(ids) + dedupe.RemoveBatchSize - 1) / dedupe.RemoveBatchSize
	e.sendProgress(progress, removeTracksUpdate(1, batches, len(ids)))

	reconciler := dedupe.NewReconciler(e.library, e.logger)
	result.Removal = reconciler.Execute(ctx, targetID, ids, multiplicity)

	if opts.Verify {
		removedIDs := successfulRemovals(ids, result.Removal.FailedIDs)
		refreshed, err := e.library.GetPlaylistTracks(ctx, targetID)
		if err != nil {
			return result, fmt.Errorf("removal finished but verification fetch failed: %w", err)
		}
		result.StillPresent = dedupe.VerifyRemoval(removedIDs, refreshed)
		e.sendProgress(progress, verifyUpdate(len(result.StillPresent)))
	}

	return result, nil
}

// fetchFilterTracks gathers every track from the configured filter sources:
// each filter playlist in order, then the user's saved tracks.
func (e *FilterEngine) fetchFilterTracks(ctx context.Context, progress chan<- ProgressUpdate, opts FilterOptions) ([]models.Track, error) {
	total := len(opts.FilterLinks)
	if opts.UseLikedSongs {
		total++
	}

	var filterTracks []models.Track

	for i, link := range opts.FilterLinks {
		filterID, err := shared.ParsePlaylistID(link)
		if err != nil {
			return nil, fmt.Errorf("%w: filter playlist: %v", shared.ErrInvalidInput, err)
		}

		e.sendProgress(progress, fetchFilterUpdate(i+1, total, filterID))

		tracks, err := e.library.GetPlaylistTracks(ctx, filterID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch filter playlist %s: %w", filterID, err)
		}
		filterTracks = append(filterTracks, tracks...)
	}

	if opts.UseLikedSongs {
		e.sendProgress(progress, fetchFilterUpdate(total, total, "Liked Songs"))

		saved, err := e.library.GetSavedTracks(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch saved tracks: %w", err)
		}
		filterTracks = append(filterTracks, saved...)
	}

	return filterTracks, nil
}

// successfulRemovals returns the planned ids minus those whose batch failed.
func successfulRemovals(planned, failed []string) []string {
	if len(failed) == 0 {
		return planned
	}
	failedSet := make(map[string]bool, len(failed))
	for _, id := range failed {
		failedSet[id] = true
	}
	out := make([]string, 0, len(planned))
	for _, id := range planned {
		if !failedSet[id] {
			out = append(out, id)
		}
	}
	return out
}
