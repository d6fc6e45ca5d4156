package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nicholasnucifora/spotify-filterer/internal/formatter"
	"github.com/nicholasnucifora/spotify-filterer/internal/models"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
	"golang.org/x/time/rate"
)

// SnapshotOpts contains configuration for playlist snapshots.
type SnapshotOpts struct {
	Format     string  // Snapshot format: json, csv, txt
	OutputDir  string  // Base output directory (default: playlist_snapshot_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// SnapshotJob carries one fetched playlist export to a snapshot worker.
type SnapshotJob struct {
	PlaylistID string
	Export     *models.PlaylistExport
}

// PlaylistSnapshotResult reports the outcome of snapshotting one playlist.
type PlaylistSnapshotResult struct {
	PlaylistID   string
	PlaylistName string
	Success      bool
	Files        []string
	Error        error
}

// SnapshotResult summarizes a snapshot run across playlists.
type SnapshotResult struct {
	TotalPlaylists      int
	SuccessfulSnapshots int
	FailedSnapshots     int
	OutputDirectory     string
	ManifestPath        string
	Results             []PlaylistSnapshotResult
}

// Snapshot writes each playlist's full track listing to disk before any
// destructive filtering, so a bad run can be reconstructed by hand.
//
// Playlists are fetched sequentially under a rate limit and written by a
// worker pool. Partial failures are recorded per playlist and never abort
// the run; a manifest file summarizes the outcome.
func (e *FilterEngine) Snapshot(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts SnapshotOpts,
) (*SnapshotResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("playlist_snapshot_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &SnapshotResult{
		TotalPlaylists:  len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistSnapshotResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan SnapshotJob, len(ids))
	results := make(chan PlaylistSnapshotResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.snapshotWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, playlistID := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			export, err := e.exportPlaylist(ctx, playlistID)
			if err != nil {
				results <- PlaylistSnapshotResult{
					PlaylistID:   playlistID,
					PlaylistName: fmt.Sprintf("Unknown (%s)", playlistID),
					Success:      false,
					Error:        fmt.Errorf("failed to fetch playlist: %w", err),
				}
				continue
			}

			jobs <- SnapshotJob{
				PlaylistID: playlistID,
				Export:     export,
			}

			e.sendProgress(prog, snapshotUpdate(i+1, len(ids), export.Playlist.Name))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulSnapshots++
			e.sendProgress(prog, snapshotCompletedUpdate(
				completed,
				len(ids),
				res.PlaylistName,
				len(res.Files),
			))
		} else {
			result.FailedSnapshots++
			e.sendProgress(prog, snapshotFailedUpdate(
				completed,
				len(ids),
				res.PlaylistName,
				res.Error,
			))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "snapshot_manifest.json")
	if err := formatter.WriteSnapshotManifest(buildManifest(result, opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("snapshot completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportPlaylist bundles a playlist's metadata and full track listing.
func (e *FilterEngine) exportPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExport, error) {
	playlist, err := e.library.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	tracks, err := e.library.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	return &models.PlaylistExport{
		Playlist:   *playlist,
		Tracks:     tracks,
		ExportedAt: time.Now().UTC(),
	}, nil
}

// snapshotWorker is a worker goroutine that writes snapshots from the jobs channel.
func (e *FilterEngine) snapshotWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan SnapshotJob,
	results chan<- PlaylistSnapshotResult,
	opts SnapshotOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.writeSnapshot(job, opts)
	}
}

// writeSnapshot writes a single playlist snapshot in the requested format.
func (e *FilterEngine) writeSnapshot(j SnapshotJob, opts SnapshotOpts) PlaylistSnapshotResult {
	result := PlaylistSnapshotResult{
		PlaylistID:   j.PlaylistID,
		PlaylistName: j.Export.Playlist.Name,
		Success:      false,
		Files:        []string{},
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, j.Export.Playlist.ID)
		csvRes, err := formatter.WriteCSVSnapshot(j.Export, baseFilepath)
		if err != nil {
			result.Error = fmt.Errorf("CSV snapshot failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.TracksFile, csvRes.MetadataFile}
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_tracks.txt", j.Export.Playlist.ID))
		path, err := formatter.WriteTextSnapshot(j.Export, txtPath)
		if err != nil {
			result.Error = fmt.Errorf("text snapshot failed: %w", err)
			return result
		}
		result.Files = []string{path}
		result.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", j.Export.Playlist.ID))
		data, err := shared.MarshalJSON(j.Export, true)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}

// buildManifest converts a snapshot result to its manifest form.
func buildManifest(result *SnapshotResult, format string) formatter.SnapshotManifest {
	if format == "" {
		format = "json"
	}

	manifest := formatter.SnapshotManifest{
		Format:              format,
		CreatedAt:           time.Now().UTC(),
		TotalPlaylists:      result.TotalPlaylists,
		SuccessfulSnapshots: result.SuccessfulSnapshots,
		FailedSnapshots:     result.FailedSnapshots,
		OutputDirectory:     result.OutputDirectory,
	}

	for _, res := range result.Results {
		entry := formatter.SnapshotManifestEntry{
			PlaylistID:   res.PlaylistID,
			PlaylistName: res.PlaylistName,
			Status:       "success",
			Files:        res.Files,
		}
		if !res.Success {
			entry.Status = "failed"
			if res.Error != nil {
				entry.Error = res.Error.Error()
			}
		}
		manifest.Playlists = append(manifest.Playlists, entry)
	}

	return manifest
}
