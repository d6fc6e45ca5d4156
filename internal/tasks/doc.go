// Package tasks orchestrates long-running playlist filtering operations.
//
// # Filter Pipeline
//
// [FilterEngine.Run] executes the full pipeline against a target playlist:
//
//  1. Resolve the target link and fetch the playlist with every track
//     occurrence, recording per-id multiplicity.
//  2. Flag unavailable tracks (local files and tracks unplayable in the
//     user's market) when requested.
//  3. Fetch the filter sources: each filter playlist, then the user's saved
//     tracks. Exact id matches against the filter set are claimed before any
//     fuzzy work.
//  4. Match the remaining tracks against the filter set and detect
//     in-playlist duplicates with the dedupe scoring model.
//  5. Merge the findings into a removal plan and execute it in batches,
//     optionally verifying the playlist afterwards.
//
// Fetch failures abort a run. Removal failures are collected per batch and
// the run continues, so results always reflect what actually happened.
//
// # Snapshots
//
// [FilterEngine.Snapshot] writes playlists' full track listings to disk
// before destructive filtering, using a rate-limited worker pool, and leaves
// a manifest describing the files written.
//
// # Progress Reporting
//
// Operations emit [ProgressUpdate] values through an optional channel. Sends
// never block: if the consumer falls behind, updates are dropped rather than
// stalling the pipeline.
package tasks
