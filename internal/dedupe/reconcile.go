package dedupe

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/nicholasnucifora/spotify-filterer/internal/models"
)

// RemoveBatchSize is the maximum number of track ids the external store
// accepts per removal call. It is a Spotify API limit, not a tunable.
const RemoveBatchSize = 100

// Remover is the external capability the reconciler executes against.
// Implementations delete every occurrence of each given id from the playlist
// in a single call.
type Remover interface {
	RemoveAllOccurrences(ctx context.Context, playlistID string, trackIDs []string) error
}

// RemovalResult reports the outcome of executing a removal plan.
type RemovalResult struct {
	Removed      int      // entries actually removed, counting every occurrence
	UniqueTracks int      // unique ids submitted for removal
	FailedIDs    []string // ids whose batch call failed
	Log          []string // per-batch log lines for display
}

// Reconciler executes removal plans against a [Remover] in bounded batches.
type Reconciler struct {
	remover Remover
	logger  *log.Logger
}

// NewReconciler creates a Reconciler. The logger may be nil.
func NewReconciler(remover Remover, logger *log.Logger) *Reconciler {
	return &Reconciler{remover: remover, logger: logger}
}

// Execute removes the given track ids from the playlist in batches of
// [RemoveBatchSize].
//
// Because the removal primitive deletes every occurrence of an id, the
// removed count for a batch is the sum of each id's multiplicity in the
// target, not the batch length. Ids are deduplicated before batching so an
// id claimed by several findings is never double-counted. A failed batch is
// recorded and processing continues with the next one; only context
// cancellation stops the run early, with the remaining ids reported as
// failed.
func (r *Reconciler) Execute(ctx context.Context, playlistID string, trackIDs []string, multiplicity map[string]int) RemovalResult {
	unique := dedupeIDs(trackIDs)
	result := RemovalResult{UniqueTracks: len(unique)}

	for start := 0; start < len(unique); start += RemoveBatchSize {
		end := min(start+RemoveBatchSize, len(unique))
		batch := unique[start:end]
		batchNum := start/RemoveBatchSize + 1

		if err := ctx.Err(); err != nil {
			result.FailedIDs = append(result.FailedIDs, unique[start:]...)
			result.Log = append(result.Log, fmt.Sprintf("batch %d: cancelled before send: %v", batchNum, err))
			break
		}

		if err := r.remover.RemoveAllOccurrences(ctx, playlistID, batch); err != nil {
			result.FailedIDs = append(result.FailedIDs, batch...)
			result.Log = append(result.Log, fmt.Sprintf("batch %d: failed: %v", batchNum, err))
			if r.logger != nil {
				r.logger.Error("removal batch failed", "batch", batchNum, "size", len(batch), "err", err)
			}
			continue
		}

		removed := 0
		for _, id := range batch {
			if count, ok := multiplicity[id]; ok {
				removed += count
			} else {
				removed++
			}
		}
		result.Removed += removed
		result.Log = append(result.Log, fmt.Sprintf("batch %d: sent %d ids, removed %d entries", batchNum, len(batch), removed))
		if r.logger != nil {
			r.logger.Debug("removal batch sent", "batch", batchNum, "ids", len(batch), "entries", removed)
		}
	}

	return result
}

// VerifyRemoval diffs the ids that were supposed to be removed against a
// re-fetched playlist and returns those still present. A non-empty result is
// an anomaly to report, not an error: the external store is eventually
// consistent.
func VerifyRemoval(removedIDs []string, remaining []models.Track) []string {
	present := make(map[string]bool, len(remaining))
	for _, t := range remaining {
		if t.ID != "" {
			present[t.ID] = true
		}
	}

	var stillPresent []string
	for _, id := range dedupeIDs(removedIDs) {
		if present[id] {
			stillPresent = append(stillPresent, id)
		}
	}
	return stillPresent
}

// dedupeIDs drops empty and repeated ids, preserving first-seen order.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
