package tasks

import (
	"fmt"

	"github.com/nicholasnucifora/spotify-filterer/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTarget Phase = iota
	CheckAvailability
	FetchFilters
	MatchTracks
	BuildPlan
	RemoveTracks
	Verify
	Snapshot
)

func (p Phase) String() string {
	switch p {
	case FetchTarget:
		return "fetch_target"
	case CheckAvailability:
		return "check_availability"
	case FetchFilters:
		return "fetch_filters"
	case MatchTracks:
		return "match_tracks"
	case BuildPlan:
		return "build_plan"
	case RemoveTracks:
		return "remove_tracks"
	case Verify:
		return "verify"
	case Snapshot:
		return "snapshot"
	default:
		return ""
	}
}

func fetchTargetUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTarget,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching target playlist (%s)...", name),
	}
}

func foundTargetUpdate(playlist *models.Playlist, entries int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTarget,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (%d entries)", playlist.Name, entries),
		Data:    playlist,
	}
}

func availabilityUpdate(unavailable, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckAvailability,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d of %d tracks unavailable or local", unavailable, total),
	}
}

func fetchFilterUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFilters,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching filter source: %s...", step, total, name),
	}
}

func matchTracksUpdate(targetCount, filterCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Matching %d tracks against %d filter tracks...", targetCount, filterCount),
	}
}

func buildPlanUpdate(planned int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildPlan,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d tracks planned for removal", planned),
	}
}

func removeTracksUpdate(step, total, entries int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RemoveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Removing %d tracks...", step, total, entries),
	}
}

func verifyUpdate(stillPresent int) ProgressUpdate {
	message := "Removal verified"
	if stillPresent > 0 {
		message = fmt.Sprintf("%d removed tracks still present after refresh", stillPresent)
	}
	return ProgressUpdate{
		Phase:   Verify,
		Step:    1,
		Total:   1,
		Message: message,
	}
}

func snapshotUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Snapshot,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Snapshotting: %s...", step, total, name),
	}
}

func snapshotCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Snapshot,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func snapshotFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Snapshot,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
