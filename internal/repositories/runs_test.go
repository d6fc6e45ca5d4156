package repositories

import (
	"strings"
	"testing"

	"github.com/nicholasnucifora/spotify-filterer/internal/models"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
)

func setupTestRepo(t *testing.T) *RunRepository {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return NewRunRepository(db)
}

func sampleRun(playlistID string) *models.FilterRun {
	run := models.NewFilterRun("", playlistID, "My Mix")
	run.Unavailable = 1
	run.Exact = 2
	run.Fuzzy = 1
	run.Internal = 1
	run.UniqueTracks = 5
	run.Removed = 6
	run.Warnings = 2
	return run
}

func TestRunRepository(t *testing.T) {
	var _ models.Repository[*models.FilterRun] = (*RunRepository)(nil)

	t.Run("Create assigns id and sequence", func(t *testing.T) {
		repo := setupTestRepo(t)

		run := sampleRun("pl1")
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if run.RunID == "" {
			t.Error("expected generated run id")
		}
		if run.Sequence != 1 {
			t.Errorf("sequence = %d, want 1", run.Sequence)
		}

		second := sampleRun("pl1")
		if err := repo.Create(second); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if second.Sequence != 2 {
			t.Errorf("second sequence = %d, want 2", second.Sequence)
		}
	})

	t.Run("Create rejects invalid runs", func(t *testing.T) {
		repo := setupTestRepo(t)

		run := sampleRun("")
		err := repo.Create(run)
		if err == nil || !strings.Contains(err.Error(), "validation failed") {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Get round-trips all counts", func(t *testing.T) {
		repo := setupTestRepo(t)

		run := sampleRun("pl1")
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.Get(run.RunID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		if got.PlaylistID != "pl1" || got.PlaylistName != "My Mix" {
			t.Errorf("playlist = %s/%s, want pl1/My Mix", got.PlaylistID, got.PlaylistName)
		}
		if got.Unavailable != 1 || got.Exact != 2 || got.Fuzzy != 1 || got.Internal != 1 {
			t.Errorf("category counts = %d/%d/%d/%d", got.Unavailable, got.Exact, got.Fuzzy, got.Internal)
		}
		if got.Removed != 6 || got.UniqueTracks != 5 || got.Warnings != 2 {
			t.Errorf("totals = removed %d unique %d warnings %d", got.Removed, got.UniqueTracks, got.Warnings)
		}
	})

	t.Run("Get unknown id", func(t *testing.T) {
		repo := setupTestRepo(t)

		if _, err := repo.Get("nope"); err == nil {
			t.Error("expected error for unknown run id")
		}
	})

	t.Run("Update modifies counts", func(t *testing.T) {
		repo := setupTestRepo(t)

		run := sampleRun("pl1")
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		run.Removed = 10
		run.Failed = 1
		if err := repo.Update(run); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		got, err := repo.Get(run.RunID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Removed != 10 || got.Failed != 1 {
			t.Errorf("removed = %d failed = %d, want 10 and 1", got.Removed, got.Failed)
		}
	})

	t.Run("Update unknown run", func(t *testing.T) {
		repo := setupTestRepo(t)

		run := sampleRun("pl1")
		run.RunID = "missing"
		if err := repo.Update(run); err == nil {
			t.Error("expected error for unknown run")
		}
	})

	t.Run("Delete removes the run", func(t *testing.T) {
		repo := setupTestRepo(t)

		run := sampleRun("pl1")
		if err := repo.Create(run); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if err := repo.Delete(run.RunID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.Get(run.RunID); err == nil {
			t.Error("expected deleted run to be gone")
		}
		if err := repo.Delete(run.RunID); err == nil {
			t.Error("expected error deleting twice")
		}
	})

	t.Run("List filters and orders", func(t *testing.T) {
		repo := setupTestRepo(t)

		for _, playlistID := range []string{"pl1", "pl2", "pl1"} {
			if err := repo.Create(sampleRun(playlistID)); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("got %d runs, want 3", len(all))
		}
		if all[0].Sequence != 3 || all[2].Sequence != 1 {
			t.Errorf("expected most recent first, got sequences %d, %d, %d",
				all[0].Sequence, all[1].Sequence, all[2].Sequence)
		}

		forPlaylist, err := repo.List(map[string]any{"playlist_id": "pl1"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(forPlaylist) != 2 {
			t.Errorf("got %d runs for pl1, want 2", len(forPlaylist))
		}

		limited, err := repo.List(map[string]any{"limit": 1})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(limited) != 1 || limited[0].Sequence != 3 {
			t.Errorf("limited list = %+v, want only sequence 3", limited)
		}
	})
}
