package dedupe

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nicholasnucifora/spotify-filterer/internal/models"
)

type mockRemover struct {
	batches [][]string
	failOn  map[int]error // 1-based batch number -> error
}

func (m *mockRemover) RemoveAllOccurrences(_ context.Context, _ string, trackIDs []string) error {
	m.batches = append(m.batches, trackIDs)
	if err, ok := m.failOn[len(m.batches)]; ok {
		return err
	}
	return nil
}

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("id%d", i)
	}
	return ids
}

func TestReconcilerExecute(t *testing.T) {
	t.Run("splits into batches of one hundred", func(t *testing.T) {
		remover := &mockRemover{}
		result := NewReconciler(remover, nil).Execute(context.Background(), "pl1", makeIDs(150), nil)

		if len(remover.batches) != 2 {
			t.Fatalf("got %d batches, want 2", len(remover.batches))
		}
		if len(remover.batches[0]) != 100 || len(remover.batches[1]) != 50 {
			t.Errorf("batch sizes = %d, %d, want 100, 50", len(remover.batches[0]), len(remover.batches[1]))
		}
		if result.Removed != 150 || result.UniqueTracks != 150 {
			t.Errorf("removed = %d, unique = %d, want 150, 150", result.Removed, result.UniqueTracks)
		}
		if len(result.FailedIDs) != 0 {
			t.Errorf("failed ids = %v, want none", result.FailedIDs)
		}
	})

	t.Run("multiplicity counts every occurrence", func(t *testing.T) {
		remover := &mockRemover{}
		multiplicity := map[string]int{"id0": 3, "id2": 2}
		result := NewReconciler(remover, nil).Execute(context.Background(), "pl1", makeIDs(3), multiplicity)

		// id0 three times, id1 once by default, id2 twice.
		if result.Removed != 6 {
			t.Errorf("removed = %d, want 6", result.Removed)
		}
		if result.UniqueTracks != 3 {
			t.Errorf("unique = %d, want 3", result.UniqueTracks)
		}
	})

	t.Run("failed batch is recorded and the run continues", func(t *testing.T) {
		remover := &mockRemover{failOn: map[int]error{1: errors.New("server error")}}
		result := NewReconciler(remover, nil).Execute(context.Background(), "pl1", makeIDs(150), map[string]int{"id120": 3})

		if len(remover.batches) != 2 {
			t.Fatalf("got %d batches, want 2", len(remover.batches))
		}
		if len(result.FailedIDs) != 100 {
			t.Errorf("failed ids = %d, want 100", len(result.FailedIDs))
		}
		// Second batch: 49 singletons plus id120 three times.
		if result.Removed != 52 {
			t.Errorf("removed = %d, want 52", result.Removed)
		}
		if len(result.Log) != 2 {
			t.Errorf("log lines = %d, want 2", len(result.Log))
		}
	})

	t.Run("ids are deduplicated before batching", func(t *testing.T) {
		remover := &mockRemover{}
		ids := []string{"id1", "id2", "id1", "", "id2", "id3"}
		result := NewReconciler(remover, nil).Execute(context.Background(), "pl1", ids, nil)

		if result.UniqueTracks != 3 {
			t.Errorf("unique = %d, want 3", result.UniqueTracks)
		}
		if len(remover.batches) != 1 || len(remover.batches[0]) != 3 {
			t.Fatalf("batches = %v, want one batch of 3", remover.batches)
		}
	})

	t.Run("cancelled context fails the remaining ids", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		remover := &mockRemover{}
		result := NewReconciler(remover, nil).Execute(ctx, "pl1", makeIDs(5), nil)

		if len(remover.batches) != 0 {
			t.Errorf("remover called %d times after cancellation, want 0", len(remover.batches))
		}
		if len(result.FailedIDs) != 5 || result.Removed != 0 {
			t.Errorf("failed = %d, removed = %d, want 5, 0", len(result.FailedIDs), result.Removed)
		}
	})

	t.Run("empty plan is a no-op", func(t *testing.T) {
		remover := &mockRemover{}
		result := NewReconciler(remover, nil).Execute(context.Background(), "pl1", nil, nil)

		if len(remover.batches) != 0 || result.Removed != 0 || result.UniqueTracks != 0 {
			t.Errorf("unexpected work on empty plan: %+v", result)
		}
	})
}

func TestVerifyRemoval(t *testing.T) {
	remaining := []models.Track{
		track("id1", "Still Here", 200000, ""),
		track("id3", "Also Here", 180000, ""),
	}

	stillPresent := VerifyRemoval([]string{"id1", "id2", "id3", "id4"}, remaining)
	if len(stillPresent) != 2 {
		t.Fatalf("still present = %v, want 2 ids", stillPresent)
	}
	if stillPresent[0] != "id1" || stillPresent[1] != "id3" {
		t.Errorf("still present = %v, want [id1 id3]", stillPresent)
	}

	if got := VerifyRemoval([]string{"id2", "id4"}, remaining); len(got) != 0 {
		t.Errorf("still present = %v, want none", got)
	}
}
