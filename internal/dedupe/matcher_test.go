package dedupe

import (
	"testing"

	"github.com/nicholasnucifora/spotify-filterer/internal/models"
)

func TestMatchAgainstFilter(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("ISRC hit is a certain duplicate", func(t *testing.T) {
		target := []models.Track{track("t1", "Some Title", 100000, "USRC11111111")}
		filter := []models.Track{track("f1", "Other Title", 300000, "USRC11111111")}

		duplicates, warnings := MatchAgainstFilter(target, filter, cfg)
		if len(duplicates) != 1 || len(warnings) != 0 {
			t.Fatalf("got %d duplicates, %d warnings, want 1, 0", len(duplicates), len(warnings))
		}
		if duplicates[0].Score != 100 || duplicates[0].Matched.ID != "f1" {
			t.Errorf("duplicate = %+v, want score 100 matched f1", duplicates[0])
		}
	})

	t.Run("fuzzy match above threshold", func(t *testing.T) {
		target := []models.Track{track("t1", "Song A (Remastered 2009)", 200000, "", "a1")}
		filter := []models.Track{track("f1", "Song A", 198000, "", "a1")}

		duplicates, warnings := MatchAgainstFilter(target, filter, cfg)
		if len(duplicates) != 1 || len(warnings) != 0 {
			t.Fatalf("got %d duplicates, %d warnings, want 1, 0", len(duplicates), len(warnings))
		}
		if duplicates[0].Matched.ID != "f1" {
			t.Errorf("matched = %q, want f1", duplicates[0].Matched.ID)
		}
	})

	t.Run("mid-band score is a warning not a duplicate", func(t *testing.T) {
		// Exact title plus duration without artists scores 70, between the
		// warn and dup thresholds.
		target := []models.Track{track("t1", "Song A", 200000, "")}
		filter := []models.Track{track("f1", "Song A (Live)", 198000, "")}

		duplicates, warnings := MatchAgainstFilter(target, filter, cfg)
		if len(duplicates) != 0 || len(warnings) != 1 {
			t.Fatalf("got %d duplicates, %d warnings, want 0, 1", len(duplicates), len(warnings))
		}
		if warnings[0].Score != 70 {
			t.Errorf("warning score = %d, want 70", warnings[0].Score)
		}
	})

	t.Run("same id never matches itself", func(t *testing.T) {
		shared := track("t1", "Song A", 200000, "", "a1")
		duplicates, warnings := MatchAgainstFilter([]models.Track{shared}, []models.Track{shared}, cfg)
		if len(duplicates) != 0 || len(warnings) != 0 {
			t.Errorf("got %d duplicates, %d warnings, want none", len(duplicates), len(warnings))
		}
	})

	t.Run("repeated target id resolved once", func(t *testing.T) {
		dup := track("t1", "Song A", 200000, "", "a1")
		target := []models.Track{dup, dup, dup}
		filter := []models.Track{track("f1", "Song A", 198000, "", "a1")}

		duplicates, _ := MatchAgainstFilter(target, filter, cfg)
		if len(duplicates) != 1 {
			t.Errorf("got %d duplicates, want 1", len(duplicates))
		}
	})

	t.Run("best candidate wins", func(t *testing.T) {
		target := []models.Track{track("t1", "Song A", 200000, "", "a1")}
		filter := []models.Track{
			track("f1", "Song A", 150000, ""),              // title only, 40
			track("f2", "Song A", 199000, "", "a1"),        // title + duration + same artist, 100
			track("f3", "Song A (Live)", 200500, "", "a1"), // normalizes equal, also 100 but seen later
		}

		duplicates, _ := MatchAgainstFilter(target, filter, cfg)
		if len(duplicates) != 1 {
			t.Fatalf("got %d duplicates, want 1", len(duplicates))
		}
		if duplicates[0].Matched.ID != "f2" {
			t.Errorf("matched = %q, want f2", duplicates[0].Matched.ID)
		}
	})

	t.Run("empty collections", func(t *testing.T) {
		duplicates, warnings := MatchAgainstFilter(nil, nil, cfg)
		if len(duplicates) != 0 || len(warnings) != 0 {
			t.Errorf("got %d duplicates, %d warnings, want none", len(duplicates), len(warnings))
		}
	})
}
