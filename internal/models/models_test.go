package models

import "testing"

func TestTrackUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		want  bool
	}{
		{"playable catalog track", Track{ID: "t1", Playable: true}, false},
		{"local file", Track{ID: "t1", Local: true, Playable: true}, true},
		{"unplayable in market", Track{ID: "t1", Playable: false}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.track.Unavailable(); got != tt.want {
				t.Errorf("Unavailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMultiplicity(t *testing.T) {
	tracks := []Track{
		{ID: "t1"}, {ID: "t2"}, {ID: "t1"}, {ID: ""}, {ID: "t1"},
	}

	counts := Multiplicity(tracks)
	if counts["t1"] != 3 || counts["t2"] != 1 {
		t.Errorf("counts = %v, want t1:3 t2:1", counts)
	}
	if _, ok := counts[""]; ok {
		t.Error("blank ids must not be counted")
	}
}

func TestUniqueByID(t *testing.T) {
	tracks := []Track{
		{ID: "t1", Title: "first"}, {ID: "t2"}, {ID: "t1", Title: "second"}, {ID: ""},
	}

	unique := UniqueByID(tracks)
	if len(unique) != 2 {
		t.Fatalf("got %d tracks, want 2", len(unique))
	}
	if unique[0].ID != "t1" || unique[0].Title != "first" {
		t.Errorf("first occurrence not retained: %+v", unique[0])
	}
	if unique[1].ID != "t2" {
		t.Errorf("order not preserved: %+v", unique)
	}
}

func TestFilterRunValidate(t *testing.T) {
	valid := NewFilterRun("run1", "pl1", "My Playlist")
	valid.UniqueTracks = 4
	valid.Removed = 6

	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid run, got %v", err)
	}

	t.Run("missing run id", func(t *testing.T) {
		run := NewFilterRun("", "pl1", "My Playlist")
		if err := run.Validate(); err == nil {
			t.Error("expected error for missing run id")
		}
	})

	t.Run("missing playlist id", func(t *testing.T) {
		run := NewFilterRun("run1", "", "My Playlist")
		if err := run.Validate(); err == nil {
			t.Error("expected error for missing playlist id")
		}
	})

	t.Run("failed batches lower the removed floor", func(t *testing.T) {
		run := NewFilterRun("run1", "pl1", "My Playlist")
		run.UniqueTracks = 150
		run.Failed = 100
		run.Removed = 52

		if err := run.Validate(); err != nil {
			t.Errorf("expected valid run with failures, got %v", err)
		}
	})

	t.Run("removed below floor", func(t *testing.T) {
		run := NewFilterRun("run1", "pl1", "My Playlist")
		run.UniqueTracks = 10
		run.Removed = 4

		if err := run.Validate(); err == nil {
			t.Error("expected error when removed is below unique tracks")
		}
	})
}
