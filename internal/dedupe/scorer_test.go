package dedupe

import (
	"testing"

	"github.com/nicholasnucifora/spotify-filterer/internal/models"
)

func track(id, title string, durationMS int, isrc string, artistIDs ...string) models.Track {
	t := models.Track{ID: id, Title: title, DurationMS: durationMS, ISRC: isrc, Playable: true}
	for _, aid := range artistIDs {
		t.Artists = append(t.Artists, models.Artist{ID: aid, Name: aid})
	}
	return t
}

func TestScore(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name       string
		a, b       models.Track
		wantScore  int
		wantReason string // first reason, "" for none
	}{
		{
			name:       "shared ISRC short-circuits everything",
			a:          track("t1", "Completely Different", 100000, "USRC11111111", "a1"),
			b:          track("t2", "Another Title", 300000, "USRC11111111", "a2"),
			wantScore:  100,
			wantReason: "Same ISRC (identical recording)",
		},
		{
			name:       "exact title only",
			a:          track("t1", "Song A", 0, ""),
			b:          track("t2", "Song A (Remastered 2009)", 0, ""),
			wantScore:  40,
			wantReason: "Exact title match",
		},
		{
			name:       "exact title and duration",
			a:          track("t1", "Song A", 200000, ""),
			b:          track("t2", "Song A", 198000, ""),
			wantScore:  70,
			wantReason: "Exact title match",
		},
		{
			name:       "similar title tier",
			a:          track("t1", "some song one", 0, ""),
			b:          track("t2", "some song onw", 0, ""),
			wantScore:  25,
			wantReason: "Similar title (92%)",
		},
		{
			name:       "duration outside tolerance scores nothing",
			a:          track("t1", "First", 200000, ""),
			b:          track("t2", "Second", 215000, ""),
			wantScore:  0,
			wantReason: "",
		},
		{
			name:       "unknown duration scores nothing",
			a:          track("t1", "First", 0, ""),
			b:          track("t2", "Second", 200000, ""),
			wantScore:  0,
			wantReason: "",
		},
		{
			name:       "shared but unequal artists",
			a:          track("t1", "First", 0, "", "a1", "a2"),
			b:          track("t2", "Second", 0, "", "a1"),
			wantScore:  30,
			wantReason: "Shared artist(s)",
		},
		{
			name:       "all signals clamp to 100",
			a:          track("t1", "Song A", 200000, "", "a1"),
			b:          track("t2", "Song A", 198000, "", "a1"),
			wantScore:  100,
			wantReason: "Exact title match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reasons := Score(tt.a, tt.b, cfg)
			if score != tt.wantScore {
				t.Errorf("Score = %d, want %d (reasons %v)", score, tt.wantScore, reasons)
			}
			if tt.wantReason == "" {
				if len(reasons) != 0 {
					t.Errorf("expected no reasons, got %v", reasons)
				}
			} else if len(reasons) == 0 || reasons[0] != tt.wantReason {
				t.Errorf("reasons = %v, want first %q", reasons, tt.wantReason)
			}
		})
	}
}

func TestScoreSymmetric(t *testing.T) {
	cfg := DefaultConfig()

	pairs := [][2]models.Track{
		{track("t1", "Song A", 200000, "", "a1"), track("t2", "Song A (Live)", 198000, "", "a1", "a2")},
		{track("t1", "some song one", 0, ""), track("t2", "some song onw", 0, "")},
		{track("t1", "First", 100000, "USRC11111111"), track("t2", "Second", 300000, "USRC11111111")},
	}

	for _, pair := range pairs {
		forward, _ := Score(pair[0], pair[1], cfg)
		backward, _ := Score(pair[1], pair[0], cfg)
		if forward != backward {
			t.Errorf("Score(%q, %q) = %d but reversed = %d", pair[0].Title, pair[1].Title, forward, backward)
		}
	}
}

func TestScoreSameArtistsUpgrade(t *testing.T) {
	a := track("t1", "First", 0, "", "a1", "a2")
	b := track("t2", "Second", 0, "", "a2", "a1")

	score, reasons := Score(a, b, DefaultConfig())
	if score != 40 {
		t.Errorf("score = %d, want 40", score)
	}
	if len(reasons) != 1 || reasons[0] != "Same artist(s)" {
		t.Errorf("reasons = %v, want [Same artist(s)]", reasons)
	}
}
