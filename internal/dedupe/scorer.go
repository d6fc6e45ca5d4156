package dedupe

import (
	"fmt"
	"math"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/nicholasnucifora/spotify-filterer/internal/models"
)

// Config holds the tunable thresholds for duplicate detection.
type Config struct {
	DupThreshold        int     // score at or above which a pair is a duplicate
	WarnThreshold       int     // score at or above which a pair is reported as a possible duplicate
	CandidateSimilarity float64 // title similarity floor for candidate selection
	TitleSimilarity     float64 // title similarity floor for the similar-title score tier
	DurationFloorMS     int     // minimum absolute duration tolerance
	DurationRatio       float64 // duration tolerance as a fraction of the longer track
}

// DefaultConfig returns the standard thresholds. DupThreshold and
// WarnThreshold are the only values meant to be overridden; the rest are
// fixed properties of the scoring model.
func DefaultConfig() Config {
	return Config{
		DupThreshold:        80,
		WarnThreshold:       40,
		CandidateSimilarity: 0.85,
		TitleSimilarity:     0.90,
		DurationFloorMS:     10000,
		DurationRatio:       0.03,
	}
}

var levenshtein = metrics.NewLevenshtein()

// TitleSimilarity returns an edit-distance similarity ratio between two
// normalized titles in the range 0.0 to 1.0.
func TitleSimilarity(a, b string) float64 {
	return strutil.Similarity(a, b, levenshtein)
}

// Score computes a duplicate-confidence score (0-100) for a pair of tracks
// together with human-readable evidence, ordered title, duration, artists.
//
// A shared ISRC is a certain duplicate and short-circuits all other signals.
// The title tiers are mutually exclusive; the artist bonus upgrades the
// shared-artist reason rather than adding a second one. Score is symmetric
// in its arguments.
func Score(a, b models.Track, cfg Config) (int, []string) {
	if a.ISRC != "" && b.ISRC != "" && a.ISRC == b.ISRC {
		return 100, []string{"Same ISRC (identical recording)"}
	}

	score := 0
	var reasons []string

	normA := NormalizeTitle(a.Title)
	normB := NormalizeTitle(b.Title)

	if normA != "" && normB != "" {
		if normA == normB {
			score += 40
			reasons = append(reasons, "Exact title match")
		} else if sim := TitleSimilarity(normA, normB); sim >= cfg.TitleSimilarity {
			score += 25
			reasons = append(reasons, fmt.Sprintf("Similar title (%.0f%%)", math.Round(sim*100)))
		}
	}

	if durationsWithinTolerance(a.DurationMS, b.DurationMS, cfg) {
		score += 30
		diffSec := math.Abs(float64(a.DurationMS-b.DurationMS)) / 1000
		reasons = append(reasons, fmt.Sprintf("Similar duration (±%.1fs)", diffSec))
	}

	if overlap, equal := compareArtists(a, b); overlap {
		score += 30
		reasons = append(reasons, "Shared artist(s)")
		if equal {
			score += 10
			reasons[len(reasons)-1] = "Same artist(s)"
		}
	}

	// All three signals together can sum past the scale's top.
	if score > 100 {
		score = 100
	}

	return score, reasons
}

// durationsWithinTolerance reports whether two known durations differ by at
// most max(DurationFloorMS, DurationRatio × the longer duration).
func durationsWithinTolerance(d1, d2 int, cfg Config) bool {
	if d1 <= 0 || d2 <= 0 {
		return false
	}
	longer := d1
	if d2 > longer {
		longer = d2
	}
	tolerance := float64(cfg.DurationFloorMS)
	if ratio := cfg.DurationRatio * float64(longer); ratio > tolerance {
		tolerance = ratio
	}
	diff := d1 - d2
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) <= tolerance
}

// compareArtists reports whether the artist-id sets of two tracks intersect,
// and whether they are equal and non-empty.
func compareArtists(a, b models.Track) (overlap, equal bool) {
	idsA := a.ArtistIDs()
	idsB := b.ArtistIDs()
	if len(idsA) == 0 || len(idsB) == 0 {
		return false, false
	}

	shared := 0
	for id := range idsA {
		if idsB[id] {
			shared++
		}
	}

	return shared > 0, shared == len(idsA) && len(idsA) == len(idsB)
}
