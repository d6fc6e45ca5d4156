package dedupe

import (
	"github.com/nicholasnucifora/spotify-filterer/internal/models"
)

// Match pairs a target track with the track it duplicates, along with the
// score and evidence that justified the pairing.
type Match struct {
	Target  models.Track // track in the target playlist
	Matched models.Track // best-matching track it was compared against
	Score   int
	Reasons []string
}

// trackIndex holds per-collection lookup structures for matching.
type trackIndex struct {
	titleKeys []string                  // normalized titles in first-seen order
	byTitle   map[string][]models.Track // normalized title -> tracks sharing it
	byISRC    map[string]models.Track   // ISRC -> representative track
}

func indexTracks(tracks []models.Track) *trackIndex {
	idx := &trackIndex{
		byTitle: make(map[string][]models.Track),
		byISRC:  make(map[string]models.Track),
	}
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		if norm := NormalizeTitle(t.Title); norm != "" {
			if _, ok := idx.byTitle[norm]; !ok {
				idx.titleKeys = append(idx.titleKeys, norm)
			}
			idx.byTitle[norm] = append(idx.byTitle[norm], t)
		}
		if t.ISRC != "" {
			if _, ok := idx.byISRC[t.ISRC]; !ok {
				idx.byISRC[t.ISRC] = t
			}
		}
	}
	return idx
}

// candidates returns the filter tracks worth scoring against a target title:
// the exact normalized-title bucket plus every bucket whose title similarity
// clears the candidate floor. The floor is deliberately looser than the
// similar-title score tier so true positives are not lost before scoring.
func (idx *trackIndex) candidates(normTitle string, cfg Config) []models.Track {
	var out []models.Track
	if bucket, ok := idx.byTitle[normTitle]; ok {
		out = append(out, bucket...)
	}
	for _, key := range idx.titleKeys {
		if key == normTitle {
			continue
		}
		if TitleSimilarity(normTitle, key) >= cfg.CandidateSimilarity {
			out = append(out, idx.byTitle[key]...)
		}
	}
	return out
}

// MatchAgainstFilter finds, for each target track, the best-matching track in
// the filter collection and classifies the pair as a duplicate or a warning.
//
// A target with an ISRC present in the filter matches at score 100 without
// title work. Otherwise every candidate sharing (or nearly sharing) the
// normalized title is scored and the single best kept. A track classified as
// a duplicate is never also reported as a warning, and each target id is
// resolved at most once per pass.
func MatchAgainstFilter(target, filter []models.Track, cfg Config) (duplicates, warnings []Match) {
	idx := indexTracks(filter)
	seen := make(map[string]bool)

	for _, t := range target {
		if t.ID == "" || seen[t.ID] {
			continue
		}

		var best Match

		if t.ISRC != "" {
			if match, ok := idx.byISRC[t.ISRC]; ok {
				best = Match{Target: t, Matched: match, Score: 100, Reasons: []string{"Same ISRC (identical recording)"}}
			}
		}

		if best.Score == 0 {
			normTitle := NormalizeTitle(t.Title)
			for _, candidate := range idx.candidates(normTitle, cfg) {
				if candidate.ID == t.ID {
					continue
				}
				score, reasons := Score(t, candidate, cfg)
				if score > best.Score {
					best = Match{Target: t, Matched: candidate, Score: score, Reasons: reasons}
				}
			}
		}

		switch {
		case best.Score >= cfg.DupThreshold:
			duplicates = append(duplicates, best)
			seen[t.ID] = true
		case best.Score >= cfg.WarnThreshold:
			warnings = append(warnings, best)
		}
	}

	return duplicates, warnings
}
