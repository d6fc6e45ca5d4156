package dedupe

import (
	"github.com/nicholasnucifora/spotify-filterer/internal/models"
)

// FindInternalDuplicates finds duplicate groups inside a single playlist and
// returns one Match per track to remove, with Matched set to the instance
// being kept.
//
// ISRC groups are resolved first: the first-encountered track of a shared
// ISRC is the original, every later member a certain duplicate. Title
// buckets are then compared pairwise; the earlier track of a scoring pair is
// always the one kept, so every cluster retains at least one instance. A
// track already marked as a duplicate is excluded from further comparisons.
func FindInternalDuplicates(tracks []models.Track, cfg Config) []Match {
	var duplicates []Match
	dominated := make(map[string]bool)

	var isrcKeys, titleKeys []string
	byISRC := make(map[string][]models.Track)
	byTitle := make(map[string][]models.Track)

	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		if t.ISRC != "" {
			if _, ok := byISRC[t.ISRC]; !ok {
				isrcKeys = append(isrcKeys, t.ISRC)
			}
			byISRC[t.ISRC] = append(byISRC[t.ISRC], t)
		}
		if norm := NormalizeTitle(t.Title); norm != "" {
			if _, ok := byTitle[norm]; !ok {
				titleKeys = append(titleKeys, norm)
			}
			byTitle[norm] = append(byTitle[norm], t)
		}
	}

	for _, isrc := range isrcKeys {
		group := byISRC[isrc]
		if len(group) <= 1 {
			continue
		}
		original := group[0]
		for _, dup := range group[1:] {
			if dominated[dup.ID] || dup.ID == original.ID {
				continue
			}
			duplicates = append(duplicates, Match{
				Target:  dup,
				Matched: original,
				Score:   100,
				Reasons: []string{"Same ISRC (identical recording)"},
			})
			dominated[dup.ID] = true
		}
	}

	for _, title := range titleKeys {
		bucket := byTitle[title]
		if len(bucket) <= 1 {
			continue
		}

		for i, first := range bucket {
			if dominated[first.ID] {
				continue
			}
			for _, second := range bucket[i+1:] {
				if dominated[second.ID] || first.ID == second.ID {
					continue
				}
				score, reasons := Score(first, second, cfg)
				if score >= cfg.DupThreshold {
					duplicates = append(duplicates, Match{
						Target:  second,
						Matched: first,
						Score:   score,
						Reasons: reasons,
					})
					dominated[second.ID] = true
				}
			}
		}
	}

	return duplicates
}
