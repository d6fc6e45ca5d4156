package dedupe

import (
	"sort"

	"github.com/nicholasnucifora/spotify-filterer/internal/models"
)

// Category classifies why a track is in the removal plan. Categories are
// claimed in declaration order: a track that is unavailable is never
// re-reported as an exact match, and so on down the chain.
type Category int

const (
	CategoryUnavailable Category = iota
	CategoryExact
	CategoryFuzzy
	CategoryInternal
)

func (c Category) String() string {
	switch c {
	case CategoryUnavailable:
		return "unavailable"
	case CategoryExact:
		return "exact"
	case CategoryFuzzy:
		return "fuzzy"
	case CategoryInternal:
		return "internal"
	default:
		return ""
	}
}

// reportRank orders categories for the removal report. Certain matches lead,
// unavailable entries trail.
func (c Category) reportRank() int {
	switch c {
	case CategoryExact:
		return 0
	case CategoryFuzzy:
		return 1
	case CategoryInternal:
		return 2
	case CategoryUnavailable:
		return 3
	default:
		return 99
	}
}

// Decision records why one track id is being removed. MatchedWith is the
// track the evidence was collected against; it is the zero Track for the
// unavailable and exact categories, where no comparison took place.
type Decision struct {
	Track       models.Track
	Category    Category
	Score       int
	Reasons     []string
	MatchedWith models.Track
}

// PlanCounts holds per-category decision counts for display.
type PlanCounts struct {
	Unavailable int
	Exact       int
	Fuzzy       int
	Internal    int
}

// Plan is the merged removal plan: one Decision per track id, ordered for
// reporting by score descending, then by category rank.
type Plan struct {
	Decisions []Decision
}

// BuildPlan merges the four finding categories into a removal plan.
//
// Categories are applied in priority order unavailable, exact, fuzzy,
// internal; an id claimed by an earlier category is skipped by later ones,
// so the final id set is a plain union while the reported category reflects
// the first claim. The merge itself has no side effects.
func BuildPlan(unavailable, exact []models.Track, fuzzy, internal []Match) *Plan {
	plan := &Plan{}
	claimed := make(map[string]bool)

	add := func(d Decision) {
		if d.Track.ID == "" || claimed[d.Track.ID] {
			return
		}
		claimed[d.Track.ID] = true
		plan.Decisions = append(plan.Decisions, d)
	}

	for _, t := range unavailable {
		add(Decision{
			Track:    t,
			Category: CategoryUnavailable,
			Reasons:  []string{"Unavailable or local file"},
		})
	}

	for _, t := range exact {
		add(Decision{
			Track:    t,
			Category: CategoryExact,
			Score:    100,
			Reasons:  []string{"Exact match in filter playlist"},
		})
	}

	for _, m := range fuzzy {
		add(Decision{
			Track:       m.Target,
			Category:    CategoryFuzzy,
			Score:       m.Score,
			Reasons:     m.Reasons,
			MatchedWith: m.Matched,
		})
	}

	for _, m := range internal {
		add(Decision{
			Track:       m.Target,
			Category:    CategoryInternal,
			Score:       m.Score,
			Reasons:     m.Reasons,
			MatchedWith: m.Matched,
		})
	}

	sort.SliceStable(plan.Decisions, func(i, j int) bool {
		a, b := plan.Decisions[i], plan.Decisions[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Category.reportRank() < b.Category.reportRank()
	})

	return plan
}

// IDs returns the unique track ids in the plan, in report order.
func (p *Plan) IDs() []string {
	ids := make([]string, 0, len(p.Decisions))
	for _, d := range p.Decisions {
		ids = append(ids, d.Track.ID)
	}
	return ids
}

// Counts returns the number of decisions per category.
func (p *Plan) Counts() PlanCounts {
	var counts PlanCounts
	for _, d := range p.Decisions {
		switch d.Category {
		case CategoryUnavailable:
			counts.Unavailable++
		case CategoryExact:
			counts.Exact++
		case CategoryFuzzy:
			counts.Fuzzy++
		case CategoryInternal:
			counts.Internal++
		}
	}
	return counts
}

// Empty reports whether the plan removes nothing.
func (p *Plan) Empty() bool {
	return len(p.Decisions) == 0
}
