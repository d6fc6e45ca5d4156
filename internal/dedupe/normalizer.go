package dedupe

import (
	"regexp"
	"strings"
)

// titlePatterns is the ordered cascade of version-marker removals applied to
// a lowercased title. Order matters: specific remaster forms must run before
// the generic parenthetical catch-alls at the end, or the catch-alls swallow
// text the specific patterns are meant to remove cleanly.
var titlePatterns = []*regexp.Regexp{
	// Specific remaster forms first
	regexp.MustCompile(`(?i)\s*\(remastered\s+album\s+version\)`),
	regexp.MustCompile(`(?i)\s*\(remastered\s+\d+\)`),
	regexp.MustCompile(`(?i)\s*\(remaster(ed)?\s*\d*\)`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*remaster(ed)?(\s+\d+)?(\s+album\s+version)?`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*\d+\s*remaster(ed)?`),
	regexp.MustCompile(`(?i)\s*\(remaster(ed)?(\s+\d+)?(\s+album\s+version)?\)`),
	regexp.MustCompile(`(?i)\s*\(\d+\s*remaster(ed)?\)`),
	// Album / version markers
	regexp.MustCompile(`(?i)\s*\(deluxe[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(expanded[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(anniversary[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(bonus track[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(album version[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(original[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(single version[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(radio edit[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(explicit[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(clean[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(edit\)`),
	regexp.MustCompile(`(?i)\s*\(re-?recorded[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(remix[^)]*\)`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*remix.*$`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*live.*$`),
	regexp.MustCompile(`(?i)\s*\(live[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(acoustic[^)]*\)`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*acoustic.*$`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*from\s+".*"`),
	regexp.MustCompile(`(?i)\s*\(from\s+"[^)]*"\)`),
	regexp.MustCompile(`(?i)\s*\(from\s+[^)]*\)`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*mono.*$`),
	regexp.MustCompile(`(?i)\s*\(mono[^)]*\)`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*stereo.*$`),
	regexp.MustCompile(`(?i)\s*\(stereo[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(super\s+deluxe[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(special\s+edition[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\(version\)$`),
	// Generic catch-alls last
	regexp.MustCompile(`(?i)\s*\([^)]*remaster[^)]*\)`),
	regexp.MustCompile(`(?i)\s*\([^)]*version\)`),
	regexp.MustCompile(`(?i)\s*\([^)]*edition\)`),
	regexp.MustCompile(`(?i)\s*\([^)]*mix\)`),
}

// featuringPatterns strips a trailing featured-artist clause, with or without
// parentheses, after the version markers are gone.
var featuringPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*(feat\.?|ft\.?|featuring)\s+.*$`),
	regexp.MustCompile(`(?i)\s*\((feat\.?|ft\.?|featuring)[^)]*\)`),
}

// NormalizeTitle canonicalizes a track title for comparison: lowercases,
// strips version markers and featured-artist clauses, and collapses
// whitespace. Normalization is idempotent.
func NormalizeTitle(title string) string {
	title = strings.ToLower(title)

	for _, p := range titlePatterns {
		title = p.ReplaceAllString(title, "")
	}
	for _, p := range featuringPatterns {
		title = p.ReplaceAllString(title, "")
	}

	return strings.Join(strings.Fields(title), " ")
}
