package dedupe

import "testing"

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain title untouched", "Africa", "africa"},
		{"parenthesized remaster year", "Song A (Remastered 2009)", "song a"},
		{"year before remaster", "Hotel California (2013 Remaster)", "hotel california"},
		{"dash year remaster", "Bohemian Rhapsody - 2011 Remaster", "bohemian rhapsody"},
		{"dash remaster album version", "Something - Remastered 2015 Album Version", "something"},
		{"remastered album version", "Something (Remastered Album Version)", "something"},
		{"deluxe edition", "Thriller (Deluxe Edition)", "thriller"},
		{"bonus track", "Song (Bonus Track Version)", "song"},
		{"radio edit", "Hymn (Radio Edit)", "hymn"},
		{"live parenthetical", "Track (Live at Wembley)", "track"},
		{"dash acoustic", "Layla - Acoustic", "layla"},
		{"from soundtrack", `Happy (From "Despicable Me 2")`, "happy"},
		{"trailing feat clause", "Uptown Funk feat. Bruno Mars", "uptown funk"},
		{"trailing ft clause", "Umbrella ft. Jay-Z", "umbrella"},
		{"unrelated parenthetical kept", "MONTERO (Call Me By Your Name)", "montero (call me by your name)"},
		{"whitespace collapsed", "  Some   Song  ", "some song"},
		{"empty title", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTitle(tt.title)
			if got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	titles := []string{
		"Song A (Remastered 2009)",
		"Bohemian Rhapsody - 2011 Remaster",
		"Uptown Funk feat. Bruno Mars",
		"Thriller (Deluxe Edition)",
		"MONTERO (Call Me By Your Name)",
	}

	for _, title := range titles {
		once := NormalizeTitle(title)
		twice := NormalizeTitle(once)
		if once != twice {
			t.Errorf("NormalizeTitle not idempotent for %q: %q != %q", title, once, twice)
		}
	}
}
