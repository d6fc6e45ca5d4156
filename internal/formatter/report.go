package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nicholasnucifora/spotify-filterer/internal/dedupe"
	"github.com/nicholasnucifora/spotify-filterer/internal/models"
)

// RunReport bundles everything a filter-run report renders: the target
// playlist, the removal plan, sub-threshold warnings and the removal outcome.
type RunReport struct {
	Playlist     *models.Playlist
	Plan         *dedupe.Plan
	Warnings     []dedupe.Match
	Removal      dedupe.RemovalResult
	StillPresent []string
	DryRun       bool
}

// ReportToText renders the report as plain text, decisions ordered the way
// the plan orders them (score descending, certain categories first).
func ReportToText(report *RunReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Filter report: %s (%s)\n", report.Playlist.Name, report.Playlist.ID))
	if report.DryRun {
		buf.WriteString("Mode: dry run, nothing was removed\n")
	}
	buf.WriteString(fmt.Sprintf("Planned removals: %d\n\n", len(report.Plan.Decisions)))

	for _, d := range report.Plan.Decisions {
		buf.WriteString(fmt.Sprintf("[%s] %3d  %s - %s (%s)\n",
			d.Category, d.Score, d.Track.ArtistNames(), d.Track.Title, d.Track.ID))
		for _, reason := range d.Reasons {
			buf.WriteString(fmt.Sprintf("      - %s\n", reason))
		}
		if d.MatchedWith.ID != "" {
			buf.WriteString(fmt.Sprintf("      matched: %s (%s)\n", d.MatchedWith.Title, d.MatchedWith.ID))
		}
	}

	if len(report.Warnings) > 0 {
		buf.WriteString("\nPossible duplicates (not removed):\n")
		for _, w := range report.Warnings {
			buf.WriteString(fmt.Sprintf("  %3d  %s - %s ~ %s\n",
				w.Score, w.Target.ArtistNames(), w.Target.Title, w.Matched.Title))
		}
	}

	if !report.DryRun {
		buf.WriteString(fmt.Sprintf("\nRemoved %d entries (%d unique tracks)",
			report.Removal.Removed, report.Removal.UniqueTracks))
		if len(report.Removal.FailedIDs) > 0 {
			buf.WriteString(fmt.Sprintf(", %d failed", len(report.Removal.FailedIDs)))
		}
		buf.WriteString("\n")
		for _, line := range report.Removal.Log {
			buf.WriteString(fmt.Sprintf("  %s\n", line))
		}
		if len(report.StillPresent) > 0 {
			buf.WriteString(fmt.Sprintf("Still present after verification: %s\n",
				strings.Join(report.StillPresent, ", ")))
		}
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown renders the report as Markdown with a decision table.
func ReportToMarkdown(report *RunReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Filter report: %s\n\n", report.Playlist.Name))
	if report.DryRun {
		buf.WriteString("**Mode**: dry run, nothing was removed\n\n")
	}

	counts := report.Plan.Counts()
	buf.WriteString(fmt.Sprintf("**Planned removals**: %d (unavailable %d, exact %d, fuzzy %d, internal %d)\n\n",
		len(report.Plan.Decisions), counts.Unavailable, counts.Exact, counts.Fuzzy, counts.Internal))

	if len(report.Plan.Decisions) > 0 {
		buf.WriteString("| Category | Score | Track | Evidence |\n")
		buf.WriteString("| --- | --- | --- | --- |\n")
		for _, d := range report.Plan.Decisions {
			buf.WriteString(fmt.Sprintf("| %s | %d | %s - %s | %s |\n",
				d.Category, d.Score, d.Track.ArtistNames(), d.Track.Title,
				strings.Join(d.Reasons, "; ")))
		}
		buf.WriteString("\n")
	}

	if len(report.Warnings) > 0 {
		buf.WriteString("## Possible duplicates\n\n")
		for _, w := range report.Warnings {
			buf.WriteString(fmt.Sprintf("- %d: %s - %s ~ %s\n",
				w.Score, w.Target.ArtistNames(), w.Target.Title, w.Matched.Title))
		}
		buf.WriteString("\n")
	}

	if !report.DryRun {
		buf.WriteString(fmt.Sprintf("**Removed**: %d entries, %d unique tracks, %d failed\n",
			report.Removal.Removed, report.Removal.UniqueTracks, len(report.Removal.FailedIDs)))
	}

	return buf.Bytes(), nil
}

// ReportToCSV renders the removal decisions as CSV rows.
func ReportToCSV(report *RunReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Category", "Score", "ID", "Title", "Artists", "MatchedID", "MatchedTitle", "Reasons"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, d := range report.Plan.Decisions {
		record := []string{
			d.Category.String(),
			strconv.Itoa(d.Score),
			d.Track.ID,
			d.Track.Title,
			d.Track.ArtistNames(),
			d.MatchedWith.ID,
			d.MatchedWith.Title,
			strings.Join(d.Reasons, "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteReport writes the report in the requested format and returns the path
// written. Format defaults to text; the path defaults to
// filter_report_{playlist}.{ext}.
func WriteReport(report *RunReport, format, path string) (string, error) {
	var data []byte
	var err error
	var ext string

	switch format {
	case "markdown", "md":
		data, err = ReportToMarkdown(report)
		ext = "md"
	case "csv":
		data, err = ReportToCSV(report)
		ext = "csv"
	case "txt", "text", "":
		data, err = ReportToText(report)
		ext = "txt"
	default:
		return "", fmt.Errorf("unsupported report format %q", format)
	}
	if err != nil {
		return "", err
	}

	if path == "" {
		path = fmt.Sprintf("filter_report_%s.%s", report.Playlist.ID, ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	summaryLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	summaryCountStyle = lipgloss.NewStyle().Bold(true)
	summaryWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	summaryFailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// RenderSummary renders a styled one-screen summary for the terminal.
func RenderSummary(report *RunReport) string {
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render(fmt.Sprintf("Filter: %s", report.Playlist.Name)))
	b.WriteString("\n")

	counts := report.Plan.Counts()
	rows := []struct {
		label string
		count int
	}{
		{"Unavailable", counts.Unavailable},
		{"Exact matches", counts.Exact},
		{"Fuzzy duplicates", counts.Fuzzy},
		{"Internal duplicates", counts.Internal},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			summaryLabelStyle.Render(fmt.Sprintf("%-20s", row.label)),
			summaryCountStyle.Render(strconv.Itoa(row.count))))
	}

	if len(report.Warnings) > 0 {
		b.WriteString(summaryWarnStyle.Render(
			fmt.Sprintf("  %d possible duplicates need review", len(report.Warnings))))
		b.WriteString("\n")
	}

	switch {
	case report.DryRun:
		b.WriteString(summaryLabelStyle.Render("  dry run, nothing removed"))
		b.WriteString("\n")
	default:
		b.WriteString(fmt.Sprintf("  removed %s entries (%s unique)\n",
			summaryCountStyle.Render(strconv.Itoa(report.Removal.Removed)),
			summaryCountStyle.Render(strconv.Itoa(report.Removal.UniqueTracks))))
		if len(report.Removal.FailedIDs) > 0 {
			b.WriteString(summaryFailStyle.Render(
				fmt.Sprintf("  %d tracks failed to remove", len(report.Removal.FailedIDs))))
			b.WriteString("\n")
		}
		if len(report.StillPresent) > 0 {
			b.WriteString(summaryWarnStyle.Render(
				fmt.Sprintf("  %d tracks still present after verification", len(report.StillPresent))))
			b.WriteString("\n")
		}
	}

	return b.String()
}
