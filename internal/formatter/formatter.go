// package formatter renders playlist snapshots and filter-run reports to
// various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nicholasnucifora/spotify-filterer/internal/models"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
)

// ExportToCSV converts a PlaylistExport to CSV format with columns: ID, Title, Artists, Duration, ISRC, Local, Playable
func ExportToCSV(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artists", "Duration", "ISRC", "Local", "Playable"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range export.Tracks {
		record := []string{
			track.ID,
			track.Title,
			track.ArtistNames(),
			shared.FormatDuration(track.DurationMS),
			track.ISRC,
			strconv.FormatBool(track.Local),
			strconv.FormatBool(track.Playable),
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

// ExportToText converts a PlaylistExport to plain text format
func ExportToText(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", export.Playlist.Name))
	if export.Playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", export.Playlist.Description))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(export.Tracks)))

	for i, track := range export.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.ArtistNames(), track.Title))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of playlist metadata (without tracks)
func ToMetadataJSON(playlist models.Playlist) ([]byte, error) {
	return shared.MarshalJSON(playlist, true)
}

// CSVSnapshotResult contains the paths of files created by WriteCSVSnapshot
type CSVSnapshotResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVSnapshot writes a playlist snapshot to CSV with an accompanying
// metadata JSON file.
//
// Defaults to playlist ID as the base filename & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVSnapshot(export *models.PlaylistExport, baseFilepath string) (*CSVSnapshotResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Playlist.ID
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.Playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVSnapshotResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteTextSnapshot writes a playlist snapshot to plain text.
//
// Defaults to {playlist.ID}_tracks.txt as the filename.
func WriteTextSnapshot(export *models.PlaylistExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_tracks.txt", export.Playlist.ID)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// SnapshotManifestEntry describes one playlist's snapshot outcome.
type SnapshotManifestEntry struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Status       string   `json:"status"` // success or failed
	Files        []string `json:"files,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// SnapshotManifest summarizes a snapshot run for later inspection.
type SnapshotManifest struct {
	Format              string                  `json:"format"`
	CreatedAt           time.Time               `json:"created_at"`
	TotalPlaylists      int                     `json:"total_playlists"`
	SuccessfulSnapshots int                     `json:"successful_snapshots"`
	FailedSnapshots     int                     `json:"failed_snapshots"`
	OutputDirectory     string                  `json:"output_directory"`
	Playlists           []SnapshotManifestEntry `json:"playlists"`
}

// WriteSnapshotManifest writes the manifest as indented JSON.
func WriteSnapshotManifest(manifest SnapshotManifest, path string) error {
	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
