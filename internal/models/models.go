package models

import (
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models in the filtering service.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Artist represents an artist credit on a track. The ID may be empty for
// local files and some compilation entries.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Track represents a Spotify track occurrence. Equality for deduplication is
// always by ID; two Track values with the same ID are the same entry.
type Track struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	DurationMS int      `json:"duration_ms"` // 0 when unknown
	Artists    []Artist `json:"artists,omitempty"`
	ISRC       string   `json:"isrc,omitempty"` // International Standard Recording Code
	Local      bool     `json:"local,omitempty"`
	Playable   bool     `json:"playable"` // playable in the owner's market
}

// Unavailable reports whether the track is dead weight in a playlist: a local
// file or a track no longer playable in the owner's market.
func (t Track) Unavailable() bool {
	return t.Local || !t.Playable
}

// ArtistIDs returns the set of non-empty artist ids on the track.
func (t Track) ArtistIDs() map[string]bool {
	ids := make(map[string]bool, len(t.Artists))
	for _, a := range t.Artists {
		if a.ID != "" {
			ids[a.ID] = true
		}
	}
	return ids
}

// ArtistNames returns the track's artist names joined with ", " for display.
func (t Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

// Playlist represents a Spotify playlist.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Multiplicity counts occurrences of each track id in an ordered collection.
//
// Spotify's removal primitive deletes every occurrence of an id in one call,
// so removal accounting needs the per-id occurrence count, not the id count.
func Multiplicity(tracks []Track) map[string]int {
	counts := make(map[string]int, len(tracks))
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		counts[t.ID]++
	}
	return counts
}

// UniqueByID returns the tracks with only the first occurrence of each id
// retained, preserving input order. Tracks without an id are dropped.
func UniqueByID(tracks []Track) []Track {
	seen := make(map[string]bool, len(tracks))
	unique := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if t.ID == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		unique = append(unique, t)
	}
	return unique
}

// PlaylistExport bundles a playlist with its full track listing, used for
// pre-removal snapshots.
type PlaylistExport struct {
	Playlist   Playlist  `json:"playlist"`
	Tracks     []Track   `json:"tracks"`
	ExportedAt time.Time `json:"exported_at"`
}

// FilterRun records the outcome of one completed filter run against a target
// playlist.
type FilterRun struct {
	RunID        string
	Sequence     int
	PlaylistID   string
	PlaylistName string
	Unavailable  int // tracks removed as local/unplayable
	Exact        int // tracks removed as exact id matches
	Fuzzy        int // tracks removed as cross-playlist fuzzy duplicates
	Internal     int // tracks removed as in-playlist duplicates
	Removed      int // actual entries removed, counting multiplicity
	UniqueTracks int // unique ids in the removal set
	Failed       int // ids whose removal batch failed
	Warnings     int // possible duplicates reported but not removed
	Created      time.Time
	Updated      time.Time
}

// NewFilterRun creates a FilterRun for the given playlist with timestamps set.
func NewFilterRun(runID, playlistID, playlistName string) *FilterRun {
	now := time.Now().UTC()
	return &FilterRun{
		RunID:        runID,
		PlaylistID:   playlistID,
		PlaylistName: playlistName,
		Created:      now,
		Updated:      now,
	}
}

func (r *FilterRun) ID() string           { return r.RunID }
func (r *FilterRun) CreatedAt() time.Time { return r.Created }
func (r *FilterRun) UpdatedAt() time.Time { return r.Updated }

// Validate checks that the run references a playlist and that its counts are
// internally consistent.
func (r *FilterRun) Validate() error {
	if r.RunID == "" {
		return fmt.Errorf("filter run is missing an id")
	}
	if r.PlaylistID == "" {
		return fmt.Errorf("filter run is missing a playlist id")
	}
	if r.Removed < 0 || r.UniqueTracks < 0 || r.Failed < 0 {
		return fmt.Errorf("filter run has negative counts")
	}
	if r.Removed < r.UniqueTracks-r.Failed {
		return fmt.Errorf("removed count %d is below the %d unique tracks that did not fail", r.Removed, r.UniqueTracks-r.Failed)
	}
	return nil
}
