// package services defines interface Library for interacting with the
// Spotify Web API
package services

import (
	"context"

	"github.com/nicholasnucifora/spotify-filterer/internal/models"
)

// Library defines the interface for a music library provider that can list
// playlists, enumerate tracks and remove tracks from playlists.
type Library interface {
	// Authenticate performs OAuth or token authentication with the service.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// GetPlaylists retrieves all playlists for the authenticated user.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylist retrieves a specific playlist by ID.
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// GetPlaylistTracks retrieves every track entry of a playlist in playlist
	// order, including repeated occurrences of the same track.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// GetSavedTracks retrieves the user's saved ("liked") tracks.
	GetSavedTracks(ctx context.Context) ([]models.Track, error)

	// RemoveAllOccurrences deletes every occurrence of each given track id
	// from the playlist in a single call.
	RemoveAllOccurrences(ctx context.Context, playlistID string, trackIDs []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
