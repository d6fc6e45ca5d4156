// Package services defines the [Library] interface for the user's music
// library and implements it for Spotify.
//
// # Library Interface
//
// The filter pipeline depends only on [Library], so engine and handler tests
// run against mocks instead of the live API.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 for authentication with automatic token
// refresh. The [oauth2] transport refreshes expired access tokens using the
// refresh token; [SpotifyService.SetTokenRefreshCallback] lets callers
// persist refreshed tokens.
//
// Listing endpoints are paged transparently: GetPlaylists, GetPlaylistTracks
// and GetSavedTracks follow the cursor until the API reports no next page.
// Track fetches carry market=from_token so the API reports per-market
// playability, which the filter pipeline uses to flag unavailable tracks.
// Outgoing requests are rate-limited with [rate.Limiter].
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : OAuth token rejected, reauthorization needed
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrPlaylistNotFound] : Playlist ID not found
//   - [shared.ErrServiceUnavailable] : rate limited by the API
//
// # API Mappings
//
// Provider JSON responses convert to provider-neutral models:
//   - [SpotifySimplePlaylist] → [models.Playlist]
//   - [SpotifyTrack] → [models.Track] with ISRC from external_ids and
//     availability from is_local / is_playable
package services
