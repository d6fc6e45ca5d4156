// Spotify API implementation of [Library]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/nicholasnucifora/spotify-filterer/internal/models"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// pageLimit is the maximum page size the track and playlist listing
	// endpoints accept.
	pageLimit = 50

	// removeLimit is the maximum number of track uris a single removal call
	// accepts.
	removeLimit = 100

	// trackFields trims playlist-track responses to what matching needs.
	trackFields = "items(is_local,track(id,name,duration_ms,is_playable,is_local,uri,external_ids(isrc),artists(id,name))),next,total,limit,offset"
)

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Followers   followers      `json:"followers"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

// SpotifyTrack represents a Spotify track. IsPlayable is only present when
// the request carried a market parameter; absence means playable.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	DurationMS  int             `json:"duration_ms"`
	IsLocal     bool            `json:"is_local"`
	IsPlayable  *bool           `json:"is_playable"`
	ExternalIDs externalIDs     `json:"external_ids"`
	URI         string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type playlistTracksRef struct {
	Total int `json:"total"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Owner       Owner             `json:"owner"`
	Public      bool              `json:"public"`
	Tracks      playlistTracksRef `json:"tracks"`
	Images      []SpotifyImage    `json:"images"`
	URI         string            `json:"uri"`
}

// SpotifyPlaylistTrack represents a track entry within a playlist context.
// IsLocal is set on the entry for local files; the nested track then carries
// no usable id.
type SpotifyPlaylistTrack struct {
	AddedAt string       `json:"added_at"`
	IsLocal bool         `json:"is_local"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifyPaginatedPlaylistTracks represents one page of playlist entries.
type SpotifyPaginatedPlaylistTracks struct {
	Items  []SpotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

// SpotifySavedTrack represents a track saved in the user's library.
type SpotifySavedTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifyPaginatedTracks represents a paginated response of saved tracks.
type SpotifyPaginatedTracks struct {
	Items  []SpotifySavedTrack `json:"items"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
	Next   *string             `json:"next"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items  []SpotifySimplePlaylist `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Next   *string                 `json:"next"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Owner       Owner             `json:"owner"`
	Public      bool              `json:"public"`
	Tracks      playlistTracksRef `json:"tracks"`
	Images      []SpotifyImage    `json:"images"`
	URI         string            `json:"uri"`
}

// SpotifyService implements the [Library] interface for Spotify API
// interactions. Uses [oauth2] for authentication and rate-limits outgoing
// requests so large playlists can be paged through without tripping 429s.
type SpotifyService struct {
	config         *oauth2.Config
	token          *oauth2.Token
	httpClient     *http.Client
	limiter        *rate.Limiter
	baseURL        string
	onTokenRefresh func(*oauth2.Token)
}

// NewSpotifyService creates a new Spotify service with the given OAuth2
// credentials. Removal requires the playlist-modify scopes, so they are
// requested up front.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"playlist-read-private",
			"playlist-read-collaborative",
			"playlist-modify-public",
			"playlist-modify-private",
			"user-library-read",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		baseURL:    spotifyBaseURL,
	}, nil
}

// Authenticate performs OAuth2 authentication with Spotify. Expects either an
// "access_token" (optionally with "refresh_token") or an "auth_code" in
// credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: credentials["refresh_token"],
		}
		s.httpClient = s.clientFor(ctx, s.token)
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: exchanging auth code: %v", shared.ErrAuthFailed, err)
		}
		s.token = token
		s.httpClient = s.clientFor(ctx, token)
		return nil
	}

	return fmt.Errorf("%w: access_token or auth_code", shared.ErrMissingCredentials)
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig exposes the underlying oauth2 configuration for callback
// handlers that exchange the authorization code themselves.
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// SetTokenRefreshCallback registers a function invoked whenever the oauth2
// transport produces a new token, so callers can persist refreshed tokens.
func (s *SpotifyService) SetTokenRefreshCallback(callback func(*oauth2.Token)) {
	s.onTokenRefresh = callback
}

// clientFor builds an HTTP client whose token source reports refreshes
// through the registered callback.
func (s *SpotifyService) clientFor(ctx context.Context, token *oauth2.Token) *http.Client {
	source := &refreshableTokenSource{
		source:   s.config.TokenSource(ctx, token),
		callback: func(t *oauth2.Token) { s.notifyRefresh(t) },
	}
	return oauth2.NewClient(ctx, source)
}

func (s *SpotifyService) notifyRefresh(token *oauth2.Token) {
	s.token = token
	if s.onTokenRefresh != nil {
		s.onTokenRefresh(token)
	}
}

// refreshableTokenSource wraps an [oauth2.TokenSource] and invokes a callback
// when the access token changes. A panicking callback must not take down the
// request that triggered the refresh.
type refreshableTokenSource struct {
	mu       sync.Mutex
	source   oauth2.TokenSource
	callback func(*oauth2.Token)
	last     *oauth2.Token
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	if r.callback != nil && (r.last == nil || r.last.AccessToken != token.AccessToken) {
		r.last = token
		func() {
			defer func() { _ = recover() }()
			r.callback(token)
		}()
	}

	return token, nil
}

// doRequest performs an authenticated, rate-limited HTTP request against the
// Spotify API, JSON-encoding body when present and decoding into result.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	apiURL := s.baseURL + endpoint

	var payload *bytes.Buffer
	if body != nil {
		payload = &bytes.Buffer{}
		if err := json.NewEncoder(payload).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	var req *http.Request
	var err error
	if payload != nil {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, payload)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrTokenExpired, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, endpoint)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limited (retry-after %s)", shared.ErrServiceUnavailable, resp.Header.Get("Retry-After"))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, "GET", "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPlaylists retrieves one page of the current user's playlists.
func (s *SpotifyService) UserPlaylists(ctx context.Context, limit, offset int) (*SpotifyPaginatedPlaylists, error) {
	if limit <= 0 || limit > pageLimit {
		limit = pageLimit
	}

	endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

	var response SpotifyPaginatedPlaylists
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Playlist retrieves a playlist by ID.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*SpotifyPlaylist, error) {
	endpoint := fmt.Sprintf("/playlists/%s", playlistID)

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, "GET", endpoint, nil, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// PlaylistTracks retrieves one page of a playlist's entries. The market
// parameter makes the API relink tracks and report per-market playability.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (*SpotifyPaginatedPlaylistTracks, error) {
	if limit <= 0 || limit > removeLimit {
		limit = removeLimit
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d&market=from_token&fields=%s",
		playlistID, limit, offset, url.QueryEscape(trackFields))

	var response SpotifyPaginatedPlaylistTracks
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// SavedTracks retrieves one page of the user's saved tracks.
func (s *SpotifyService) SavedTracks(ctx context.Context, limit, offset int) (*SpotifyPaginatedTracks, error) {
	if limit <= 0 || limit > pageLimit {
		limit = pageLimit
	}

	endpoint := fmt.Sprintf("/me/tracks?limit=%d&offset=%d&market=from_token", limit, offset)

	var response SpotifyPaginatedTracks
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Library interface implementation

// GetPlaylists retrieves all playlists for the authenticated user.
func (s *SpotifyService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var allPlaylists []models.Playlist
	offset := 0

	for {
		response, err := s.UserPlaylists(ctx, pageLimit, offset)
		if err != nil {
			return nil, err
		}

		for _, sp := range response.Items {
			allPlaylists = append(allPlaylists, models.Playlist{
				ID:          sp.ID,
				Name:        sp.Name,
				Description: sp.Description,
				TrackCount:  sp.Tracks.Total,
				Public:      sp.Public,
				ImageURL:    firstImageURL(sp.Images),
			})
		}

		if response.Next == nil || len(response.Items) == 0 {
			break
		}
		offset += pageLimit
	}

	return allPlaylists, nil
}

// GetPlaylist retrieves a specific playlist by ID.
func (s *SpotifyService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	sp, err := s.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		TrackCount:  sp.Tracks.Total,
		Public:      sp.Public,
		ImageURL:    firstImageURL(sp.Images),
	}, nil
}

// GetPlaylistTracks retrieves every entry of a playlist in playlist order.
// Repeated occurrences of the same track are all returned; callers that need
// multiplicity count them.
func (s *SpotifyService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	var tracks []models.Track
	offset := 0

	for {
		page, err := s.PlaylistTracks(ctx, playlistID, removeLimit, offset)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			tracks = append(tracks, toTrack(item.Track, item.IsLocal))
		}

		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += removeLimit
	}

	return tracks, nil
}

// GetSavedTracks retrieves the user's saved tracks.
func (s *SpotifyService) GetSavedTracks(ctx context.Context) ([]models.Track, error) {
	var tracks []models.Track
	offset := 0

	for {
		page, err := s.SavedTracks(ctx, pageLimit, offset)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			tracks = append(tracks, toTrack(item.Track, item.Track.IsLocal))
		}

		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += pageLimit
	}

	return tracks, nil
}

type removeTrackURI struct {
	URI string `json:"uri"`
}

type removeTracksRequest struct {
	Tracks []removeTrackURI `json:"tracks"`
}

// RemoveAllOccurrences deletes every occurrence of each given track id from
// the playlist. The API accepts at most 100 uris per call; batching across
// that limit is the caller's job.
func (s *SpotifyService) RemoveAllOccurrences(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	if len(trackIDs) > removeLimit {
		return fmt.Errorf("%w: at most %d track ids per removal call", shared.ErrInvalidInput, removeLimit)
	}

	request := removeTracksRequest{Tracks: make([]removeTrackURI, 0, len(trackIDs))}
	for _, id := range trackIDs {
		request.Tracks = append(request.Tracks, removeTrackURI{URI: "spotify:track:" + id})
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	return s.doRequest(ctx, "DELETE", endpoint, request, nil)
}

// toTrack converts a Spotify track to the provider-neutral model. A track is
// playable unless the API explicitly says otherwise for the user's market.
func toTrack(st SpotifyTrack, isLocal bool) models.Track {
	track := models.Track{
		ID:         st.ID,
		Title:      st.Name,
		DurationMS: st.DurationMS,
		ISRC:       st.ExternalIDs.ISRC,
		Local:      isLocal || st.IsLocal,
		Playable:   st.IsPlayable == nil || *st.IsPlayable,
	}
	for _, artist := range st.Artists {
		track.Artists = append(track.Artists, models.Artist{ID: artist.ID, Name: artist.Name})
	}
	return track
}

func firstImageURL(images []SpotifyImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
