package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/nicholasnucifora/spotify-filterer/internal/dedupe"
	"github.com/nicholasnucifora/spotify-filterer/internal/models"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
)

// mockWebLibrary implements WebLibrary against in-memory playlists.
type mockWebLibrary struct {
	authErr       error
	authenticated bool
	playlists     []models.Playlist
	tracks        map[string][]models.Track
	saved         []models.Track
}

func (m *mockWebLibrary) Name() string { return "Mock" }

func (m *mockWebLibrary) GetAuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (m *mockWebLibrary) Authenticate(ctx context.Context, credentials map[string]string) error {
	if m.authErr != nil {
		return m.authErr
	}
	m.authenticated = true
	return nil
}

func (m *mockWebLibrary) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return m.playlists, nil
}

func (m *mockWebLibrary) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	for i := range m.playlists {
		if m.playlists[i].ID == playlistID {
			return &m.playlists[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
}

func (m *mockWebLibrary) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	tracks, ok := m.tracks[playlistID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	return tracks, nil
}

func (m *mockWebLibrary) GetSavedTracks(ctx context.Context) ([]models.Track, error) {
	return m.saved, nil
}

func (m *mockWebLibrary) RemoveAllOccurrences(ctx context.Context, playlistID string, trackIDs []string) error {
	remove := make(map[string]bool, len(trackIDs))
	for _, id := range trackIDs {
		remove[id] = true
	}

	var kept []models.Track
	for _, track := range m.tracks[playlistID] {
		if !remove[track.ID] {
			kept = append(kept, track)
		}
	}
	m.tracks[playlistID] = kept
	return nil
}

func testWebApp() (*WebApp, *mockWebLibrary) {
	library := &mockWebLibrary{
		playlists: []models.Playlist{
			{ID: "target", Name: "My Mix", TrackCount: 3},
			{ID: "filter", Name: "Favorites", TrackCount: 1},
		},
		tracks: map[string][]models.Track{
			"target": {
				{ID: "t1", Title: "Song A", Playable: true, Artists: []models.Artist{{ID: "a1", Name: "Artist One"}}},
				{ID: "t2", Title: "Home Demo", Local: true, Playable: true},
				{ID: "t3", Title: "Song B", Playable: true},
			},
			"filter": {
				{ID: "t1", Title: "Song A", Playable: true, Artists: []models.Artist{{ID: "a1", Name: "Artist One"}}},
			},
		},
	}

	app := NewWebApp(shared.DefaultConfig(), dedupe.DefaultConfig(), nil, nil)
	app.newLibrary = func() (WebLibrary, error) { return library, nil }
	return app, library
}

// login walks the OAuth dance against the mock and returns the session cookie.
func login(t *testing.T, app *WebApp) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest("GET", "/login", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("login got %d, want redirect", rec.Code)
	}

	location, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad login redirect: %v", err)
	}
	state := location.Query().Get("state")
	if state == "" {
		t.Fatal("login redirect has no state parameter")
	}

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state="+state+"&code=abc", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("callback got %d, want redirect", rec.Code)
	}

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookie && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("callback set no session cookie")
	return nil
}

func TestWebAppLoginFlow(t *testing.T) {
	app, library := testWebApp()

	cookie := login(t, app)
	if !library.authenticated {
		t.Error("callback should have authenticated the client")
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{"My Mix", "Favorites", "target_link", "Liked Songs"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestWebAppIndexWithoutSession(t *testing.T) {
	app, _ := testWebApp()

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if !strings.Contains(rec.Body.String(), "Log in with Spotify") {
		t.Error("anonymous index should show the login page")
	}
}

func TestWebAppCallbackInvalidState(t *testing.T) {
	app, _ := testWebApp()

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=bogus&code=abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400", rec.Code)
	}
}

func TestWebAppRunFilter(t *testing.T) {
	app, library := testWebApp()
	cookie := login(t, app)

	form := url.Values{
		"target_link":        {"target"},
		"filter_playlists":   {"filter"},
		"remove_unavailable": {"1"},
		"remove_duplicates":  {"1"},
	}

	req := httptest.NewRequest("POST", "/run-filter", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	for _, want := range []string{"Filter report: My Mix", "exact", "unavailable", "Removed 2 entries"} {
		if !strings.Contains(body, want) {
			t.Errorf("report missing %q:\n%s", want, body)
		}
	}

	remaining := library.tracks["target"]
	if len(remaining) != 1 || remaining[0].ID != "t3" {
		t.Errorf("remaining tracks = %+v, want only t3", remaining)
	}
}

func TestWebAppRunFilterDryRun(t *testing.T) {
	app, library := testWebApp()
	cookie := login(t, app)

	form := url.Values{
		"target_link":        {"target"},
		"remove_unavailable": {"1"},
		"dry_run":            {"1"},
	}

	req := httptest.NewRequest("POST", "/run-filter", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "Dry run") {
		t.Error("dry-run report should say so")
	}
	if len(library.tracks["target"]) != 3 {
		t.Error("dry run must not remove anything")
	}
}

func TestWebAppRunFilterRequiresPost(t *testing.T) {
	app, _ := testWebApp()

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest("GET", "/run-filter", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("got %d, want 405", rec.Code)
	}
}

func TestWebAppRunFilterRequiresSession(t *testing.T) {
	app, _ := testWebApp()

	req := httptest.NewRequest("POST", "/run-filter", strings.NewReader("target_link=target"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("got %d, want redirect to login", rec.Code)
	}
}

func TestWebAppLogout(t *testing.T) {
	app, _ := testWebApp()
	cookie := login(t, app)

	req := httptest.NewRequest("GET", "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("logout got %d, want redirect", rec.Code)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "Log in with Spotify") {
		t.Error("logged-out session should see the login page")
	}
}
