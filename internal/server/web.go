package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/nicholasnucifora/spotify-filterer/internal/dedupe"
	"github.com/nicholasnucifora/spotify-filterer/internal/formatter"
	"github.com/nicholasnucifora/spotify-filterer/internal/models"
	"github.com/nicholasnucifora/spotify-filterer/internal/repositories"
	"github.com/nicholasnucifora/spotify-filterer/internal/services"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
	"github.com/nicholasnucifora/spotify-filterer/internal/tasks"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"join": strings.Join,
}).ParseFS(templateFS, "templates/*.html"))

const sessionCookie = "filterer_session"

// WebLibrary is the capability surface the web interface needs from a music
// service: the Library operations plus the OAuth login URL.
type WebLibrary interface {
	services.Library
	GetAuthURL(state string) string
}

// WebApp serves the browser interface: Spotify login, a playlist picker, and
// the filter form that runs a pass and renders the removal report.
//
// Sessions are cookie-keyed and in-memory, one authenticated client per
// session. This is a single-user local tool; nothing here is persisted.
type WebApp struct {
	cfg      *shared.Config
	matchCfg dedupe.Config
	logger   *log.Logger
	runs     *repositories.RunRepository

	newLibrary func() (WebLibrary, error)

	mu       sync.Mutex
	states   map[string]WebLibrary // pending OAuth states → the client that issued them
	sessions map[string]WebLibrary
}

// NewWebApp creates the web application. The run repository may be nil, in
// which case runs are not recorded; the logger may be nil.
func NewWebApp(cfg *shared.Config, matchCfg dedupe.Config, runs *repositories.RunRepository, logger *log.Logger) *WebApp {
	app := &WebApp{
		cfg:      cfg,
		matchCfg: matchCfg,
		logger:   logger,
		runs:     runs,
		states:   make(map[string]WebLibrary),
		sessions: make(map[string]WebLibrary),
	}

	app.newLibrary = func() (WebLibrary, error) {
		redirectURI := cfg.Credentials.Spotify.RedirectURI
		if redirectURI == "" {
			redirectURI = fmt.Sprintf("http://%s:%d/callback", cfg.Server.Host, cfg.Server.Port)
		}
		return services.NewSpotifyService(map[string]string{
			"client_id":     cfg.Credentials.Spotify.ClientID,
			"client_secret": cfg.Credentials.Spotify.ClientSecret,
			"redirect_uri":  redirectURI,
		})
	}

	return app
}

// Routes returns the HTTP routes this handler serves.
func (a *WebApp) Routes() []string {
	return []string{"/", "/login", "/callback", "/logout", "/run-filter"}
}

// ServeHTTP dispatches to the page handlers.
func (a *WebApp) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		a.handleIndex(w, r)
	case "/login":
		a.handleLogin(w, r)
	case "/callback":
		a.handleCallback(w, r)
	case "/logout":
		a.handleLogout(w, r)
	case "/run-filter":
		a.handleRunFilter(w, r)
	default:
		http.NotFound(w, r)
	}
}

// session returns the authenticated client for the request, or nil.
func (a *WebApp) session(r *http.Request) WebLibrary {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions[cookie.Value]
}

type indexData struct {
	Playlists     []models.Playlist
	DupThreshold  int
	WarnThreshold int
}

func (a *WebApp) handleIndex(w http.ResponseWriter, r *http.Request) {
	library := a.session(r)
	if library == nil {
		a.render(w, "login.html", nil)
		return
	}

	playlists, err := library.GetPlaylists(r.Context())
	if err != nil {
		a.serviceError(w, "failed to load playlists", err)
		return
	}

	a.render(w, "index.html", indexData{
		Playlists:     playlists,
		DupThreshold:  a.matchCfg.DupThreshold,
		WarnThreshold: a.matchCfg.WarnThreshold,
	})
}

func (a *WebApp) handleLogin(w http.ResponseWriter, r *http.Request) {
	library, err := a.newLibrary()
	if err != nil {
		a.serviceError(w, "failed to create service client", err)
		return
	}

	state := shared.GenerateID()
	a.mu.Lock()
	a.states[state] = library
	a.mu.Unlock()

	http.Redirect(w, r, library.GetAuthURL(state), http.StatusFound)
}

func (a *WebApp) handleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")

	a.mu.Lock()
	library, ok := a.states[state]
	delete(a.states, state)
	a.mu.Unlock()

	if !ok {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	if err := library.Authenticate(r.Context(), map[string]string{"auth_code": code}); err != nil {
		a.serviceError(w, "token exchange failed", err)
		return
	}

	id := shared.GenerateID()
	a.mu.Lock()
	a.sessions[id] = library
	a.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/", HttpOnly: true})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *WebApp) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		a.mu.Lock()
		delete(a.sessions, cookie.Value)
		a.mu.Unlock()
	}

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *WebApp) handleRunFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	library := a.session(r)
	if library == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad form data", http.StatusBadRequest)
		return
	}

	opts := tasks.FilterOptions{
		TargetLink:        r.PostFormValue("target_link"),
		FilterLinks:       r.PostForm["filter_playlists"],
		UseLikedSongs:     r.PostFormValue("use_liked") != "",
		RemoveUnavailable: r.PostFormValue("remove_unavailable") != "",
		RemoveDuplicates:  r.PostFormValue("remove_duplicates") != "",
		DryRun:            r.PostFormValue("dry_run") != "",
		Verify:            a.cfg.Removal.Verify,
	}

	engine := tasks.NewFilterEngine(library, a.matchCfg, a.logger)
	result, err := engine.Run(r.Context(), nil, opts)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidInput) || errors.Is(err, shared.ErrPlaylistNotFound) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a.serviceError(w, "filter run failed", err)
		return
	}

	if a.runs != nil && !result.DryRun {
		if err := a.runs.Create(result.Record()); err != nil && a.logger != nil {
			a.logger.Warn("failed to record filter run", "error", err)
		}
	}

	a.render(w, "report.html", &formatter.RunReport{
		Playlist:     result.Playlist,
		Plan:         result.Plan,
		Warnings:     result.Warnings,
		Removal:      result.Removal,
		StillPresent: result.StillPresent,
		DryRun:       result.DryRun,
	})
}

func (a *WebApp) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil && a.logger != nil {
		a.logger.Error("failed to render template", "template", name, "error", err)
	}
}

func (a *WebApp) serviceError(w http.ResponseWriter, msg string, err error) {
	if a.logger != nil {
		a.logger.Error(msg, "error", err)
	}
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), http.StatusBadGateway)
}
