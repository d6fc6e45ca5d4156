// package shared defines shared helpers
package shared

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// GenerateState produces a random state token for OAuth CSRF protection.
func GenerateState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch rt := getRuntime(); rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}

// ParsePlaylistID extracts a playlist id from a Spotify share link, a
// spotify:playlist: URI, or a bare id.
//
// Accepted forms:
//
//	https://open.spotify.com/playlist/<id>?si=...
//	spotify:playlist:<id>
//	<id>
func ParsePlaylistID(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", fmt.Errorf("empty playlist link")
	}

	if _, rest, ok := strings.Cut(link, "open.spotify.com/playlist/"); ok {
		id, _, _ := strings.Cut(rest, "?")
		id = strings.Trim(id, "/")
		if id == "" {
			return "", fmt.Errorf("playlist link %q has no id", link)
		}
		return id, nil
	}

	if id, ok := strings.CutPrefix(link, "spotify:playlist:"); ok {
		if id == "" {
			return "", fmt.Errorf("playlist URI %q has no id", link)
		}
		return id, nil
	}

	if strings.ContainsAny(link, ":/ ") {
		return "", fmt.Errorf("unrecognized playlist link %q", link)
	}

	return link, nil
}

// MarshalJSON marshals v to JSON, optionally indented for human-readable
// output files.
func MarshalJSON(v any, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// FormatDuration renders a millisecond duration as m:ss for display.
func FormatDuration(ms int) string {
	if ms <= 0 {
		return "0:00"
	}
	totalSeconds := ms / 1000
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
