// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"net"
	"path/filepath"
	"strings"

	"github.com/alnah/go-gfm2html/internal/fileutil"
)

// appDirName is the per-user config directory name.
const appDirName = "go-gfm2html"

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForTimeout returns a hint about increasing timeout for slow conversions.
func ForTimeout() string {
	return format("for large documents, use --timeout flag or GFM2HTML_TIMEOUT")
}

// ForConfigNotFound returns hints for config file not found errors.
// userConfigDir is the platform config root (os.UserConfigDir); empty skips
// the create suggestion.
func ForConfigNotFound(userConfigDir string) string {
	hint := "use --config /path/to/file.yaml"
	if userConfigDir != "" {
		hint += " or create " + filepath.Join(userConfigDir, appDirName, "<name>.yaml")
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output file or directory errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForAddrInUse returns hints for a listen address that is already bound.
func ForAddrInUse(addr string) string {
	if addr == "" {
		return format("another process holds the port; choose another with --addr or GFM2HTML_ADDR")
	}
	return format("another process holds " + addr + "; choose another with --addr or GFM2HTML_ADDR")
}

// ForLoopbackInContainer returns a hint when the server binds a loopback
// address inside a container, where it is unreachable from the host.
// It returns "" outside containers or for non-loopback addresses.
func ForLoopbackInContainer(addr string) string {
	if !IsInContainer() || !isLoopback(addr) {
		return ""
	}
	return format("loopback is not reachable from outside the container; use --addr :PORT")
}

// isLoopback reports whether addr's host is a loopback name or IP.
func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
