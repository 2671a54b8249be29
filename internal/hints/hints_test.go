package hints

// Notes:
// - ForLoopbackInContainer tests cannot use t.Parallel() because they swap
//   the package-level IsInContainer variable.

import (
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Static hints
// ---------------------------------------------------------------------------

func TestStaticHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"timeout", ForTimeout(), "--timeout"},
		{"output directory", ForOutputDirectory(), "writable"},
		{"addr in use with addr", ForAddrInUse(":5000"), ":5000"},
		{"addr in use without addr", ForAddrInUse(""), "--addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !strings.HasPrefix(tt.got, "\n  hint: ") {
				t.Errorf("hint %q lacks prefix", tt.got)
			}
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("hint %q does not contain %q", tt.got, tt.want)
			}
		})
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	t.Run("with user config dir", func(t *testing.T) {
		t.Parallel()
		hint := ForConfigNotFound(filepath.Join("home", "me", ".config"))
		if !strings.Contains(hint, "--config") {
			t.Errorf("hint %q missing --config", hint)
		}
		want := filepath.Join("home", "me", ".config", "go-gfm2html")
		if !strings.Contains(hint, want) {
			t.Errorf("hint %q missing %q", hint, want)
		}
	})

	t.Run("without user config dir", func(t *testing.T) {
		t.Parallel()
		hint := ForConfigNotFound("")
		if strings.Contains(hint, "create") {
			t.Errorf("hint %q should not suggest create", hint)
		}
	})
}

// ---------------------------------------------------------------------------
// ForLoopbackInContainer
// ---------------------------------------------------------------------------

func TestForLoopbackInContainer(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()

	tests := []struct {
		name      string
		container bool
		addr      string
		wantHint  bool
	}{
		{"container localhost", true, "localhost:5000", true},
		{"container ipv4 loopback", true, "127.0.0.1:5000", true},
		{"container ipv6 loopback", true, "[::1]:5000", true},
		{"container all interfaces", true, ":5000", false},
		{"container unparseable", true, "nonsense", false},
		{"host localhost", false, "localhost:5000", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			IsInContainer = func() bool { return tt.container }
			got := ForLoopbackInContainer(tt.addr)
			if (got != "") != tt.wantHint {
				t.Errorf("ForLoopbackInContainer(%q) = %q, wantHint %v", tt.addr, got, tt.wantHint)
			}
		})
	}
}

func TestFormat_Empty(t *testing.T) {
	t.Parallel()
	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
}
