package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-gfm2html/internal/yamlutil"
)

type testConfig struct {
	Addr    string `yaml:"addr"`
	Limit   int    `yaml:"limit"`
	Enabled bool   `yaml:"enabled"`
}

// ---------------------------------------------------------------------------
// TestDecodeStrict - Strict parsing over defaults
// ---------------------------------------------------------------------------

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       []byte
		dest       any
		wantErr    error
		wantErrMsg string
		check      func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("addr: \":8080\"\nlimit: 42\nenabled: true"),
			dest: &testConfig{},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Addr != ":8080" {
					t.Errorf("Addr = %q, want %q", cfg.Addr, ":8080")
				}
				if cfg.Limit != 42 {
					t.Errorf("Limit = %d, want 42", cfg.Limit)
				}
				if !cfg.Enabled {
					t.Error("Enabled = false, want true")
				}
			},
		},
		{
			name: "absent fields keep defaults",
			data: []byte("limit: 7"),
			dest: &testConfig{Addr: ":5000", Enabled: true},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Addr != ":5000" || !cfg.Enabled {
					t.Errorf("defaults overwritten: %+v", cfg)
				}
				if cfg.Limit != 7 {
					t.Errorf("Limit = %d, want 7", cfg.Limit)
				}
			},
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &testConfig{},
			wantErr: yamlutil.ErrEmptyData,
		},
		{
			name:    "nil destination",
			data:    []byte("addr: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:       "unknown field rejected",
			data:       []byte("addr: x\nunknown: y"),
			dest:       &testConfig{},
			wantErrMsg: "yamlutil:",
		},
		{
			name:       "invalid syntax",
			data:       []byte("addr: [unclosed"),
			dest:       &testConfig{},
			wantErrMsg: "yamlutil:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.DecodeStrict(tt.data, tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantErrMsg != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantErrMsg) {
					t.Fatalf("error = %v, want message containing %q", err, tt.wantErrMsg)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				tt.check(t, tt.dest)
			}
		})
	}
}

func TestDecodeStrict_InputTooLarge(t *testing.T) {
	data := []byte("addr: " + strings.Repeat("x", yamlutil.MaxInputSize))

	err := yamlutil.DecodeStrict(data, &testConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("error = %v, want ErrInputTooLarge", err)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	in := testConfig{Addr: "localhost:9000", Limit: 3, Enabled: true}
	data, err := yamlutil.Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var out testConfig
	if err := yamlutil.DecodeStrict(data, &out); err != nil {
		t.Fatalf("DecodeStrict() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
