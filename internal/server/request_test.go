package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	gfm2html "github.com/alnah/go-gfm2html"
)

func TestDecodeConvertRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantText    string
		wantKind    gfm2html.ErrorKind
		wantErr     bool
	}{
		{name: "empty body is missing", body: ""},
		{name: "whitespace body is missing", body: "  \n\t"},
		{name: "null body is missing", body: "null"},
		{name: "empty object is missing", body: "{}"},
		{name: "null field is missing", body: `{"markdown": null}`},
		{name: "other fields only is missing", body: `{"text": "# hi"}`},
		{name: "field name is case sensitive", body: `{"Markdown": "# hi"}`},
		{name: "empty string is present", body: `{"markdown": ""}`, wantPresent: true, wantText: ""},
		{name: "string is present", body: `{"markdown": "# Title"}`, wantPresent: true, wantText: "# Title"},
		{name: "unicode escapes decoded", body: `{"markdown": "caf\u00e9"}`, wantPresent: true, wantText: "café"},
		{name: "extra fields ignored", body: `{"markdown": "x", "theme": "dark"}`, wantPresent: true, wantText: "x"},
		{name: "invalid JSON", body: `{"markdown": `, wantErr: true, wantKind: gfm2html.KindMalformedRequest},
		{name: "array body", body: `["# hi"]`, wantErr: true, wantKind: gfm2html.KindMalformedRequest},
		{name: "string body", body: `"# hi"`, wantErr: true, wantKind: gfm2html.KindMalformedRequest},
		{name: "number markdown", body: `{"markdown": 42}`, wantErr: true, wantKind: gfm2html.KindMalformedRequest},
		{name: "object markdown", body: `{"markdown": {"a": 1}}`, wantErr: true, wantKind: gfm2html.KindMalformedRequest},
		{name: "bool markdown", body: `{"markdown": true}`, wantErr: true, wantKind: gfm2html.KindMalformedRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input, err := decodeConvertRequest(strings.NewReader(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if got := gfm2html.KindOf(err); got != tt.wantKind {
					t.Errorf("KindOf(err) = %v, want %v", got, tt.wantKind)
				}
				if !errors.Is(err, gfm2html.ErrMalformedRequest) {
					t.Errorf("error should wrap ErrMalformedRequest: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (input.Markdown != nil) != tt.wantPresent {
				t.Fatalf("Markdown present = %v, want %v", input.Markdown != nil, tt.wantPresent)
			}
			if tt.wantPresent && *input.Markdown != tt.wantText {
				t.Errorf("Markdown = %q, want %q", *input.Markdown, tt.wantText)
			}
		})
	}
}

func TestDecodeConvertRequest_NilBody(t *testing.T) {
	t.Parallel()

	input, err := decodeConvertRequest(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Markdown != nil {
		t.Error("nil body should be missing input")
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing input",
			err:        &gfm2html.ConversionError{Kind: gfm2html.KindMissingInput, Err: gfm2html.ErrMissingInput},
			wantStatus: http.StatusBadRequest,
			wantBody:   "No markdown provided",
		},
		{
			name:       "malformed request",
			err:        gfm2html.NewMalformedRequestError("markdown must be a string"),
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid request: markdown must be a string",
		},
		{
			name:       "internal error keeps message",
			err:        &gfm2html.ConversionError{Kind: gfm2html.KindInternal, Err: errors.New("engine exploded")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "engine exploded",
		},
		{
			name:       "plain error is internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "boom",
		},
		{
			name:       "oversized body",
			err:        fmt.Errorf("read: %w", &http.MaxBytesError{Limit: 10}),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantBody:   "request body too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, body := mapError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if body.Error != tt.wantBody {
				t.Errorf("body = %q, want %q", body.Error, tt.wantBody)
			}
		})
	}
}
