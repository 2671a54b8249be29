package server

import (
	"context"
	_ "embed"
	"net/http"
	"strings"

	gfm2html "github.com/alnah/go-gfm2html"
	"github.com/alnah/go-gfm2html/internal/logging"
)

// DefaultMaxBodyBytes bounds a /convert request body when no option is given.
const DefaultMaxBodyBytes int64 = 1 << 20

//go:embed static/index.html
var indexPage []byte

// Converter is the conversion capability the handler depends on.
type Converter interface {
	Convert(ctx context.Context, input gfm2html.Input) (*gfm2html.Result, error)
}

// Compile-time check.
var _ Converter = (*gfm2html.Converter)(nil)

// Handler routes requests to the conversion endpoint and the static page.
type Handler struct {
	converter    Converter
	logger       logging.Logger
	maxBodyBytes int64
	mux          *http.ServeMux
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the access and error logger.
func WithLogger(l logging.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMaxBodyBytes bounds the /convert request body. Non-positive values
// keep the default.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// NewHandler builds the routed handler wrapped in request-id and
// access-log middleware.
func NewHandler(conv Converter, opts ...HandlerOption) http.Handler {
	h := &Handler{
		converter:    conv,
		logger:       logging.Nop(),
		maxBodyBytes: DefaultMaxBodyBytes,
		mux:          http.NewServeMux(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	h.mux.HandleFunc("GET /{$}", h.handleIndex)
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	// No method in the pattern: the mux's own 405 is plain text.
	h.mux.HandleFunc("/convert", h.handleConvert)

	return withRequestID(withAccessLog(h.mux, h.logger))
}

func (h *Handler) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexPage)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	input, err := decodeConvertRequest(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}

	result, err := h.converter.Convert(r.Context(), input)
	if err != nil {
		h.logFailure(r, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{HTML: result.HTML})
}

// logFailure logs internal errors at error level and client errors at debug.
func (h *Handler) logFailure(r *http.Request, err error) {
	status, _ := mapError(err)
	fields := map[string]any{
		"request_id": RequestIDFromContext(r.Context()),
		"kind":       gfm2html.KindOf(err).String(),
	}
	if status >= http.StatusInternalServerError {
		h.logger.WithFields(fields).Error("conversion failed", "error", err.Error())
		return
	}
	h.logger.WithFields(fields).Debug("rejected request", "status", status, "error", strings.TrimSpace(err.Error()))
}
