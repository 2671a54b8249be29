package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	gfm2html "github.com/alnah/go-gfm2html"
)

// missingInputMessage is the exact error body for absent markdown.
const missingInputMessage = "No markdown provided"

type convertResponse struct {
	HTML string `json:"html"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// decodeConvertRequest reads the request envelope. An empty body, a JSON
// null, an object without "markdown" and "markdown": null all yield an
// Input with a nil Markdown. Anything else that is not an object with a
// string "markdown" is a malformed request. Read errors are returned as is
// so the caller can tell an oversized body apart.
func decodeConvertRequest(body io.Reader) (gfm2html.Input, error) {
	if body == nil {
		return gfm2html.Input{}, nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return gfm2html.Input{}, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return gfm2html.Input{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return gfm2html.Input{}, gfm2html.NewMalformedRequestError("body must be a JSON object, got " + typeErr.Value)
		}
		return gfm2html.Input{}, gfm2html.NewMalformedRequestError("body is not valid JSON")
	}

	raw, ok := fields["markdown"]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return gfm2html.Input{}, nil
	}
	var markdown string
	if err := json.Unmarshal(raw, &markdown); err != nil {
		return gfm2html.Input{}, gfm2html.NewMalformedRequestError("markdown must be a string")
	}
	return gfm2html.NewInput(markdown), nil
}

// writeJSON writes payload with the given status.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// mapError returns the status and body for a failed request.
func mapError(err error) (int, errorResponse) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"}
	}

	switch gfm2html.KindOf(err) {
	case gfm2html.KindMissingInput:
		return http.StatusBadRequest, errorResponse{Error: missingInputMessage}
	case gfm2html.KindMalformedRequest:
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, errorResponse{Error: err.Error()}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}
