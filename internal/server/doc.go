// Package server exposes the converter over HTTP.
//
// Routes:
//
//	GET  /         embedded editor page
//	POST /convert  {"markdown": "..."} -> {"html": "..."} or {"error": "..."}
//	GET  /healthz  liveness probe
//
// Every response carries an X-Request-ID header and produces one access log
// line.
package server
