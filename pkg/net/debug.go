package net

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httputil"
)

// PrintHTTPResponse dumps the response headers at debug level.
func PrintHTTPResponse(resp *http.Response) {
	if resp == nil || !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	if dump, err := httputil.DumpResponse(resp, false); err == nil {
		slog.Debug("http response", "dump", string(dump))
	}
}
