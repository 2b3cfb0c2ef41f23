package net

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
)

// PrintHTTPResponse dumps the response at debug level.
func PrintHTTPResponse(resp *http.Response) {
	if resp == nil {
		return
	}
	if respDump, err := httputil.DumpResponse(resp, false); err == nil {
		slog.Debug("http response", "dump", string(respDump))
	}
}
