package testutil

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"jobgate/pkg/requestcontext"
)

// WithRequestMeta attaches a request ID and fixed request time, as the
// middleware chain would for a live request.
func WithRequestMeta(req *http.Request, requestID string, now time.Time) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	ctx = requestcontext.WithTime(ctx, now)
	return req.WithContext(ctx)
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
