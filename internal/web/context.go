package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/analyzer/internal/logging"
	"github.com/go-chi/chi/v5"
)

// sessionRequest returns the session ID from the URL and a context whose
// logger carries it.
func sessionRequest(r *http.Request) (context.Context, string) {
	id := chi.URLParam(r, "sessionID")
	return logging.WithSession(r.Context(), id), id
}
