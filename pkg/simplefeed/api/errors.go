package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/simple-feed/pkg/simplefeed"
)

// ErrMissingIdentity is returned when a request that acts on behalf of a user carries no identity.
var ErrMissingIdentity = errors.New("missing user identity")

// ErrorResponse is the response body for a failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrMissingIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, simplefeed.ErrNotAuthor):
		return http.StatusForbidden
	case errors.Is(err, simplefeed.ErrInvalidArgument),
		errors.Is(err, simplefeed.ErrInvalidContent):
		return http.StatusBadRequest
	case errors.Is(err, simplefeed.ErrUserNotFound),
		errors.Is(err, simplefeed.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, simplefeed.ErrAlreadyFollowing),
		errors.Is(err, simplefeed.ErrNotFollowing),
		errors.Is(err, simplefeed.ErrAlreadyLiked),
		errors.Is(err, simplefeed.ErrNotLiked),
		errors.Is(err, simplefeed.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: msg})
}
