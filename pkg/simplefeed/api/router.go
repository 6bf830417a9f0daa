package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-feed/pkg/simplefeed"
)

// NewRouter returns the feed API: users, posts and a health check.
func NewRouter(service simplefeed.Service, auth *Authenticator) chi.Router {
	if auth == nil {
		auth = NewAuthenticator("")
	}

	r := chi.NewRouter()
	r.Use(auth.Verifier())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Mount("/users", NewUserHandler(service, auth).Routes())
	r.Mount("/posts", NewPostHandler(service, auth).Routes())

	return r
}
