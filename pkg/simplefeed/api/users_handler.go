package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-feed/pkg/simplefeed"
)

// CreateUserRequest is the request body for creating a user
type CreateUserRequest struct {
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// UserResponse is the response body for a user
type UserResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	FollowerCount   int    `json:"follower_count"`
	FollowingCount  int    `json:"following_count"`
	Version         int    `json:"version"`
}

// NewUserResponse converts a domain user into its JSON representation
func NewUserResponse(u *simplefeed.User) UserResponse {
	return UserResponse{
		ID:              u.ID().String(),
		Name:            u.Info().Name,
		ProfileImageURL: u.Info().ProfileImageURL,
		FollowerCount:   u.FollowerCount(),
		FollowingCount:  u.FollowingCount(),
		Version:         u.Version(),
	}
}

// UserHandler handles HTTP requests for users
type UserHandler struct {
	service simplefeed.Service
	auth    *Authenticator
}

// NewUserHandler creates a new user handler
func NewUserHandler(service simplefeed.Service, auth *Authenticator) *UserHandler {
	return &UserHandler{service: service, auth: auth}
}

// Routes returns the routes for users
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateUser)
	r.Get("/{id}", h.GetUser)
	r.Post("/{id}/follow", h.FollowUser)
	r.Delete("/{id}/follow", h.UnfollowUser)

	return r
}

// CreateUser creates a new user
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeBadRequest(w, r, "Invalid request body")
		return
	}

	user, err := h.service.CreateUser(r.Context(), simplefeed.CreateUserRequest{
		Name:            req.Name,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, NewUserResponse(user))
}

// GetUser returns a user by ID
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, NewUserResponse(user))
}

// FollowUser makes the acting user follow the user in the path
func (h *UserHandler) FollowUser(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, h.service.FollowUser)
}

// UnfollowUser makes the acting user stop following the user in the path
func (h *UserHandler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, h.service.UnfollowUser)
}

func (h *UserHandler) changeFollow(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, req simplefeed.FollowRequest) error) {
	targetID, ok := pathID(w, r)
	if !ok {
		return
	}
	actorID, err := h.auth.Actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := op(r.Context(), simplefeed.FollowRequest{UserID: actorID, TargetID: targetID}); err != nil {
		writeError(w, r, err)
		return
	}

	target, err := h.service.GetUser(r.Context(), targetID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, NewUserResponse(target))
}

// pathID parses the {id} URL parameter, writing a 400 response on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, r, "Invalid ID")
		return uuid.Nil, false
	}
	return id, true
}
