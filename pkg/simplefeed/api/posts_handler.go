package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-feed/pkg/simplefeed"
)

// CreatePostRequest is the request body for creating a post. The author is the acting user.
type CreatePostRequest struct {
	Text string `json:"text"`
}

// UpdatePostRequest is the request body for updating a post.
// Omitted fields keep their current value.
type UpdatePostRequest struct {
	Text  *string `json:"text,omitempty"`
	State *string `json:"state,omitempty"`
}

// PostResponse is the response body for a post
type PostResponse struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Text         string    `json:"text"`
	State        string    `json:"state"`
	LikeCount    int       `json:"like_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastEditedAt time.Time `json:"last_edited_at"`
	Edited       bool      `json:"edited"`
	Version      int       `json:"version"`
}

// NewPostResponse converts a domain post into its JSON representation
func NewPostResponse(p *simplefeed.Post) PostResponse {
	content := p.Content()
	return PostResponse{
		ID:           p.ID().String(),
		AuthorID:     p.Author().ID().String(),
		Text:         content.Text(),
		State:        string(p.State()),
		LikeCount:    p.LikeCount(),
		CreatedAt:    content.CreatedAt(),
		LastEditedAt: content.LastEditedAt(),
		Edited:       content.IsEdited(),
		Version:      p.Version(),
	}
}

// PostHandler handles HTTP requests for posts
type PostHandler struct {
	service simplefeed.Service
	auth    *Authenticator
}

// NewPostHandler creates a new post handler
func NewPostHandler(service simplefeed.Service, auth *Authenticator) *PostHandler {
	return &PostHandler{service: service, auth: auth}
}

// Routes returns the routes for posts
func (h *PostHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreatePost)
	r.Get("/{id}", h.GetPost)
	r.Patch("/{id}", h.UpdatePost)
	r.Post("/{id}/like", h.LikePost)
	r.Delete("/{id}/like", h.UnlikePost)

	return r
}

// CreatePost creates a post authored by the acting user
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	actorID, err := h.auth.Actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req CreatePostRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeBadRequest(w, r, "Invalid request body")
		return
	}

	post, err := h.service.CreatePost(r.Context(), simplefeed.CreatePostRequest{
		AuthorID: actorID,
		Text:     req.Text,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, NewPostResponse(post))
}

// GetPost returns a post by ID
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, NewPostResponse(post))
}

// UpdatePost edits the text and/or state of a post. Only the author may do this.
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	actorID, err := h.auth.Actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req UpdatePostRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeBadRequest(w, r, "Invalid request body")
		return
	}

	update := simplefeed.UpdatePostRequest{
		PostID: id,
		UserID: actorID,
		Text:   req.Text,
	}
	if req.State != nil {
		state, err := simplefeed.ParsePostState(*req.State)
		if err != nil {
			writeError(w, r, err)
			return
		}
		update.State = &state
	}

	post, err := h.service.UpdatePost(r.Context(), update)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, NewPostResponse(post))
}

// LikePost records a like from the acting user
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.changeLike(w, r, h.service.LikePost)
}

// UnlikePost removes the acting user's like
func (h *PostHandler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	h.changeLike(w, r, h.service.UnlikePost)
}

func (h *PostHandler) changeLike(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, req simplefeed.LikeRequest) (*simplefeed.Post, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	actorID, err := h.auth.Actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	post, err := op(r.Context(), simplefeed.LikeRequest{PostID: id, UserID: actorID})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, NewPostResponse(post))
}
