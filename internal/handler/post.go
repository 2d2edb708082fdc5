package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/service"
)

// PostHandler serves the posts feed: create/read/delete, the like toggle,
// and comments.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

type postRequest struct {
	Text string `json:"text" validate:"required"`
}

// HandleCreate stores a new post authored by the caller.
//
// HTTP: POST /api/posts
// Auth: required
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid post JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	if errs := checkRequest(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	post, err := h.posts.Create(r.Context(), userID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleList returns the feed, newest first.
//
// HTTP: GET /api/posts
// Auth: required
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleGetByID returns a single post.
//
// HTTP: GET /api/posts/{postID}
// Auth: required
func (h *PostHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetByID(r.Context(), r.PathValue("postID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes a post. Owner only.
//
// HTTP: DELETE /api/posts/{postID}
// Auth: required
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.posts.Delete(r.Context(), userID, r.PathValue("postID")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "post removed"})
}

// HandleLike records the caller's like and returns the updated likes list.
//
// HTTP: PUT /api/posts/like/{postID}
// Auth: required
func (h *PostHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	likes, err := h.posts.Like(r.Context(), userID, r.PathValue("postID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likes)
}

// HandleUnlike removes the caller's like and returns the updated likes list.
//
// HTTP: PUT /api/posts/unlike/{postID}
// Auth: required
func (h *PostHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	likes, err := h.posts.Unlike(r.Context(), userID, r.PathValue("postID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likes)
}

// HandleAddComment adds a comment and returns the updated comments list.
//
// HTTP: POST /api/posts/comment/{postID}
// Auth: required
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid comment JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	if errs := checkRequest(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	comments, err := h.posts.AddComment(r.Context(), userID, r.PathValue("postID"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

// HandleRemoveComment deletes a comment. Comment owner only.
//
// HTTP: DELETE /api/posts/comment/{postID}/{commentID}
// Auth: required
func (h *PostHandler) HandleRemoveComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	comments, err := h.posts.RemoveComment(r.Context(), userID, r.PathValue("postID"), r.PathValue("commentID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}
