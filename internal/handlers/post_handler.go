package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dastan2231/Social_Network/internal/services"
	"github.com/Dastan2231/Social_Network/pkg/apperr"
	"github.com/Dastan2231/Social_Network/pkg/logger"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler manages HTTP endpoints for posts, comments and the feed.
type PostHandler struct {
	Service *services.PostService
}

// NewPostHandler initializes a new PostHandler.
func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{Service: service}
}

// CreatePostHandler creates a post authored by the caller.
func (h *PostHandler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var body struct {
		Text   string   `json:"text"`
		Images []string `json:"images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	post, err := h.Service.CreatePost(r.Context(), userID, body.Text, body.Images)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to create post")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// GetFeedHandler returns the caller's timeline.
func (h *PostHandler) GetFeedHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	feed, err := h.Service.GetFeed(r.Context(), userID)
	if err != nil {
		logger.Log.WithError(err).Errorf("Failed to compose feed for %s", userID.Hex())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, feed)
}

// CommentHandler appends a comment and returns the post's comment list.
func (h *PostHandler) CommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var body struct {
		PostID  string `json:"post_id"`
		Comment string `json:"comment"`
		Image   string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	postID, err := primitive.ObjectIDFromHex(body.PostID)
	if err != nil {
		respondError(w, apperr.Invalidf("invalid post id"))
		return
	}

	comments, err := h.Service.Comment(r.Context(), userID, postID, body.Comment, body.Image)
	if err != nil {
		logger.Log.WithError(err).Warnf("Failed to comment on post %s", body.PostID)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, comments)
}

// SavePostHandler toggles the post on the caller's saved list.
func (h *PostHandler) SavePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.Invalidf("invalid post id"))
		return
	}

	saved, err := h.Service.ToggleSavePost(r.Context(), userID, postID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

// DeletePostHandler deletes a post by id.
func (h *PostHandler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.Invalidf("invalid post id"))
		return
	}

	if err := h.Service.DeletePost(r.Context(), postID); err != nil {
		logger.Log.WithError(err).Warnf("Failed to delete post %s", postID.Hex())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
