package handlers

import (
	"net/http"

	"github.com/Dastan2231/Social_Network/internal/services"
	"github.com/Dastan2231/Social_Network/pkg/apperr"
	"github.com/Dastan2231/Social_Network/pkg/logger"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendHandler manages HTTP endpoints for the relationship transitions.
type FriendHandler struct {
	Service *services.RelationshipService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(service *services.RelationshipService) *FriendHandler {
	return &FriendHandler{Service: service}
}

// transition resolves the caller and the {id} path parameter, then applies
// the given relationship operation. All seven transitions share this shape.
func (h *FriendHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	op func(r *http.Request, actorID, targetID primitive.ObjectID) error,
) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	targetHex := mux.Vars(r)["id"]
	targetID, err := primitive.ObjectIDFromHex(targetHex)
	if err != nil {
		logger.Log.Warnf("Invalid target user ID: %v", err)
		respondError(w, apperr.Invalidf("invalid user id"))
		return
	}

	if err := op(r, actorID, targetID); err != nil {
		logger.Log.WithError(err).Warnf("Relationship transition failed for %s -> %s", actorID.Hex(), targetHex)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}

// SendFriendRequestHandler sends a friend request to {id}.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Friend request has been sent", func(r *http.Request, actorID, targetID primitive.ObjectID) error {
		return h.Service.SendFriendRequest(r.Context(), actorID, targetID)
	})
}

// CancelRequestHandler withdraws a pending request to {id}.
func (h *FriendHandler) CancelRequestHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "You canceled the friend request", func(r *http.Request, actorID, targetID primitive.ObjectID) error {
		return h.Service.CancelFriendRequest(r.Context(), actorID, targetID)
	})
}

// FollowHandler follows {id}.
func (h *FriendHandler) FollowHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Follow success", func(r *http.Request, actorID, targetID primitive.ObjectID) error {
		return h.Service.Follow(r.Context(), actorID, targetID)
	})
}

// UnfollowHandler unfollows {id}.
func (h *FriendHandler) UnfollowHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Unfollow success", func(r *http.Request, actorID, targetID primitive.ObjectID) error {
		return h.Service.Unfollow(r.Context(), actorID, targetID)
	})
}

// AcceptRequestHandler accepts the pending request from {id}.
func (h *FriendHandler) AcceptRequestHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Friend request has been accepted", func(r *http.Request, receiverID, senderID primitive.ObjectID) error {
		return h.Service.AcceptFriendRequest(r.Context(), receiverID, senderID)
	})
}

// UnfriendHandler removes {id} from the caller's friends.
func (h *FriendHandler) UnfriendHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Unfriend success", func(r *http.Request, actorID, targetID primitive.ObjectID) error {
		return h.Service.Unfriend(r.Context(), actorID, targetID)
	})
}

// DeleteRequestHandler discards the pending request from {id}.
func (h *FriendHandler) DeleteRequestHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Friend request has been deleted", func(r *http.Request, receiverID, senderID primitive.ObjectID) error {
		return h.Service.DeleteFriendRequest(r.Context(), receiverID, senderID)
	})
}

// GetFriendsPageInfoHandler returns friends, incoming and sent requests.
func (h *FriendHandler) GetFriendsPageInfoHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	info, err := h.Service.GetFriendsPageInfo(r.Context(), userID)
	if err != nil {
		logger.Log.WithError(err).Errorf("Failed to fetch friends page info for %s", userID.Hex())
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}
