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

// SearchHandler manages HTTP endpoints for account search and history.
type SearchHandler struct {
	Service *services.SearchService
}

// NewSearchHandler initializes a new SearchHandler.
func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{Service: service}
}

// SearchAccountsHandler runs a text search over accounts.
func (h *SearchHandler) SearchAccountsHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerID(w, r); !ok {
		return
	}

	term := mux.Vars(r)["searchTerm"]
	results, err := h.Service.SearchAccounts(r.Context(), term)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// AddToSearchHistoryHandler records a searched account for the caller.
func (h *SearchHandler) AddToSearchHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var body struct {
		SearchUser string `json:"search_user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	targetID, err := primitive.ObjectIDFromHex(body.SearchUser)
	if err != nil {
		respondError(w, apperr.Invalidf("invalid user id"))
		return
	}

	if err := h.Service.AddToSearchHistory(r.Context(), userID, targetID); err != nil {
		logger.Log.WithError(err).Warn("Failed to record search history")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetSearchHistoryHandler lists the caller's search history.
func (h *SearchHandler) GetSearchHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	history, err := h.Service.GetSearchHistory(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// RemoveFromSearchHandler drops one entry from the caller's history.
func (h *SearchHandler) RemoveFromSearchHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var body struct {
		SearchUser string `json:"search_user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	targetID, err := primitive.ObjectIDFromHex(body.SearchUser)
	if err != nil {
		respondError(w, apperr.Invalidf("invalid user id"))
		return
	}

	if err := h.Service.RemoveFromSearchHistory(r.Context(), userID, targetID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
