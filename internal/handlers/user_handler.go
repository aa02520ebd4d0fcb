package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dastan2231/Social_Network/internal/services"
	"github.com/Dastan2231/Social_Network/pkg/apperr"
	"github.com/Dastan2231/Social_Network/pkg/logger"
	"github.com/Dastan2231/Social_Network/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles HTTP requests related to accounts and profiles.
type UserHandler struct {
	Service *services.UserService
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{Service: service}
}

// callerID resolves the authenticated subject or writes a 401.
func callerID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, apperr.Unauthorizedf("missing credentials"))
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, apperr.Unauthorizedf("invalid subject id"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// RegisterUserHandler handles user registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.WithError(err).Warn("Failed to decode registration request")
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	response, err := h.Service.RegisterUser(r.Context(), input)
	if err != nil {
		log.WithError(err).Warn("Failed to register user")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// LoginUserHandler handles user login.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	response, err := h.Service.AuthenticateUser(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		log.WithField("email", credentials.Email).WithError(err).Warn("Authentication failed")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// ActivateAccountHandler marks the caller's account as verified.
func (h *UserHandler) ActivateAccountHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, apperr.Unauthorizedf("missing credentials"))
		return
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	if err := h.Service.ActivateAccount(r.Context(), claims.UserID, body.Token); err != nil {
		logger.Log.WithError(err).Warn("Account activation failed")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Your account has been activated successfully"})
}

// SendVerificationHandler re-sends the activation email.
func (h *UserHandler) SendVerificationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.Service.SendVerification(r.Context(), userID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Email verification link has been sent to your email"})
}

// FindUserHandler resolves an account by email for the reset flow.
func (h *UserHandler) FindUserHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	result, err := h.Service.FindUser(r.Context(), body.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// SendResetCodeHandler mails a fresh password reset code.
func (h *UserHandler) SendResetCodeHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	if err := h.Service.SendResetCode(r.Context(), body.Email); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Email reset code has been sent to your email"})
}

// ValidateResetCodeHandler checks the submitted reset code.
func (h *UserHandler) ValidateResetCodeHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	if err := h.Service.ValidateResetCode(r.Context(), body.Email, body.Code); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Ok"})
}

// ChangePasswordHandler replaces the account password.
func (h *UserHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	if err := h.Service.ChangePassword(r.Context(), body.Email, body.Password); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Ok"})
}

// GetProfileHandler returns a profile with posts, friends and the
// friendship descriptor against the caller.
func (h *UserHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := callerID(w, r)
	if !ok {
		return
	}

	username := mux.Vars(r)["username"]
	profile, err := h.Service.GetProfile(r.Context(), viewerID, username)
	if err != nil {
		log.WithField("username", username).WithError(err).Warn("Failed to fetch profile")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfilePictureHandler sets the caller's profile picture.
func (h *UserHandler) UpdateProfilePictureHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	if err := h.Service.UpdateProfilePicture(r.Context(), userID, body.URL); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, body.URL)
}

// UpdateCoverHandler sets the caller's cover picture.
func (h *UserHandler) UpdateCoverHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	if err := h.Service.UpdateCover(r.Context(), userID, body.URL); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, body.URL)
}

// UpdateDetailsHandler replaces the caller's profile details blob.
func (h *UserHandler) UpdateDetailsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var body struct {
		Infos map[string]interface{} `json:"infos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, apperr.Invalidf("invalid request payload"))
		return
	}

	details, err := h.Service.UpdateDetails(r.Context(), userID, body.Infos)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, details)
}
