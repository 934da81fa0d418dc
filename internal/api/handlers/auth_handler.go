package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/learnspace/back/internal/models"
	"github.com/learnspace/back/internal/services"
	"github.com/learnspace/back/internal/utils"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(r *http.Request) string {
	token := r.Header.Get("Authorization")
	if strings.HasPrefix(token, "Bearer ") {
		return token[len("Bearer "):]
	}
	return token
}

// requireSession validates the bearer token and writes the 401 itself when
// it fails; callers just bail on nil.
func requireSession(w http.ResponseWriter, r *http.Request, authService services.AuthService) *models.Session {
	token := bearerToken(r)
	if token == "" {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Authorization token required")
		return nil
	}

	session, err := authService.ValidateToken(r.Context(), token)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid authorization token")
		return nil
	}

	return session
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Username is required")
		return
	}
	if req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Password is required")
		return
	}

	response, err := h.authService.Login(r.Context(), req)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, response)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Username is required")
		return
	}
	if req.Password == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Password is required")
		return
	}

	response, err := h.authService.Register(r.Context(), req)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, response)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out",
	})
}

// GetSession returns the view state of the current session: who is logged
// in, which space/view is open and the active customization profile.
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	response := map[string]interface{}{
		"success":          true,
		"username":         session.Username,
		"current_space_id": session.CurrentSpaceID,
		"current_view":     session.CurrentView,
		"customization":    session.Customization,
	}

	utils.WriteJSONResponse(w, http.StatusOK, response)
}

func (h *AuthHandler) UpdateCustomization(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	var customization models.Customization
	if err := json.NewDecoder(r.Body).Decode(&customization); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.authService.SetCustomization(r.Context(), session.Token, customization); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"customization": customization,
	})
}
