package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/learnspace/back/internal/config"
	"github.com/learnspace/back/internal/models"
	"github.com/learnspace/back/internal/repositories"
	"github.com/learnspace/back/internal/services"
	"github.com/learnspace/back/internal/utils"
)

// resourcesNote accompanies every resources response; links are never real.
const resourcesNote = "Note: Due to security constraints, actual URLs are not provided. You can search for these resources using your preferred search engine."

type SpaceHandler struct {
	authService  services.AuthService
	spaceService services.SpaceService
}

func NewSpaceHandler(authService services.AuthService, spaceService services.SpaceService) *SpaceHandler {
	return &SpaceHandler{
		authService:  authService,
		spaceService: spaceService,
	}
}

func (h *SpaceHandler) List(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	spaces, err := h.spaceService.List(r.Context(), session.Username)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("failed to list spaces")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to load learning spaces")
		return
	}

	if spaces == nil {
		spaces = []models.LearningSpace{}
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"spaces":  spaces,
	})
}

func (h *SpaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	var req models.CreateSpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Topic) == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Topic is required")
		return
	}

	spaceID, err := h.spaceService.Create(r.Context(), session.Username, req.Topic, session.Customization)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("failed to create space")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to create learning space")
		return
	}

	// The new space becomes the active one, as if the user clicked into it.
	if err := h.authService.SelectSpace(r.Context(), session.Token, spaceID, models.ViewContent); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("failed to select new space")
	}

	utils.WriteJSONResponse(w, http.StatusOK, models.CreateSpaceResponse{
		Success: true,
		SpaceID: spaceID,
	})
}

func (h *SpaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	spaceID := chi.URLParam(r, "id")
	space, err := h.spaceService.Get(r.Context(), session.Username, spaceID)
	if err != nil {
		h.handleNotFound(w, r, session, spaceID, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"space":   space,
	})
}

// Select makes the space the session's active one and stamps its
// last-accessed time.
func (h *SpaceHandler) Select(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	spaceID := chi.URLParam(r, "id")

	view := r.URL.Query().Get("view")
	switch view {
	case models.ViewQuiz, models.ViewResources:
	default:
		view = models.ViewContent
	}

	if err := h.spaceService.Touch(r.Context(), session.Username, spaceID); err != nil {
		h.handleNotFound(w, r, session, spaceID, err)
		return
	}

	if err := h.authService.SelectSpace(r.Context(), session.Token, spaceID, view); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to update session")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"current_space_id": spaceID,
		"current_view":     view,
	})
}

func (h *SpaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	spaceID := chi.URLParam(r, "id")
	if err := h.spaceService.Delete(r.Context(), session.Username, spaceID); err != nil {
		h.handleNotFound(w, r, session, spaceID, err)
		return
	}

	// Deleting the active space leaves the session pointing at nothing.
	if session.CurrentSpaceID == spaceID {
		if err := h.authService.ClearSelection(r.Context(), session.Token); err != nil {
			config.WithContext(r.Context()).WithError(err).Warn("failed to clear selection")
		}
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Learning space deleted",
	})
}

// Regenerate applies a new customization profile to the session and
// rebuilds the space's content with it. Resources and quiz stay untouched.
func (h *SpaceHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	var req models.RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.authService.SetCustomization(r.Context(), session.Token, req.Customization); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	spaceID := chi.URLParam(r, "id")
	space, err := h.spaceService.Regenerate(r.Context(), session.Username, spaceID, req.Customization)
	if err != nil {
		h.handleNotFound(w, r, session, spaceID, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"space":   space,
	})
}

// Resources returns the space's curated resource list, generating it on
// first view.
func (h *SpaceHandler) Resources(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	spaceID := chi.URLParam(r, "id")
	space, err := h.spaceService.EnsureResources(r.Context(), session.Username, spaceID)
	if err != nil {
		h.handleNotFound(w, r, session, spaceID, err)
		return
	}

	if space.Resources.IsEmpty() {
		utils.WriteErrorResponse(w, http.StatusOK, "Failed to generate learning resources. Please try again later.")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"topic":     space.Topic,
		"resources": space.Resources,
		"note":      resourcesNote,
	})
}

// handleNotFound maps a missing space to a 404 and clears the selection
// when the session was pointing at the missing id.
func (h *SpaceHandler) handleNotFound(w http.ResponseWriter, r *http.Request, session *models.Session, spaceID string, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		if session.CurrentSpaceID == spaceID {
			if clearErr := h.authService.ClearSelection(r.Context(), session.Token); clearErr != nil {
				config.WithContext(r.Context()).WithError(clearErr).Warn("failed to clear selection")
			}
		}
		utils.WriteErrorResponse(w, http.StatusNotFound, "Space not found")
		return
	}

	config.WithContext(r.Context()).WithError(err).Error("space operation failed")
	utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error")
}
