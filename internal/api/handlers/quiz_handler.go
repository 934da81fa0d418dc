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

type QuizHandler struct {
	authService services.AuthService
	quizService services.QuizService
}

func NewQuizHandler(authService services.AuthService, quizService services.QuizService) *QuizHandler {
	return &QuizHandler{
		authService: authService,
		quizService: quizService,
	}
}

// Show opens the quiz view: questions are generated on first visit, and
// the current state of the session's attempt comes back.
func (h *QuizHandler) Show(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	spaceID := chi.URLParam(r, "id")
	difficulty := strings.ToLower(session.Customization.DifficultyLevel)

	view, err := h.quizService.Start(r.Context(), session.Token, session.Username, spaceID, difficulty)
	if err != nil {
		h.writeQuizError(w, r, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, view)
}

func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	var req models.QuizAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	answer := strings.ToUpper(strings.TrimSpace(req.Answer))
	if answer == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Answer is required")
		return
	}
	// Only the letter matters; accept a full option string too.
	answer = answer[:1]

	spaceID := chi.URLParam(r, "id")
	view, err := h.quizService.Submit(r.Context(), session.Token, session.Username, spaceID, answer)
	if err != nil {
		h.writeQuizError(w, r, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, view)
}

func (h *QuizHandler) Previous(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	spaceID := chi.URLParam(r, "id")
	view, err := h.quizService.Previous(r.Context(), session.Token, session.Username, spaceID)
	if err != nil {
		h.writeQuizError(w, r, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, view)
}

func (h *QuizHandler) Retry(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	spaceID := chi.URLParam(r, "id")
	view, err := h.quizService.Retry(r.Context(), session.Token, session.Username, spaceID)
	if err != nil {
		h.writeQuizError(w, r, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, view)
}

func (h *QuizHandler) writeQuizError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Space not found")
		return
	}
	if errors.Is(err, services.ErrInvalidAnswer) {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Answer must be one of A, B, C or D")
		return
	}

	config.WithContext(r.Context()).WithError(err).Error("quiz operation failed")
	utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error")
}
