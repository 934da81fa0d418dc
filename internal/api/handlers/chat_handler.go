package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/learnspace/back/internal/models"
	"github.com/learnspace/back/internal/services"
	"github.com/learnspace/back/internal/utils"
)

type ChatHandler struct {
	authService  services.AuthService
	spaceService services.SpaceService
	chatService  services.ChatService
}

func NewChatHandler(
	authService services.AuthService,
	spaceService services.SpaceService,
	chatService services.ChatService,
) *ChatHandler {
	return &ChatHandler{
		authService:  authService,
		spaceService: spaceService,
		chatService:  chatService,
	}
}

// Chat answers a follow-up question about the space's topic, using the
// session's recent conversation as context.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}
	if req.SpaceID == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Space id is required")
		return
	}

	space, err := h.spaceService.Get(r.Context(), session.Username, req.SpaceID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Space not found")
		return
	}

	reply := h.chatService.Ask(r.Context(), session.Token, space.Topic, req.Message, session.Customization)

	utils.WriteJSONResponse(w, http.StatusOK, models.ChatResponse{
		Reply:   reply,
		History: h.chatService.History(session.Token, space.Topic),
	})
}

// History returns the session's conversation for the space's topic, for
// rendering under the content view.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	session := requireSession(w, r, h.authService)
	if session == nil {
		return
	}

	spaceID := r.URL.Query().Get("space_id")
	if spaceID == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Space id is required")
		return
	}

	space, err := h.spaceService.Get(r.Context(), session.Username, spaceID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Space not found")
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"topic":   space.Topic,
		"history": h.chatService.History(session.Token, space.Topic),
	})
}
