package controllers

import (
	"encoding/json"
	"net/http"

	"vibecheck_server/services"
	"vibecheck_server/utils"

	"github.com/gorilla/mux"
)

// ConversationController handles conversation state, typing and read markers
type ConversationController struct {
	ConversationService *services.ConversationService
}

// NewConversationController initializes the controller
func NewConversationController(service *services.ConversationService) *ConversationController {
	return &ConversationController{ConversationService: service}
}

// HandleGet - fetch a conversation the caller participates in. Missing and
// not-authorized conversations are both 404, so existence never leaks.
func (c *ConversationController) HandleGet(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversationId"]

	view, err := c.ConversationService.Get(r.Context(), conversationID, utils.CallerID(r))
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if view == nil {
		utils.RespondJSON(w, http.StatusNotFound, map[string]string{"error": "conversation not visible"})
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// HandleUpdateTyping - set or clear the caller's typing indicator
func (c *ConversationController) HandleUpdateTyping(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversationId"]

	var request struct {
		IsTyping bool `json:"isTyping"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	result, err := c.ConversationService.UpdateTyping(r.Context(), conversationID, utils.CallerID(r), request.IsTyping)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// HandleMarkAsRead - advance the caller's last-seen marker
func (c *ConversationController) HandleMarkAsRead(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversationId"]

	var request struct {
		MessageID string `json:"messageId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.MessageID == "" {
		http.Error(w, `{"error": "messageId is required"}`, http.StatusBadRequest)
		return
	}

	result, err := c.ConversationService.MarkAsRead(r.Context(), conversationID, utils.CallerID(r), request.MessageID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}
