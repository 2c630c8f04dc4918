package controllers

import (
	"encoding/json"
	"net/http"

	"vibecheck_server/services"
	"vibecheck_server/utils"
)

// InteractionController handles like/pass requests
type InteractionController struct {
	InteractionService *services.InteractionService
}

// NewInteractionController initializes the controller
func NewInteractionController(service *services.InteractionService) *InteractionController {
	return &InteractionController{InteractionService: service}
}

type interactionRequest struct {
	TargetUserID string `json:"targetUserId"`
}

// HandleLike - caller likes the target user
func (c *InteractionController) HandleLike(w http.ResponseWriter, r *http.Request) {
	var request interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.TargetUserID == "" {
		http.Error(w, `{"error": "targetUserId is required"}`, http.StatusBadRequest)
		return
	}

	result, err := c.InteractionService.RecordLike(r.Context(), utils.CallerID(r), request.TargetUserID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// HandlePass - caller passes on the target user
func (c *InteractionController) HandlePass(w http.ResponseWriter, r *http.Request) {
	var request interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.TargetUserID == "" {
		http.Error(w, `{"error": "targetUserId is required"}`, http.StatusBadRequest)
		return
	}

	result, err := c.InteractionService.RecordPass(r.Context(), utils.CallerID(r), request.TargetUserID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}
