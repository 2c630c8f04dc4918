package controllers

import (
	"net/http"

	"vibecheck_server/services"
	"vibecheck_server/utils"
)

// MatchController handles match listing requests
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController initializes the controller
func NewMatchController(service *services.MatchService) *MatchController {
	return &MatchController{MatchService: service}
}

// HandleGetMyMatches - fetch the caller's matches, newest first
func (c *MatchController) HandleGetMyMatches(w http.ResponseWriter, r *http.Request) {
	summaries, err := c.MatchService.GetMyMatches(r.Context(), utils.CallerID(r))
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, summaries)
}
