package controllers

import (
	"encoding/json"
	"net/http"

	"vibecheck_server/models"
	"vibecheck_server/services"
	"vibecheck_server/utils"
)

// UserProfileController handles requests related to user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(service *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: service}
}

// HandleEnsureProfile - lazily create the caller's profile
func (c *UserProfileController) HandleEnsureProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := c.UserProfileService.EnsureProfile(r.Context(), utils.CallerID(r))
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, profile)
}

// HandleGetProfile - fetch the caller's profile
func (c *UserProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := c.UserProfileService.GetProfile(r.Context(), utils.CallerID(r))
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if profile == nil {
		utils.RespondJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	utils.RespondJSON(w, http.StatusOK, profile)
}

// HandleUpdateMood - set the caller's current mood
func (c *UserProfileController) HandleUpdateMood(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Mood string `json:"mood"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	profile, err := c.UserProfileService.UpdateMood(r.Context(), utils.CallerID(r), request.Mood)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, profile)
}

// HandleUpdateDetails - apply a partial profile update
func (c *UserProfileController) HandleUpdateDetails(w http.ResponseWriter, r *http.Request) {
	var update models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	profile, err := c.UserProfileService.UpdateProfileDetails(r.Context(), utils.CallerID(r), update)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, profile)
}

// HandleGetPotentialMatches - mood-based discovery candidates
func (c *UserProfileController) HandleGetPotentialMatches(w http.ResponseWriter, r *http.Request) {
	candidates, err := c.UserProfileService.GetPotentialMatches(r.Context(), utils.CallerID(r))
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, candidates)
}
