package routes

import (
	"vibecheck_server/controllers"
	"vibecheck_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for profile operations under /api/profiles
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()

	profileRouter.HandleFunc("/me", controller.HandleGetProfile).Methods("GET")
	profileRouter.HandleFunc("/ensure", controller.HandleEnsureProfile).Methods("POST")
	profileRouter.HandleFunc("/mood", controller.HandleUpdateMood).Methods("PUT")
	profileRouter.HandleFunc("/details", controller.HandleUpdateDetails).Methods("PATCH")
	profileRouter.HandleFunc("/potential-matches", controller.HandleGetPotentialMatches).Methods("GET")
}
