package routes

import (
	"vibecheck_server/controllers"
	"vibecheck_server/services"

	"github.com/gorilla/mux"
)

// RegisterInteractionRoutes sets up routes for like/pass operations under /api/interactions
func RegisterInteractionRoutes(r *mux.Router, interactionService *services.InteractionService) {
	controller := controllers.NewInteractionController(interactionService)

	interactionRouter := r.PathPrefix("/api/interactions").Subrouter()

	interactionRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	interactionRouter.HandleFunc("/pass", controller.HandlePass).Methods("POST")
}
