package routes

import (
	"vibecheck_server/controllers"
	"vibecheck_server/services"

	"github.com/gorilla/mux"
)

// RegisterConversationRoutes sets up conversation state routes under /api/conversations
func RegisterConversationRoutes(r *mux.Router, conversationService *services.ConversationService) {
	controller := controllers.NewConversationController(conversationService)

	conversationRouter := r.PathPrefix("/api/conversations").Subrouter()

	conversationRouter.HandleFunc("/{conversationId}", controller.HandleGet).Methods("GET")
	conversationRouter.HandleFunc("/{conversationId}/typing", controller.HandleUpdateTyping).Methods("POST")
	conversationRouter.HandleFunc("/{conversationId}/mark-as-read", controller.HandleMarkAsRead).Methods("POST")
}
