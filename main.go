package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"vibecheck_server/repository"
	"vibecheck_server/routes"
	"vibecheck_server/services"
	"vibecheck_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize DynamoDB client and repositories
	log.Println("Initializing DynamoDB client...")
	dynamoClient := repository.InitializeDynamoDBClient()
	dynamoService := &repository.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	interactionRepo := &repository.InteractionRepository{Dynamo: dynamoService}
	matchRepo := &repository.MatchRepository{Dynamo: dynamoService}
	conversationRepo := &repository.ConversationRepository{Dynamo: dynamoService}
	messageRepo := &repository.MessageRepository{Dynamo: dynamoService}
	profileRepo := &repository.ProfileRepository{Dynamo: dynamoService}

	// Initialize Services
	matchService := &services.MatchService{
		MatchRepo:        matchRepo,
		ConversationRepo: conversationRepo,
		MessageRepo:      messageRepo,
		ProfileRepo:      profileRepo,
	}
	interactionService := &services.InteractionService{
		Interactions: interactionRepo,
		Matches:      matchService,
	}
	conversationService := &services.ConversationService{
		ConversationRepo: conversationRepo,
		MessageRepo:      messageRepo,
	}
	chatService := &services.ChatService{
		ConversationRepo: conversationRepo,
		MessageRepo:      messageRepo,
	}
	userProfileService := &services.UserProfileService{
		ProfileRepo:     profileRepo,
		InteractionRepo: interactionRepo,
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to VibeCheck")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterUserProfileRoutes(r, userProfileService)
	routes.RegisterInteractionRoutes(r, interactionService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterConversationRoutes(r, conversationService)
	routes.RegisterChatRoutes(r, chatService)
	routes.RegisterS3Routes(r)

	// Socket.IO relay for realtime message/typing fan-out
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket.IO server error: %v", err)
		}
	}()
	defer socketServer.Close()
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-User-Id"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
