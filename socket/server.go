package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes the Socket.IO relay. Clients join a room per
// conversation and relay message/typing events to the other participant; the
// HTTP API remains the source of truth for stored state.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(s socketio.Conn) error {
		log.Println("✅ Socket connected:", s.ID())
		return nil
	})

	server.OnEvent("/", "join", func(s socketio.Conn, conversationID string) {
		if conversationID == "" {
			log.Println("❌ Invalid conversationId in join request")
			return
		}
		s.Join(conversationID)
		log.Printf("👥 Socket %s joined conversation %s", s.ID(), conversationID)
	})

	server.OnEvent("/", "leave", func(s socketio.Conn, conversationID string) {
		if conversationID != "" {
			s.Leave(conversationID)
		}
	})

	server.OnEvent("/", "message", func(s socketio.Conn, data map[string]interface{}) {
		conversationID, _ := data["conversationId"].(string)
		if conversationID == "" {
			return
		}
		server.BroadcastToRoom("/", conversationID, "message", data)
	})

	server.OnEvent("/", "typing", func(s socketio.Conn, data map[string]interface{}) {
		conversationID, _ := data["conversationId"].(string)
		if conversationID == "" {
			return
		}
		server.BroadcastToRoom("/", conversationID, "typing", data)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Printf("👋 Socket %s disconnected: %s", s.ID(), reason)
	})

	return server
}
