package handlers

import (
	"jdr/services/session"
	socketio_types "jdr/services/socket_io/types"

	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle socket.io client disconnections.
func HandleDisconnecting(store *session.Store, playerID string,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] Player disconnecting: %s", playerID)

		if gameID, exists := sio.GetPlayerGame(playerID); exists {
			// Best effort: a vanished session is not an error here.
			if _, err := store.TouchPlayer(gameID, playerID); err != nil {
				log.Printf("[DISCONNECT-ERROR] Touching player %s in %s: %v", playerID, gameID, err)
			}

			if client, ok := sio.GetConnection(playerID); ok {
				client.Leave(socket.Room(gameID))
			}

			sio.Sio_server.To(socket.Room(gameID)).Emit("player_left", gin.H{
				"playerId": playerID,
				"reason":   "disconnected",
			})
		}

		sio.RemoveConnection(playerID)
		log.Printf("[DISCONNECT-DONE] Player disconnected: %s", playerID)
	}
}
