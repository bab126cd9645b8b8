package socketio_utils

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// VerifyPlayerConnection validates the socket.io handshake. Clients
// must announce a player id and name in the auth payload; anonymous
// connections are rejected before any event handler is registered.
func VerifyPlayerConnection(client *socket.Socket) (bool, string, string) {
	auth, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		log.Printf("[CONN-ERROR] Missing auth payload, socket %s", client.Id())
		client.Emit("error", gin.H{"error": "authentication payload is required"})
		client.Disconnect(true)
		return false, "", ""
	}

	playerID, _ := auth["playerId"].(string)
	playerName, _ := auth["playerName"].(string)
	if playerID == "" || playerName == "" {
		log.Printf("[CONN-ERROR] Incomplete auth payload, socket %s", client.Id())
		client.Emit("error", gin.H{"error": "playerId and playerName are required"})
		client.Disconnect(true)
		return false, "", ""
	}

	return true, playerID, playerName
}
