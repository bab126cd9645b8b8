package handlers

import (
	"jdr/services/session"
	socketio_types "jdr/services/socket_io/types"

	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

func HandleJoinGame(store *session.Store, client *socket.Socket,
	playerID, playerName string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[JOIN] HandleJoinGame started - Player: %s, Socket ID: %s", playerID, client.Id())

		arg, err := firstArg(args)
		if err != nil {
			client.Emit("error", gin.H{"error": "game code is required"})
			return
		}

		var req struct {
			GameID string `json:"gameId"`
			Color  string `json:"color"`
		}
		if err := decodeArg(arg, &req); err != nil || req.GameID == "" {
			log.Printf("[JOIN-ERROR] Bad payload from %s: %v", playerID, err)
			client.Emit("error", gin.H{"error": "game code is required"})
			return
		}

		state, err := store.JoinSession(req.GameID, playerID, playerName, req.Color)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				client.Emit("error", gin.H{"error": "session not found or expired"})
			} else {
				log.Printf("[JOIN-ERROR] Joining %s: %v", req.GameID, err)
				client.Emit("error", gin.H{"error": "could not join the session"})
			}
			return
		}

		client.Join(socket.Room(req.GameID))
		sio.SetPlayerGame(playerID, req.GameID)

		log.Printf("[JOIN-SUCCESS] Player %s joined game %s", playerID, req.GameID)
		client.Emit("game_state", state)
		sio.Sio_server.To(socket.Room(req.GameID)).Emit("player_joined", gin.H{
			"playerId":   playerID,
			"playerName": playerName,
		})
	}
}
