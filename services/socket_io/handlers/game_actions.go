package handlers

import (
	redis_models "jdr/models/redis"
	"jdr/services/session"
	socketio_types "jdr/services/socket_io/types"

	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Mutation handlers for scene, token, drawing, notes and audio events.
// Every handler funnels its change through the session store, whose
// per-game serializer keeps concurrent read-modify-write cycles from
// losing updates, then broadcasts the fresh snapshot to the game room.

func HandleMoveToken(store *session.Store, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		gameID, ok := joinedGame(client, sio, playerID)
		if !ok {
			return
		}

		arg, err := firstArg(args)
		if err != nil {
			client.Emit("error", gin.H{"error": "token payload is required"})
			return
		}
		var req struct {
			TokenID string  `json:"tokenId"`
			X       float64 `json:"x"`
			Y       float64 `json:"y"`
		}
		if err := decodeArg(arg, &req); err != nil || req.TokenID == "" {
			client.Emit("error", gin.H{"error": "tokenId, x and y are required"})
			return
		}

		state, err := store.MoveToken(gameID, req.TokenID, req.X, req.Y)
		if err != nil {
			emitStoreError(client, playerID, "MOVE", err)
			return
		}
		sio.Sio_server.To(socket.Room(gameID)).Emit("game_state", state)
	}
}

func HandlePlaceToken(store *session.Store, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		gameID, ok := joinedGame(client, sio, playerID)
		if !ok {
			return
		}

		arg, err := firstArg(args)
		if err != nil {
			client.Emit("error", gin.H{"error": "token payload is required"})
			return
		}
		var req struct {
			EntityID string  `json:"entityId"`
			X        float64 `json:"x"`
			Y        float64 `json:"y"`
		}
		if err := decodeArg(arg, &req); err != nil || req.EntityID == "" {
			client.Emit("error", gin.H{"error": "entityId, x and y are required"})
			return
		}

		state, err := store.PlaceToken(gameID, req.EntityID, req.X, req.Y)
		if err != nil {
			emitStoreError(client, playerID, "PLACE", err)
			return
		}
		sio.Sio_server.To(socket.Room(gameID)).Emit("game_state", state)
	}
}

func HandleAddDrawing(store *session.Store, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		gameID, ok := joinedGame(client, sio, playerID)
		if !ok {
			return
		}

		arg, err := firstArg(args)
		if err != nil {
			client.Emit("error", gin.H{"error": "drawing payload is required"})
			return
		}
		var req struct {
			Color  string               `json:"color"`
			Width  float64              `json:"width"`
			Points []redis_models.Point `json:"points"`
		}
		if err := decodeArg(arg, &req); err != nil || len(req.Points) == 0 {
			client.Emit("error", gin.H{"error": "a drawing needs at least one point"})
			return
		}

		state, err := store.AddDrawing(gameID, playerID, req.Color, req.Width, req.Points)
		if err != nil {
			emitStoreError(client, playerID, "DRAW", err)
			return
		}
		sio.Sio_server.To(socket.Room(gameID)).Emit("game_state", state)
	}
}

func HandleClearDrawings(store *session.Store, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		gameID, ok := joinedGame(client, sio, playerID)
		if !ok {
			return
		}

		state, err := store.ClearDrawings(gameID, playerID)
		if err != nil {
			emitStoreError(client, playerID, "CLEAR", err)
			return
		}

		log.Printf("[CLEAR] GM %s wiped drawings in %s", playerID, gameID)
		sio.Sio_server.To(socket.Room(gameID)).Emit("game_state", state)
	}
}

func HandleUpdateNotes(store *session.Store, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		gameID, ok := joinedGame(client, sio, playerID)
		if !ok {
			return
		}

		arg, err := firstArg(args)
		if err != nil {
			client.Emit("error", gin.H{"error": "notes payload is required"})
			return
		}
		var req struct {
			Notes string `json:"notes"`
		}
		if err := decodeArg(arg, &req); err != nil {
			client.Emit("error", gin.H{"error": "invalid notes payload"})
			return
		}

		state, err := store.UpdateNotes(gameID, req.Notes)
		if err != nil {
			emitStoreError(client, playerID, "NOTES", err)
			return
		}
		sio.Sio_server.To(socket.Room(gameID)).Emit("game_state", state)
	}
}

func HandleUpdateScene(store *session.Store, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		gameID, ok := joinedGame(client, sio, playerID)
		if !ok {
			return
		}

		arg, err := firstArg(args)
		if err != nil {
			client.Emit("error", gin.H{"error": "scene payload is required"})
			return
		}
		var scene redis_models.Scene
		if err := decodeArg(arg, &scene); err != nil {
			client.Emit("error", gin.H{"error": "invalid scene payload"})
			return
		}

		state, err := store.UpdateScene(gameID, playerID, scene)
		if err != nil {
			emitStoreError(client, playerID, "SCENE", err)
			return
		}
		sio.Sio_server.To(socket.Room(gameID)).Emit("game_state", state)
	}
}

func HandleSetTrack(store *session.Store, client *socket.Socket,
	playerID string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		gameID, ok := joinedGame(client, sio, playerID)
		if !ok {
			return
		}

		arg, err := firstArg(args)
		if err != nil {
			client.Emit("error", gin.H{"error": "track payload is required"})
			return
		}
		var req struct {
			Track string `json:"track"`
		}
		if err := decodeArg(arg, &req); err != nil {
			client.Emit("error", gin.H{"error": "invalid track payload"})
			return
		}

		state, err := store.SetTrack(gameID, req.Track)
		if err != nil {
			emitStoreError(client, playerID, "TRACK", err)
			return
		}
		sio.Sio_server.To(socket.Room(gameID)).Emit("game_state", state)
	}
}

func HandleChatMessage(store *session.Store, client *socket.Socket,
	playerID, playerName string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		gameID, ok := joinedGame(client, sio, playerID)
		if !ok {
			return
		}

		arg, err := firstArg(args)
		if err != nil {
			client.Emit("error", gin.H{"error": "message payload is required"})
			return
		}
		var req struct {
			Message string `json:"message"`
		}
		if err := decodeArg(arg, &req); err != nil || req.Message == "" {
			client.Emit("error", gin.H{"error": "message is required"})
			return
		}

		state, err := store.AddChatMessage(gameID, redis_models.ChatMessage{
			Message:    req.Message,
			PlayerID:   playerID,
			PlayerName: playerName,
		})
		if err != nil {
			emitStoreError(client, playerID, "CHAT", err)
			return
		}

		last := state.ChatMessages[len(state.ChatMessages)-1]
		sio.Sio_server.To(socket.Room(gameID)).Emit("chat_message", last)
	}
}

// joinedGame resolves which game this socket joined, rejecting events
// sent before join_game.
func joinedGame(client *socket.Socket, sio *socketio_types.SocketServer, playerID string) (string, bool) {
	gameID, exists := sio.GetPlayerGame(playerID)
	if !exists {
		client.Emit("error", gin.H{"error": "join a game first"})
		return "", false
	}
	return gameID, true
}

// emitStoreError translates store errors into client events without
// leaking backend details.
func emitStoreError(client *socket.Socket, playerID, tag string, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		client.Emit("error", gin.H{"error": "session not found or expired"})
	case errors.Is(err, session.ErrNotGameMaster):
		client.Emit("error", gin.H{"error": "only the game master may do this"})
	case errors.Is(err, session.ErrValidation):
		client.Emit("error", gin.H{"error": err.Error()})
	default:
		log.Printf("[%s-ERROR] Player %s: %v", tag, playerID, err)
		client.Emit("error", gin.H{"error": "something went wrong, try again"})
	}
}
