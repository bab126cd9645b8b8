package socket_io

import (
	"jdr/services/session"
	"jdr/services/socket_io/handlers"

	socketio_types "jdr/services/socket_io/types"
	socketio_utils "jdr/services/socket_io/utils"

	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// NewSocketServer returns a server with its connection and game maps
// initialized.
func NewSocketServer() *MySocketServer {
	return (*MySocketServer)(socketio_types.NewSocketServer())
}

// Start mounts the socket.io endpoint on the Gin router and wires the
// realtime event handlers. All state mutations issued here go through
// the session store, whose per-game write serializer makes this layer
// the single writer for each session inside the process.
func (sio *MySocketServer) Start(router *gin.Engine, store *session.Store) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		success, playerID, playerName := socketio_utils.VerifyPlayerConnection(client)
		if !success {
			return
		}

		(*socketio_types.SocketServer)(sio).AddConnection(playerID, client)
		log.Printf("[CONN] Player connected: %s (%s)", playerID, playerName)

		// Join the socket to a room corresponding to a game session
		client.On("join_game", handlers.HandleJoinGame(store, client, playerID, playerName, (*socketio_types.SocketServer)(sio)))

		// Scene and board mutations
		client.On("place_token", handlers.HandlePlaceToken(store, client, playerID, (*socketio_types.SocketServer)(sio)))
		client.On("move_token", handlers.HandleMoveToken(store, client, playerID, (*socketio_types.SocketServer)(sio)))
		client.On("update_scene", handlers.HandleUpdateScene(store, client, playerID, (*socketio_types.SocketServer)(sio)))

		// Shared drawing layer
		client.On("add_drawing", handlers.HandleAddDrawing(store, client, playerID, (*socketio_types.SocketServer)(sio)))
		client.On("clear_drawings", handlers.HandleClearDrawings(store, client, playerID, (*socketio_types.SocketServer)(sio)))

		// Notes, ambient audio and chat
		client.On("update_notes", handlers.HandleUpdateNotes(store, client, playerID, (*socketio_types.SocketServer)(sio)))
		client.On("set_track", handlers.HandleSetTrack(store, client, playerID, (*socketio_types.SocketServer)(sio)))
		client.On("chat_message", handlers.HandleChatMessage(store, client, playerID, playerName, (*socketio_types.SocketServer)(sio)))

		// Server-authoritative dice rolls
		client.On("roll_dice", handlers.HandleRollDice(store, client, playerID, playerName, (*socketio_types.SocketServer)(sio)))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(store, playerID, (*socketio_types.SocketServer)(sio)))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	log.Println("Socket server started")
}

// Close shuts the socket.io server down.
func (sio *MySocketServer) Close() {
	if sio.Sio_server != nil {
		sio.Sio_server.Close(nil)
	}
}
