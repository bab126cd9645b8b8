package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer is a struct that contains the socket.io server and a map of socket connections.
// It is used to handle socket.io connections.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track playerID -> socket connections
	UserConnections map[string]*socket.Socket
	// Map to track playerID -> the game code the player joined
	PlayerGames map[string]string
	mutex       sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		UserConnections: make(map[string]*socket.Socket),
		PlayerGames:     make(map[string]string),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(playerID string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[playerID] = client
}

func (s *SocketServer) RemoveConnection(playerID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.UserConnections, playerID)
	delete(s.PlayerGames, playerID)
}

func (s *SocketServer) GetConnection(playerID string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	client, exists := s.UserConnections[playerID]
	return client, exists
}

func (s *SocketServer) SetPlayerGame(playerID, gameID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.PlayerGames[playerID] = gameID
}

func (s *SocketServer) GetPlayerGame(playerID string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	gameID, exists := s.PlayerGames[playerID]
	return gameID, exists
}
