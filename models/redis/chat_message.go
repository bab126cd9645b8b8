package redis

// ChatMessage represents a message in the session chat
type ChatMessage struct {
	Message    string `json:"message"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Timestamp  int64  `json:"timestamp"`
}
