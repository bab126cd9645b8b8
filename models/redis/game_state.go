package redis

// GameState is the full shared state of one tabletop session. It is
// persisted as a single JSON snapshot under "jdr:game:{id}" and owned
// exclusively by the session store while the session is live.
type GameState struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	CreatedAt   int64  `json:"createdAt"`   // epoch milliseconds
	LastUpdated int64  `json:"lastUpdated"` // bumped on every mutation

	// GMID identifies the single game master. It is set at creation and
	// immutable for the session lifetime; the matching roster entry is
	// always IsGM=true.
	GMID    string   `json:"gmId"`
	Players []Player `json:"players"`

	Scene      Scene       `json:"scene"`
	Characters []Character `json:"characters"`
	NPCs       []Character `json:"npcs"`
	Tokens     []Token     `json:"tokens"`

	DiceRolls    []DiceRoll    `json:"diceRolls"`
	Drawings     []DrawingPath `json:"drawings"`
	ChatMessages []ChatMessage `json:"chatMessages"`

	SharedNotes  string `json:"sharedNotes"`
	CurrentTrack string `json:"currentTrack,omitempty"`
}

// Player is one roster entry, unique by ID. Rejoining with a known ID
// refreshes the existing entry instead of appending a duplicate.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsGM     bool   `json:"isGM"`
	Color    string `json:"color"`
	LastSeen int64  `json:"lastSeen"`
}

// Scene is the single active backdrop. No scene history is kept.
type Scene struct {
	Name        string  `json:"name"`
	ImageURL    string  `json:"imageUrl"`
	GridEnabled bool    `json:"gridEnabled"`
	GridSize    int     `json:"gridSize"`
	Zoom        float64 `json:"zoom"`
	OffsetX     float64 `json:"offsetX"`
	OffsetY     float64 `json:"offsetY"`
}

// Character is a game entity that tokens may reference. The same shape
// serves player characters and NPCs; identity is independent of any
// player id.
type Character struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Token is a draggable marker placed on the scene.
type Token struct {
	ID       string  `json:"id"`
	EntityID string  `json:"entityId"` // character or NPC id
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// DiceRoll is one entry in the append-only roll log.
type DiceRoll struct {
	ID         string `json:"id"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Expression string `json:"expression"`
	Values     []int  `json:"values"`
	Total      int    `json:"total"`
	Timestamp  int64  `json:"timestamp"`
}

// Point is a single coordinate of a drawing stroke.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawingPath is one freehand stroke. The collection is append-only and
// clearable only by the GM.
type DrawingPath struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Color     string  `json:"color"`
	Width     float64 `json:"width"`
	Points    []Point `json:"points"`
	Timestamp int64   `json:"timestamp"`
}
