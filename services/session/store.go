package session

import (
	game_constants "jdr/constants/game"
	redis_models "jdr/models/redis"
	redis_service "jdr/services/redis"

	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Storage is the key-value backend the store persists snapshots to.
// *redis.RedisClient satisfies it; tests substitute an in-memory fake.
type Storage interface {
	SaveGameState(state *redis_models.GameState) error
	GetGameState(gameID string) (*redis_models.GameState, error)
	GameExists(gameID string) (bool, error)
	DeleteGameState(gameID string) error
}

// Store owns the authoritative GameState snapshots for running
// sessions. All mutations go through a per-game write serializer, so a
// read-modify-write cycle for one session never interleaves with
// another inside this process. Across processes the snapshots remain
// whole-state last-writer-wins.
type Store struct {
	storage Storage
	writes  *WriteSerializer
}

func NewStore(storage Storage) *Store {
	return &Store{
		storage: storage,
		writes:  NewWriteSerializer(),
	}
}

// CreateSession allocates a unique game code, seeds the default state
// with the GM as sole roster entry and persists it with the session TTL.
func (s *Store) CreateSession(gmID, gmName string) (string, *redis_models.GameState, error) {
	if gmID == "" || gmName == "" {
		return "", nil, fmt.Errorf("%w: gmId and gmName are required", ErrValidation)
	}

	for attempt := 0; attempt < game_constants.MaxCodeAttempts; attempt++ {
		code, err := GenerateGameCode(game_constants.GameCodeLength)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrCodeGeneration, err)
		}

		exists, err := s.storage.GameExists(code)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		if exists {
			continue
		}

		now := time.Now().UnixMilli()
		state := &redis_models.GameState{
			ID:          code,
			Title:       fmt.Sprintf("Partie de %s", gmName),
			CreatedAt:   now,
			LastUpdated: now,
			GMID:        gmID,
			Players: []redis_models.Player{{
				ID:       gmID,
				Name:     gmName,
				IsGM:     true,
				Color:    game_constants.GMColor,
				LastSeen: now,
			}},
			Scene: redis_models.Scene{
				GridEnabled: false,
				GridSize:    game_constants.DefaultGridSize,
				Zoom:        game_constants.DefaultZoom,
			},
			Characters:   []redis_models.Character{},
			NPCs:         []redis_models.Character{},
			Tokens:       []redis_models.Token{},
			DiceRolls:    []redis_models.DiceRoll{},
			Drawings:     []redis_models.DrawingPath{},
			ChatMessages: []redis_models.ChatMessage{},
		}

		if err := s.storage.SaveGameState(state); err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		return code, state, nil
	}

	return "", nil, fmt.Errorf("%w after %d attempts", ErrCodeGeneration, game_constants.MaxCodeAttempts)
}

// ReadSession returns the current snapshot for a game code.
func (s *Store) ReadSession(gameID string) (*redis_models.GameState, error) {
	state, err := s.storage.GetGameState(gameID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	return state, nil
}

// WriteSession overwrites the full snapshot. The stored id, creation
// time and GM identity survive whatever the caller sent, the roster is
// normalized back to its invariants, lastUpdated is bumped and the TTL
// restarts with the write.
func (s *Store) WriteSession(gameID string, state *redis_models.GameState) (*redis_models.GameState, error) {
	return s.Update(gameID, func(current *redis_models.GameState) error {
		id, createdAt, gmID := current.ID, current.CreatedAt, current.GMID
		var gmEntry *redis_models.Player
		for i := range current.Players {
			if current.Players[i].ID == gmID {
				entry := current.Players[i]
				gmEntry = &entry
				break
			}
		}
		*current = *state
		current.ID = id
		current.CreatedAt = createdAt
		current.GMID = gmID
		normalizeRoster(current, gmEntry)
		return nil
	})
}

// normalizeRoster re-establishes roster invariants after a full
// overwrite: one entry per player id, the GM entry flagged and colored
// as GM, nobody else carrying the flag. A snapshot that dropped the GM
// entirely gets the stored entry back.
func normalizeRoster(state *redis_models.GameState, gmEntry *redis_models.Player) {
	players := make([]redis_models.Player, 0, len(state.Players))
	seen := make(map[string]bool, len(state.Players))
	gmPresent := false
	for _, p := range state.Players {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		if p.ID == state.GMID {
			p.IsGM = true
			p.Color = game_constants.GMColor
			gmPresent = true
		} else {
			p.IsGM = false
		}
		players = append(players, p)
	}
	if !gmPresent && gmEntry != nil {
		players = append(players, *gmEntry)
	}
	state.Players = players
}

// Update runs a read-modify-write cycle for one session under its write
// lock. mutate sees the freshly loaded state; the result is persisted
// with lastUpdated bumped monotonically.
func (s *Store) Update(gameID string, mutate func(state *redis_models.GameState) error) (*redis_models.GameState, error) {
	var updated *redis_models.GameState
	err := s.writes.Do(gameID, func() error {
		state, err := s.storage.GetGameState(gameID)
		if err != nil {
			return mapStorageError(err)
		}
		if err := mutate(state); err != nil {
			return err
		}
		touch(state)
		if err := s.storage.SaveGameState(state); err != nil {
			return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		updated = state
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// JoinSession adds a player to the roster or, when the id is already
// known, refreshes the existing entry in place. The GM entry keeps its
// flag and color no matter what the client sent.
func (s *Store) JoinSession(gameID, playerID, playerName, color string) (*redis_models.GameState, error) {
	if playerID == "" || playerName == "" {
		return nil, fmt.Errorf("%w: playerId and playerName are required", ErrValidation)
	}
	return s.Update(gameID, func(state *redis_models.GameState) error {
		now := time.Now().UnixMilli()
		for i := range state.Players {
			if state.Players[i].ID != playerID {
				continue
			}
			state.Players[i].Name = playerName
			state.Players[i].LastSeen = now
			if !state.Players[i].IsGM && color != "" {
				state.Players[i].Color = color
			}
			return nil
		}
		state.Players = append(state.Players, redis_models.Player{
			ID:       playerID,
			Name:     playerName,
			IsGM:     false,
			Color:    color,
			LastSeen: now,
		})
		return nil
	})
}

// TouchPlayer refreshes a roster entry's lastSeen timestamp.
func (s *Store) TouchPlayer(gameID, playerID string) (*redis_models.GameState, error) {
	return s.Update(gameID, func(state *redis_models.GameState) error {
		now := time.Now().UnixMilli()
		for i := range state.Players {
			if state.Players[i].ID == playerID {
				state.Players[i].LastSeen = now
				return nil
			}
		}
		return nil
	})
}

// PlaceToken adds a marker for a character or NPC on the scene.
func (s *Store) PlaceToken(gameID, entityID string, x, y float64) (*redis_models.GameState, error) {
	return s.Update(gameID, func(state *redis_models.GameState) error {
		state.Tokens = append(state.Tokens, redis_models.Token{
			ID:       uuid.NewString(),
			EntityID: entityID,
			X:        x,
			Y:        y,
		})
		return nil
	})
}

// MoveToken updates a token's position.
func (s *Store) MoveToken(gameID, tokenID string, x, y float64) (*redis_models.GameState, error) {
	return s.Update(gameID, func(state *redis_models.GameState) error {
		for i := range state.Tokens {
			if state.Tokens[i].ID == tokenID {
				state.Tokens[i].X = x
				state.Tokens[i].Y = y
				return nil
			}
		}
		return fmt.Errorf("%w: unknown token %s", ErrValidation, tokenID)
	})
}

// AddDrawing appends a stroke to the drawing collection, assigning its
// id and timestamp.
func (s *Store) AddDrawing(gameID, userID, color string, width float64, points []redis_models.Point) (*redis_models.GameState, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: a drawing needs at least one point", ErrValidation)
	}
	return s.Update(gameID, func(state *redis_models.GameState) error {
		state.Drawings = append(state.Drawings, redis_models.DrawingPath{
			ID:        uuid.NewString(),
			UserID:    userID,
			Color:     color,
			Width:     width,
			Points:    points,
			Timestamp: time.Now().UnixMilli(),
		})
		return nil
	})
}

// ClearDrawings empties the stroke collection. GM only; a non-GM caller
// gets ErrNotGameMaster and the collection is left untouched.
func (s *Store) ClearDrawings(gameID, playerID string) (*redis_models.GameState, error) {
	return s.Update(gameID, func(state *redis_models.GameState) error {
		if state.GMID != playerID {
			return ErrNotGameMaster
		}
		state.Drawings = []redis_models.DrawingPath{}
		return nil
	})
}

// AppendDiceRoll records a roll event in the append-only log.
func (s *Store) AppendDiceRoll(gameID string, roll redis_models.DiceRoll) (*redis_models.GameState, error) {
	return s.Update(gameID, func(state *redis_models.GameState) error {
		if roll.ID == "" {
			roll.ID = uuid.NewString()
		}
		if roll.Timestamp == 0 {
			roll.Timestamp = time.Now().UnixMilli()
		}
		state.DiceRolls = append(state.DiceRolls, roll)
		return nil
	})
}

// UpdateNotes replaces the shared notes field, last writer wins.
func (s *Store) UpdateNotes(gameID, notes string) (*redis_models.GameState, error) {
	return s.Update(gameID, func(state *redis_models.GameState) error {
		state.SharedNotes = notes
		return nil
	})
}

// UpdateScene replaces the active scene. Resetting to a different
// backdrop is a GM-only operation; adjusting view parameters on the
// current backdrop is open to everyone.
func (s *Store) UpdateScene(gameID, playerID string, scene redis_models.Scene) (*redis_models.GameState, error) {
	return s.Update(gameID, func(state *redis_models.GameState) error {
		if scene.ImageURL != state.Scene.ImageURL && state.GMID != playerID {
			return ErrNotGameMaster
		}
		state.Scene = scene
		return nil
	})
}

// SetTrack updates the ambient audio reference.
func (s *Store) SetTrack(gameID, track string) (*redis_models.GameState, error) {
	return s.Update(gameID, func(state *redis_models.GameState) error {
		state.CurrentTrack = track
		return nil
	})
}

// AddChatMessage appends to the chat log.
func (s *Store) AddChatMessage(gameID string, msg redis_models.ChatMessage) (*redis_models.GameState, error) {
	if msg.Message == "" {
		return nil, fmt.Errorf("%w: empty chat message", ErrValidation)
	}
	return s.Update(gameID, func(state *redis_models.GameState) error {
		if msg.Timestamp == 0 {
			msg.Timestamp = time.Now().UnixMilli()
		}
		state.ChatMessages = append(state.ChatMessages, msg)
		return nil
	})
}

// touch bumps lastUpdated, keeping it monotonically non-decreasing even
// if the wall clock steps backwards between writes.
func touch(state *redis_models.GameState) {
	now := time.Now().UnixMilli()
	if now <= state.LastUpdated {
		now = state.LastUpdated + 1
	}
	state.LastUpdated = now
}

func mapStorageError(err error) error {
	if errors.Is(err, redis_service.ErrGameNotFound) {
		return fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
