package utils

import (
	redis_models "jdr/models/redis"
	"jdr/services/session"
)

// CheckGameExists resolves a game code to its state, or the store's
// not-found error when the session expired or never existed.
func CheckGameExists(store *session.Store, gameID string) (*redis_models.GameState, error) {
	return store.ReadSession(gameID)
}

// IsGameMaster reports whether the player id owns the session.
func IsGameMaster(state *redis_models.GameState, playerID string) bool {
	return state.GMID == playerID
}

// IsPlayerInGame reports whether the player id appears in the roster.
func IsPlayerInGame(state *redis_models.GameState, playerID string) bool {
	for _, p := range state.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}
