package controllers

import (
	redis_models "jdr/models/redis"
	"jdr/services/dice"
	"jdr/services/session"
	"jdr/utils"

	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Ping responds to health checks.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// @Summary Creates a new game session
// @Description The caller becomes the game master of a freshly seeded session
// @Tags game
// @Accept json
// @Produce json
// @Success 200 {object} object{gameId=string,gameState=object}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /game/create [post]
func CreateGame(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			GMID   string `json:"gmId"`
			GMName string `json:"gmName"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.GMID == "" || req.GMName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gmId and gmName are required"})
			return
		}

		gameID, state, err := store.CreateSession(req.GMID, req.GMName)
		if err != nil {
			log.Printf("[CREATE-ERROR] %v", err)
			respondStoreError(c, err)
			return
		}

		rememberPlayer(c, req.GMID)

		log.Printf("[CREATE] Session %s created by %s", gameID, req.GMName)
		c.JSON(http.StatusOK, gin.H{"gameId": gameID, "gameState": state})
	}
}

// @Summary Gives the full state of a session
// @Description Returns the current GameState snapshot for a game code
// @Tags game
// @Produce json
// @Param code path string true "Game code"
// @Success 200 {object} object{}
// @Failure 404 {object} object{error=string}
// @Router /game/{code} [get]
func GetGame(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := store.ReadSession(c.Param("code"))
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// @Summary Overwrites the full session snapshot
// @Description Last-writer-wins replacement of the whole GameState
// @Tags game
// @Accept json
// @Produce json
// @Param code path string true "Game code"
// @Success 200 {object} object{}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /game/{code} [put]
func UpdateGame(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var state redis_models.GameState
		if err := c.ShouldBindJSON(&state); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game state payload"})
			return
		}

		updated, err := store.WriteSession(c.Param("code"), &state)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// @Summary Joins a player to a session
// @Description Adds the player to the roster, or refreshes it when rejoining
// @Tags game
// @Accept json
// @Produce json
// @Param code path string true "Game code"
// @Success 200 {object} object{}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /game/{code}/join [post]
func JoinGame(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PlayerID   string `json:"playerId"`
			PlayerName string `json:"playerName"`
			Color      string `json:"color"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "playerId and playerName are required"})
			return
		}

		state, err := store.JoinSession(c.Param("code"), req.PlayerID, req.PlayerName, req.Color)
		if err != nil {
			respondStoreError(c, err)
			return
		}

		rememberPlayer(c, req.PlayerID)
		c.JSON(http.StatusOK, state)
	}
}

// @Summary Rolls dice in a session
// @Description Evaluates the expression server-side and appends the outcome to the roll log
// @Tags game
// @Accept json
// @Produce json
// @Param code path string true "Game code"
// @Success 200 {object} object{roll=object,gameState=object}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /game/{code}/roll [post]
func RollDice(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PlayerID   string `json:"playerId"`
			PlayerName string `json:"playerName"`
			Expression string `json:"expression"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.PlayerID == "" || req.Expression == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "playerId and expression are required"})
			return
		}

		// Only roster members roll, same rule as the realtime path.
		current, err := utils.CheckGameExists(store, c.Param("code"))
		if err != nil {
			respondStoreError(c, err)
			return
		}
		if !utils.IsPlayerInGame(current, req.PlayerID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "join the session roster first"})
			return
		}

		result, err := dice.Roll(req.Expression)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dice expression"})
			return
		}

		roll := redis_models.DiceRoll{
			PlayerID:   req.PlayerID,
			PlayerName: req.PlayerName,
			Expression: result.Expression,
			Values:     result.Values,
			Total:      result.Total,
		}
		state, err := store.AppendDiceRoll(c.Param("code"), roll)
		if err != nil {
			respondStoreError(c, err)
			return
		}

		log.Printf("[ROLL] %s rolled %s in %s: %v", req.PlayerID, req.Expression, c.Param("code"), result.Values)
		c.JSON(http.StatusOK, gin.H{
			"roll":      state.DiceRolls[len(state.DiceRolls)-1],
			"gameState": state,
		})
	}
}

// @Summary Clears all drawing strokes
// @Description Game master only; other players get a 403 and the strokes stay
// @Tags game
// @Accept json
// @Produce json
// @Param code path string true "Game code"
// @Success 200 {object} object{}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /game/{code}/drawings [delete]
func ClearDrawings(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PlayerID string `json:"playerId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.PlayerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "playerId is required"})
			return
		}

		state, err := store.ClearDrawings(c.Param("code"), req.PlayerID)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, state)
	}
}

// rememberPlayer stores the caller's player id in the cookie session so
// a reloading client can be recognized without re-entering it.
func rememberPlayer(c *gin.Context, playerID string) {
	s := sessions.Default(c)
	s.Set("playerId", playerID)
	if err := s.Save(); err != nil {
		log.Printf("[SESSION-ERROR] saving cookie session: %v", err)
	}
}

// respondStoreError maps the session store error taxonomy onto HTTP
// statuses. Backend details never leak to the client.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found or expired"})
	case errors.Is(err, session.ErrNotGameMaster):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the game master may do this"})
	default:
		log.Printf("[STORE-ERROR] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
