package handlers

import (
	redis_models "jdr/models/redis"
	"jdr/services/dice"
	"jdr/services/session"
	socketio_types "jdr/services/socket_io/types"
	"jdr/utils"

	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandleRollDice decides the outcome server-side before anyone animates
// anything: the roller evaluates the expression, the result lands in
// the append-only roll log, and clients receive the final values to
// animate toward. The physics animation is cosmetic and cannot change
// the number.
func HandleRollDice(store *session.Store, client *socket.Socket,
	playerID, playerName string, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		gameID, ok := joinedGame(client, sio, playerID)
		if !ok {
			return
		}

		arg, err := firstArg(args)
		if err != nil {
			client.Emit("error", gin.H{"error": "dice expression is required"})
			return
		}
		var req struct {
			Expression string `json:"expression"`
		}
		if err := decodeArg(arg, &req); err != nil || req.Expression == "" {
			client.Emit("error", gin.H{"error": "dice expression is required"})
			return
		}

		current, err := utils.CheckGameExists(store, gameID)
		if err != nil {
			emitStoreError(client, playerID, "ROLL", err)
			return
		}
		if !utils.IsPlayerInGame(current, playerID) {
			client.Emit("error", gin.H{"error": "join the session roster first"})
			return
		}

		result, err := dice.Roll(req.Expression)
		if err != nil {
			client.Emit("error", gin.H{"error": "invalid dice expression"})
			return
		}

		state, err := store.AppendDiceRoll(gameID, redis_models.DiceRoll{
			PlayerID:   playerID,
			PlayerName: playerName,
			Expression: result.Expression,
			Values:     result.Values,
			Total:      result.Total,
		})
		if err != nil {
			emitStoreError(client, playerID, "ROLL", err)
			return
		}

		roll := state.DiceRolls[len(state.DiceRolls)-1]
		log.Printf("[ROLL] %s rolled %s in %s: %v", playerID, req.Expression, gameID, result.Values)
		sio.Sio_server.To(socket.Room(gameID)).Emit("dice_rolled", gin.H{
			"roll":      roll,
			"gameState": state,
		})
	}
}
