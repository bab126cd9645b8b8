package routes

import (
	"jdr/controllers"
	"jdr/services/session"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, store *session.Store) {
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	game := api.Group("/game")
	{
		game.POST("/create", controllers.CreateGame(store))

		game.GET("/:code", controllers.GetGame(store))

		game.PUT("/:code", controllers.UpdateGame(store))

		game.POST("/:code/join", controllers.JoinGame(store))

		game.POST("/:code/roll", controllers.RollDice(store))

		game.DELETE("/:code/drawings", controllers.ClearDrawings(store))
	}
}
