package main

import (
	"jdr/config"
	"jdr/middleware"
	"jdr/routes"
	"jdr/services/session"
	"jdr/services/socket_io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional, real deployments set the variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to Redis
	connector := config.NewRedisConnector()
	redisClient, err := connector.Client()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer connector.Close()

	store := session.NewStore(redisClient)

	r := gin.Default()
	middleware.SetUpMiddleware(r)

	routes.SetupRoutes(r, store)

	sio := socket_io.NewSocketServer()
	sio.Start(r, store)

	SignalC := make(chan os.Signal, 1)
	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for range SignalC {
			sio.Close()
			os.Exit(0)
		}
	}()

	// Configure port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	log.Printf("Server started on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
