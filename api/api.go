package main

import (
	"log"
	"os"

	"rtladder/api/handlers"
	"rtladder/api/routes"
	"rtladder/api/services"
	"rtladder/engine/gamehost"
	"rtladder/pkg/config"
	"rtladder/pkg/database"
	"rtladder/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load the environment variables if not running on Docker.
	if os.Getenv("ENVIRONMENT") != "docker" {
		if err := godotenv.Load(); err != nil {
			log.Fatal("Error loading .env file")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Couldn't initialize the configuration: %v", err)
	}

	db, err := database.NewConnection(cfg.Database.DSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := redis.GetClient(cfg.Redis)
	defer redisClient.Close()

	// Initialize the services.
	ladderService := services.NewLadderService(&services.LadderServiceDeps{
		DB:        db,
		GameHost:  gamehost.NewClient(cfg.GameHost),
		Redis:     redisClient,
		Templates: cfg.Ladder.Templates,
	})

	// Initialize the handlers.
	ladderHandler := handlers.NewLadderHandler(ladderService)
	playerHandler := handlers.NewPlayerHandler(ladderService)

	// Create a new router with the routes setup.
	router := routes.NewRouter(gin.Default())
	router.SetupRoutes(
		ladderHandler,
		playerHandler,
	)

	// Start the server.
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("Couldn't start the server: %v", err)
	}
}
