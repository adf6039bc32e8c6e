package main

import (
	"context"
	"log"
	rawrand "math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rtladder/engine/gamehost"
	"rtladder/engine/ladder"
	"rtladder/engine/notifications"
	"rtladder/engine/repositories"
	"rtladder/pkg/config"
	"rtladder/pkg/database"
	"rtladder/pkg/logger"
	"rtladder/pkg/redis"

	"github.com/go-co-op/gocron/v2"
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

	// Runs the migrations.
	rawDb, err := db.DB()
	if err != nil {
		log.Fatalf("Couldn't get raw db connection: %v", err)
	}

	if err := database.RunMigrations(cfg, rawDb); err != nil {
		log.Fatal(err)
	}

	engineLogger, err := logger.CreateLogger()
	if err != nil {
		log.Fatalf("Couldn't create the logger: %v", err)
	}

	redisClient := redis.GetClient(cfg.Redis)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := ladder.NewEngine(&ladder.EngineDeps{
		GameHost: gamehost.NewClient(cfg.GameHost),
		Players:  repositories.NewPlayerRepository(db),
		Matches:  repositories.NewMatchRepository(db),
		Notifier: notifications.NewRedisPublisher(redisClient),
		Logger:   engineLogger,
		Rand:     rawrand.New(rawrand.NewSource(time.Now().UnixNano())),
		Ladder:   cfg.Ladder,
	})
	runner := ladder.NewRunner(engine, engineLogger)

	// Operator control channel (pause/resume) from the Discord side.
	controlSub := redisClient.Subscribe(ctx, notifications.ChannelControl)
	defer controlSub.Close()
	go func() {
		for message := range controlSub.Channel() {
			runner.HandleControl(message.Payload)
		}
	}()

	log.Println("Starting engine scheduler.")

	// Create a new scheduler with options.
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Register the ladder tick - once per minute, never overlapping.
	_, err = s.NewJob(
		gocron.DurationJob(cfg.Ladder.TickInterval),
		gocron.NewTask(func() {
			runner.Tick(ctx)
		}),
		gocron.WithName("rtl-engine"),
		gocron.WithTags("ladder"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Fatalf("Failed to create engine tick job: %v", err)
	}

	// Register the log shipping job - once per day at 4:00 AM.
	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(4, 0, 0),
			),
		),
		gocron.NewTask(func() {
			objectKey := "engine/" + time.Now().UTC().Format("2006-01-02") + ".log"
			if err := engineLogger.UploadToS3Bucket(cfg.Bucket, objectKey); err != nil {
				log.Printf("Couldn't upload the logs: %v", err)
			}
		}),
		gocron.WithName("log-upload"),
		gocron.WithTags("logs"),
	)
	if err != nil {
		log.Fatalf("Failed to create log upload job: %v", err)
	}

	// Start the scheduler.
	s.Start()

	defer func() {
		// Shutdown the scheduler when main() exits.
		if err := s.Shutdown(); err != nil {
			log.Printf("Error shutting down scheduler: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for termination signal.
	<-sigChan
	log.Println("Shutting down engine...")
}
