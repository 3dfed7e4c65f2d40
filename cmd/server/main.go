package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "lowbid/docs"
	"lowbid/internal/cache"
	"lowbid/internal/config"
	"lowbid/internal/repository"
	"lowbid/internal/service"
	"lowbid/internal/transport/rest"
	"lowbid/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title Lowbid Auction API
// @version 1.0
// @description Lowest-unique-bid card auction rooms
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()
	cfg := config.Load()

	// Archive stores are optional; nil interfaces switch that half off
	var results repository.ResultRepo
	var leaderboard cache.LeaderboardCache

	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer mongoClient.Disconnect(context.Background())

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = mongoClient.Ping(pingCtx, nil)
		cancel()
		if err != nil {
			log.Fatal("Failed to ping MongoDB:", err)
		}
		log.Println("Connected to MongoDB")

		repo := repository.NewResultRepo(mongoClient.Database(cfg.MongoDB))
		repo.EnsureIndexes(ctx)
		results = repo
	} else {
		log.Println("Warning: MONGO_URI not set, game results will not be archived")
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")

		leaderboard = cache.NewLeaderboardCache(rdb)
	} else {
		log.Println("Warning: REDIS_URI not set, leaderboards are disabled")
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.TokenTTL)
	archiveSvc := service.NewArchiveService(results, leaderboard, cfg.ArchiveTimeout)
	roomSvc := service.NewRoomService(cfg.StartingBalance)

	// wsHub implements service.Broadcaster, archiveSvc implements service.Recorder
	roomSvc.SetBroadcaster(wsHub)
	roomSvc.SetRecorder(archiveSvc)

	archiveCtx, stopArchive := context.WithCancel(ctx)
	archiveDone := make(chan struct{})
	go func() {
		archiveSvc.Run(archiveCtx)
		close(archiveDone)
	}()

	router := rest.NewRouter(&rest.Container{
		AuthService:    authSvc,
		RoomService:    roomSvc,
		ArchiveService: archiveSvc,
		WSHub:          wsHub,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Printf("Starting balance: %d garnets", cfg.StartingBalance)
		log.Println("Endpoints:")
		log.Println("  WS   /v1/ws")
		log.Println("  GET  /v1/rooms")
		log.Println("  GET  /v1/rooms/{code}")
		log.Println("  POST /v1/rooms/{code}/start")
		log.Println("  POST /v1/rooms/{code}/resolve")
		log.Println("  GET  /v1/rooms/{code}/results")
		log.Println("  GET  /v1/leaderboard")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	stopArchive()
	<-archiveDone

	log.Println("Server exited")
}
