package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"lowbid/internal/cache"
	"lowbid/internal/config"
	"lowbid/internal/repository"
	"lowbid/internal/service"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// seed plays a few bot games through the room service so the results
// and leaderboard endpoints have data in development.
func main() {
	cfg := config.Load()
	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://localhost:27017"
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to ping Redis: %v", err)
	}

	results := repository.NewResultRepo(client.Database(cfg.MongoDB))
	results.EnsureIndexes(ctx)
	archive := service.NewArchiveService(results, cache.NewLeaderboardCache(rdb), cfg.ArchiveTimeout)

	rooms := service.NewRoomService(cfg.StartingBalance)
	rooms.SetRecorder(archive)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	bots := []string{"Ada", "Brutus", "Cleo", "Dario"}

	const games = 3
	for g := 0; g < games; g++ {
		code, err := playBotGame(rooms, rng, bots, g)
		if err != nil {
			log.Fatalf("Bot game %d failed: %v", g+1, err)
		}
		fmt.Printf("Played bot game %d in room %s\n", g+1, code)
	}

	// Finished games are queued; cancelling drains them before Run returns
	runCtx, stop := context.WithCancel(ctx)
	stop()
	archive.Run(runCtx)

	fmt.Printf("Successfully archived %d games\n", games)
}

func playBotGame(rooms *service.RoomService, rng *rand.Rand, bots []string, game int) (string, error) {
	ids := make([]string, len(bots))
	for i := range bots {
		ids[i] = fmt.Sprintf("seed-%d-%d", game, i)
	}

	view, err := rooms.CreateRoom(ids[0], bots[0], len(bots))
	if err != nil {
		return "", err
	}
	code := view.RoomCode
	defer func() {
		for _, id := range ids {
			rooms.Disconnect(id)
		}
	}()

	for i := 1; i < len(bots); i++ {
		if _, err := rooms.JoinRoom(ids[i], code, bots[i]); err != nil {
			return code, err
		}
	}
	if err := rooms.StartGame(ids[0], code); err != nil {
		return code, err
	}

	for {
		view, err := rooms.GetRoom(code)
		if err != nil {
			return code, err
		}
		if view.Session.IsOver {
			return code, nil
		}
		for _, id := range ids {
			balance := view.Session.Players[id].Balance
			// bots sit out now and then, and never bid when broke
			if balance == 0 || rng.Intn(4) == 0 {
				continue
			}
			if err := rooms.PlaceBid(id, code, 1+rng.Intn(min(balance, 4))); err != nil {
				return code, err
			}
		}
		if err := rooms.ResolveAuction(ids[0], code); err != nil {
			return code, err
		}
	}
}
