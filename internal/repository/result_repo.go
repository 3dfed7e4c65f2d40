package repository

import (
	"context"
	"log"

	"lowbid/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResultRepo handles MongoDB operations for finished games
type ResultRepo interface {
	Save(ctx context.Context, result *model.GameResult) error
	ListByRoom(ctx context.Context, roomCode string, limit int64) ([]model.GameResult, error)
	EnsureIndexes(ctx context.Context)
}

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new result repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("game_results"),
	}
}

func (r *resultRepo) Save(ctx context.Context, result *model.GameResult) error {
	_, err := r.collection.InsertOne(ctx, result)
	return err
}

// ListByRoom returns the most recent results for a room code first.
// Codes are reused once a room closes, so one code may hold several games.
func (r *resultRepo) ListByRoom(ctx context.Context, roomCode string, limit int64) ([]model.GameResult, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "endedAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"roomCode": roomCode}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []model.GameResult{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepo) EnsureIndexes(ctx context.Context) {
	keys := bson.D{
		{Key: "roomCode", Value: 1},
		{Key: "endedAt", Value: -1},
	}
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: options.Index()})
	if err != nil {
		log.Printf("Warning: failed to create index on %s: %v", r.collection.Name(), err)
		return
	}
	log.Println("Result indexes ensured")
}
