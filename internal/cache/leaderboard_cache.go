package cache

import (
	"context"
	"fmt"
	"time"

	"lowbid/internal/model"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for rankings
type LeaderboardCache interface {
	SaveStandings(ctx context.Context, roomCode string, ranking []model.Standing) error
	GetStandings(ctx context.Context, roomCode string, limit int) ([]LeaderboardEntry, error)
	RecordWin(ctx context.Context, username string) error
	TopWinners(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	PlayerID string `json:"playerId,omitempty"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

const winsKey = "leaderboard:wins"

type leaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
		ttl:    24 * time.Hour, // room standings expire after 24h
	}
}

func (c *leaderboardCache) key(roomCode string) string {
	return fmt.Sprintf("room:%s:lb", roomCode)
}

func (c *leaderboardCache) namesKey(roomCode string) string {
	return fmt.Sprintf("room:%s:names", roomCode)
}

// SaveStandings replaces a room's final standings. Lower score ranks higher.
func (c *leaderboardCache) SaveStandings(ctx context.Context, roomCode string, ranking []model.Standing) error {
	if len(ranking) == 0 {
		return nil
	}
	members := make([]redis.Z, len(ranking))
	names := make(map[string]interface{}, len(ranking))
	for i, st := range ranking {
		members[i] = redis.Z{Score: float64(st.Score), Member: st.ID}
		names[st.ID] = st.Username
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key(roomCode), c.namesKey(roomCode))
		pipe.ZAdd(ctx, c.key(roomCode), members...)
		pipe.HSet(ctx, c.namesKey(roomCode), names)
		pipe.Expire(ctx, c.key(roomCode), c.ttl)
		pipe.Expire(ctx, c.namesKey(roomCode), c.ttl)
		return nil
	})
	return err
}

func (c *leaderboardCache) GetStandings(ctx context.Context, roomCode string, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRangeWithScores(ctx, c.key(roomCode), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return []LeaderboardEntry{}, nil
	}

	ids := make([]string, len(results))
	for i, z := range results {
		ids[i] = z.Member.(string)
	}
	names, err := c.client.HMGet(ctx, c.namesKey(roomCode), ids...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		name, _ := names[i].(string)
		entries[i] = LeaderboardEntry{
			PlayerID: ids[i],
			Username: name,
			Score:    int(z.Score),
			Rank:     i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) RecordWin(ctx context.Context, username string) error {
	return c.client.ZIncrBy(ctx, winsKey, 1, username).Err()
}

func (c *leaderboardCache) TopWinners(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, winsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			Username: z.Member.(string),
			Score:    int(z.Score),
			Rank:     i + 1,
		}
	}
	return entries, nil
}
