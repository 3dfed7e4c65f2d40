package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lowbid/internal/cache"
	"lowbid/internal/game"
	"lowbid/internal/model"
	"lowbid/internal/repository"
)

var ErrArchiveDisabled = errors.New("archive storage is not configured")

const archiveQueueSize = 64

// ArchiveService stores finished games off the command path. Either store
// may be nil, in which case that half of the archive is skipped.
type ArchiveService struct {
	results     repository.ResultRepo
	leaderboard cache.LeaderboardCache
	timeout     time.Duration
	queue       chan *model.GameResult
}

// NewArchiveService creates a new archive service
func NewArchiveService(results repository.ResultRepo, leaderboard cache.LeaderboardCache, timeout time.Duration) *ArchiveService {
	return &ArchiveService{
		results:     results,
		leaderboard: leaderboard,
		timeout:     timeout,
		queue:       make(chan *model.GameResult, archiveQueueSize),
	}
}

// Enabled reports whether any store is configured
func (s *ArchiveService) Enabled() bool {
	return s.results != nil || s.leaderboard != nil
}

// RecordGame queues a finished game (implements Recorder). It never blocks;
// results are dropped when the queue is full.
func (s *ArchiveService) RecordGame(result *model.GameResult) {
	if !s.Enabled() {
		return
	}
	select {
	case s.queue <- result:
	default:
		log.Printf("Archive queue full, dropping result for room %s", result.RoomCode)
	}
}

// Run drains the queue until ctx is cancelled, then stores whatever is
// still queued.
func (s *ArchiveService) Run(ctx context.Context) {
	for {
		select {
		case result := <-s.queue:
			s.storeLogged(result)
		case <-ctx.Done():
			for {
				select {
				case result := <-s.queue:
					s.storeLogged(result)
				default:
					return
				}
			}
		}
	}
}

func (s *ArchiveService) storeLogged(result *model.GameResult) {
	if err := s.store(result); err != nil {
		log.Printf("Failed to archive game %s for room %s: %v", result.ID, result.RoomCode, err)
		return
	}
	log.Printf("Archived game %s for room %s", result.ID, result.RoomCode)
}

func (s *ArchiveService) store(result *model.GameResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if s.results != nil {
		if err := s.results.Save(ctx, result); err != nil {
			return fmt.Errorf("failed to save result: %w", err)
		}
	}
	if s.leaderboard == nil {
		return nil
	}
	if err := s.leaderboard.SaveStandings(ctx, result.RoomCode, result.Ranking); err != nil {
		return fmt.Errorf("failed to save standings: %w", err)
	}
	for _, name := range winners(result) {
		if err := s.leaderboard.RecordWin(ctx, name); err != nil {
			return fmt.Errorf("failed to record win: %w", err)
		}
	}
	return nil
}

// winners are the players sharing the best score of a game that ran its
// whole deck. Abandoned games award no wins.
func winners(result *model.GameResult) []string {
	if result.Reason != string(game.EndDeckExhausted) || len(result.Ranking) == 0 {
		return nil
	}
	best := result.Ranking[0].Score
	var names []string
	for _, st := range result.Ranking {
		if st.Score != best {
			break
		}
		names = append(names, st.Username)
	}
	return names
}

// ResultsForRoom lists archived games played under a room code
func (s *ArchiveService) ResultsForRoom(ctx context.Context, roomCode string, limit int64) ([]model.GameResult, error) {
	if s.results == nil {
		return nil, ErrArchiveDisabled
	}
	return s.results.ListByRoom(ctx, NormalizeCode(roomCode), limit)
}

// RoomStandings returns the cached final standings of a room
func (s *ArchiveService) RoomStandings(ctx context.Context, roomCode string, limit int) ([]cache.LeaderboardEntry, error) {
	if s.leaderboard == nil {
		return nil, ErrArchiveDisabled
	}
	return s.leaderboard.GetStandings(ctx, NormalizeCode(roomCode), limit)
}

// TopWinners returns usernames with the most won games
func (s *ArchiveService) TopWinners(ctx context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	if s.leaderboard == nil {
		return nil, ErrArchiveDisabled
	}
	return s.leaderboard.TopWinners(ctx, limit)
}
