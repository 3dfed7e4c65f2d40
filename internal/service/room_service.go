package service

import (
	"crypto/rand"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"lowbid/internal/game"
	"lowbid/internal/model"
	"lowbid/internal/room"

	"github.com/google/uuid"
)

const maxUsernameLen = 24

// Recorder receives finished games. Implementations must not block.
type Recorder interface {
	RecordGame(result *model.GameResult)
}

type roomEntry struct {
	mu   sync.Mutex
	room *room.Room
}

// RoomService is the process-wide room table. Membership changes take the
// table write lock; game commands take the read lock plus the room's own
// lock, so commands for one room never interleave.
type RoomService struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry
	conns map[string]string // connection id -> room code

	startingBalance int
	newCode         func() (string, error)

	broadcaster Broadcaster
	recorder    Recorder
}

// NewRoomService creates a new room service
func NewRoomService(startingBalance int) *RoomService {
	return &RoomService{
		rooms:           make(map[string]*roomEntry),
		conns:           make(map[string]string),
		startingBalance: startingBalance,
		newCode:         generateRoomCode,
	}
}

// SetBroadcaster sets the broadcaster for outbound messages
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetRecorder sets the sink for finished games
func (s *RoomService) SetRecorder(r Recorder) {
	s.recorder = r
}

// CreateRoom opens a room with the caller as its only member and host
func (s *RoomService) CreateRoom(connID, username string, maxPlayers int) (*model.RoomView, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return nil, err
	}
	if !room.ValidCapacity(maxPlayers) {
		return nil, room.ErrInvalidCapacity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conns[connID]; ok {
		return nil, ErrAlreadyInRoom
	}
	code, err := s.uniqueCode()
	if err != nil {
		return nil, err
	}
	r, err := room.New(code, maxPlayers, model.Member{ID: connID, Username: username})
	if err != nil {
		return nil, err
	}
	s.rooms[code] = &roomEntry{room: r}
	s.conns[connID] = code

	log.Printf("Room %s created by %s (%s), capacity %d", code, username, connID, maxPlayers)

	view := r.View()
	s.send(connID, MsgRoomCreated, view)
	s.broadcast(r, MsgRoomUpdate, view)
	return view, nil
}

// JoinRoom adds the caller to an existing room
func (s *RoomService) JoinRoom(connID, code, username string) (*model.RoomView, error) {
	username, err := cleanUsername(username)
	if err != nil {
		return nil, err
	}
	code = NormalizeCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conns[connID]; ok {
		return nil, ErrAlreadyInRoom
	}
	e, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	r := e.room
	if err := r.Join(model.Member{ID: connID, Username: username}); err != nil {
		return nil, err
	}
	s.conns[connID] = code

	log.Printf("Player %s (%s) joined room %s", username, connID, code)

	view := r.View()
	s.send(connID, MsgJoinedRoom, view)
	s.broadcast(r, MsgRoomUpdate, view)
	return view, nil
}

// StartGame starts the room's session. Only the host may start it.
func (s *RoomService) StartGame(connID, code string) error {
	return s.withRoom(code, func(r *room.Room) error {
		events, err := r.Start(connID, s.startingBalance)
		if err != nil {
			return err
		}
		log.Printf("Game started in room %s with %d players", r.Code, len(r.Members))

		s.broadcast(r, MsgGameStarted, struct{}{})
		s.publish(r, events)
		s.broadcast(r, MsgRoomUpdate, r.View())
		return nil
	})
}

// PlaceBid records the caller's bid in the open round
func (s *RoomService) PlaceBid(connID, code string, amount int) error {
	return s.withRoom(code, func(r *room.Room) error {
		events, err := r.Bid(connID, amount)
		if err != nil {
			return err
		}
		s.publish(r, events)
		return nil
	})
}

// ResolveAuction closes the open round and moves to the next card
func (s *RoomService) ResolveAuction(connID, code string) error {
	return s.withRoom(code, func(r *room.Room) error {
		events, err := r.Resolve(connID)
		if err != nil {
			return err
		}
		s.publish(r, events)
		return nil
	})
}

// Disconnect removes a lost connection from its room, if any
func (s *RoomService) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.conns[connID]
	if !ok {
		return
	}
	delete(s.conns, connID)
	e, ok := s.rooms[code]
	if !ok {
		return
	}
	r := e.room

	res, err := r.Leave(connID)
	if err != nil {
		log.Printf("Disconnect of %s from room %s: %v", connID, code, err)
		return
	}
	log.Printf("Player %s left room %s", connID, code)

	if res.Empty {
		delete(s.rooms, code)
		log.Printf("Room %s deleted as it has no members", code)
		return
	}

	s.broadcast(r, MsgMemberListUpdate, map[string]interface{}{"members": r.MemberList()})
	if res.HostChanged {
		log.Printf("Host of room %s transferred to %s", code, r.HostID)
		s.broadcast(r, MsgHostChanged, map[string]string{"hostId": r.HostID})
	}
	if len(res.GameEvents) > 0 {
		s.publish(r, res.GameEvents)
	}
	s.broadcast(r, MsgRoomUpdate, r.View())
}

// GetRoom returns the current view of a room
func (s *RoomService) GetRoom(code string) (*model.RoomView, error) {
	var view *model.RoomView
	err := s.withRoom(code, func(r *room.Room) error {
		view = r.View()
		return nil
	})
	return view, err
}

// ListRooms returns every open room, oldest first
func (s *RoomService) ListRooms() []model.RoomSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RoomSummary, 0, len(s.rooms))
	for _, e := range s.rooms {
		e.mu.Lock()
		out = append(out, e.room.Summary())
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].RoomCode < out[j].RoomCode
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// RoomOf returns the code of the room holding a connection
func (s *RoomService) RoomOf(connID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.conns[connID]
	return code, ok
}

// NormalizeCode makes room codes case-insensitive
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *RoomService) withRoom(code string, fn func(r *room.Room) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.rooms[NormalizeCode(code)]
	if !ok {
		return ErrRoomNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.room)
}

// publish fans out session events in the order they happened
func (s *RoomService) publish(r *room.Room, events []game.Event) {
	for _, ev := range events {
		if ev.Outcome != nil {
			logOutcome(r.Code, ev.Outcome)
		}
		s.broadcast(r, MsgSessionUpdate, ev.Snapshot)
		if ev.Kind == game.EventGameEnded {
			s.broadcast(r, MsgGameEnded, ev.Snapshot)
			s.record(r)
		}
	}
}

func (s *RoomService) record(r *room.Room) {
	sess := r.Session
	log.Printf("Game in room %s ended after %d rounds (%s)", r.Code, sess.Round(), sess.EndReason())
	if s.recorder == nil {
		return
	}
	s.recorder.RecordGame(&model.GameResult{
		ID:        uuid.New().String(),
		RoomCode:  r.Code,
		Rounds:    sess.Round(),
		Reason:    string(sess.EndReason()),
		Ranking:   sess.Ranking(),
		Log:       sess.Log(),
		StartedAt: r.StartedAt,
		EndedAt:   time.Now(),
	})
}

func (s *RoomService) send(connID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.SendToConnection(connID, msgType, payload)
	}
}

func (s *RoomService) broadcast(r *room.Room, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToConnections(r.MemberIDs(), msgType, payload)
	}
}

func (s *RoomService) uniqueCode() (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		if _, taken := s.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", ErrRoomCodeExhausted
}

func logOutcome(code string, out *game.Outcome) {
	switch out.Kind {
	case game.OutcomeWon:
		log.Printf("Room %s: card %d won by %s for %d", code, out.CardValue, out.Winner, out.Bid)
	case game.OutcomeTied:
		log.Printf("Room %s: card %d voided, %d players tied at %d", code, out.CardValue, len(out.Tied), out.Bid)
	default:
		log.Printf("Room %s: card %d discarded, no bids", code, out.CardValue)
	}
}

func cleanUsername(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxUsernameLen {
		return "", ErrInvalidUsername
	}
	return name, nil
}

// generateRoomCode creates a 6-char alphanumeric code
func generateRoomCode() (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLen = 6

	b := make([]byte, codeLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	code := make([]byte, codeLen)
	for i := range code {
		code[i] = chars[int(b[i])%len(chars)]
	}
	return string(code), nil
}
