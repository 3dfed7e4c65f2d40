package room

import (
	"errors"
	"time"

	"lowbid/internal/game"
	"lowbid/internal/model"
)

const (
	MinPlayers = 2
	MaxPlayers = 8
)

var (
	ErrInvalidCapacity    = errors.New("room capacity must be between 2 and 8 players")
	ErrRoomFull           = errors.New("room is full")
	ErrGameAlreadyStarted = errors.New("game has already started in this room")
	ErrNotHost            = errors.New("only the host can do that")
	ErrNotEnoughPlayers   = errors.New("at least 2 players are needed to start")
	ErrNoActiveSession    = errors.New("no game is running in this room")
	ErrNotMember          = errors.New("player is not in this room")
)

// Room is a lobby plus at most one game session. Not safe for concurrent use.
type Room struct {
	Code       string
	MaxPlayers int
	HostID     string
	Members    []model.Member // join order
	Session    *game.Session
	CreatedAt  time.Time
	StartedAt  time.Time
}

// ValidCapacity reports whether n is an allowed room size.
func ValidCapacity(n int) bool {
	return n >= MinPlayers && n <= MaxPlayers
}

// New creates a room whose only member is the host.
func New(code string, maxPlayers int, host model.Member) (*Room, error) {
	if !ValidCapacity(maxPlayers) {
		return nil, ErrInvalidCapacity
	}
	return &Room{
		Code:       code,
		MaxPlayers: maxPlayers,
		HostID:     host.ID,
		Members:    []model.Member{host},
		CreatedAt:  time.Now(),
	}, nil
}

// Join appends a member. The host does not change.
func (r *Room) Join(m model.Member) error {
	if r.Session != nil {
		return ErrGameAlreadyStarted
	}
	if len(r.Members) >= r.MaxPlayers {
		return ErrRoomFull
	}
	r.Members = append(r.Members, m)
	return nil
}

// Has reports whether id is a current member.
func (r *Room) Has(id string) bool {
	return r.indexOf(id) >= 0
}

// Start opens a session seating every current member.
func (r *Room) Start(requesterID string, startingBalance int) ([]game.Event, error) {
	if requesterID != r.HostID {
		return nil, ErrNotHost
	}
	if r.Session != nil {
		return nil, ErrGameAlreadyStarted
	}
	if len(r.Members) < MinPlayers {
		return nil, ErrNotEnoughPlayers
	}
	seats := make([]game.Seat, len(r.Members))
	for i, m := range r.Members {
		seats[i] = game.Seat{ID: m.ID, Username: m.Username}
	}
	session, events := game.NewSession(seats, startingBalance)
	r.Session = session
	r.StartedAt = time.Now()
	return events, nil
}

// Bid forwards a bid to the running session.
func (r *Room) Bid(playerID string, amount int) ([]game.Event, error) {
	if r.Session == nil {
		return nil, ErrNoActiveSession
	}
	return r.Session.PlaceBid(playerID, amount)
}

// Resolve closes the open round. Only the host may trigger it.
func (r *Room) Resolve(requesterID string) ([]game.Event, error) {
	if requesterID != r.HostID {
		return nil, ErrNotHost
	}
	if r.Session == nil {
		return nil, ErrNoActiveSession
	}
	return r.Session.Resolve()
}

// LeaveResult describes what a departure changed.
type LeaveResult struct {
	Empty       bool
	HostChanged bool
	GameEvents  []game.Event // non-empty when the departure ended a running game
}

// Leave removes a member, hands the host role to the earliest remaining
// member and ends a running game.
func (r *Room) Leave(id string) (LeaveResult, error) {
	idx := r.indexOf(id)
	if idx < 0 {
		return LeaveResult{}, ErrNotMember
	}
	r.Members = append(r.Members[:idx], r.Members[idx+1:]...)

	var res LeaveResult
	if len(r.Members) == 0 {
		res.Empty = true
		return res, nil
	}
	if r.HostID == id {
		r.HostID = r.Members[0].ID
		res.HostChanged = true
	}
	if r.Session != nil && !r.Session.IsOver() {
		res.GameEvents = r.Session.Abandon(id)
	}
	return res, nil
}

// MemberList returns a copy of the members in join order.
func (r *Room) MemberList() []model.Member {
	out := make([]model.Member, len(r.Members))
	copy(out, r.Members)
	return out
}

// MemberIDs returns the connection ids of all members.
func (r *Room) MemberIDs() []string {
	ids := make([]string, len(r.Members))
	for i, m := range r.Members {
		ids[i] = m.ID
	}
	return ids
}

// View returns the lobby snapshot, including the session when one exists.
func (r *Room) View() *model.RoomView {
	v := &model.RoomView{
		RoomCode:   r.Code,
		Members:    r.MemberList(),
		HostID:     r.HostID,
		MaxPlayers: r.MaxPlayers,
	}
	if r.Session != nil {
		snap := r.Session.Snapshot()
		v.Session = &snap
	}
	return v
}

// Summary returns the listing entry for this room.
func (r *Room) Summary() model.RoomSummary {
	return model.RoomSummary{
		RoomCode:   r.Code,
		Players:    len(r.Members),
		MaxPlayers: r.MaxPlayers,
		Started:    r.Session != nil,
		CreatedAt:  r.CreatedAt,
	}
}

func (r *Room) indexOf(id string) int {
	for i, m := range r.Members {
		if m.ID == id {
			return i
		}
	}
	return -1
}
