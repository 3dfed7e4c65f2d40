package game

import (
	"fmt"
	"sort"

	"lowbid/internal/model"
)

// EndReason records why a session finished.
type EndReason string

const (
	EndDeckExhausted EndReason = "deck_exhausted"
	EndPlayerLeft    EndReason = "player_left"
)

// Seat is a participant admitted when the session starts.
type Seat struct {
	ID       string
	Username string
}

// Session is one play-through of the auction game. It is not safe for
// concurrent use; the owning room serializes access.
type Session struct {
	deck    []int
	round   int
	current *Auction
	players map[string]*Player
	order   []string // join order, used for ranking ties
	log     []string
	over    bool
	reason  EndReason
	ranking []model.Standing
}

// NewSession seats the given players with startingBalance garnets each and
// opens the first round.
func NewSession(seats []Seat, startingBalance int) (*Session, []Event) {
	s := &Session{
		deck:    NewDeck(),
		players: make(map[string]*Player, len(seats)),
		order:   make([]string, 0, len(seats)),
		log:     []string{"The game has started."},
	}
	for _, seat := range seats {
		s.players[seat.ID] = &Player{
			ID:       seat.ID,
			Username: seat.Username,
			Balance:  startingBalance,
			WonCards: []int{},
		}
		s.order = append(s.order, seat.ID)
	}
	return s, s.startRound(nil)
}

func (s *Session) Round() int               { return s.round }
func (s *Session) DeckRemaining() int       { return len(s.deck) }
func (s *Session) Current() *Auction        { return s.current }
func (s *Session) IsOver() bool             { return s.over }
func (s *Session) EndReason() EndReason     { return s.reason }
func (s *Session) Player(id string) *Player { return s.players[id] }

// Ranking is empty until the session is over.
func (s *Session) Ranking() []model.Standing {
	out := make([]model.Standing, len(s.ranking))
	copy(out, s.ranking)
	return out
}

// Log returns a copy of the event log.
func (s *Session) Log() []string {
	out := make([]string, len(s.log))
	copy(out, s.log)
	return out
}

// PlaceBid records a bid in the open round. It never resolves the round.
func (s *Session) PlaceBid(playerID string, amount int) ([]Event, error) {
	if s.over || s.current == nil {
		return nil, ErrGameOver
	}
	p, ok := s.players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if amount <= 0 {
		return nil, ErrInvalidBid
	}
	if amount > p.Balance {
		return nil, ErrInsufficientFunds
	}
	if err := s.current.Place(playerID, amount); err != nil {
		return nil, err
	}
	s.logf("%s bid %d garnets.", p.Username, amount)
	return []Event{s.event(EventBidPlaced, nil)}, nil
}

// Resolve closes the open round, applies its outcome and moves on to the
// next card, or ends the game when the deck is empty.
func (s *Session) Resolve() ([]Event, error) {
	if s.over || s.current == nil {
		return nil, ErrGameOver
	}
	out := s.current.Resolve()
	switch out.Kind {
	case OutcomeNoBids:
		s.logf("Nobody bid on card %d. The card is discarded.", out.CardValue)
	case OutcomeTied:
		s.logf("The lowest bid on card %d was tied at %d. The card is discarded.", out.CardValue, out.Bid)
	case OutcomeWon:
		w := s.players[out.Winner]
		w.Balance -= out.Bid
		w.WonCards = append(w.WonCards, out.CardValue)
		s.logf("%s won card %d for %d garnets.", w.Username, out.CardValue, out.Bid)
	}
	s.current = nil

	events := []Event{s.event(EventAuctionResolved, &out)}
	return s.startRound(events), nil
}

// Abandon ends a running session because a participant left. The ranking is
// taken from the standings at that moment.
func (s *Session) Abandon(playerID string) []Event {
	if s.over {
		return nil
	}
	name := "Unknown player"
	if p, ok := s.players[playerID]; ok {
		p.Left = true
		name = p.Username
	}
	s.logf("%s disconnected.", name)
	return s.End(EndPlayerLeft)
}

// End finishes the session and computes the final ranking. Calling it on a
// finished session does nothing.
func (s *Session) End(reason EndReason) []Event {
	if s.over {
		return nil
	}
	s.over = true
	s.reason = reason
	s.current = nil
	if reason == EndDeckExhausted {
		s.logf("All cards have been auctioned. The game is over.")
	} else {
		s.logf("The game has ended.")
	}

	s.ranking = make([]model.Standing, 0, len(s.order))
	for _, id := range s.order {
		s.ranking = append(s.ranking, s.players[id].standing())
	}
	sort.SliceStable(s.ranking, func(i, j int) bool {
		return s.ranking[i].Score < s.ranking[j].Score
	})
	return []Event{s.event(EventGameEnded, nil)}
}

// Snapshot returns a deep copy of the session state.
func (s *Session) Snapshot() model.SessionSnapshot {
	snap := model.SessionSnapshot{
		DeckRemaining: len(s.deck),
		Round:         s.round,
		Players:       make(map[string]model.PlayerView, len(s.players)),
		Log:           s.Log(),
		IsOver:        s.over,
	}
	if s.current != nil {
		snap.CurrentAuction = s.current.view()
	}
	for id, p := range s.players {
		snap.Players[id] = p.view()
	}
	if s.over {
		snap.FinalRanking = s.Ranking()
	}
	return snap
}

func (s *Session) startRound(events []Event) []Event {
	if len(s.deck) == 0 {
		return append(events, s.End(EndDeckExhausted)...)
	}
	card := s.deck[0]
	s.deck = s.deck[1:]
	s.current = newAuction(card)
	s.round++
	s.logf("Round %d: the auction for card %d has started.", s.round, card)
	return append(events, s.event(EventRoundStarted, nil))
}

func (s *Session) event(kind EventKind, out *Outcome) Event {
	return Event{Kind: kind, Snapshot: s.Snapshot(), Outcome: out}
}

func (s *Session) logf(format string, args ...interface{}) {
	s.log = append(s.log, fmt.Sprintf(format, args...))
}
