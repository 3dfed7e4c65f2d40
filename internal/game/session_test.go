package game

import (
	"errors"
	"math/rand"
	"testing"
)

func twoSeats() []Seat {
	return []Seat{{ID: "a", Username: "Alice"}, {ID: "b", Username: "Bob"}}
}

// withCard replaces the open auction so a test can pick the card on offer.
func withCard(s *Session, card int) {
	s.current = newAuction(card)
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != 21 {
		t.Fatalf("deck size = %d, want 21", len(deck))
	}
	for i, v := range deck {
		if v != i-10 {
			t.Fatalf("deck[%d] = %d, want %d", i, v, i-10)
		}
	}
}

func TestNewSessionOpensFirstRound(t *testing.T) {
	s, evs := NewSession(twoSeats(), 10)
	if s.Round() != 1 {
		t.Fatalf("round = %d, want 1", s.Round())
	}
	if s.DeckRemaining() != 20 {
		t.Fatalf("deck remaining = %d, want 20", s.DeckRemaining())
	}
	if s.Current() == nil || s.Current().CardValue != -10 {
		t.Fatalf("expected open auction for card -10, got %+v", s.Current())
	}
	if len(evs) != 1 || evs[0].Kind != EventRoundStarted {
		t.Fatalf("events = %+v, want one round_started", evs)
	}
	if evs[0].Snapshot.CurrentAuction == nil || evs[0].Snapshot.DeckRemaining != 20 {
		t.Fatalf("snapshot not taken after round start: %+v", evs[0].Snapshot)
	}
	for _, id := range []string{"a", "b"} {
		if got := s.Player(id).Balance; got != 10 {
			t.Fatalf("balance %s = %d, want 10", id, got)
		}
	}
}

func TestResolveUniqueLowestBidWins(t *testing.T) {
	s, _ := NewSession(twoSeats(), 10)
	withCard(s, 3)

	if _, err := s.PlaceBid("a", 2); err != nil {
		t.Fatalf("bid a: %v", err)
	}
	if _, err := s.PlaceBid("b", 5); err != nil {
		t.Fatalf("bid b: %v", err)
	}
	before := s.DeckRemaining()
	evs, err := s.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	a, b := s.Player("a"), s.Player("b")
	if a.Balance != 8 {
		t.Fatalf("a balance = %d, want 8", a.Balance)
	}
	if len(a.WonCards) != 1 || a.WonCards[0] != 3 {
		t.Fatalf("a won cards = %v, want [3]", a.WonCards)
	}
	if b.Balance != 10 || len(b.WonCards) != 0 {
		t.Fatalf("b changed: balance=%d cards=%v", b.Balance, b.WonCards)
	}
	if s.DeckRemaining() != before-1 {
		t.Fatalf("deck remaining = %d, want %d", s.DeckRemaining(), before-1)
	}
	if len(evs) != 2 || evs[0].Kind != EventAuctionResolved || evs[1].Kind != EventRoundStarted {
		t.Fatalf("unexpected events %+v", evs)
	}
	out := evs[0].Outcome
	if out == nil || out.Kind != OutcomeWon || out.Winner != "a" || out.Bid != 2 {
		t.Fatalf("outcome = %+v", out)
	}
	if evs[0].Snapshot.CurrentAuction != nil {
		t.Fatalf("resolved snapshot should have no open auction")
	}
}

func TestResolveVoidsCard(t *testing.T) {
	tests := []struct {
		name  string
		seats []Seat
		bids  map[string]int
		kind  OutcomeKind
	}{
		{
			name:  "two players tie",
			seats: twoSeats(),
			bids:  map[string]int{"a": 4, "b": 4},
			kind:  OutcomeTied,
		},
		{
			name:  "tie at minimum with a higher bidder",
			seats: []Seat{{ID: "a", Username: "A"}, {ID: "b", Username: "B"}, {ID: "c", Username: "C"}},
			bids:  map[string]int{"a": 1, "b": 1, "c": 7},
			kind:  OutcomeTied,
		},
		{
			name:  "no bids",
			seats: twoSeats(),
			bids:  map[string]int{},
			kind:  OutcomeNoBids,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := NewSession(tt.seats, 10)
			withCard(s, 3)
			for id, amount := range tt.bids {
				if _, err := s.PlaceBid(id, amount); err != nil {
					t.Fatalf("bid %s: %v", id, err)
				}
			}
			before := s.DeckRemaining()
			evs, err := s.Resolve()
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got := evs[0].Outcome.Kind; got != tt.kind {
				t.Fatalf("outcome = %s, want %s", got, tt.kind)
			}
			for _, seat := range tt.seats {
				p := s.Player(seat.ID)
				if p.Balance != 10 || len(p.WonCards) != 0 {
					t.Fatalf("player %s changed: balance=%d cards=%v", seat.ID, p.Balance, p.WonCards)
				}
			}
			if s.DeckRemaining() != before-1 {
				t.Fatalf("deck remaining = %d, want %d", s.DeckRemaining(), before-1)
			}
		})
	}
}

func TestPlaceBidRejections(t *testing.T) {
	s, _ := NewSession(twoSeats(), 10)
	if _, err := s.PlaceBid("a", 3); err != nil {
		t.Fatalf("first bid: %v", err)
	}

	tests := []struct {
		name   string
		player string
		amount int
		want   error
	}{
		{"unknown player", "zed", 1, ErrUnknownPlayer},
		{"zero", "b", 0, ErrInvalidBid},
		{"negative", "b", -2, ErrInvalidBid},
		{"over balance", "b", 11, ErrInsufficientFunds},
		{"duplicate same amount", "a", 3, ErrDuplicateBid},
		{"duplicate different amount", "a", 1, ErrDuplicateBid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evs, err := s.PlaceBid(tt.player, tt.amount)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if evs != nil {
				t.Fatalf("rejected bid produced events")
			}
		})
	}
	if got := s.Current().Bids["a"]; got != 3 {
		t.Fatalf("recorded bid changed to %d", got)
	}
	if len(s.Current().Bids) != 1 {
		t.Fatalf("bids = %v, want only a", s.Current().Bids)
	}
}

func TestBidOfEntireBalanceAllowed(t *testing.T) {
	s, _ := NewSession(twoSeats(), 10)
	if _, err := s.PlaceBid("a", 10); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if _, err := s.Resolve(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := s.Player("a").Balance; got != 0 {
		t.Fatalf("balance = %d, want 0", got)
	}
	if _, err := s.PlaceBid("a", 1); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want insufficient funds", err)
	}
}

func TestSessionEndsAfterDeck(t *testing.T) {
	s, _ := NewSession(twoSeats(), 10)

	var last []Event
	for i := 0; i < 21; i++ {
		if s.IsOver() {
			t.Fatalf("game over after %d rounds", i)
		}
		if s.Round() != i+1 {
			t.Fatalf("round = %d, want %d", s.Round(), i+1)
		}
		evs, err := s.Resolve()
		if err != nil {
			t.Fatalf("resolve round %d: %v", i+1, err)
		}
		last = evs
	}
	if !s.IsOver() {
		t.Fatalf("game should be over after 21 rounds")
	}
	if s.EndReason() != EndDeckExhausted {
		t.Fatalf("reason = %s", s.EndReason())
	}
	if s.DeckRemaining() != 0 || s.Current() != nil {
		t.Fatalf("deck=%d current=%v", s.DeckRemaining(), s.Current())
	}
	if got := last[len(last)-1]; got.Kind != EventGameEnded || len(got.Snapshot.FinalRanking) != 2 {
		t.Fatalf("final event = %+v", got)
	}
	if _, err := s.Resolve(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("resolve after end: %v", err)
	}
	if _, err := s.PlaceBid("a", 1); !errors.Is(err, ErrGameOver) {
		t.Fatalf("bid after end: %v", err)
	}
}

func TestBalancesNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seats := []Seat{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	s, _ := NewSession(seats, 10)

	for !s.IsOver() {
		for _, seat := range seats {
			amount := rng.Intn(14) - 2
			_, _ = s.PlaceBid(seat.ID, amount)
		}
		bids := s.Current().Bids
		minBid, count := 0, 0
		for _, b := range bids {
			if count == 0 || b < minBid {
				minBid, count = b, 1
			} else if b == minBid {
				count++
			}
		}
		before := map[string]int{}
		for _, seat := range seats {
			before[seat.ID] = s.Player(seat.ID).Balance
		}

		evs, err := s.Resolve()
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		out := evs[0].Outcome
		for _, seat := range seats {
			p := s.Player(seat.ID)
			if p.Balance < 0 {
				t.Fatalf("player %s balance went negative: %d", seat.ID, p.Balance)
			}
			want := before[seat.ID]
			if out.Kind == OutcomeWon && out.Winner == seat.ID {
				want -= out.Bid
			}
			if p.Balance != want {
				t.Fatalf("player %s balance = %d, want %d", seat.ID, p.Balance, want)
			}
		}
		if out.Kind == OutcomeWon && (count != 1 || out.Bid != minBid) {
			t.Fatalf("winner with bid %d but min=%d shared by %d", out.Bid, minBid, count)
		}
	}
}

func TestAbandonEndsWithCurrentStandings(t *testing.T) {
	s, _ := NewSession(twoSeats(), 10)
	withCard(s, -4)
	s.PlaceBid("a", 2)
	s.Resolve() // a wins -4
	s.PlaceBid("b", 3)

	evs := s.Abandon("a")
	if !s.IsOver() || s.EndReason() != EndPlayerLeft {
		t.Fatalf("session should be over after abandon")
	}
	if len(evs) != 1 || evs[0].Kind != EventGameEnded {
		t.Fatalf("events = %+v", evs)
	}
	if s.Current() != nil {
		t.Fatalf("open auction should be closed")
	}
	if got := s.Player("b").Balance; got != 10 {
		t.Fatalf("outstanding bid was charged: balance = %d", got)
	}
	rank := s.Ranking()
	if len(rank) != 2 || rank[0].ID != "a" || rank[0].Score != -4 || !rank[0].Left {
		t.Fatalf("ranking = %+v", rank)
	}
	if rank[1].ID != "b" || rank[1].Score != 0 {
		t.Fatalf("ranking = %+v", rank)
	}
}

func TestEndIsIdempotent(t *testing.T) {
	s, _ := NewSession(twoSeats(), 10)
	if evs := s.End(EndPlayerLeft); len(evs) != 1 {
		t.Fatalf("first end events = %d, want 1", len(evs))
	}
	logLen := len(s.Log())
	if evs := s.End(EndDeckExhausted); evs != nil {
		t.Fatalf("second end produced events")
	}
	if evs := s.Abandon("b"); evs != nil {
		t.Fatalf("abandon after end produced events")
	}
	if len(s.Log()) != logLen || s.EndReason() != EndPlayerLeft {
		t.Fatalf("second end mutated the session")
	}
}

func TestRankingTiesKeepJoinOrder(t *testing.T) {
	seats := []Seat{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	s, _ := NewSession(seats, 10)
	s.Player("c").WonCards = []int{-5}
	s.Player("d").WonCards = []int{2, -2}
	s.End(EndDeckExhausted)

	want := []string{"c", "a", "b", "d"}
	rank := s.Ranking()
	for i, id := range want {
		if rank[i].ID != id {
			t.Fatalf("rank[%d] = %s, want %s (%+v)", i, rank[i].ID, id, rank)
		}
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s, _ := NewSession(twoSeats(), 10)
	s.PlaceBid("a", 1)
	snap := s.Snapshot()
	snap.CurrentAuction.Bids["b"] = 9
	snap.Log[0] = "changed"
	if _, ok := s.Current().Bids["b"]; ok {
		t.Fatalf("snapshot shares bids map with session")
	}
	if s.Log()[0] == "changed" {
		t.Fatalf("snapshot shares log with session")
	}
	if snap.CurrentAuction.BiddersCount != 1 {
		t.Fatalf("bidders count = %d, want 1", snap.CurrentAuction.BiddersCount)
	}
}
