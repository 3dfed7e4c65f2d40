package game

import (
	"sort"

	"lowbid/internal/model"
)

// OutcomeKind classifies how a round closed.
type OutcomeKind string

const (
	OutcomeWon    OutcomeKind = "won"
	OutcomeTied   OutcomeKind = "tied"
	OutcomeNoBids OutcomeKind = "no_bids"
)

// Outcome is the result of resolving one auction.
type Outcome struct {
	Kind      OutcomeKind
	CardValue int
	Winner    string   // set for OutcomeWon
	Bid       int      // the minimum bid, zero for OutcomeNoBids
	Tied      []string // sorted ids sharing the minimum, set for OutcomeTied
}

// Auction is one sealed-bid round over a single card.
type Auction struct {
	CardValue int
	Bids      map[string]int
	Resolved  bool
}

func newAuction(card int) *Auction {
	return &Auction{CardValue: card, Bids: make(map[string]int)}
}

// Place records a bid. A player bids at most once and a recorded bid never changes.
func (a *Auction) Place(playerID string, amount int) error {
	if _, ok := a.Bids[playerID]; ok {
		return ErrDuplicateBid
	}
	a.Bids[playerID] = amount
	return nil
}

// Resolve closes the auction. The strictly lowest bidder wins; a shared
// minimum voids the card no matter how many players bid.
func (a *Auction) Resolve() Outcome {
	a.Resolved = true
	out := Outcome{CardValue: a.CardValue}
	if len(a.Bids) == 0 {
		out.Kind = OutcomeNoBids
		return out
	}

	min := 0
	var lowest []string
	for id, bid := range a.Bids {
		switch {
		case lowest == nil || bid < min:
			min = bid
			lowest = []string{id}
		case bid == min:
			lowest = append(lowest, id)
		}
	}
	out.Bid = min

	if len(lowest) == 1 {
		out.Kind = OutcomeWon
		out.Winner = lowest[0]
		return out
	}
	sort.Strings(lowest)
	out.Kind = OutcomeTied
	out.Tied = lowest
	return out
}

func (a *Auction) view() *model.AuctionView {
	bids := make(map[string]int, len(a.Bids))
	for id, b := range a.Bids {
		bids[id] = b
	}
	return &model.AuctionView{
		CardValue:    a.CardValue,
		Bids:         bids,
		BiddersCount: len(bids),
	}
}
