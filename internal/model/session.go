package model

// AuctionView is the open round as shown to every participant.
// Bids are not secret once submitted.
type AuctionView struct {
	CardValue    int            `json:"cardValue"`
	Bids         map[string]int `json:"bids"`
	BiddersCount int            `json:"biddersCount"`
}

// SessionSnapshot is the canonical game state emitted after each session event
type SessionSnapshot struct {
	DeckRemaining  int                   `json:"deckRemainingCount"`
	Round          int                   `json:"round"`
	CurrentAuction *AuctionView          `json:"currentAuction"`
	Players        map[string]PlayerView `json:"players"`
	Log            []string              `json:"log"`
	IsOver         bool                  `json:"isOver"`
	FinalRanking   []Standing            `json:"finalRanking,omitempty"`
}
