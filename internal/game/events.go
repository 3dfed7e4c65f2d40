package game

import "lowbid/internal/model"

// EventKind identifies a state change of a session.
type EventKind string

const (
	EventRoundStarted    EventKind = "round_started"
	EventBidPlaced       EventKind = "bid_placed"
	EventAuctionResolved EventKind = "auction_resolved"
	EventGameEnded       EventKind = "game_ended"
)

// Event carries the snapshot taken right after the change it describes.
type Event struct {
	Kind     EventKind
	Snapshot model.SessionSnapshot
	Outcome  *Outcome // set for EventAuctionResolved
}
