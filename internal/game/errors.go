package game

import "errors"

var (
	ErrGameOver          = errors.New("the game is already over")
	ErrUnknownPlayer     = errors.New("player is not part of this game")
	ErrInvalidBid        = errors.New("bid must be greater than zero")
	ErrInsufficientFunds = errors.New("not enough garnets for this bid")
	ErrDuplicateBid      = errors.New("already placed a bid this round")
)
