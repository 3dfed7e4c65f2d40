package service

import (
	"errors"

	"lowbid/internal/game"
	"lowbid/internal/room"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrAlreadyInRoom     = errors.New("connection is already in a room")
	ErrInvalidUsername   = errors.New("username must be 1 to 24 characters")
	ErrInvalidCommand    = errors.New("invalid command")
	ErrRoomCodeExhausted = errors.New("failed to generate unique room code")
)

// Rejection is the commandRejected payload sent to the originating connection
type Rejection struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

const CodeInternal = "Internal"

var rejectionCodes = []struct {
	err  error
	code string
}{
	{room.ErrInvalidCapacity, "InvalidCapacity"},
	{ErrRoomNotFound, "RoomNotFound"},
	{room.ErrRoomFull, "RoomFull"},
	{room.ErrGameAlreadyStarted, "GameAlreadyStarted"},
	{room.ErrNotHost, "NotHost"},
	{room.ErrNotEnoughPlayers, "NotEnoughPlayers"},
	{room.ErrNoActiveSession, "NoActiveSession"},
	{game.ErrGameOver, "GameOver"},
	{game.ErrUnknownPlayer, "UnknownPlayer"},
	{game.ErrInvalidBid, "InvalidBid"},
	{game.ErrInsufficientFunds, "InsufficientFunds"},
	{game.ErrDuplicateBid, "DuplicateBid"},
	{ErrInvalidUsername, "InvalidUsername"},
	{ErrAlreadyInRoom, "AlreadyInRoom"},
	{ErrInvalidCommand, "InvalidCommand"},
}

// Reject classifies err into a rejection code
func Reject(err error) Rejection {
	for _, rc := range rejectionCodes {
		if errors.Is(err, rc.err) {
			return Rejection{Code: rc.code, Reason: err.Error()}
		}
	}
	return Rejection{Code: CodeInternal, Reason: "internal error"}
}
