package model

import "time"

// RoomView is the lobby-level snapshot sent on every membership change
type RoomView struct {
	RoomCode   string           `json:"roomCode"`
	Members    []Member         `json:"members"`
	HostID     string           `json:"hostId"`
	MaxPlayers int              `json:"maxPlayers"`
	Session    *SessionSnapshot `json:"session,omitempty"`
}

// RoomSummary is a compact listing entry for GET /v1/rooms
type RoomSummary struct {
	RoomCode   string    `json:"roomCode"`
	Players    int       `json:"players"`
	MaxPlayers int       `json:"maxPlayers"`
	Started    bool      `json:"started"`
	CreatedAt  time.Time `json:"createdAt"`
}
