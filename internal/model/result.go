package model

import "time"

// GameResult is an archived finished game
type GameResult struct {
	ID        string     `json:"id" bson:"_id"`
	RoomCode  string     `json:"roomCode" bson:"roomCode"`
	Rounds    int        `json:"rounds" bson:"rounds"`
	Reason    string     `json:"reason" bson:"reason"`
	Ranking   []Standing `json:"ranking" bson:"ranking"`
	Log       []string   `json:"log" bson:"log"`
	StartedAt time.Time  `json:"startedAt" bson:"startedAt"`
	EndedAt   time.Time  `json:"endedAt" bson:"endedAt"`
}
