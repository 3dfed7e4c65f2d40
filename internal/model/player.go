package model

// Member is a room participant as shown in lobby views
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// PlayerView is a session participant's public state
type PlayerView struct {
	Username string `json:"username"`
	Balance  int    `json:"balance"`
	WonCards []int  `json:"wonCards"`
	Left     bool   `json:"left,omitempty"`
}

// Standing is one row of the final ranking
type Standing struct {
	ID       string `json:"id" bson:"id"`
	Username string `json:"username" bson:"username"`
	Score    int    `json:"score" bson:"score"`
	Balance  int    `json:"balance" bson:"balance"`
	WonCards []int  `json:"wonCards" bson:"wonCards"`
	Left     bool   `json:"left,omitempty" bson:"left,omitempty"`
}
