package service

// Outbound message types
const (
	MsgWelcome          = "welcome"
	MsgRoomCreated      = "roomCreated"
	MsgJoinedRoom       = "joinedRoom"
	MsgRoomUpdate       = "roomUpdate"
	MsgMemberListUpdate = "memberListUpdate"
	MsgHostChanged      = "hostChanged"
	MsgGameStarted      = "gameStarted"
	MsgSessionUpdate    = "sessionUpdate"
	MsgGameEnded        = "gameEnded"
	MsgCommandRejected  = "commandRejected"
)

// Broadcaster delivers outbound messages to connections (avoids import cycle).
// Fan-out to a room is done by passing every member's connection id.
type Broadcaster interface {
	SendToConnection(connID string, msgType string, payload interface{})
	BroadcastToConnections(connIDs []string, msgType string, payload interface{})
}
