package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Inbound command types
const (
	MsgCreateRoom     MessageType = "createRoom"
	MsgJoinRoom       MessageType = "joinRoom"
	MsgStartGame      MessageType = "startGame"
	MsgPlaceBid       MessageType = "placeBid"
	MsgResolveAuction MessageType = "resolveAuction"
	MsgEndBid         MessageType = "endBid" // older clients
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub owns every live connection and delivers outbound messages to them
type Hub struct {
	conns map[string]*Connection

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	ID   string
	Send chan []byte
	Hub  *Hub
}

// BroadcastMessage is an encoded message and the connections it goes to
type BroadcastMessage struct {
	Recipients []string
	Data       []byte
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn.ID] = conn
			h.mu.Unlock()
			log.Printf("Connection %s registered", conn.ID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.ID]; ok && existing == conn {
				delete(h.conns, conn.ID)
				close(conn.Send)
				log.Printf("Connection %s unregistered", conn.ID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, id := range msg.Recipients {
				conn, ok := h.conns[id]
				if !ok {
					continue
				}
				select {
				case conn.Send <- msg.Data:
				default:
					// Drop message if buffer full
					log.Printf("Send buffer full for connection %s, dropping message", id)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Count returns the number of live connections
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// SendToConnection sends a message to one connection (implements service.Broadcaster)
func (h *Hub) SendToConnection(connID string, msgType string, payload interface{}) {
	h.BroadcastToConnections([]string{connID}, msgType, payload)
}

// BroadcastToConnections sends the same message to every listed connection (implements service.Broadcaster)
func (h *Hub) BroadcastToConnections(connIDs []string, msgType string, payload interface{}) {
	if len(connIDs) == 0 {
		return
	}
	data, err := encode(MessageType(msgType), payload)
	if err != nil {
		log.Printf("Failed to encode %s message: %v", msgType, err)
		return
	}
	recipients := make([]string, len(connIDs))
	copy(recipients, connIDs)
	h.broadcast <- &BroadcastMessage{Recipients: recipients, Data: data}
}

func encode(msgType MessageType, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: msgType, Payload: raw})
}
