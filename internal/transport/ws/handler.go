package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lowbid/internal/model"
	"lowbid/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles WebSocket connections and turns their frames into room commands
type Handler struct {
	hub     *Hub
	roomSvc *service.RoomService
	authSvc *service.AuthService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, roomSvc *service.RoomService, authSvc *service.AuthService) *Handler {
	return &Handler{
		hub:     hub,
		roomSvc: roomSvc,
		authSvc: authSvc,
	}
}

// ServeWS handles GET /v1/ws
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		ID:   uuid.New().String(),
		Send: make(chan []byte, 256),
		Hub:  h.hub,
	}
	h.hub.Register(conn)

	token, err := h.authSvc.GenerateConnectionToken(conn.ID)
	if err != nil {
		log.Printf("Failed to issue token for %s: %v", conn.ID, err)
	}
	h.hub.SendToConnection(conn.ID, service.MsgWelcome, model.Welcome{
		ConnectionID: conn.ID,
		Token:        token,
	})

	log.Printf("Connection %s opened from %s", conn.ID, r.RemoteAddr)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.roomSvc.Disconnect(conn.ID)
		h.hub.Unregister(conn)
		wsConn.Close()
		log.Printf("Connection %s closed", conn.ID)
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		if err := h.dispatch(conn.ID, data); err != nil {
			h.hub.SendToConnection(conn.ID, service.MsgCommandRejected, service.Reject(err))
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type createRoomPayload struct {
	Username   string          `json:"username"`
	MaxPlayers json.RawMessage `json:"maxPlayers"`
}

type joinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}

type roomRefPayload struct {
	RoomCode string `json:"roomCode"`
}

type placeBidPayload struct {
	RoomCode string `json:"roomCode"`
	Amount   int    `json:"amount"`
}

// dispatch runs one inbound frame against the room service
func (h *Handler) dispatch(connID string, data []byte) error {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: malformed message", service.ErrInvalidCommand)
	}

	switch msg.Type {
	case MsgCreateRoom:
		var p createRoomPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		_, err := h.roomSvc.CreateRoom(connID, p.Username, parseCapacity(p.MaxPlayers))
		return err

	case MsgJoinRoom:
		var p joinRoomPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		_, err := h.roomSvc.JoinRoom(connID, p.RoomCode, p.Username)
		return err

	case MsgStartGame:
		code, err := roomCode(msg.Payload)
		if err != nil {
			return err
		}
		return h.roomSvc.StartGame(connID, code)

	case MsgPlaceBid:
		var p placeBidPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		return h.roomSvc.PlaceBid(connID, p.RoomCode, p.Amount)

	case MsgResolveAuction, MsgEndBid:
		code, err := roomCode(msg.Payload)
		if err != nil {
			return err
		}
		return h.roomSvc.ResolveAuction(connID, code)

	default:
		return fmt.Errorf("%w: unknown message type %q", service.ErrInvalidCommand, msg.Type)
	}
}

func decode(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", service.ErrInvalidCommand)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidCommand, err)
	}
	return nil
}

// roomCode accepts {"roomCode": "..."} or a bare JSON string
func roomCode(raw json.RawMessage) (string, error) {
	var code string
	if err := json.Unmarshal(raw, &code); err == nil {
		return code, nil
	}
	var p roomRefPayload
	if err := decode(raw, &p); err != nil {
		return "", err
	}
	return p.RoomCode, nil
}

// parseCapacity accepts a JSON integer or a numeric string. Anything else
// yields 0, which the room service rejects as an invalid capacity.
func parseCapacity(raw json.RawMessage) int {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return 0
}
