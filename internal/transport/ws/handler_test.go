package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lowbid/internal/model"
	"lowbid/internal/service"

	"github.com/gorilla/websocket"
)

type client struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	hub := NewHub()
	roomSvc := service.NewRoomService(10)
	roomSvc.SetBroadcaster(hub)
	authSvc := service.NewAuthService("test-secret", time.Hour)
	h := NewHandler(hub, roomSvc, authSvc)

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *client {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	c := &client{t: t, conn: conn}
	t.Cleanup(func() { conn.Close() })

	var welcome model.Welcome
	c.expect(service.MsgWelcome, &welcome)
	if welcome.ConnectionID == "" || welcome.Token == "" {
		t.Fatalf("welcome = %+v", welcome)
	}
	c.id = welcome.ConnectionID
	return c
}

func (c *client) send(msgType MessageType, payload interface{}) {
	c.t.Helper()
	raw, _ := json.Marshal(payload)
	if err := c.conn.WriteJSON(Message{Type: msgType, Payload: raw}); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

// expect reads the next message, checks its type and decodes its payload into v
func (c *client) expect(msgType string, v interface{}) {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg Message
	if err := c.conn.ReadJSON(&msg); err != nil {
		c.t.Fatalf("read (waiting for %s): %v", msgType, err)
	}
	if string(msg.Type) != msgType {
		c.t.Fatalf("got %s (%s), want %s", msg.Type, msg.Payload, msgType)
	}
	if v != nil {
		if err := json.Unmarshal(msg.Payload, v); err != nil {
			c.t.Fatalf("decode %s: %v", msgType, err)
		}
	}
}

func (c *client) expectRejected(code string) {
	c.t.Helper()
	var rej service.Rejection
	c.expect(service.MsgCommandRejected, &rej)
	if rej.Code != code {
		c.t.Fatalf("rejection = %+v, want %s", rej, code)
	}
}

func TestGameOverWebSocket(t *testing.T) {
	srv := newServer(t)
	alice := dial(t, srv)
	bob := dial(t, srv)

	alice.send(MsgCreateRoom, map[string]interface{}{"username": "Alice", "maxPlayers": "2"})
	var created model.RoomView
	alice.expect(service.MsgRoomCreated, &created)
	alice.expect(service.MsgRoomUpdate, nil)
	if created.HostID != alice.id || created.MaxPlayers != 2 {
		t.Fatalf("created = %+v", created)
	}

	bob.send(MsgJoinRoom, map[string]string{"roomCode": strings.ToLower(created.RoomCode), "username": "Bob"})
	bob.expect(service.MsgJoinedRoom, nil)
	bob.expect(service.MsgRoomUpdate, nil)
	var update model.RoomView
	alice.expect(service.MsgRoomUpdate, &update)
	if len(update.Members) != 2 || update.Members[1].Username != "Bob" {
		t.Fatalf("members = %+v", update.Members)
	}

	bob.send(MsgStartGame, map[string]string{"roomCode": created.RoomCode})
	bob.expectRejected("NotHost")

	alice.send(MsgStartGame, created.RoomCode)
	for _, c := range []*client{alice, bob} {
		c.expect(service.MsgGameStarted, nil)
		var snap model.SessionSnapshot
		c.expect(service.MsgSessionUpdate, &snap)
		if snap.Round != 1 || snap.CurrentAuction == nil || snap.CurrentAuction.CardValue != -10 {
			t.Fatalf("snapshot = %+v", snap)
		}
		c.expect(service.MsgRoomUpdate, nil)
	}

	alice.send(MsgPlaceBid, map[string]interface{}{"roomCode": created.RoomCode, "amount": 2})
	alice.expect(service.MsgSessionUpdate, nil)
	bob.expect(service.MsgSessionUpdate, nil)

	bob.send(MsgPlaceBid, map[string]interface{}{"roomCode": created.RoomCode, "amount": 11})
	bob.expectRejected("InsufficientFunds")
	bob.send(MsgPlaceBid, map[string]interface{}{"roomCode": created.RoomCode, "amount": 5})
	bob.expect(service.MsgSessionUpdate, nil)
	alice.expect(service.MsgSessionUpdate, nil)

	alice.send(MsgResolveAuction, map[string]string{"roomCode": created.RoomCode})
	var resolved, next model.SessionSnapshot
	bob.expect(service.MsgSessionUpdate, &resolved)
	bob.expect(service.MsgSessionUpdate, &next)
	alice.expect(service.MsgSessionUpdate, nil)
	alice.expect(service.MsgSessionUpdate, nil)
	if a := resolved.Players[alice.id]; a.Balance != 8 || len(a.WonCards) != 1 || a.WonCards[0] != -10 {
		t.Fatalf("alice after resolve = %+v", a)
	}
	if next.Round != 2 || next.CurrentAuction.CardValue != -9 || next.DeckRemaining != 19 {
		t.Fatalf("next round = %+v", next)
	}

	bob.conn.Close()
	alice.expect(service.MsgMemberListUpdate, nil)
	alice.expect(service.MsgSessionUpdate, nil)
	var ended model.SessionSnapshot
	alice.expect(service.MsgGameEnded, &ended)
	if !ended.IsOver || len(ended.FinalRanking) != 2 || ended.FinalRanking[0].ID != alice.id {
		t.Fatalf("ended = %+v", ended)
	}
	if !ended.FinalRanking[1].Left {
		t.Fatalf("departed player not flagged: %+v", ended.FinalRanking[1])
	}
	alice.expect(service.MsgRoomUpdate, nil)
}

func TestInvalidFrames(t *testing.T) {
	srv := newServer(t)
	c := dial(t, srv)

	if err := c.conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	c.expectRejected("InvalidCommand")

	c.send("dance", map[string]string{})
	c.expectRejected("InvalidCommand")

	c.send(MsgPlaceBid, map[string]interface{}{"roomCode": "ABCDEF", "amount": 1.5})
	c.expectRejected("InvalidCommand")

	c.send(MsgCreateRoom, map[string]interface{}{"username": "Alice", "maxPlayers": "lots"})
	c.expectRejected("InvalidCapacity")

	c.send(MsgJoinRoom, map[string]string{"roomCode": "ZZZZZZ", "username": "Alice"})
	c.expectRejected("RoomNotFound")
}

func TestParseCapacity(t *testing.T) {
	tests := map[string]int{
		`4`:       4,
		`"6"`:     6,
		`" 3 "`:   3,
		`"four"`:  0,
		`2.5`:     0,
		`null`:    0,
		`{"n":4}`: 0,
	}
	for in, want := range tests {
		if got := parseCapacity(json.RawMessage(in)); got != want {
			t.Errorf("parseCapacity(%s) = %d, want %d", in, got, want)
		}
	}
}
