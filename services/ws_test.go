package services

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bellapacxx/bingo-server/game"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type wireEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	sessions := game.NewSessionRegistry(game.DefaultSettings(), game.NewCardCatalog(), zap.NewNop().Sugar())
	t.Cleanup(sessions.Stop)

	r := gin.New()
	r.GET("/ws/:session", HandleWebSocket(hub, sessions))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()
	b, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", msgType, err)
	}
	env, _ := json.Marshal(wireEnvelope{Type: msgType, Data: b})
	if err := conn.WriteMessage(websocket.TextMessage, env); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readUntil skips countdown ticks and other traffic until an event of the
// wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, eventType string) wireEnvelope {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read waiting for %s: %v", eventType, err)
		}
		var env wireEnvelope
		if err := json.Unmarshal(msg, &env); err != nil {
			t.Fatalf("unmarshal %q: %v", msg, err)
		}
		if env.Type == eventType {
			return env
		}
	}
	t.Fatalf("no %s event before deadline", eventType)
	return wireEnvelope{}
}

func TestWebSocket_JoinAndReserve(t *testing.T) {
	_, wsURL := newTestServer(t)

	c1 := dial(t, wsURL+"/ws/room1")
	send(t, c1, "join", game.JoinCommand{PlayerID: "p1", PlayerName: "Alice"})

	joined := readUntil(t, c1, "joined")
	var joinedData game.JoinedEvent
	if err := json.Unmarshal(joined.Data, &joinedData); err != nil {
		t.Fatalf("unmarshal joined: %v", err)
	}
	if joinedData.PlayerID != "p1" || joinedData.Session.Phase != game.PhaseSelection {
		t.Fatalf("joined = %+v", joinedData)
	}

	c2 := dial(t, wsURL+"/ws/room1")
	send(t, c2, "join", game.JoinCommand{PlayerID: "p2", PlayerName: "Bob"})
	readUntil(t, c1, "player_joined")

	send(t, c1, "select_card", game.ReserveCardCommand{CardID: 7})
	update := readUntil(t, c1, "cards_update")
	var cards game.CardsUpdateEvent
	if err := json.Unmarshal(update.Data, &cards); err != nil {
		t.Fatalf("unmarshal cards_update: %v", err)
	}
	if len(cards.TakenCards) != 1 || cards.TakenCards[0] != 7 {
		t.Fatalf("taken cards = %v, want [7]", cards.TakenCards)
	}

	// Same card from the second player is a conflict, reported only to them.
	send(t, c2, "select_card", game.ReserveCardCommand{CardID: 7})
	reject := readUntil(t, c2, "rejected")
	var rejected game.RejectEvent
	if err := json.Unmarshal(reject.Data, &rejected); err != nil {
		t.Fatalf("unmarshal rejected: %v", err)
	}
	if rejected.Code != "conflict" {
		t.Fatalf("reject code = %s, want conflict", rejected.Code)
	}
}

func TestWebSocket_CommandsRequireJoin(t *testing.T) {
	_, wsURL := newTestServer(t)

	c := dial(t, wsURL+"/ws/room2")
	send(t, c, "select_card", game.ReserveCardCommand{CardID: 3})

	reject := readUntil(t, c, "rejected")
	var rejected game.RejectEvent
	if err := json.Unmarshal(reject.Data, &rejected); err != nil {
		t.Fatalf("unmarshal rejected: %v", err)
	}
	if rejected.Code != "not_found" {
		t.Fatalf("reject code = %s, want not_found", rejected.Code)
	}
}

func TestWebSocket_UnknownCommand(t *testing.T) {
	_, wsURL := newTestServer(t)

	c := dial(t, wsURL+"/ws/room3")
	send(t, c, "teleport", struct{}{})

	reject := readUntil(t, c, "rejected")
	var rejected game.RejectEvent
	if err := json.Unmarshal(reject.Data, &rejected); err != nil {
		t.Fatalf("unmarshal rejected: %v", err)
	}
	if rejected.Code != "invalid_input" {
		t.Fatalf("reject code = %s, want invalid_input", rejected.Code)
	}
}
