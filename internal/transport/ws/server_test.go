package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"hexsettlers/internal/protocol"
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/match"
)

func startServer(t *testing.T) string {
	t.Helper()
	m, err := match.New(match.Config{ID: "ws-test", Seed: 1, NumPlayers: 2, MaxBoardAttempts: 1000, InboxSize: 8}, catalogs.Defaults())
	if err != nil {
		t.Fatalf("match.New: %v", err)
	}
	v, err := protocol.NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = m.Run(ctx) }()

	srv := httptest.NewServer(NewServer(m, v, nil).Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string, seat int) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	hello := protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, ClientName: "test", Seat: seat}
	if err := conn.WriteJSON(hello); err != nil {
		t.Fatalf("hello: %v", err)
	}
	return conn
}

func read(t *testing.T, conn *websocket.Conn) (string, []byte) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	typ, err := protocol.FrameType(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return typ, b
}

// readAck skips observations until the ACK for id arrives.
func readAck(t *testing.T, conn *websocket.Conn, id string) protocol.AckMsg {
	t.Helper()
	for i := 0; i < 10; i++ {
		typ, b := read(t, conn)
		if typ != protocol.TypeAck {
			continue
		}
		var ack protocol.AckMsg
		if err := json.Unmarshal(b, &ack); err != nil {
			t.Fatalf("ack: %v", err)
		}
		if ack.AckFor == id {
			return ack
		}
	}
	t.Fatalf("no ACK for %s", id)
	return protocol.AckMsg{}
}

func TestServer_HandshakeAndCommands(t *testing.T) {
	url := startServer(t)
	conn := dial(t, url, 1)

	typ, b := read(t, conn)
	if typ != protocol.TypeWelcome {
		t.Fatalf("want WELCOME, got %s", typ)
	}
	var welcome protocol.WelcomeMsg
	if err := json.Unmarshal(b, &welcome); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if welcome.Seat != 1 || welcome.Color != "BLUE" || welcome.SessionID == "" || welcome.MatchParams.NumPlayers != 2 {
		t.Fatalf("welcome: %+v", welcome)
	}
	if typ, _ := read(t, conn); typ != protocol.TypeObs {
		t.Fatalf("want OBS, got %s", typ)
	}

	// Seat 1 does not open the setup.
	cmd := protocol.CmdMsg{Type: protocol.TypeCmd, ProtocolVersion: protocol.Version, ID: "c1", Cmd: protocol.CmdBuildSettlement, Corner: &[3]int{2, 2, 0}}
	if err := conn.WriteJSON(cmd); err != nil {
		t.Fatalf("write: %v", err)
	}
	if ack := readAck(t, conn, "c1"); ack.Accepted || ack.Code != protocol.ErrNotYourTurn {
		t.Fatalf("ack: %+v", ack)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CMD","protocol_version":"1.0","id":"c2","cmd":"FLY"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if ack := readAck(t, conn, "c2"); ack.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("ack: %+v", ack)
	}
}

func TestServer_SeatTaken(t *testing.T) {
	url := startServer(t)
	first := dial(t, url, 0)
	if typ, _ := read(t, first); typ != protocol.TypeWelcome {
		t.Fatalf("first: %s", typ)
	}

	second := dial(t, url, 0)
	_ = second.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := second.ReadMessage()
	ce, ok := err.(*websocket.CloseError)
	if !ok || ce.Code != websocket.ClosePolicyViolation || ce.Text != protocol.ErrSeatTaken {
		t.Fatalf("want policy close with %s, got %v", protocol.ErrSeatTaken, err)
	}
}

func TestServer_RejectsNonHello(t *testing.T) {
	url := startServer(t)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if err := conn.WriteJSON(map[string]any{"type": "CMD", "protocol_version": "1.0", "cmd": "ROLL_DICE"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("want policy close, got %v", err)
	}
}
