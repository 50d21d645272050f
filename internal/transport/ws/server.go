package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"hexsettlers/internal/protocol"
	"hexsettlers/internal/sim/match"
)

// Server bridges renderer clients to one match. Each connection claims a
// seat with HELLO and from then on may only issue commands for that seat.
type Server struct {
	match     *match.Match
	log       *log.Logger
	validator *protocol.Validator

	upgrader websocket.Upgrader
}

func NewServer(m *match.Match, v *protocol.Validator, logger *log.Logger) *Server {
	return &Server{
		match:     m,
		log:       logger,
		validator: v,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		seat, out, ok := s.handshake(conn)
		if !ok {
			return
		}
		s.logf("seat %d attached from %s", seat, r.RemoteAddr)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			cmd, code := s.decodeCmd(msg)
			if code != "" {
				s.reject(out, cmd.ID, code)
				continue
			}
			s.match.Inbox() <- match.CommandEnvelope{Seat: seat, Cmd: cmd}
		}

		s.match.Leave() <- seat
		s.logf("seat %d detached", seat)
	}
}

// decodeCmd validates a client frame. Anything but a well-formed CMD of the
// current protocol version is answered with E_PROTO_BAD_REQUEST.
func (s *Server) decodeCmd(msg []byte) (protocol.CmdMsg, string) {
	var cmd protocol.CmdMsg
	if err := protocol.CheckFrame(msg, protocol.TypeCmd); err != nil {
		return cmd, protocol.ErrProtoBadRequest
	}
	if err := json.Unmarshal(msg, &cmd); err != nil {
		return cmd, protocol.ErrProtoBadRequest
	}
	if s.validator != nil {
		if err := s.validator.Validate(protocol.TypeCmd, msg); err != nil {
			return cmd, protocol.ErrProtoBadRequest
		}
	}
	return cmd, ""
}

func (s *Server) reject(out chan []byte, id, code string) {
	b, err := json.Marshal(protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		AckFor:          id,
		Accepted:        false,
		Code:            code,
	})
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}

func (s *Server) handshake(conn *websocket.Conn) (seat int, out chan []byte, ok bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return 0, nil, false
	}

	if err := protocol.CheckFrame(msg, protocol.TypeHello); err != nil {
		if errors.Is(err, protocol.ErrVersionMismatch) {
			closePolicy(conn, "bad protocol_version")
		} else {
			closePolicy(conn, "expected HELLO")
		}
		return 0, nil, false
	}
	if s.validator != nil {
		if err := s.validator.Validate(protocol.TypeHello, msg); err != nil {
			closePolicy(conn, "bad HELLO")
			return 0, nil, false
		}
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return 0, nil, false
	}

	maxQ := hello.Capabilities.MaxQueue
	if maxQ <= 0 {
		maxQ = 8
	}
	if maxQ > 64 {
		maxQ = 64
	}
	out = make(chan []byte, maxQ)

	respCh := make(chan match.AttachResponse, 1)
	s.match.Attach() <- match.AttachRequest{Seat: hello.Seat, Out: out, Resp: respCh}
	resp := <-respCh
	if resp.Code != "" {
		closePolicy(conn, resp.Code)
		return 0, nil, false
	}

	welcome := resp.Welcome
	welcome.SessionID = uuid.NewString()
	if err := writeJSON(conn, welcome); err != nil {
		s.match.Leave() <- hello.Seat
		return 0, nil, false
	}
	return hello.Seat, out, true
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

func closePolicy(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
