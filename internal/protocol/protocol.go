package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Version is echoed in protocol_version by every seat frame.
const Version = "1.0"

// Seat socket frame types. A seat sends HELLO once, then CMDs; the match
// answers WELCOME, then an ACK per CMD and an OBS after every step.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeObs     = "OBS"
	TypeCmd     = "CMD"
	TypeAck     = "ACK"
)

var (
	ErrFrameType       = errors.New("protocol: unexpected frame type")
	ErrVersionMismatch = errors.New("protocol: version mismatch")
)

// frameHead is the part of a seat frame read before the body is decoded.
type frameHead struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// FrameType returns the type of a seat frame, for routing on the client
// side where server frames of every type arrive on one socket.
func FrameType(b []byte) (string, error) {
	var h frameHead
	err := json.Unmarshal(b, &h)
	return h.Type, err
}

// CheckFrame reports whether b is a JSON frame of type want carrying the
// current Version. The body is left for the caller to decode.
func CheckFrame(b []byte, want string) error {
	var h frameHead
	if err := json.Unmarshal(b, &h); err != nil {
		return err
	}
	if h.Type != want {
		return fmt.Errorf("%w: got %q, want %q", ErrFrameType, h.Type, want)
	}
	if h.ProtocolVersion != Version {
		return fmt.Errorf("%w: %q", ErrVersionMismatch, h.ProtocolVersion)
	}
	return nil
}
