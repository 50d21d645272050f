package protocol_test

import (
	"testing"

	"hexsettlers/internal/protocol"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	v, err := protocol.NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	validate := func(typ, raw string) {
		t.Helper()
		if err := v.Validate(typ, []byte(raw)); err != nil {
			t.Fatalf("validate %s: %v", typ, err)
		}
	}

	validate(protocol.TypeHello, `{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "client_name":"renderer",
	  "seat":2,
	  "capabilities":{"max_queue":8}
	}`)

	validate(protocol.TypeCmd, `{"type":"CMD","protocol_version":"1.0","id":"c1","cmd":"ROLL_DICE"}`)
	validate(protocol.TypeCmd, `{"type":"CMD","protocol_version":"1.0","cmd":"BUILD_ROAD","edge":[2,2,1]}`)
	validate(protocol.TypeCmd, `{"type":"CMD","protocol_version":"1.0","cmd":"SELECT_ADD","resource":"ORE","top":true}`)

	validate(protocol.TypeWelcome, `{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "match_id":"m1",
	  "seat":0,
	  "color":"RED",
	  "match_params":{"num_players":4,"seed":1337,"victory_target":10},
	  "catalogs":{"rules_digest":"deadbeef"}
	}`)

	validate(protocol.TypeAck, `{"type":"ACK","protocol_version":"1.0","ack_for":"c1","seq":3,"accepted":false,"code":"E_WRONG_PHASE"}`)
}

func TestSchemas_RejectBadCommands(t *testing.T) {
	v, err := protocol.NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	bad := []string{
		`{"type":"CMD","protocol_version":"1.0","cmd":"FLY"}`,
		`{"type":"CMD","protocol_version":"1.0","cmd":"BUILD_ROAD"}`,
		`{"type":"CMD","protocol_version":"1.0","cmd":"MOVE_ROBBER","hex":[1,2,3]}`,
		`{"type":"CMD","protocol_version":"1.0","cmd":"SELECT_ADD","resource":"GOLD"}`,
		`{"type":"CMD","protocol_version":"1.0","cmd":"PASS_TURN","extra":1}`,
	}
	for _, raw := range bad {
		if err := v.Validate(protocol.TypeCmd, []byte(raw)); err == nil {
			t.Fatalf("expected rejection: %s", raw)
		}
	}
	if err := v.Validate("NOPE", []byte(`{}`)); err == nil {
		t.Fatalf("expected unknown type rejected")
	}
}

func TestSchemas_ObsShape(t *testing.T) {
	v, err := protocol.NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	obs := protocol.ObsMsg{
		Type:            protocol.TypeObs,
		ProtocolVersion: protocol.Version,
		MatchID:         "m1",
		Phase:           protocol.PhaseMain,
		Board: protocol.BoardObs{
			Tiles:      make([]protocol.TileObs, 19),
			Ports:      make([]protocol.PortObs, 9),
			Structures: []protocol.StructureObs{},
			Roads:      []protocol.RoadObs{},
			Bank:       map[string]int{"WOOD": 19},
		},
		Self:    protocol.SelfObs{Color: "RED", Hand: map[string]int{"ORE": 2}},
		Players: make([]protocol.PlayerObs, 4),
	}
	if err := v.ValidateValue(protocol.TypeObs, obs); err != nil {
		t.Fatalf("validate obs: %v", err)
	}
}
