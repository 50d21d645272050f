package match

import (
	"errors"
	"fmt"

	"hexsettlers/internal/protocol"
	"hexsettlers/internal/sim/game"
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/rng"
)

// errBadRequest marks a command that is malformed rather than illegal.
var errBadRequest = errors.New("bad request")

type result struct {
	roll    int
	card    string
	offerID int
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errBadRequest}, args...)...)
}

func cmdHex(c protocol.CmdMsg) (hexgrid.Hex, error) {
	if c.Hex == nil {
		return hexgrid.Hex{}, badRequest("%s needs hex", c.Cmd)
	}
	return hexgrid.Hex{R: c.Hex[0], Q: c.Hex[1]}, nil
}

func cmdCorner(c protocol.CmdMsg) (hexgrid.Corner, error) {
	if c.Corner == nil {
		return hexgrid.Corner{}, badRequest("%s needs corner", c.Cmd)
	}
	return hexgrid.Corner{R: c.Corner[0], Q: c.Corner[1], C: c.Corner[2]}, nil
}

func cmdEdge(c protocol.CmdMsg) (hexgrid.Edge, error) {
	if c.Edge == nil {
		return hexgrid.Edge{}, badRequest("%s needs edge", c.Cmd)
	}
	return hexgrid.Edge{R: c.Edge[0], Q: c.Edge[1], E: c.Edge[2]}, nil
}

func cmdResource(c protocol.CmdMsg) (model.Resource, error) {
	r, err := model.ParseResource(c.Resource)
	if err != nil {
		return 0, badRequest("%v", err)
	}
	return r, nil
}

// apply routes one command to the engine. r is the command's own random
// source; it is consulted only by commands that draw.
func (m *Match) apply(seat int, c protocol.CmdMsg, r rng.Rand) (result, error) {
	if seat < 0 || seat >= m.cfg.NumPlayers {
		return result{}, badRequest("seat %d out of range", seat)
	}
	if m.game == nil {
		return result{}, m.applySetup(seat, c)
	}
	return m.applyGame(seat, c, r)
}

func (m *Match) applySetup(seat int, c protocol.CmdMsg) error {
	switch c.Cmd {
	case protocol.CmdBuildSettlement:
		corner, err := cmdCorner(c)
		if err != nil {
			return err
		}
		return m.setup.PlaceSettlement(seat, corner)
	case protocol.CmdBuildRoad:
		edge, err := cmdEdge(c)
		if err != nil {
			return err
		}
		if err := m.setup.PlaceRoad(seat, edge); err != nil {
			return err
		}
		if m.setup.Done() {
			g, err := m.setup.Finish()
			if err != nil {
				return err
			}
			m.game = g
			m.setup = nil
		}
		return nil
	case "":
		return badRequest("missing cmd")
	}
	if isKnownCmd(c.Cmd) {
		return game.ErrWrongPhase
	}
	return badRequest("unknown cmd %q", c.Cmd)
}

func (m *Match) applyGame(seat int, c protocol.CmdMsg, r rng.Rand) (result, error) {
	g := m.game
	var res result
	switch c.Cmd {
	case protocol.CmdRollDice:
		roll, err := g.RollDice(seat, r)
		res.roll = roll
		return res, err

	case protocol.CmdMoveRobber:
		h, err := cmdHex(c)
		if err != nil {
			return res, err
		}
		return res, g.MoveRobber(seat, h, r)

	case protocol.CmdChooseVictim:
		corner, err := cmdCorner(c)
		if err != nil {
			return res, err
		}
		return res, g.ChooseVictim(seat, corner, r)

	case protocol.CmdPassTurn:
		return res, g.PassTurn(seat)

	case protocol.CmdBeginBuild:
		kind, err := game.ParseBuildKind(c.Kind)
		if err != nil {
			return res, badRequest("%v", err)
		}
		return res, g.BeginBuild(seat, kind)

	case protocol.CmdCancelBuild:
		return res, g.CancelBuild(seat)

	case protocol.CmdBuildRoad:
		edge, err := cmdEdge(c)
		if err != nil {
			return res, err
		}
		return res, g.BuildRoad(seat, edge)

	case protocol.CmdBuildSettlement:
		corner, err := cmdCorner(c)
		if err != nil {
			return res, err
		}
		return res, g.BuildSettlement(seat, corner)

	case protocol.CmdBuildCity:
		corner, err := cmdCorner(c)
		if err != nil {
			return res, err
		}
		return res, g.BuildCity(seat, corner)

	case protocol.CmdBuyDevCard:
		card, err := g.BuyDevCard(seat, r)
		if err == nil {
			res.card = card.String()
		}
		return res, err

	case protocol.CmdPlayDevCard:
		card, err := model.ParseDevCard(c.Card)
		if err != nil {
			return res, badRequest("%v", err)
		}
		return res, g.PlayDevCard(seat, card)

	case protocol.CmdOpenTrade:
		return res, g.OpenTrade(seat)

	case protocol.CmdSelectAdd, protocol.CmdSelectRemove:
		rs, err := cmdResource(c)
		if err != nil {
			return res, err
		}
		if c.Cmd == protocol.CmdSelectAdd {
			return res, g.SelectorAdd(seat, rs, c.Top)
		}
		return res, g.SelectorRemove(seat, rs, c.Top)

	case protocol.CmdExecute:
		out, err := g.ExecuteSelector(seat)
		res.offerID = out.OfferID
		return res, err

	case protocol.CmdCancelSelector:
		return res, g.CancelSelector(seat)

	case protocol.CmdWithdrawOffer:
		return res, g.WithdrawOffer(seat, c.OfferID)

	case "":
		return res, badRequest("missing cmd")
	}
	return res, badRequest("unknown cmd %q", c.Cmd)
}

var knownCmds = map[string]bool{
	protocol.CmdRollDice:        true,
	protocol.CmdMoveRobber:      true,
	protocol.CmdChooseVictim:    true,
	protocol.CmdPassTurn:        true,
	protocol.CmdBeginBuild:      true,
	protocol.CmdCancelBuild:     true,
	protocol.CmdBuildRoad:       true,
	protocol.CmdBuildSettlement: true,
	protocol.CmdBuildCity:       true,
	protocol.CmdBuyDevCard:      true,
	protocol.CmdPlayDevCard:     true,
	protocol.CmdOpenTrade:       true,
	protocol.CmdSelectAdd:       true,
	protocol.CmdSelectRemove:    true,
	protocol.CmdExecute:         true,
	protocol.CmdCancelSelector:  true,
	protocol.CmdWithdrawOffer:   true,
}

func isKnownCmd(name string) bool { return knownCmds[name] }
