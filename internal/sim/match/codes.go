package match

import (
	"errors"

	"hexsettlers/internal/protocol"
	"hexsettlers/internal/sim/game"
)

var codeTable = []struct {
	err  error
	code string
}{
	{errBadRequest, protocol.ErrBadRequest},
	{game.ErrBadCoordinate, protocol.ErrBadRequest},
	{game.ErrGameOver, protocol.ErrGameOver},
	{game.ErrNotYourTurn, protocol.ErrNotYourTurn},
	{game.ErrWrongPhase, protocol.ErrWrongPhase},
	{game.ErrNotRolled, protocol.ErrWrongPhase},
	{game.ErrAlreadyRolled, protocol.ErrWrongPhase},
	{game.ErrSelectorOpen, protocol.ErrWrongPhase},
	{game.ErrNoSelector, protocol.ErrWrongPhase},
	{game.ErrCannotAfford, protocol.ErrNoResource},
	{game.ErrNoPieces, protocol.ErrNoResource},
	{game.ErrDeckEmpty, protocol.ErrNoResource},
	{game.ErrTooManyOffers, protocol.ErrRateLimit},
	{game.ErrIllegalPlacement, protocol.ErrIllegal},
	{game.ErrDevCardPlayed, protocol.ErrIllegal},
	{game.ErrCardUnavailable, protocol.ErrIllegal},
	{game.ErrBadRobberMove, protocol.ErrIllegal},
	{game.ErrNotRobbable, protocol.ErrIllegal},
	{game.ErrSelectorLimit, protocol.ErrIllegal},
	{game.ErrSelectorIncomplete, protocol.ErrIllegal},
	{game.ErrNotCancelable, protocol.ErrIllegal},
	{game.ErrNoSuchOffer, protocol.ErrIllegal},
}

// Code maps a command error to its wire code. nil maps to "".
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codeTable {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return protocol.ErrInternal
}
