package game

import "errors"

// Rejections. A command that returns one of these left the state unchanged.
var (
	ErrNotYourTurn   = errors.New("not your turn")
	ErrWrongPhase    = errors.New("command not allowed in current phase")
	ErrNotRolled     = errors.New("dice not rolled yet")
	ErrAlreadyRolled = errors.New("dice already rolled this turn")
	ErrGameOver      = errors.New("game is over")

	ErrBadCoordinate    = errors.New("coordinate not on board")
	ErrIllegalPlacement = errors.New("illegal placement")
	ErrCannotAfford     = errors.New("insufficient resources")
	ErrNoPieces         = errors.New("no pieces left")
	ErrDeckEmpty        = errors.New("development card deck is empty")
	ErrDevCardPlayed    = errors.New("a development card was already played this turn")
	ErrCardUnavailable  = errors.New("development card not playable")

	ErrBadRobberMove = errors.New("robber must move to a different hex")
	ErrNotRobbable   = errors.New("corner is not robbable")

	ErrSelectorOpen       = errors.New("a selection is pending")
	ErrNoSelector         = errors.New("no selection is pending")
	ErrSelectorLimit      = errors.New("selection change not allowed")
	ErrSelectorIncomplete = errors.New("selection cannot be executed")
	ErrNotCancelable      = errors.New("selection cannot be cancelled")

	ErrNoSuchOffer   = errors.New("no such trade offer")
	ErrTooManyOffers = errors.New("too many open trade offers")
)
