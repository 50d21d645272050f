package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Seat routing.
	ErrSeatTaken   = "E_SEAT_TAKEN"
	ErrSeatInvalid = "E_SEAT_INVALID"

	// Rule layer.
	ErrBadRequest  = "E_BAD_REQUEST"
	ErrNotYourTurn = "E_NOT_YOUR_TURN"
	ErrWrongPhase  = "E_WRONG_PHASE"
	ErrIllegal     = "E_ILLEGAL"
	ErrNoResource  = "E_NO_RESOURCE"
	ErrRateLimit   = "E_RATE_LIMIT"
	ErrGameOver    = "E_GAME_OVER"
	ErrInternal    = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrSeatTaken:       {},
	ErrSeatInvalid:     {},
	ErrBadRequest:      {},
	ErrNotYourTurn:     {},
	ErrWrongPhase:      {},
	ErrIllegal:         {},
	ErrNoResource:      {},
	ErrRateLimit:       {},
	ErrGameOver:        {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
