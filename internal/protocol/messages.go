package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ClientName      string            `json:"client_name"`
	Seat            int               `json:"seat"`
	Capabilities    HelloCapabilities `json:"capabilities"`
}

type HelloCapabilities struct {
	MaxQueue int `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id,omitempty"`
	MatchID         string      `json:"match_id"`
	Seat            int         `json:"seat"`
	Color           string      `json:"color"`
	MatchParams     MatchParams `json:"match_params"`
	Catalogs        CatalogRefs `json:"catalogs"`
}

type MatchParams struct {
	NumPlayers    int   `json:"num_players"`
	Seed          int64 `json:"seed"`
	VictoryTarget int   `json:"victory_target"`
}

type CatalogRefs struct {
	RulesDigest  string `json:"rules_digest"`
	TuningDigest string `json:"tuning_digest,omitempty"`
}

// Command names carried by CMD.Cmd. During setup BUILD_SETTLEMENT and
// BUILD_ROAD place the free opening pieces.
const (
	CmdRollDice        = "ROLL_DICE"
	CmdMoveRobber      = "MOVE_ROBBER"
	CmdChooseVictim    = "CHOOSE_VICTIM"
	CmdPassTurn        = "PASS_TURN"
	CmdBeginBuild      = "BEGIN_BUILD"
	CmdCancelBuild     = "CANCEL_BUILD"
	CmdBuildRoad       = "BUILD_ROAD"
	CmdBuildSettlement = "BUILD_SETTLEMENT"
	CmdBuildCity       = "BUILD_CITY"
	CmdBuyDevCard      = "BUY_DEV_CARD"
	CmdPlayDevCard     = "PLAY_DEV_CARD"
	CmdOpenTrade       = "OPEN_TRADE"
	CmdSelectAdd       = "SELECT_ADD"
	CmdSelectRemove    = "SELECT_REMOVE"
	CmdExecute         = "EXECUTE_SELECTOR"
	CmdCancelSelector  = "CANCEL_SELECTOR"
	CmdWithdrawOffer   = "WITHDRAW_OFFER"
)

// CMD (client -> server). Only the fields the command needs are set.
type CmdMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id,omitempty"`
	Cmd             string `json:"cmd"`

	Hex    *[2]int `json:"hex,omitempty"`    // [r,q]
	Corner *[3]int `json:"corner,omitempty"` // [r,q,c]
	Edge   *[3]int `json:"edge,omitempty"`   // [r,q,e]

	Kind     string `json:"kind,omitempty"` // ROAD, SETTLEMENT, CITY
	Card     string `json:"card,omitempty"`
	Resource string `json:"resource,omitempty"`
	Top      bool   `json:"top,omitempty"`
	OfferID  int    `json:"offer_id,omitempty"`
}

// ACK (server -> client) answers one CMD.
type AckMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	AckFor          string `json:"ack_for"`
	Seq             uint64 `json:"seq"`
	Accepted        bool   `json:"accepted"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`

	// Result details for commands that produce one.
	Roll    int    `json:"roll,omitempty"`
	Card    string `json:"card,omitempty"`
	OfferID int    `json:"offer_id,omitempty"`
}
