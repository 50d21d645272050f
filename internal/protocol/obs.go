package protocol

// Match phases reported in OBS.
const (
	PhaseSetup = "SETUP"
	PhaseMain  = "MAIN"
	PhaseOver  = "OVER"
)

// OBS (server -> client), one per seat after every command.
type ObsMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	MatchID         string `json:"match_id"`
	Seq             uint64 `json:"seq"`
	Seat            int    `json:"seat"`
	Phase           string `json:"phase"`

	Board   BoardObs    `json:"board"`
	Self    SelfObs     `json:"self"`
	Players []PlayerObs `json:"players"`
	Turn    TurnObs     `json:"turn"`

	Available AvailableObs `json:"available"`
	Winner    *int         `json:"winner,omitempty"`
}

type BoardObs struct {
	Tiles      []TileObs      `json:"tiles"`
	Ports      []PortObs      `json:"ports"`
	Robber     [2]int         `json:"robber"`
	Structures []StructureObs `json:"structures"`
	Roads      []RoadObs      `json:"roads"`
	Bank       map[string]int `json:"bank"`
	DevDeck    int            `json:"dev_deck"`
}

type TileObs struct {
	Hex      [2]int `json:"hex"`
	Desert   bool   `json:"desert,omitempty"`
	Resource string `json:"resource,omitempty"`
	Number   int    `json:"number,omitempty"`
}

type PortObs struct {
	Corners [2][3]int `json:"corners"`
	Kind    string    `json:"kind"` // GENERIC or a resource
}

type StructureObs struct {
	Corner [3]int `json:"corner"`
	Kind   string `json:"kind"`
	Color  string `json:"color"`
}

type RoadObs struct {
	Edge  [3]int `json:"edge"`
	Color string `json:"color"`
}

type SelfObs struct {
	Color         string         `json:"color"`
	Hand          map[string]int `json:"hand"`
	DevCards      map[string]int `json:"dev_cards"`
	NewDevCards   map[string]int `json:"new_dev_cards"`
	TradeRates    map[string]int `json:"trade_rates"`
	VictoryPoints int            `json:"victory_points"`
}

type PlayerObs struct {
	Seat            int    `json:"seat"`
	Color           string `json:"color"`
	Cards           int    `json:"cards"`
	DevCards        int    `json:"dev_cards"`
	Knights         int    `json:"knights"`
	RoadLength      int    `json:"road_length"`
	LargestArmy     bool   `json:"largest_army,omitempty"`
	LongestRoad     bool   `json:"longest_road,omitempty"`
	PublicPoints    int    `json:"public_points"`
	RoadsLeft       int    `json:"roads_left"`
	SettlementsLeft int    `json:"settlements_left"`
	CitiesLeft      int    `json:"cities_left"`
}

type TurnObs struct {
	Number        int    `json:"number"`
	TurnSeat      int    `json:"turn_seat"`
	CurrentSeat   int    `json:"current_seat"`
	Action        string `json:"action,omitempty"`
	Roll          int    `json:"roll,omitempty"`
	Dice          [2]int `json:"dice"`
	PlayedDevCard bool   `json:"played_dev_card,omitempty"`

	Selector     *SelectorObs `json:"selector,omitempty"`
	Offers       []OfferObs   `json:"offers,omitempty"`
	DiscardQueue []int        `json:"discard_queue,omitempty"`

	// Setup only.
	SetupStep    int  `json:"setup_step,omitempty"`
	AwaitingRoad bool `json:"awaiting_road,omitempty"`
}

type SelectorObs struct {
	Kind       string         `json:"kind"`
	Seat       int            `json:"seat"`
	Bottom     map[string]int `json:"bottom"`
	Top        map[string]int `json:"top,omitempty"`
	Need       int            `json:"need,omitempty"`
	CanExecute bool           `json:"can_execute"`
}

type OfferObs struct {
	ID   int            `json:"id"`
	Seat int            `json:"seat"`
	Give map[string]int `json:"give"`
	Get  map[string]int `json:"get"`
}

// AvailableObs mirrors the action menu.
type AvailableObs struct {
	BuyDevCard bool `json:"buy_dev_card"`
	Road       bool `json:"road"`
	Settlement bool `json:"settlement"`
	City       bool `json:"city"`
	EndTurn    bool `json:"end_turn"`
}
