package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	MatchID string `json:"match_id"`
	Seq     uint64 `json:"seq"`
}

// MatchV1 is a complete resumable match. Seq is the next command sequence
// number, so replay continues with log entries at or after it.
type MatchV1 struct {
	Header Header `json:"header"`

	Seed        int64  `json:"seed"`
	NumPlayers  int    `json:"num_players"`
	RulesDigest string `json:"rules_digest"`

	// Operational parameters (captured for deterministic replay/resume).
	MaxOpenOffers         int `json:"max_open_offers,omitempty"`
	SnapshotEveryCommands int `json:"snapshot_every_commands,omitempty"`

	Phase string `json:"phase"` // SETUP or MAIN

	Board   BoardV1    `json:"board"`
	Players []PlayerV1 `json:"players"`

	Setup *SetupV1 `json:"setup,omitempty"`
	Turn  *TurnV1  `json:"turn,omitempty"`
}

type BoardV1 struct {
	Tiles  []TileV1 `json:"tiles"`
	Ports  []PortV1 `json:"ports"`
	Robber [2]int   `json:"robber"`

	// Arena-indexed, RLE packed.
	Structures string `json:"structures"`
	Roads      string `json:"roads"`

	Bank    [5]int `json:"bank"`
	DevBank [5]int `json:"dev_bank"`
}

type TileV1 struct {
	Desert   bool `json:"desert,omitempty"`
	Resource int  `json:"resource"`
	Number   int  `json:"number"`
}

type PortV1 struct {
	Generic  bool `json:"generic,omitempty"`
	Resource int  `json:"resource"`
}

type PlayerV1 struct {
	Color   int    `json:"color"`
	Hand    [5]int `json:"hand"`
	Dev     [5]int `json:"dev"`
	NewDev  [5]int `json:"new_dev"`
	Knights int    `json:"knights"`

	RoadLength  int  `json:"road_length"`
	LargestArmy bool `json:"largest_army,omitempty"`
	LongestRoad bool `json:"longest_road,omitempty"`
	Points      int  `json:"points"`

	RoadsLeft       int `json:"roads_left"`
	SettlementsLeft int `json:"settlements_left"`
	CitiesLeft      int `json:"cities_left"`
}

type SetupV1 struct {
	Step    int `json:"step"`
	Pending int `json:"pending"`
}

type TurnV1 struct {
	Turn        int    `json:"turn"`
	Current     int    `json:"current"`
	Number      int    `json:"number"`
	Roll        int    `json:"roll"`
	Dice        [2]int `json:"dice"`
	PlayedDev   bool   `json:"played_dev,omitempty"`
	Action      string `json:"action"`
	PlacedFirst bool   `json:"placed_first,omitempty"`

	Selector     *SelectorV1 `json:"selector,omitempty"`
	Offers       []OfferV1   `json:"offers,omitempty"`
	NextOfferID  int         `json:"next_offer_id"`
	DiscardQueue []int       `json:"discard_queue,omitempty"`

	LargestArmy int `json:"largest_army"`
	LongestRoad int `json:"longest_road"`
	Winner      int `json:"winner"`
}

type SelectorV1 struct {
	Kind   string `json:"kind"`
	Seat   int    `json:"seat"`
	Bottom [5]int `json:"bottom"`
	Top    [5]int `json:"top"`
	Need   int    `json:"need,omitempty"`
}

type OfferV1 struct {
	ID   int    `json:"id"`
	Seat int    `json:"seat"`
	Give [5]int `json:"give"`
	Get  [5]int `json:"get"`
}

// Path names a snapshot file inside dir by its sequence number.
func Path(dir string, seq uint64) string {
	return filepath.Join(dir, fmt.Sprintf("%012d.snap.zst", seq))
}

func WriteSnapshot(path string, snap MatchV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 64*1024)
	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

// ReadHeader returns only the JSON header line.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, err
	}
	err = json.Unmarshal(line, &h)
	return h, err
}

func ReadSnapshot(path string) (MatchV1, error) {
	var snap MatchV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)

	// The gob body repeats the header.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	return snap, nil
}
