package tuning

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	NumPlayers       int   `yaml:"num_players"`
	Seed             int64 `yaml:"seed"`
	MaxBoardAttempts int   `yaml:"max_board_attempts"`

	InboxSize             int `yaml:"inbox_size"`
	SnapshotEveryCommands int `yaml:"snapshot_every_commands"`
	MaxOpenOffers         int `yaml:"max_open_offers"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:       "1.0",
		NumPlayers:            4,
		MaxBoardAttempts:      1000,
		InboxSize:             64,
		SnapshotEveryCommands: 50,
		MaxOpenOffers:         8,
	}
}

// Load overlays the YAML file at path onto Defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.NumPlayers < 2 || t.NumPlayers > 4 {
		return fmt.Errorf("num_players must be 2..4, got %d", t.NumPlayers)
	}
	if t.MaxBoardAttempts <= 0 {
		return fmt.Errorf("max_board_attempts must be positive")
	}
	if t.InboxSize <= 0 {
		return fmt.Errorf("inbox_size must be positive")
	}
	if t.SnapshotEveryCommands < 0 {
		return fmt.Errorf("snapshot_every_commands must not be negative")
	}
	return nil
}

// Digest identifies the effective tuning; it is published in WELCOME.
func (t Tuning) Digest() string {
	b, err := yaml.Marshal(t)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
