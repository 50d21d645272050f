// Package match runs one authoritative game. All engine state is owned by a
// single goroutine: commands arrive on the inbox, are applied in receive
// order, and every applied command is acknowledged, logged with a state
// digest and followed by a fresh observation for each attached seat.
package match

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"hexsettlers/internal/persistence/snapshot"
	"hexsettlers/internal/protocol"
	"hexsettlers/internal/sim/board"
	"hexsettlers/internal/sim/catalogs"
	"hexsettlers/internal/sim/game"
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/rng"
	"hexsettlers/internal/sim/tuning"
)

type Config struct {
	ID         string
	Seed       int64
	NumPlayers int

	MaxBoardAttempts      int
	MaxOpenOffers         int
	InboxSize             int
	SnapshotEveryCommands int
}

// ConfigFromTuning fills the operational knobs from t.
func ConfigFromTuning(id string, t tuning.Tuning) Config {
	return Config{
		ID:                    id,
		Seed:                  t.Seed,
		NumPlayers:            t.NumPlayers,
		MaxBoardAttempts:      t.MaxBoardAttempts,
		MaxOpenOffers:         t.MaxOpenOffers,
		InboxSize:             t.InboxSize,
		SnapshotEveryCommands: t.SnapshotEveryCommands,
	}
}

// CommandEnvelope is a command tagged with the seat of the session that sent it.
type CommandEnvelope struct {
	Seat int
	Cmd  protocol.CmdMsg
}

type AttachRequest struct {
	Seat int
	Out  chan []byte
	Resp chan AttachResponse
}

// AttachResponse carries the WELCOME on success, or an error code.
type AttachResponse struct {
	Welcome protocol.WelcomeMsg
	Code    string
}

type TurnLogEntry struct {
	Seq    uint64          `json:"seq"`
	Seat   int             `json:"seat"`
	Cmd    protocol.CmdMsg `json:"cmd"`
	Code   string          `json:"code,omitempty"`
	Digest string          `json:"digest"`
}

type TurnLogger interface {
	WriteTurn(entry TurnLogEntry) error
}

type Match struct {
	cfg          Config
	rules        *catalogs.Rules
	tuningDigest string

	// Exactly one of setup and game is non-nil.
	setup *game.Setup
	game  *game.Game

	// seq is the sequence number the next command will get.
	seq uint64

	inbox  chan CommandEnvelope
	attach chan AttachRequest
	leave  chan int
	stop   chan struct{}

	clients map[int]chan []byte

	turnLogger   TurnLogger
	snapshotSink chan<- snapshot.MatchV1
	onFinish     func(winner int)
	finished     bool

	// Published for readers outside the match goroutine.
	pubSeq      atomic.Uint64
	pubRejected atomic.Uint64
	pubClients  atomic.Int32
}

// Metrics is a point-in-time view that is safe to read from any goroutine.
type Metrics struct {
	Seq        uint64 `json:"seq"`
	Rejected   uint64 `json:"rejected"`
	Clients    int    `json:"clients"`
	InboxDepth int    `json:"inbox_depth"`
}

func (m *Match) Metrics() Metrics {
	return Metrics{
		Seq:        m.pubSeq.Load(),
		Rejected:   m.pubRejected.Load(),
		Clients:    int(m.pubClients.Load()),
		InboxDepth: len(m.inbox),
	}
}

// New generates the board from the match seed and opens the setup phase.
func New(cfg Config, rules *catalogs.Rules) (*Match, error) {
	if cfg.NumPlayers < 2 || cfg.NumPlayers > model.MaxPlayers {
		return nil, fmt.Errorf("match: invalid player count %d", cfg.NumPlayers)
	}
	if cfg.MaxBoardAttempts <= 0 {
		cfg.MaxBoardAttempts = tuning.Defaults().MaxBoardAttempts
	}
	b, err := board.New(cfg.NumPlayers, rules, rng.New(cfg.Seed), cfg.MaxBoardAttempts)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	m := newMatch(cfg, rules)
	m.setup = game.NewSetup(b, m.gameConfig())
	return m, nil
}

func newMatch(cfg Config, rules *catalogs.Rules) *Match {
	if cfg.InboxSize <= 0 {
		cfg.InboxSize = tuning.Defaults().InboxSize
	}
	return &Match{
		cfg:     cfg,
		rules:   rules,
		inbox:   make(chan CommandEnvelope, cfg.InboxSize),
		attach:  make(chan AttachRequest),
		leave:   make(chan int, model.MaxPlayers),
		stop:    make(chan struct{}),
		clients: map[int]chan []byte{},
	}
}

func (m *Match) gameConfig() game.Config { return game.Config{MaxOpenOffers: m.cfg.MaxOpenOffers} }

func (m *Match) ID() string                    { return m.cfg.ID }
func (m *Match) Seed() int64                   { return m.cfg.Seed }
func (m *Match) NumPlayers() int               { return m.cfg.NumPlayers }
func (m *Match) Inbox() chan<- CommandEnvelope { return m.inbox }
func (m *Match) Attach() chan<- AttachRequest  { return m.attach }
func (m *Match) Leave() chan<- int             { return m.leave }

func (m *Match) SetTurnLogger(l TurnLogger) { m.turnLogger = l }
func (m *Match) SetTuningDigest(d string)   { m.tuningDigest = d }

// SetSnapshotSink routes snapshots to ch. The reader must keep draining ch
// until Run returns: the first and the winning snapshot block on it.
func (m *Match) SetSnapshotSink(ch chan<- snapshot.MatchV1) { m.snapshotSink = ch }

// OnFinish registers fn to run once, on the match goroutine, when a winner
// is decided.
func (m *Match) OnFinish(fn func(winner int)) { m.onFinish = fn }

// Seq is the sequence number the next command will get. Only safe when the
// match is not running.
func (m *Match) Seq() uint64 { return m.seq }

func (m *Match) Phase() string {
	if m.game == nil {
		return protocol.PhaseSetup
	}
	if _, ok := m.game.Winner(); ok {
		return protocol.PhaseOver
	}
	return protocol.PhaseMain
}

func (m *Match) Run(ctx context.Context) error {
	if m.seq == 0 {
		m.emitSnapshot(true)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.stop:
			return nil
		case req := <-m.attach:
			m.handleAttach(req)
		case seat := <-m.leave:
			delete(m.clients, seat)
			m.pubClients.Store(int32(len(m.clients)))
		case env := <-m.inbox:
			m.step(env)
		}
	}
}

func (m *Match) Stop() { close(m.stop) }

func (m *Match) handleAttach(req AttachRequest) {
	resp := AttachResponse{}
	switch {
	case req.Seat < 0 || req.Seat >= m.cfg.NumPlayers || req.Out == nil:
		resp.Code = protocol.ErrSeatInvalid
	case m.clients[req.Seat] != nil:
		resp.Code = protocol.ErrSeatTaken
	default:
		m.clients[req.Seat] = req.Out
		m.pubClients.Store(int32(len(m.clients)))
		resp.Welcome = m.buildWelcome(req.Seat)
	}
	if req.Resp != nil {
		req.Resp <- resp
	}
	if resp.Code == "" {
		m.sendObs(req.Seat, req.Out)
	}
}

func (m *Match) buildWelcome(seat int) protocol.WelcomeMsg {
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		MatchID:         m.cfg.ID,
		Seat:            seat,
		Color:           model.Colors[seat].String(),
		MatchParams: protocol.MatchParams{
			NumPlayers:    m.cfg.NumPlayers,
			Seed:          m.cfg.Seed,
			VictoryTarget: m.rules.VictoryTarget,
		},
		Catalogs: protocol.CatalogRefs{
			RulesDigest:  m.rules.Digest,
			TuningDigest: m.tuningDigest,
		},
	}
}

// StepOnce applies one command with the same semantics as the running loop.
// It is the entry point for replay and tests.
func (m *Match) StepOnce(seat int, cmd protocol.CmdMsg) (seq uint64, digest string, code string) {
	entry := m.step(CommandEnvelope{Seat: seat, Cmd: cmd})
	return entry.Seq, entry.Digest, entry.Code
}

func (m *Match) step(env CommandEnvelope) TurnLogEntry {
	seq := m.seq
	res, err := m.apply(env.Seat, env.Cmd, rng.ForCommand(m.cfg.Seed, seq))
	m.seq++
	m.pubSeq.Store(m.seq)
	if err != nil {
		m.pubRejected.Add(1)
	}

	entry := TurnLogEntry{Seq: seq, Seat: env.Seat, Cmd: env.Cmd, Code: Code(err), Digest: m.stateDigest()}
	if m.turnLogger != nil {
		_ = m.turnLogger.WriteTurn(entry)
	}

	if out := m.clients[env.Seat]; out != nil {
		ack := protocol.AckMsg{
			Type:            protocol.TypeAck,
			ProtocolVersion: protocol.Version,
			AckFor:          env.Cmd.ID,
			Seq:             seq,
			Accepted:        err == nil,
			Code:            entry.Code,
			Roll:            res.roll,
			Card:            res.card,
			OfferID:         res.offerID,
		}
		if err != nil {
			ack.Message = err.Error()
		}
		if b, mErr := json.Marshal(ack); mErr == nil {
			sendLatest(out, b)
		}
	}
	for seat, out := range m.clients {
		m.sendObs(seat, out)
	}

	if !m.finished && m.game != nil {
		if w, ok := m.game.Winner(); ok {
			m.finished = true
			m.emitSnapshot(true)
			if m.onFinish != nil {
				m.onFinish(w)
			}
			return entry
		}
	}
	if every := uint64(m.cfg.SnapshotEveryCommands); every > 0 && m.seq%every == 0 {
		m.emitSnapshot(false)
	}
	return entry
}

// emitSnapshot hands the current state to the sink. Periodic snapshots are
// dropped when the sink is backed up; the first and the final one wait.
func (m *Match) emitSnapshot(wait bool) {
	if m.snapshotSink == nil {
		return
	}
	if wait {
		m.snapshotSink <- m.ExportSnapshot()
		return
	}
	select {
	case m.snapshotSink <- m.ExportSnapshot():
	default:
		// Sink is backed up.
	}
}

func (m *Match) sendObs(seat int, out chan []byte) {
	b, err := json.Marshal(m.buildObs(seat))
	if err != nil {
		return
	}
	sendLatest(out, b)
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
