package match

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"

	"hexsettlers/internal/sim/board"
	"hexsettlers/internal/sim/game"
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/player"
)

// stateDigest hashes a canonical encoding of the whole engine state. Two
// matches with equal digests at the same seq behave identically from there.
func (m *Match) stateDigest() string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, m.seq)
	digestWriteI64(h, &tmp, m.cfg.Seed)
	if m.game == nil {
		st := m.setup.ExportState()
		h.Write([]byte{'S'})
		digestBoard(h, &tmp, st.Board)
		digestPlayers(h, &tmp, st.Players)
		digestWriteI64(h, &tmp, int64(st.Step))
		digestWriteI64(h, &tmp, int64(st.Pending))
	} else {
		st := m.game.ExportState()
		h.Write([]byte{'M'})
		digestBoard(h, &tmp, st.Board)
		digestPlayers(h, &tmp, st.Players)
		digestTurn(h, &tmp, st)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func digestWriteU64(h hash.Hash, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hash.Hash, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func digestHand(h hash.Hash, tmp *[8]byte, hand model.Hand) {
	for _, n := range hand {
		digestWriteI64(h, tmp, int64(n))
	}
}

func digestDevHand(h hash.Hash, tmp *[8]byte, d model.DevHand) {
	for _, n := range d {
		digestWriteI64(h, tmp, int64(n))
	}
}

func digestBoard(h hash.Hash, tmp *[8]byte, b board.State) {
	for _, t := range b.Tiles {
		h.Write([]byte{boolByte(t.Desert), byte(t.Resource), byte(t.Number)})
	}
	for _, p := range b.Ports {
		h.Write([]byte{boolByte(p.Generic), byte(p.Resource)})
	}
	h.Write([]byte{byte(b.Robber.R), byte(b.Robber.Q)})
	for _, v := range b.Structures {
		h.Write([]byte{byte(v)})
	}
	for _, v := range b.Roads {
		h.Write([]byte{byte(v)})
	}
	digestHand(h, tmp, b.Bank)
	digestDevHand(h, tmp, b.DevBank)
}

func digestPlayers(h hash.Hash, tmp *[8]byte, ps []player.State) {
	digestWriteU64(h, tmp, uint64(len(ps)))
	for _, p := range ps {
		digestWriteI64(h, tmp, int64(p.Color))
		digestHand(h, tmp, p.Hand)
		digestDevHand(h, tmp, p.Dev)
		digestDevHand(h, tmp, p.NewDev)
		for _, v := range []int{p.Knights, p.RoadLength, p.Points, p.RoadsLeft, p.SettlementsLeft, p.CitiesLeft} {
			digestWriteI64(h, tmp, int64(v))
		}
		h.Write([]byte{boolByte(p.LargestArmy), boolByte(p.LongestRoad)})
	}
}

func digestTurn(h hash.Hash, tmp *[8]byte, st game.State) {
	for _, v := range []int{st.Turn, st.Current, st.Roll, st.Dice[0], st.Dice[1], int(st.Action),
		st.NextOfferID, st.LargestArmy, st.LongestRoad, st.Winner, st.TurnNumber} {
		digestWriteI64(h, tmp, int64(v))
	}
	h.Write([]byte{boolByte(st.PlayedDev), boolByte(st.PlacedFirst)})

	if s := st.Selector; s != nil {
		h.Write([]byte{1, byte(s.Kind)})
		digestWriteI64(h, tmp, int64(s.Seat))
		digestWriteI64(h, tmp, int64(s.Need))
		digestHand(h, tmp, s.Bottom)
		digestHand(h, tmp, s.Top)
	} else {
		h.Write([]byte{0})
	}

	digestWriteU64(h, tmp, uint64(len(st.Offers)))
	for _, o := range st.Offers {
		digestWriteI64(h, tmp, int64(o.ID))
		digestWriteI64(h, tmp, int64(o.Seat))
		digestHand(h, tmp, o.Give)
		digestHand(h, tmp, o.Get)
	}
	digestWriteU64(h, tmp, uint64(len(st.DiscardQueue)))
	for _, s := range st.DiscardQueue {
		digestWriteI64(h, tmp, int64(s))
	}
}
