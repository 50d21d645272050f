package board

import (
	"hexsettlers/internal/sim/hexgrid"
	"hexsettlers/internal/sim/model"
	"hexsettlers/internal/sim/rng"
)

// Produce distributes resources for roll and debits the bank. The result is
// indexed by color. When the bank cannot cover every claim on a resource,
// nobody receives that resource.
func (b *Board) Produce(roll int) [model.MaxPlayers]model.Hand {
	var claims [model.MaxPlayers]model.Hand
	for hi, h := range hexgrid.Hexes {
		t := b.tiles[hi]
		if t.Desert || t.Number != roll || h == b.robber {
			continue
		}
		for _, c := range hexgrid.HexCorners(h) {
			s := b.structures[c]
			switch s.Kind {
			case model.Settlement:
				claims[s.Color][t.Resource]++
			case model.City:
				claims[s.Color][t.Resource] += 2
			}
		}
	}

	for _, res := range model.Resources {
		total := 0
		for col := range claims {
			total += claims[col][res]
		}
		if total > b.bank[res] {
			for col := range claims {
				claims[col][res] = 0
			}
			continue
		}
		b.bank[res] -= total
	}
	return claims
}

// SetupYield grants one card per producing hex around c, as far as the bank
// allows, and returns what was granted.
func (b *Board) SetupYield(c hexgrid.CornerID) model.Hand {
	var out model.Hand
	for _, h := range c.Hexes() {
		t, _ := b.Tile(h)
		if t.Desert || b.bank[t.Resource] == 0 {
			continue
		}
		b.bank[t.Resource]--
		out[t.Resource]++
	}
	return out
}

func (b *Board) BankCovers(h model.Hand) bool { return b.bank.Covers(h) }

// BankWithdraw moves cards from the bank to a player.
func (b *Board) BankWithdraw(h model.Hand) { b.bank.Sub(h) }

// BankDeposit moves cards from a player to the bank.
func (b *Board) BankDeposit(h model.Hand) { b.bank.Add(h) }

func (b *Board) CanDrawDevCard() bool { return b.devBank.Size() > 0 }

// DrawDevCard removes a uniformly chosen card and credits the card cost to
// the bank. Callers must check CanDrawDevCard first.
func (b *Board) DrawDevCard(r rng.Rand) model.DevCard {
	card, ok := b.devBank.TakeRandom(r)
	if !ok {
		panic("board: draw from empty dev card bank")
	}
	b.bank.Add(b.rules.Costs.DevCard)
	return card
}

// CanMoveRobber: the robber must land on a different board hex.
func (b *Board) CanMoveRobber(h hexgrid.Hex) bool {
	return h.OnBoard() && h != b.robber
}

func (b *Board) MoveRobber(h hexgrid.Hex) {
	if !b.CanMoveRobber(h) {
		panic("board: illegal robber move to " + h.String())
	}
	b.robber = h
}

// ColorsOnHex returns the distinct owners of structures on h, in corner order.
func (b *Board) ColorsOnHex(h hexgrid.Hex) []model.Color {
	var out []model.Color
	for _, c := range hexgrid.HexCorners(h) {
		s := b.structures[c]
		if s.Empty() {
			continue
		}
		seen := false
		for _, x := range out {
			if x == s.Color {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, s.Color)
		}
	}
	return out
}

// Victims are the colors other than thief with a structure on the robber hex.
func (b *Board) Victims(thief model.Color) []model.Color {
	var out []model.Color
	for _, col := range b.ColorsOnHex(b.robber) {
		if col != thief {
			out = append(out, col)
		}
	}
	return out
}

// IsRobbable reports whether c touches the robber hex and holds a structure
// not owned by excluding.
func (b *Board) IsRobbable(c hexgrid.CornerID, excluding model.Color) bool {
	if !b.structureIsNot(c, excluding) {
		return false
	}
	for _, h := range c.Hexes() {
		if h == b.robber {
			return true
		}
	}
	return false
}
