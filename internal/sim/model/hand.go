package model

import "hexsettlers/internal/sim/rng"

// Hand counts resource cards, indexed by Resource.
type Hand [NumResources]int

// Standard build costs.
var (
	RoadCost       = Hand{1, 1, 0, 0, 0}
	SettlementCost = Hand{1, 1, 1, 1, 0}
	CityCost       = Hand{0, 0, 2, 0, 3}
	DevCardCost    = Hand{0, 0, 1, 1, 1}
)

// One returns a hand holding n cards of r.
func One(r Resource, n int) Hand {
	var h Hand
	h[r] = n
	return h
}

func (h Hand) Size() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

func (h Hand) IsZero() bool { return h == Hand{} }

// Kinds counts the resource types with a nonzero count.
func (h Hand) Kinds() int {
	n := 0
	for _, c := range h {
		if c != 0 {
			n++
		}
	}
	return n
}

// Single reports the only resource type present, if exactly one is.
func (h Hand) Single() (Resource, bool) {
	if h.Kinds() != 1 {
		return 0, false
	}
	for _, r := range Resources {
		if h[r] != 0 {
			return r, true
		}
	}
	return 0, false
}

// Disjoint reports whether no resource type appears in both hands.
func (h Hand) Disjoint(o Hand) bool {
	for i := range h {
		if h[i] != 0 && o[i] != 0 {
			return false
		}
	}
	return true
}

func (h *Hand) Add(o Hand) {
	for i := range h {
		h[i] += o[i]
	}
}

// Covers reports whether h holds at least cost component-wise.
func (h Hand) Covers(cost Hand) bool {
	for i := range h {
		if h[i] < cost[i] {
			return false
		}
	}
	return true
}

// Sub removes cost from h. The caller must have checked Covers.
func (h *Hand) Sub(cost Hand) {
	if !h.Covers(cost) {
		panic("model: hand does not cover cost")
	}
	for i := range h {
		h[i] -= cost[i]
	}
}

// SubMax removes up to cost, clamping each slot at zero.
func (h *Hand) SubMax(cost Hand) {
	for i := range h {
		h[i] -= min(h[i], cost[i])
	}
}

// Scale multiplies every count by k.
func (h Hand) Scale(k int) Hand {
	for i := range h {
		h[i] *= k
	}
	return h
}

// TakeRandom removes one card chosen uniformly among all held cards. It
// reports false on an empty hand.
func (h *Hand) TakeRandom(r rng.Rand) (Resource, bool) {
	size := h.Size()
	if size == 0 {
		return 0, false
	}
	pick := r.Intn(size)
	for _, res := range Resources {
		if pick < h[res] {
			h[res]--
			return res, true
		}
		pick -= h[res]
	}
	panic("model: TakeRandom fell through")
}

// DevHand counts development cards, indexed by DevCard.
type DevHand [NumDevCards]int

func (d DevHand) Size() int {
	n := 0
	for _, c := range d {
		n += c
	}
	return n
}

func (d *DevHand) Add(o DevHand) {
	for i := range d {
		d[i] += o[i]
	}
}

func (d DevHand) Has(c DevCard) bool { return d[c] > 0 }

// TakeRandom removes one card chosen uniformly among all held cards.
func (d *DevHand) TakeRandom(r rng.Rand) (DevCard, bool) {
	size := d.Size()
	if size == 0 {
		return 0, false
	}
	pick := r.Intn(size)
	for _, c := range DevCards {
		if pick < d[c] {
			d[c]--
			return c, true
		}
		pick -= d[c]
	}
	panic("model: TakeRandom fell through")
}
