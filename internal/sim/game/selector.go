package game

import (
	"fmt"

	"hexsettlers/internal/sim/model"
)

type SelectorKind int

const (
	SelectDiscard SelectorKind = iota
	SelectTrade
	SelectYearOfPlenty
	SelectMonopoly
)

var selectorNames = [...]string{"DISCARD", "TRADE", "YEAR_OF_PLENTY", "MONOPOLY"}

func (k SelectorKind) String() string {
	if k < 0 || int(k) >= len(selectorNames) {
		return fmt.Sprintf("SelectorKind(%d)", int(k))
	}
	return selectorNames[k]
}

func (k SelectorKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *SelectorKind) UnmarshalText(b []byte) error {
	for i, n := range selectorNames {
		if n == string(b) {
			*k = SelectorKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown selector kind %q", b)
}

// yearOfPlentyCards is the fixed pick size of the year of plenty card.
const yearOfPlentyCards = 2

// Selector is a pending multi-card choice. Bottom holds what is given or
// picked; Top is what a trade requests and stays empty for other kinds.
type Selector struct {
	Kind   SelectorKind `json:"kind"`
	Seat   int          `json:"seat"`
	Bottom model.Hand   `json:"bottom"`
	Top    model.Hand   `json:"top"`

	// Need is the exact discard size.
	Need int `json:"need,omitempty"`
}

// CanAdd reports whether one more res may be selected. avail bounds the
// count per resource: the player's hand for discards and trade offers, the
// bank for year of plenty and trade requests.
func (s *Selector) CanAdd(res model.Resource, top bool, avail model.Hand) bool {
	if !res.Valid() {
		return false
	}
	if top {
		return s.Kind == SelectTrade && s.Top[res] < avail[res]
	}
	switch s.Kind {
	case SelectDiscard, SelectTrade:
		return s.Bottom[res] < avail[res]
	case SelectYearOfPlenty:
		return s.Bottom.Size() < yearOfPlentyCards && s.Bottom[res] < avail[res]
	case SelectMonopoly:
		return s.Bottom.Size() == 0
	}
	return false
}

func (s *Selector) CanRemove(res model.Resource, top bool) bool {
	if !res.Valid() {
		return false
	}
	if top {
		return s.Kind == SelectTrade && s.Top[res] > 0
	}
	return s.Bottom[res] > 0
}

func (s *Selector) add(res model.Resource, top bool) {
	if top {
		s.Top[res]++
		return
	}
	s.Bottom[res]++
}

func (s *Selector) remove(res model.Resource, top bool) {
	if top {
		s.Top[res]--
		return
	}
	s.Bottom[res]--
}

// CanExecute gates commit. bank is consulted by year of plenty only.
func (s *Selector) CanExecute(bank model.Hand) bool {
	switch s.Kind {
	case SelectDiscard:
		return s.Bottom.Size() == s.Need
	case SelectTrade:
		return !s.Bottom.IsZero() && !s.Top.IsZero() && s.Bottom.Disjoint(s.Top)
	case SelectYearOfPlenty:
		return s.Bottom.Size() == yearOfPlentyCards && bank.Covers(s.Bottom)
	case SelectMonopoly:
		return s.Bottom.Size() == 1
	}
	return false
}

// Cancelable: discarding is mandatory.
func (s *Selector) Cancelable() bool { return s.Kind != SelectDiscard }
