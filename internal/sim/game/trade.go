package game

import "hexsettlers/internal/sim/model"

// ExecResult describes what a committed selection did.
type ExecResult struct {
	Kind SelectorKind `json:"kind"`
	// BankTrade is set when a trade settled against the bank.
	BankTrade bool `json:"bank_trade,omitempty"`
	// OfferID is set when a trade was queued for other players.
	OfferID int `json:"offer_id,omitempty"`
}

// OpenTrade starts a trade selection for the turn player.
func (g *Game) OpenTrade(seat int) error {
	if err := g.authorize(seat); err != nil {
		return err
	}
	if err := g.idle(); err != nil {
		return err
	}
	if g.roll == 0 {
		return ErrNotRolled
	}
	g.selector = &Selector{Kind: SelectTrade, Seat: seat}
	return nil
}

func (g *Game) ownSelector(seat int) (*Selector, error) {
	if err := g.authorize(seat); err != nil {
		return nil, err
	}
	if g.selector == nil {
		return nil, ErrNoSelector
	}
	if g.selector.Seat != seat {
		return nil, ErrNotYourTurn
	}
	return g.selector, nil
}

func (g *Game) selectorLimit(s *Selector, top bool) model.Hand {
	switch {
	case top:
		return g.rules.Bank
	case s.Kind == SelectYearOfPlenty:
		return g.board.Bank()
	default:
		return g.players[s.Seat].Hand
	}
}

func (g *Game) SelectorAdd(seat int, res model.Resource, top bool) error {
	s, err := g.ownSelector(seat)
	if err != nil {
		return err
	}
	if !s.CanAdd(res, top, g.selectorLimit(s, top)) {
		return ErrSelectorLimit
	}
	s.add(res, top)
	return nil
}

func (g *Game) SelectorRemove(seat int, res model.Resource, top bool) error {
	s, err := g.ownSelector(seat)
	if err != nil {
		return err
	}
	if !s.CanRemove(res, top) {
		return ErrSelectorLimit
	}
	s.remove(res, top)
	return nil
}

// CanExecuteSelector is the query behind the commit button.
func (g *Game) CanExecuteSelector(seat int) bool {
	s, err := g.ownSelector(seat)
	return err == nil && s.CanExecute(g.board.Bank())
}

// ExecuteSelector commits the pending selection.
func (g *Game) ExecuteSelector(seat int) (ExecResult, error) {
	s, err := g.ownSelector(seat)
	if err != nil {
		return ExecResult{}, err
	}
	if !s.CanExecute(g.board.Bank()) {
		return ExecResult{}, ErrSelectorIncomplete
	}
	res := ExecResult{Kind: s.Kind}
	p := g.players[seat]

	switch s.Kind {
	case SelectDiscard:
		p.Hand.Sub(s.Bottom)
		g.board.BankDeposit(s.Bottom)
		g.selector = nil
		g.discardQueue = g.discardQueue[1:]
		g.nextDiscard()
		return res, nil

	case SelectTrade:
		if g.bankTradeMatches(seat, s.Bottom, s.Top) {
			p.Hand.Sub(s.Bottom)
			g.board.BankDeposit(s.Bottom)
			g.board.BankWithdraw(s.Top)
			p.Hand.Add(s.Top)
			res.BankTrade = true
		} else {
			if g.cfg.MaxOpenOffers > 0 && len(g.offers) >= g.cfg.MaxOpenOffers {
				return ExecResult{}, ErrTooManyOffers
			}
			o := Offer{ID: g.nextOfferID, Seat: seat, Give: s.Bottom, Get: s.Top}
			g.nextOfferID++
			g.offers = append(g.offers, o)
			res.OfferID = o.ID
		}

	case SelectYearOfPlenty:
		p.PlayDevCard(model.YearOfPlenty)
		g.playedDev = true
		g.board.BankWithdraw(s.Bottom)
		p.Hand.Add(s.Bottom)

	case SelectMonopoly:
		p.PlayDevCard(model.Monopoly)
		g.playedDev = true
		r, _ := s.Bottom.Single()
		for i, other := range g.players {
			if i == seat {
				continue
			}
			p.Hand[r] += other.Hand[r]
			other.Hand[r] = 0
		}
	}
	g.selector = nil
	g.checkWinner()
	return res, nil
}

// bankTradeMatches: a single resource type given at exactly the player's
// rate for every requested card, and the bank holds the request.
func (g *Game) bankTradeMatches(seat int, give, get model.Hand) bool {
	r, ok := give.Single()
	if !ok {
		return false
	}
	rate := g.board.TradeRate(g.color(seat), r)
	return give[r] == rate*get.Size() && g.board.BankCovers(get)
}

// CancelSelector abandons a pending selection. Discards cannot be cancelled.
func (g *Game) CancelSelector(seat int) error {
	s, err := g.ownSelector(seat)
	if err != nil {
		return err
	}
	if !s.Cancelable() {
		return ErrNotCancelable
	}
	g.selector = nil
	return nil
}

// WithdrawOffer removes one of seat's queued offers.
func (g *Game) WithdrawOffer(seat int, id int) error {
	if err := g.authorize(seat); err != nil {
		return err
	}
	for i, o := range g.offers {
		if o.ID == id && o.Seat == seat {
			g.offers = append(g.offers[:i], g.offers[i+1:]...)
			return nil
		}
	}
	return ErrNoSuchOffer
}
