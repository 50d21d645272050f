package game

// updateLargestArmy runs after seat plays a knight. The title needs the
// rules minimum and moves only on a strictly larger army.
func (g *Game) updateLargestArmy(seat int) {
	p := g.players[seat]
	if g.largestArmy == seat || p.Knights < g.rules.LargestArmyMin {
		return
	}
	if g.largestArmy >= 0 {
		holder := g.players[g.largestArmy]
		if p.Knights <= holder.Knights {
			return
		}
		holder.LargestArmy = false
	}
	p.LargestArmy = true
	g.largestArmy = seat
}

// updateLongestRoad recomputes every road length after a road or settlement
// lands. The holder keeps the title unless someone strictly beats the
// holder's current length, and loses it outright below the minimum. A tie
// for first place among challengers leaves the title vacant.
func (g *Game) updateLongestRoad() {
	for _, p := range g.players {
		p.RoadLength = g.board.LongestRoad(p.Color)
	}

	bar := g.rules.LongestRoadMin - 1
	if g.longestRoad >= 0 {
		holder := g.players[g.longestRoad]
		if holder.RoadLength < g.rules.LongestRoadMin {
			holder.LongestRoad = false
			g.longestRoad = -1
		} else {
			bar = holder.RoadLength
		}
	}

	best, bestLen, tied := -1, bar, false
	for i, p := range g.players {
		if i == g.longestRoad {
			continue
		}
		switch {
		case p.RoadLength > bestLen:
			best, bestLen, tied = i, p.RoadLength, false
		case p.RoadLength == bestLen && best >= 0:
			tied = true
		}
	}
	if best < 0 {
		return
	}
	if g.longestRoad >= 0 {
		g.players[g.longestRoad].LongestRoad = false
		g.longestRoad = -1
	}
	if tied {
		return
	}
	g.players[best].LongestRoad = true
	g.longestRoad = best
}
