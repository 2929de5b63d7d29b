package engine

// RollDice rolls two six-sided dice. On doubles every hand is swept onto the
// discard pile and refilled with the same number of cards from the draw pile
// (the Sabacc Shift). The round advances after every roll.
func (g *GameState) RollDice() DiceResult {
	var res DiceResult
	res.Dice[0] = uint8(g.randN(6)) + 1
	res.Dice[1] = uint8(g.randN(6)) + 1

	if res.Dice[0] == res.Dice[1] {
		res.Shift = true
		g.sabaccShift(&res)
	}

	g.closeExchange()
	g.advanceRound()
	res.Round = g.Round

	g.LastRoll = res
	g.Rolled = true
	return res
}

// sabaccShift redistributes all hands. Card conservation holds before and
// after, and each hand keeps its size unless both piles run dry.
func (g *GameState) sabaccShift(res *DiceResult) {
	n := g.Rules.numPlayers()

	var sizes [MaxPlayers]uint8
	for p := uint8(0); p < n; p++ {
		sizes[p] = g.Hands[p].Len
		for g.Hands[p].Len > 0 {
			c := g.Hands[p].pop()
			g.DiscardPile.push(c)
			g.loc[c] = Location{Zone: ZoneDiscardPile}
		}
	}

	for p := uint8(0); p < n; p++ {
		for k := uint8(0); k < sizes[p]; k++ {
			if g.DrawPile.IsEmpty() {
				if g.DiscardPile.IsEmpty() {
					res.Short[p] = sizes[p] - k
					break
				}
				g.recycleDiscard()
				res.Recycles++
			}
			g.popDraw(Location{Zone: ZoneHand, Player: p})
		}
	}
}
