package engine

// Pile is an ordered list of cards. For the draw and discard piles the last
// element is the top; for hands the order is insertion (display) order.
type Pile struct {
	Cards [DeckSize]Card
	Len   uint8
}

// Size returns the number of cards in the pile.
func (p *Pile) Size() int { return int(p.Len) }

// IsEmpty reports whether the pile holds no cards.
func (p *Pile) IsEmpty() bool { return p.Len == 0 }

// Top returns the last card of the pile, or EmptyCard if empty.
func (p *Pile) Top() Card {
	if p.Len == 0 {
		return EmptyCard
	}
	return p.Cards[p.Len-1]
}

// Contains reports whether c is in the pile.
func (p *Pile) Contains(c Card) bool { return p.indexOf(c) >= 0 }

// Slice returns a copy of the pile contents, bottom first.
func (p *Pile) Slice() []Card {
	out := make([]Card, p.Len)
	copy(out, p.Cards[:p.Len])
	return out
}

func (p *Pile) indexOf(c Card) int {
	for i := uint8(0); i < p.Len; i++ {
		if p.Cards[i] == c {
			return int(i)
		}
	}
	return -1
}

func (p *Pile) push(c Card) {
	p.Cards[p.Len] = c
	p.Len++
}

func (p *Pile) pop() Card {
	p.Len--
	c := p.Cards[p.Len]
	p.Cards[p.Len] = EmptyCard
	return c
}

// removeAt splices out the card at index i, keeping order.
func (p *Pile) removeAt(i int) Card {
	c := p.Cards[i]
	copy(p.Cards[i:p.Len-1], p.Cards[i+1:p.Len])
	p.Len--
	p.Cards[p.Len] = EmptyCard
	return c
}

func (p *Pile) clear() {
	for i := uint8(0); i < p.Len; i++ {
		p.Cards[i] = EmptyCard
	}
	p.Len = 0
}

// ---------------------------------------------------------------------------
// Zone queries
// ---------------------------------------------------------------------------

// Where returns the current location of c.
func (g *GameState) Where(c Card) Location {
	if !c.Valid() {
		return Location{}
	}
	return g.loc[c]
}

// Hand returns a copy of player's hand in display order.
func (g *GameState) Hand(player int) []Card {
	if player < 0 || player >= int(g.Rules.numPlayers()) {
		return nil
	}
	return g.Hands[player].Slice()
}

// AllHands returns a copy of every active hand.
func (g *GameState) AllHands() [][]Card {
	n := int(g.Rules.numPlayers())
	out := make([][]Card, n)
	for i := 0; i < n; i++ {
		out[i] = g.Hands[i].Slice()
	}
	return out
}

// HasHeld reports whether a card is currently held.
func (g *GameState) HasHeld() bool { return g.Held != EmptyCard }

// DiscardTop returns the top card of the discard pile, or EmptyCard if empty.
func (g *GameState) DiscardTop() Card { return g.DiscardPile.Top() }

// allHandsEmpty reports whether no active player holds any card.
func (g *GameState) allHandsEmpty() bool {
	for p := uint8(0); p < g.Rules.numPlayers(); p++ {
		if g.Hands[p].Len > 0 {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Transfers: the only code that changes zone membership.
// ---------------------------------------------------------------------------

// take removes c from wherever it lives. The caller has already validated
// that c is in the expected zone.
func (g *GameState) take(c Card) {
	l := g.loc[c]
	switch l.Zone {
	case ZoneDrawPile:
		g.DrawPile.removeAt(g.DrawPile.indexOf(c))
	case ZoneDiscardPile:
		g.DiscardPile.removeAt(g.DiscardPile.indexOf(c))
	case ZoneHand:
		h := &g.Hands[l.Player]
		h.removeAt(h.indexOf(c))
	case ZoneHeld:
		g.Held = EmptyCard
		g.HeldFrom = ZoneNone
	}
	g.loc[c] = Location{}
}

// put inserts c, which must be in no zone, into the destination.
func (g *GameState) put(c Card, to Location) {
	switch to.Zone {
	case ZoneDrawPile:
		g.DrawPile.push(c)
	case ZoneDiscardPile:
		g.DiscardPile.push(c)
	case ZoneHand:
		g.Hands[to.Player].push(c)
	case ZoneHeld:
		g.Held = c
	}
	g.loc[c] = to
}

// move transfers c to the destination in one step.
func (g *GameState) move(c Card, to Location) {
	from := g.loc[c].Zone
	g.take(c)
	g.put(c, to)
	if to.Zone == ZoneHeld {
		g.HeldFrom = from
	}
}

// popDraw moves the top of the draw pile into the destination.
// The caller must check the draw pile is non-empty.
func (g *GameState) popDraw(to Location) Card {
	c := g.DrawPile.pop()
	g.loc[c] = Location{}
	g.put(c, to)
	if to.Zone == ZoneHeld {
		g.HeldFrom = ZoneDrawPile
	}
	return c
}

// recycleDiscard moves the whole discard pile into the draw pile and shuffles it.
func (g *GameState) recycleDiscard() {
	for g.DiscardPile.Len > 0 {
		c := g.DiscardPile.pop()
		g.DrawPile.push(c)
		g.loc[c] = Location{Zone: ZoneDrawPile}
	}
	g.shuffleDrawPile()
}
