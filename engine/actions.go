package engine

import "fmt"

// Draw moves the top card of the draw pile into the held slot.
// It never recycles the discard pile.
func (g *GameState) Draw() (Card, error) {
	if err := g.checkCanDraw(); err != nil {
		return EmptyCard, err
	}
	c := g.popDraw(Location{Zone: ZoneHeld})
	g.closeExchange()
	return c, nil
}

// PickUp lifts a card out of a hand into the held slot so it can be
// placed in another hand or discarded.
func (g *GameState) PickUp(c Card) error {
	if !c.Valid() {
		return fmt.Errorf("%w: unknown card %d", ErrInvalidMove, c)
	}
	if g.loc[c].Zone != ZoneHand {
		return fmt.Errorf("%w: %s is not in a hand (in %s)", ErrInvalidMove, c, g.loc[c].Zone)
	}
	if g.HasHeld() {
		return fmt.Errorf("%w: already holding %s", ErrInvalidMove, g.Held)
	}
	g.move(c, Location{Zone: ZoneHeld})
	g.closeExchange()
	return nil
}

// Discard puts a held card, or a card straight from a hand, on top of the
// discard pile. If the pile was not empty, the card it covered becomes
// reclaimable until the next action. A card taken back from the discard
// pile cannot go straight back onto it.
func (g *GameState) Discard(c Card) error {
	if !c.Valid() {
		return fmt.Errorf("%w: unknown card %d", ErrInvalidMove, c)
	}
	if z := g.loc[c].Zone; z != ZoneHeld && z != ZoneHand {
		return fmt.Errorf("%w: %s cannot be discarded from %s", ErrInvalidMove, c, z)
	}
	if g.loc[c].Zone == ZoneHeld && g.HeldFrom == ZoneDiscardPile {
		return fmt.Errorf("%w: %s was taken from the discard pile", ErrInvalidMove, c)
	}

	prev := g.DiscardPile.Top()
	g.move(c, Location{Zone: ZoneDiscardPile})

	if prev != EmptyCard {
		g.Exchange = PendingExchange{Open: true, PreviousTop: prev}
	} else {
		g.closeExchange()
	}
	return nil
}

// ReclaimPrevious takes back the card the last discard covered.
// Only valid while the exchange window is open.
func (g *GameState) ReclaimPrevious() (Card, error) {
	if !g.Exchange.Open {
		return EmptyCard, fmt.Errorf("%w: no discard to exchange", ErrNoPendingExchange)
	}
	prev := g.Exchange.PreviousTop
	if !prev.Valid() || g.loc[prev].Zone != ZoneDiscardPile {
		return EmptyCard, fmt.Errorf("%w: %s is no longer on the discard pile", ErrNoPendingExchange, prev)
	}
	if g.HasHeld() {
		return EmptyCard, fmt.Errorf("%w: already holding %s", ErrInvalidMove, g.Held)
	}
	g.move(prev, Location{Zone: ZoneHeld})
	g.closeExchange()
	return prev, nil
}

// DrawDuringExchange resolves the exchange window with a fresh card from
// the draw pile instead of the covered discard.
func (g *GameState) DrawDuringExchange() (Card, error) {
	if !g.Exchange.Open {
		return EmptyCard, fmt.Errorf("%w: no discard to exchange", ErrNoPendingExchange)
	}
	return g.Draw()
}

// PlaceInHand appends the held card to player's hand.
func (g *GameState) PlaceInHand(player int, c Card) error {
	if player < 0 || player >= int(g.Rules.numPlayers()) {
		return fmt.Errorf("%w: player %d out of range (%d players)", ErrInvalidMove, player, g.Rules.numPlayers())
	}
	if !c.Valid() || g.Held != c {
		return fmt.Errorf("%w: %s is not held", ErrInvalidMove, c)
	}
	g.move(c, Location{Zone: ZoneHand, Player: uint8(player)})
	g.closeExchange()
	return nil
}

// canDiscardHeld reports whether the held card may go onto the discard pile.
func (g *GameState) canDiscardHeld() bool {
	return g.HasHeld() && g.HeldFrom != ZoneDiscardPile
}

func (g *GameState) checkCanDraw() error {
	if g.HasHeld() {
		return fmt.Errorf("%w: already holding %s", ErrInvalidMove, g.Held)
	}
	if g.DrawPile.IsEmpty() {
		return ErrEmptyDrawPile
	}
	return nil
}

func (g *GameState) closeExchange() {
	g.Exchange = PendingExchange{PreviousTop: EmptyCard}
}
