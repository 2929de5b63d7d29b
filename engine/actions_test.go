package engine

import (
	"errors"
	"testing"
)

// openExchange discards two drawn cards so the exchange window is open.
// It returns the covered card and the card on top.
func openExchange(t *testing.T, g *GameState) (covered, top Card) {
	t.Helper()
	covered, err := g.Draw()
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := g.Discard(covered); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if g.Exchange.Open {
		t.Fatal("exchange window opened on an empty discard pile")
	}
	top, err = g.Draw()
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := g.Discard(top); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if !g.Exchange.Open || g.Exchange.PreviousTop != covered {
		t.Fatalf("Exchange = %+v, want open over %s", g.Exchange, covered)
	}
	return covered, top
}

// TestDraw verifies the top of the draw pile moves into the held slot.
func TestDraw(t *testing.T) {
	g := newTable(t)
	want := g.DrawPile.Top()

	c, err := g.Draw()
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if c != want || g.Held != want {
		t.Errorf("drew %s, held %s, want %s", c, g.Held, want)
	}
	if g.HeldFrom != ZoneDrawPile {
		t.Errorf("HeldFrom = %s, want draw", g.HeldFrom)
	}
	if g.Where(c).Zone != ZoneHeld {
		t.Errorf("Where(%s) = %s, want held", c, g.Where(c).Zone)
	}
	if g.DrawPile.Size() != DeckSize-1 {
		t.Errorf("DrawPile.Size() = %d, want %d", g.DrawPile.Size(), DeckSize-1)
	}
	mustConserve(t, g)
}

// TestDrawWhileHolding verifies only one card can be held.
func TestDrawWhileHolding(t *testing.T) {
	g := newTable(t)
	if _, err := g.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	before := g.Save()
	if _, err := g.Draw(); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("second Draw err = %v, want ErrInvalidMove", err)
	}
	if !sameState(g.Save(), before) {
		t.Error("failed Draw changed the state")
	}
}

// TestDrawEmptyPile verifies ErrEmptyDrawPile and that the discard pile is not recycled.
func TestDrawEmptyPile(t *testing.T) {
	g := newTable(t)
	drainDrawPile(g, 0)
	before := g.Save()

	if _, err := g.Draw(); !errors.Is(err, ErrEmptyDrawPile) {
		t.Fatalf("Draw err = %v, want ErrEmptyDrawPile", err)
	}
	if !sameState(g.Save(), before) {
		t.Error("failed Draw changed the state")
	}
}

// TestDiscardHeld verifies a held card lands on top of the discard pile.
func TestDiscardHeld(t *testing.T) {
	g := newTable(t)
	c, _ := g.Draw()
	if err := g.Discard(c); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if g.DiscardTop() != c {
		t.Errorf("DiscardTop() = %s, want %s", g.DiscardTop(), c)
	}
	if g.HasHeld() {
		t.Error("card still held after discard")
	}
	if g.Exchange.Open {
		t.Error("exchange window opened with nothing to reclaim")
	}
	mustConserve(t, g)
}

// TestDiscardFromHand verifies a hand card can be discarded directly.
func TestDiscardFromHand(t *testing.T) {
	g := newTable(t)
	c := NewCard(SuitSquare, 6)
	giveHand(t, g, 1, c, NewCard(SuitSquare, 7))

	if err := g.Discard(c); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if g.Hands[1].Contains(c) {
		t.Error("card still in hand after discard")
	}
	if len(g.Hand(1)) != 1 {
		t.Errorf("hand size = %d, want 1", len(g.Hand(1)))
	}
	if g.DiscardTop() != c {
		t.Errorf("DiscardTop() = %s, want %s", g.DiscardTop(), c)
	}
	mustConserve(t, g)
}

// TestDiscardInvalid verifies cards outside a hand or the held slot cannot be discarded.
func TestDiscardInvalid(t *testing.T) {
	g := newTable(t)
	covered, top := openExchange(t, g)
	before := g.Save()

	cases := []struct {
		name string
		c    Card
	}{
		{"draw pile card", g.DrawPile.Top()},
		{"discard top", top},
		{"covered discard", covered},
		{"empty card", EmptyCard},
		{"out of range", Card(DeckSize)},
	}
	for _, tc := range cases {
		if err := g.Discard(tc.c); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("%s: err = %v, want ErrInvalidMove", tc.name, err)
		}
	}
	if !sameState(g.Save(), before) {
		t.Error("failed discards changed the state")
	}
}

// TestReclaimPrevious verifies the covered card can be taken back once.
func TestReclaimPrevious(t *testing.T) {
	g := newTable(t)
	covered, top := openExchange(t, g)

	c, err := g.ReclaimPrevious()
	if err != nil {
		t.Fatalf("ReclaimPrevious: %v", err)
	}
	if c != covered || g.Held != covered {
		t.Errorf("reclaimed %s, held %s, want %s", c, g.Held, covered)
	}
	if g.HeldFrom != ZoneDiscardPile {
		t.Errorf("HeldFrom = %s, want discard", g.HeldFrom)
	}
	if g.DiscardTop() != top || g.DiscardPile.Size() != 1 {
		t.Errorf("discard pile = %v, want [%s]", g.DiscardPile.Slice(), top)
	}
	if g.Exchange.Open {
		t.Error("exchange window still open after reclaim")
	}
	mustConserve(t, g)

	if _, err := g.ReclaimPrevious(); !errors.Is(err, ErrNoPendingExchange) {
		t.Errorf("second ReclaimPrevious err = %v, want ErrNoPendingExchange", err)
	}
}

// TestDiscardReclaimedCard verifies a card taken back from the discard pile
// has to be placed in a hand rather than discarded again.
func TestDiscardReclaimedCard(t *testing.T) {
	g := newTable(t)
	covered, top := openExchange(t, g)
	if _, err := g.ReclaimPrevious(); err != nil {
		t.Fatalf("ReclaimPrevious: %v", err)
	}
	before := g.Save()

	if err := g.Discard(covered); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("Discard reclaimed card err = %v, want ErrInvalidMove", err)
	}
	if !sameState(g.Save(), before) {
		t.Error("rejected discard changed the state")
	}
	if g.DiscardTop() != top {
		t.Errorf("discard top = %s, want %s", g.DiscardTop(), top)
	}

	if err := g.PlaceInHand(0, covered); err != nil {
		t.Fatalf("PlaceInHand: %v", err)
	}
	// Once in a hand the card can be discarded as usual.
	if err := g.Discard(covered); err != nil {
		t.Errorf("Discard from hand: %v", err)
	}
	mustConserve(t, g)
}

// TestReclaimWithoutDiscard verifies reclaiming with no window fails.
func TestReclaimWithoutDiscard(t *testing.T) {
	g := newTable(t)
	if _, err := g.ReclaimPrevious(); !errors.Is(err, ErrNoPendingExchange) {
		t.Errorf("err = %v, want ErrNoPendingExchange", err)
	}
	if _, err := g.DrawDuringExchange(); !errors.Is(err, ErrNoPendingExchange) {
		t.Errorf("DrawDuringExchange err = %v, want ErrNoPendingExchange", err)
	}
}

// TestReclaimWhileHolding verifies the held slot must be free and the window survives the failure.
func TestReclaimWhileHolding(t *testing.T) {
	g := newTable(t)
	giveHand(t, g, 0, NewCard(SuitCircle, 1))
	openExchange(t, g)
	// Discard straight from a hand while a card is held.
	if _, err := g.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	covered := g.DiscardTop()
	if err := g.Discard(NewCard(SuitCircle, 1)); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	before := g.Save()

	if _, err := g.ReclaimPrevious(); !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("err = %v, want ErrInvalidMove", err)
	}
	if !sameState(g.Save(), before) {
		t.Error("failed reclaim changed the state")
	}
	if !g.Exchange.Open || g.Exchange.PreviousTop != covered {
		t.Errorf("Exchange = %+v, want open over %s", g.Exchange, covered)
	}
}

// TestDrawDuringExchange verifies the alternate resolution draws fresh and closes the window.
func TestDrawDuringExchange(t *testing.T) {
	g := newTable(t)
	covered, _ := openExchange(t, g)
	want := g.DrawPile.Top()

	c, err := g.DrawDuringExchange()
	if err != nil {
		t.Fatalf("DrawDuringExchange: %v", err)
	}
	if c != want || g.Held != want {
		t.Errorf("drew %s, held %s, want %s", c, g.Held, want)
	}
	if g.Exchange.Open {
		t.Error("exchange window still open")
	}
	if g.Where(covered).Zone != ZoneDiscardPile {
		t.Errorf("covered card moved to %s", g.Where(covered).Zone)
	}
	mustConserve(t, g)
}

// TestDrawDuringExchangeEmpty verifies ErrEmptyDrawPile keeps the window open.
func TestDrawDuringExchangeEmpty(t *testing.T) {
	g := newTable(t)
	openExchange(t, g)
	drainDrawPile(g, 0)
	before := g.Save()

	if _, err := g.DrawDuringExchange(); !errors.Is(err, ErrEmptyDrawPile) {
		t.Fatalf("err = %v, want ErrEmptyDrawPile", err)
	}
	if !sameState(g.Save(), before) {
		t.Error("failed DrawDuringExchange changed the state")
	}
}

// TestPlaceInHand verifies the held card is appended to the chosen hand.
func TestPlaceInHand(t *testing.T) {
	g := newTable(t)
	first := NewCard(SuitTriangle, 2)
	giveHand(t, g, 3, first)
	c, _ := g.Draw()

	if err := g.PlaceInHand(3, c); err != nil {
		t.Fatalf("PlaceInHand: %v", err)
	}
	h := g.Hand(3)
	if len(h) != 2 || h[0] != first || h[1] != c {
		t.Errorf("hand = %v, want [%s %s]", h, first, c)
	}
	if g.HasHeld() {
		t.Error("card still held")
	}
	if l := g.Where(c); l.Zone != ZoneHand || l.Player != 3 {
		t.Errorf("Where(%s) = %+v, want hand 3", c, l)
	}
	mustConserve(t, g)
}

// TestPlaceInHandInvalid verifies bad players and non-held cards are rejected.
func TestPlaceInHandInvalid(t *testing.T) {
	g := newTable(t)
	c, _ := g.Draw()
	before := g.Save()

	if err := g.PlaceInHand(4, c); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("player 4: err = %v, want ErrInvalidMove", err)
	}
	if err := g.PlaceInHand(-1, c); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("player -1: err = %v, want ErrInvalidMove", err)
	}
	if err := g.PlaceInHand(0, g.DrawPile.Top()); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("unheld card: err = %v, want ErrInvalidMove", err)
	}
	if !sameState(g.Save(), before) {
		t.Error("failed placements changed the state")
	}
}

// TestPickUp verifies a hand card can be lifted and moved to another hand.
func TestPickUp(t *testing.T) {
	g := newTable(t)
	a, b := NewCard(SuitCircle, -3), NewCard(SuitSquare, 8)
	giveHand(t, g, 0, a, b)

	if err := g.PickUp(a); err != nil {
		t.Fatalf("PickUp: %v", err)
	}
	if g.Held != a || g.HeldFrom != ZoneHand {
		t.Errorf("held %s from %s, want %s from hand", g.Held, g.HeldFrom, a)
	}
	if err := g.PickUp(b); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("second PickUp err = %v, want ErrInvalidMove", err)
	}
	if err := g.PlaceInHand(2, a); err != nil {
		t.Fatalf("PlaceInHand: %v", err)
	}
	if h := g.Hand(2); len(h) != 1 || h[0] != a {
		t.Errorf("hand 2 = %v, want [%s]", h, a)
	}
	if err := g.PickUp(g.DrawPile.Top()); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("PickUp from draw pile err = %v, want ErrInvalidMove", err)
	}
	mustConserve(t, g)
}

// TestExchangeClosesOnUnrelatedAction verifies any other action closes the window.
func TestExchangeClosesOnUnrelatedAction(t *testing.T) {
	g := newTable(t)
	other := NewCard(SuitTriangle, -9)
	giveHand(t, g, 1, other)
	openExchange(t, g)

	if err := g.PickUp(other); err != nil {
		t.Fatalf("PickUp: %v", err)
	}
	if err := g.PlaceInHand(2, other); err != nil {
		t.Fatalf("PlaceInHand: %v", err)
	}
	if _, err := g.ReclaimPrevious(); !errors.Is(err, ErrNoPendingExchange) {
		t.Errorf("ReclaimPrevious err = %v, want ErrNoPendingExchange", err)
	}
}

// TestExchangeClosesOnRoll verifies a dice roll closes the window.
func TestExchangeClosesOnRoll(t *testing.T) {
	g := newTable(t)
	openExchange(t, g)
	g.RollDice()
	if _, err := g.ReclaimPrevious(); !errors.Is(err, ErrNoPendingExchange) {
		t.Errorf("ReclaimPrevious err = %v, want ErrNoPendingExchange", err)
	}
}

// TestSecondDiscardMovesWindow verifies a new discard reopens the window over the newer top.
func TestSecondDiscardMovesWindow(t *testing.T) {
	g := newTable(t)
	_, top := openExchange(t, g)
	c, err := g.Draw()
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := g.Discard(c); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	got, err := g.ReclaimPrevious()
	if err != nil {
		t.Fatalf("ReclaimPrevious: %v", err)
	}
	if got != top {
		t.Errorf("reclaimed %s, want %s", got, top)
	}
}
