package engine

import (
	"reflect"
	"testing"
)

// TestLegalMovesFreshTable verifies a new table can deal, draw, roll and reset only.
func TestLegalMovesFreshTable(t *testing.T) {
	g := newTable(t)
	want := Moves(MoveDeal | MoveDraw | MoveRollDice | MoveReset)
	if got := g.LegalMoves(); got != want {
		t.Errorf("LegalMoves() = %v, want %v", got.Names(), want.Names())
	}
}

// TestLegalMovesHolding verifies the held card enables placing and discarding but blocks drawing.
func TestLegalMovesHolding(t *testing.T) {
	g := newTable(t)
	if _, err := g.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	ms := g.LegalMoves()
	if ms.Has(MoveDraw) || ms.Has(MovePickUp) {
		t.Errorf("draw/pickup legal while holding: %v", ms.Names())
	}
	if !ms.Has(MovePlaceInHand) || !ms.Has(MoveDiscard) {
		t.Errorf("place/discard not legal while holding: %v", ms.Names())
	}
}

// TestLegalMovesExchange verifies both reclaim options appear only while the window is open.
func TestLegalMovesExchange(t *testing.T) {
	g := newTable(t)
	openExchange(t, g)
	ms := g.LegalMoves()
	if !ms.Has(MoveReclaimPrevious) || !ms.Has(MoveDrawDuringExchange) {
		t.Errorf("exchange moves missing: %v", ms.Names())
	}
	if _, err := g.ReclaimPrevious(); err != nil {
		t.Fatalf("ReclaimPrevious: %v", err)
	}
	ms = g.LegalMoves()
	if ms.Has(MoveReclaimPrevious) || ms.Has(MoveDrawDuringExchange) {
		t.Errorf("exchange moves still legal: %v", ms.Names())
	}
	// Hands are empty and the held card came off the discard pile.
	if ms.Has(MoveDiscard) {
		t.Errorf("discard legal while holding a reclaimed card: %v", ms.Names())
	}
	if !ms.Has(MovePlaceInHand) {
		t.Errorf("place_in_hand missing: %v", ms.Names())
	}
}

// TestLegalMovesWinner verifies the reveal becomes legal once rounds are exhausted.
func TestLegalMovesWinner(t *testing.T) {
	g := newTable(t)
	for i := 0; i < 3; i++ {
		if g.LegalMoves().Has(MoveRequestWinner) {
			t.Fatalf("reveal legal in round %d", g.Round)
		}
		g.RollDice()
	}
	if !g.LegalMoves().Has(MoveRequestWinner) {
		t.Error("reveal not legal after the last round")
	}
}

// TestLegalMovesMatchOutcomes checks that every listed move actually succeeds on a sample of states.
func TestLegalMovesMatchOutcomes(t *testing.T) {
	g := newTable(t)
	if _, err := g.Deal(); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	openExchange(t, g)

	ms := g.LegalMoves()
	snap := g.Save()
	try := func(m Move, f func() error) {
		g.Restore(snap)
		if err := f(); (err == nil) != ms.Has(m) {
			t.Errorf("move %v: legal=%v err=%v", Moves(m).Names(), ms.Has(m), err)
		}
	}
	try(MoveDeal, func() error { _, err := g.Deal(); return err })
	try(MoveDraw, func() error { _, err := g.Draw(); return err })
	try(MovePickUp, func() error { return g.PickUp(g.Hands[0].Cards[0]) })
	try(MoveDiscard, func() error { return g.Discard(g.Hands[1].Cards[0]) })
	try(MoveReclaimPrevious, func() error { _, err := g.ReclaimPrevious(); return err })
	try(MoveDrawDuringExchange, func() error { _, err := g.DrawDuringExchange(); return err })
	try(MoveRequestWinner, func() error { _, err := g.RequestWinner(); return err })
}

// TestMoveNames verifies wire names come out in bit order.
func TestMoveNames(t *testing.T) {
	ms := Moves(MoveRollDice | MoveDeal | MoveReset)
	want := []string{"deal", "roll_dice", "reset"}
	if got := ms.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
