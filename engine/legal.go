package engine

// Move identifies a command the table accepts.
type Move uint16

const (
	MoveDeal Move = 1 << iota
	MoveDraw
	MovePickUp
	MoveDiscard
	MoveReclaimPrevious
	MoveDrawDuringExchange
	MovePlaceInHand
	MoveRollDice
	MoveRequestWinner
	MoveReset
)

// Moves is a bitmask of Move values.
type Moves uint16

// Has reports whether m is in the set.
func (ms Moves) Has(m Move) bool { return ms&Moves(m) != 0 }

// moveNames lists the wire names in bit order.
var moveNames = []struct {
	m    Move
	name string
}{
	{MoveDeal, "deal"},
	{MoveDraw, "draw"},
	{MovePickUp, "pickup"},
	{MoveDiscard, "discard"},
	{MoveReclaimPrevious, "reclaim"},
	{MoveDrawDuringExchange, "draw_exchange"},
	{MovePlaceInHand, "place"},
	{MoveRollDice, "roll_dice"},
	{MoveRequestWinner, "reveal_winner"},
	{MoveReset, "reset"},
}

// Names returns the wire names of the moves in the set (allocates).
func (ms Moves) Names() []string {
	var out []string
	for _, e := range moveNames {
		if ms.Has(e.m) {
			out = append(out, e.name)
		}
	}
	return out
}

// LegalMoves returns the commands that would currently succeed for at least
// one card or player. Zero heap allocation.
func (g *GameState) LegalMoves() Moves {
	ms := Moves(MoveRollDice | MoveReset)

	if !g.DrawPile.IsEmpty() {
		ms |= Moves(MoveDeal)
		if !g.HasHeld() {
			ms |= Moves(MoveDraw)
		}
	}

	anyInHand := !g.allHandsEmpty()
	if anyInHand && !g.HasHeld() {
		ms |= Moves(MovePickUp)
	}
	if anyInHand || g.canDiscardHeld() {
		ms |= Moves(MoveDiscard)
	}
	if g.HasHeld() {
		ms |= Moves(MovePlaceInHand)
	}

	if g.Exchange.Open && !g.HasHeld() {
		prev := g.Exchange.PreviousTop
		if prev.Valid() && g.loc[prev].Zone == ZoneDiscardPile {
			ms |= Moves(MoveReclaimPrevious)
		}
		if !g.DrawPile.IsEmpty() {
			ms |= Moves(MoveDrawDuringExchange)
		}
	}

	if g.RoundsExhausted() {
		ms |= Moves(MoveRequestWinner)
	}
	return ms
}
