// Package engine implements the Sabacc rules.
//
// The whole table lives in one GameState value: the draw and discard piles,
// the player hands, the single held card, the exchange window, the dice and
// the round counter. Cards are small integer ids into a fixed 62-card deck and
// zones hold ordered lists of ids, so every card is always in exactly one place.
// GameState is not safe for concurrent use; hosts serialize access per table.
package engine

import "fmt"

const (
	MaxPlayers = 6
)

// GameState holds the complete, self-contained state of one Sabacc table.
// Apart from the revealed Result, which is only ever replaced whole, it is a
// flat value type, so copying it is a snapshot.
type GameState struct {
	DrawPile    Pile
	DiscardPile Pile
	Hands       [MaxPlayers]Pile
	Held        Card
	HeldFrom    Zone // zone the held card was taken from

	Exchange PendingExchange

	Round          uint8
	LastRoll       DiceResult
	Rolled         bool // LastRoll is meaningful
	WinnerRevealed bool
	Result         WinnerResult

	RNG   uint64
	Rules HouseRules

	loc [DeckSize]Location
}

// ---------------------------------------------------------------------------
// xorshift64 RNG, inline, no interface
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a uniformly distributed number in [0, n).
// Values in the biased tail of the 64-bit range are rejected.
func (g *GameState) randN(n uint64) uint64 {
	limit := ^uint64(0) - (^uint64(0) % n)
	for {
		x := g.nextRand()
		if x < limit {
			return x % n
		}
	}
}

// shuffleDrawPile applies a Fisher-Yates shuffle to the draw pile.
func (g *GameState) shuffleDrawPile() {
	for i := int(g.DrawPile.Len) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		g.DrawPile.Cards[i], g.DrawPile.Cards[j] = g.DrawPile.Cards[j], g.DrawPile.Cards[i]
	}
}

// ---------------------------------------------------------------------------
// NewGame, Reset and Deal
// ---------------------------------------------------------------------------

// BuildDeck returns the 62 cards of a Sabacc deck in id order.
func BuildDeck() [DeckSize]Card {
	var deck [DeckSize]Card
	for i := range deck {
		deck[i] = Card(i)
	}
	return deck
}

// NewGame returns a table with a freshly built and shuffled deck in the draw pile.
// The same seed always produces the same game.
func NewGame(seed uint64, rules HouseRules) GameState {
	var g GameState
	g.RNG = seed
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Rules = rules
	g.resetTable()
	return g
}

// Reset returns the table to round 1 with a rebuilt, reshuffled deck.
// Every card goes back to the draw pile. It always succeeds.
func (g *GameState) Reset() {
	g.resetTable()
}

func (g *GameState) resetTable() {
	g.DrawPile.clear()
	g.DiscardPile.clear()
	for p := range g.Hands {
		g.Hands[p].clear()
	}
	g.Held = EmptyCard
	g.HeldFrom = ZoneNone
	g.Exchange = PendingExchange{PreviousTop: EmptyCard}
	g.Round = 1
	g.LastRoll = DiceResult{}
	g.Rolled = false
	g.WinnerRevealed = false
	g.Result = WinnerResult{}

	deck := BuildDeck()
	g.DrawPile.Cards = deck
	g.DrawPile.Len = DeckSize
	for i := range g.loc {
		g.loc[i] = Location{Zone: ZoneDrawPile}
	}
	g.shuffleDrawPile()
}

// Deal hands out cards round-robin from the draw pile. When every hand is
// empty each player gets the opening deal (2 by default), otherwise the
// follow-up deal (1 by default).
// Dealing stops quietly once the draw pile runs out. It returns the number of
// cards dealt, and ErrEmptyDrawPile only when no card could be dealt.
func (g *GameState) Deal() (int, error) {
	if g.DrawPile.IsEmpty() {
		return 0, fmt.Errorf("%w: nothing to deal", ErrEmptyDrawPile)
	}

	rounds := g.Rules.followUpDeal()
	if g.allHandsEmpty() {
		rounds = g.Rules.openingDeal()
	}
	n := g.Rules.numPlayers()

	dealt := 0
	for r := uint8(0); r < rounds; r++ {
		for p := uint8(0); p < n; p++ {
			if g.DrawPile.IsEmpty() {
				break
			}
			g.popDraw(Location{Zone: ZoneHand, Player: p})
			dealt++
		}
	}
	g.closeExchange()
	return dealt, nil
}

// ---------------------------------------------------------------------------
// Round controller
// ---------------------------------------------------------------------------

// NumPlayers returns the number of hands at the table.
func (g *GameState) NumPlayers() int { return int(g.Rules.numPlayers()) }

// MaxRounds returns the number of rounds before the winner can be revealed.
func (g *GameState) MaxRounds() uint8 { return g.Rules.maxRounds() }

// RoundsExhausted reports whether all rounds have been played.
func (g *GameState) RoundsExhausted() bool { return g.Round > g.Rules.maxRounds() }

// advanceRound moves to the next round. The counter stops one past MaxRounds.
func (g *GameState) advanceRound() {
	if g.Round <= g.Rules.maxRounds() {
		g.Round++
	}
}

// RequestWinner resolves the winner of the current hands. It is only
// available once the rounds are exhausted; after that it may be called again
// to re-evaluate the hands as they stand.
func (g *GameState) RequestWinner() (WinnerResult, error) {
	if !g.RoundsExhausted() {
		return WinnerResult{}, fmt.Errorf("%w: round %d of %d", ErrRoundsRemaining, g.Round, g.Rules.maxRounds())
	}
	g.Result = Winner(g.AllHands())
	g.WinnerRevealed = true
	g.closeExchange()
	return g.Result, nil
}

// ---------------------------------------------------------------------------
// Invariants
// ---------------------------------------------------------------------------

// CheckConservation verifies that every card of the deck is in exactly one
// zone and that the location index agrees with the zone contents.
func (g *GameState) CheckConservation() error {
	var seen [DeckSize]bool
	count := 0

	visit := func(c Card, want Location) error {
		if !c.Valid() {
			return fmt.Errorf("invalid card id %d in %s", c, want.Zone)
		}
		if seen[c] {
			return fmt.Errorf("card %s appears twice", c)
		}
		seen[c] = true
		count++
		if g.loc[c] != want {
			return fmt.Errorf("card %s indexed in %s, found in %s", c, g.loc[c].Zone, want.Zone)
		}
		return nil
	}

	for i := uint8(0); i < g.DrawPile.Len; i++ {
		if err := visit(g.DrawPile.Cards[i], Location{Zone: ZoneDrawPile}); err != nil {
			return err
		}
	}
	for i := uint8(0); i < g.DiscardPile.Len; i++ {
		if err := visit(g.DiscardPile.Cards[i], Location{Zone: ZoneDiscardPile}); err != nil {
			return err
		}
	}
	for p := uint8(0); p < MaxPlayers; p++ {
		for i := uint8(0); i < g.Hands[p].Len; i++ {
			if err := visit(g.Hands[p].Cards[i], Location{Zone: ZoneHand, Player: p}); err != nil {
				return err
			}
		}
	}
	if g.Held != EmptyCard {
		if err := visit(g.Held, Location{Zone: ZoneHeld}); err != nil {
			return err
		}
	}
	if count != DeckSize {
		return fmt.Errorf("found %d cards, want %d", count, DeckSize)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState for undo support.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }
