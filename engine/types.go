package engine

import "strconv"

// Suit identifies the suit of a card. Sylop is its own suit, not a value flag.
type Suit uint8

const (
	SuitCircle   Suit = 0
	SuitSquare   Suit = 1
	SuitTriangle Suit = 2
	SuitSylop    Suit = 3
)

// String returns the display name of the suit.
func (s Suit) String() string {
	switch s {
	case SuitCircle:
		return "Circle"
	case SuitSquare:
		return "Square"
	case SuitTriangle:
		return "Triangle"
	case SuitSylop:
		return "Sylop"
	default:
		return "?"
	}
}

// Deck layout constants.
const (
	NumOrdinarySuits = 3
	ValuesPerSuit    = 20 // +1..+10 then -1..-10
	NumSylops        = 2
	DeckSize         = NumOrdinarySuits*ValuesPerSuit + NumSylops // 62
)

// Card identifies one physical card. Ids 0..59 are the ordinary suits,
// ids 60 and 61 are the two Sylops. Face data is derived from the id, so the
// two Sylops are distinct cards with identical faces.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// firstSylop is the id of the first Sylop card.
const firstSylop Card = NumOrdinarySuits * ValuesPerSuit

// NewCard returns the ordinary card with the given suit and value.
// value must be in [-10,-1] or [1,10]; suit must not be SuitSylop.
// Returns EmptyCard for anything else.
func NewCard(suit Suit, value int) Card {
	if suit >= SuitSylop {
		return EmptyCard
	}
	var offset int
	switch {
	case value >= 1 && value <= 10:
		offset = value - 1
	case value <= -1 && value >= -10:
		offset = 10 + (-value - 1)
	default:
		return EmptyCard
	}
	return Card(int(suit)*ValuesPerSuit + offset)
}

// Sylop returns the n-th Sylop card (n is 0 or 1).
func Sylop(n int) Card {
	if n < 0 || n >= NumSylops {
		return EmptyCard
	}
	return firstSylop + Card(n)
}

// Valid reports whether c names a card of the deck.
func (c Card) Valid() bool { return c < DeckSize }

// Suit returns the suit of the card.
func (c Card) Suit() Suit {
	if c >= firstSylop {
		return SuitSylop
	}
	return Suit(uint8(c) / ValuesPerSuit)
}

// IsSylop reports whether c is one of the two zero-value Sylop cards.
func (c Card) IsSylop() bool { return c.Valid() && c.Suit() == SuitSylop }

// Value returns the signed point value of the card.
//   - Sylop → 0
//   - offset 0–9 within a suit → +1..+10
//   - offset 10–19 within a suit → -1..-10
func (c Card) Value() int {
	if !c.Valid() || c >= firstSylop {
		return 0
	}
	off := int(uint8(c) % ValuesPerSuit)
	if off < 10 {
		return off + 1
	}
	return -(off - 9)
}

// String renders the card as "+3 Circle", "-10 Triangle" or "0 Sylop".
func (c Card) String() string {
	if !c.Valid() {
		return "none"
	}
	if c.IsSylop() {
		return "0 Sylop"
	}
	v := c.Value()
	if v > 0 {
		return "+" + strconv.Itoa(v) + " " + c.Suit().String()
	}
	return strconv.Itoa(v) + " " + c.Suit().String()
}

// Zone names the place a card currently lives.
type Zone uint8

const (
	ZoneNone Zone = iota
	ZoneDrawPile
	ZoneDiscardPile
	ZoneHand
	ZoneHeld
)

func (z Zone) String() string {
	switch z {
	case ZoneDrawPile:
		return "draw"
	case ZoneDiscardPile:
		return "discard"
	case ZoneHand:
		return "hand"
	case ZoneHeld:
		return "held"
	default:
		return "none"
	}
}

// Location is the zone (and owning player, for hands) of one card.
type Location struct {
	Zone   Zone
	Player uint8
}

// PendingExchange is the one-shot window opened by a discard onto a non-empty pile.
type PendingExchange struct {
	Open        bool
	PreviousTop Card // the card that was covered by the discard
}

// DiceResult describes one dice roll and the Sabacc Shift it may have caused.
type DiceResult struct {
	Dice     [2]uint8
	Shift    bool              // doubles were rolled and the hands were redistributed
	Recycles uint8             // discard→draw recycles performed during the shift
	Short    [MaxPlayers]uint8 // cards each player failed to receive
	Round    uint8             // round after the roll
}

// Doubles reports whether both dice show the same value.
func (d DiceResult) Doubles() bool { return d.Dice[0] != 0 && d.Dice[0] == d.Dice[1] }
