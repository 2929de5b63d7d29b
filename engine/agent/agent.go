// Package agent drives a Sabacc table automatically. It is used for
// simulations and for exercising the engine with long random games.
package agent

import (
	"errors"
	"fmt"
	"math/rand/v2"

	engine "github.com/jason-s-yu/sabacc/engine"
)

// ErrStepLimit is returned by PlayGame when the rounds were not exhausted in time.
var ErrStepLimit = errors.New("step limit reached")

// Command is one engine operation together with its arguments.
type Command struct {
	Move   engine.Move
	Card   engine.Card // for PickUp, Discard, PlaceInHand
	Player int         // for PlaceInHand
}

func (c Command) String() string {
	name := engine.Moves(c.Move).Names()
	if len(name) != 1 {
		return "invalid"
	}
	switch c.Move {
	case engine.MovePickUp, engine.MoveDiscard:
		return fmt.Sprintf("%s %s", name[0], c.Card)
	case engine.MovePlaceInHand:
		return fmt.Sprintf("%s %s -> %d", name[0], c.Card, c.Player)
	}
	return name[0]
}

// Agent picks the next command for a table.
type Agent interface {
	Choose(g *engine.GameState) Command
}

// Apply executes c against g.
func Apply(g *engine.GameState, c Command) error {
	var err error
	switch c.Move {
	case engine.MoveDeal:
		_, err = g.Deal()
	case engine.MoveDraw:
		_, err = g.Draw()
	case engine.MovePickUp:
		err = g.PickUp(c.Card)
	case engine.MoveDiscard:
		err = g.Discard(c.Card)
	case engine.MoveReclaimPrevious:
		_, err = g.ReclaimPrevious()
	case engine.MoveDrawDuringExchange:
		_, err = g.DrawDuringExchange()
	case engine.MovePlaceInHand:
		err = g.PlaceInHand(c.Player, c.Card)
	case engine.MoveRollDice:
		g.RollDice()
	case engine.MoveRequestWinner:
		_, err = g.RequestWinner()
	case engine.MoveReset:
		g.Reset()
	default:
		err = fmt.Errorf("%w: unknown move %d", engine.ErrInvalidMove, c.Move)
	}
	return err
}

// PlayGame deals the opening hands, lets a choose commands until every round
// has been played, then reveals the winner. It returns the result and the
// number of commands applied.
func PlayGame(g *engine.GameState, a Agent, maxSteps int) (engine.WinnerResult, int, error) {
	steps := 0
	if _, err := g.Deal(); err != nil {
		return engine.WinnerResult{}, steps, fmt.Errorf("opening deal: %w", err)
	}
	steps++
	for !g.RoundsExhausted() {
		if steps >= maxSteps {
			return engine.WinnerResult{}, steps, fmt.Errorf("%w: %d commands, round %d", ErrStepLimit, steps, g.Round)
		}
		c := a.Choose(g)
		if err := Apply(g, c); err != nil {
			return engine.WinnerResult{}, steps, fmt.Errorf("step %d %s: %w", steps, c, err)
		}
		steps++
	}
	res, err := g.RequestWinner()
	return res, steps + 1, err
}

// Random plays a uniformly random legal command. It never resets the table
// or reveals the winner.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random agent whose choices are determined by seed.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Choose implements Agent.
func (r *Random) Choose(g *engine.GameState) Command {
	legal := g.LegalMoves()
	var moves []engine.Move
	for m := engine.MoveDeal; m <= engine.MoveReset; m <<= 1 {
		if m == engine.MoveReset || m == engine.MoveRequestWinner {
			continue
		}
		if legal.Has(m) {
			moves = append(moves, m)
		}
	}
	// Rolling is always legal, so moves is never empty.
	m := moves[r.rng.IntN(len(moves))]

	c := Command{Move: m, Card: engine.EmptyCard}
	switch m {
	case engine.MovePickUp:
		c.Card = r.pick(handCards(g))
	case engine.MoveDiscard:
		cards := handCards(g)
		if g.HasHeld() && g.HeldFrom != engine.ZoneDiscardPile {
			cards = append(cards, g.Held)
		}
		c.Card = r.pick(cards)
	case engine.MovePlaceInHand:
		c.Card = g.Held
		c.Player = r.rng.IntN(g.NumPlayers())
	}
	return c
}

func (r *Random) pick(cards []engine.Card) engine.Card {
	return cards[r.rng.IntN(len(cards))]
}

func handCards(g *engine.GameState) []engine.Card {
	var out []engine.Card
	for _, h := range g.AllHands() {
		out = append(out, h...)
	}
	return out
}
