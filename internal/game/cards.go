// internal/game/cards.go
package game

import (
	"github.com/google/uuid"
	engine "github.com/jason-s-yu/sabacc/engine"
	"github.com/jason-s-yu/sabacc/internal/models"
)

// CardRegistry gives every physical card of a table a UUID for client communication.
// Engine cards are stable arena ids, so the mapping only changes when the table is reset.
type CardRegistry struct {
	IDs  [engine.DeckSize]uuid.UUID
	byID map[uuid.UUID]engine.Card
}

// newCardRegistry assigns fresh UUIDs to the whole deck.
func newCardRegistry() CardRegistry {
	var r CardRegistry
	r.byID = make(map[uuid.UUID]engine.Card, engine.DeckSize)
	for c := engine.Card(0); c < engine.DeckSize; c++ {
		id := uuid.New()
		r.IDs[c] = id
		r.byID[id] = c
	}
	return r
}

// Lookup resolves a client card UUID to the engine card.
func (r *CardRegistry) Lookup(id uuid.UUID) (engine.Card, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// ID returns the UUID of c, or uuid.Nil for EmptyCard.
func (r *CardRegistry) ID(c engine.Card) uuid.UUID {
	if !c.Valid() {
		return uuid.Nil
	}
	return r.IDs[c]
}

// Model converts an engine card to its client-facing form.
func (r *CardRegistry) Model(c engine.Card) *models.Card {
	if !c.Valid() {
		return nil
	}
	return &models.Card{ID: r.IDs[c], Suit: c.Suit().String(), Value: c.Value()}
}

// Models converts a run of engine cards, preserving order.
func (r *CardRegistry) Models(cards []engine.Card) []models.Card {
	out := make([]models.Card, len(cards))
	for i, c := range cards {
		out[i] = *r.Model(c)
	}
	return out
}

// EventCard builds the card reference carried by a GameEvent.
func (r *CardRegistry) EventCard(c engine.Card) *EventCard {
	if !c.Valid() {
		return nil
	}
	return &EventCard{ID: r.IDs[c], Suit: c.Suit().String(), Value: c.Value(), Label: c.String()}
}
