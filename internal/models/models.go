// internal/models/models.go
package models

import "github.com/google/uuid"

// Card is the client-facing view of one physical card.
type Card struct {
	ID    uuid.UUID `json:"id"`
	Suit  string    `json:"suit"`
	Value int       `json:"value"`
}

// GameAction is one command sent by a client to a table.
// Payload carries action-specific fields such as "id" (card UUID) and "player" (hand index).
type GameAction struct {
	ActionType string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// CardID extracts and parses the "id" field of the payload.
func (a GameAction) CardID() (uuid.UUID, bool) {
	s, _ := a.Payload["id"].(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// PlayerIndex extracts the "player" field of the payload. JSON numbers decode as float64.
func (a GameAction) PlayerIndex() (int, bool) {
	switch v := a.Payload["player"].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}
