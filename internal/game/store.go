// internal/game/store.go
package game

import (
	"sync"

	"github.com/google/uuid"
)

// GameStore holds the live tables of the process.
type GameStore struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*SabaccGame
}

// NewGameStore creates an empty store.
func NewGameStore() *GameStore {
	return &GameStore{games: make(map[uuid.UUID]*SabaccGame)}
}

// AddGame registers g under its ID.
func (s *GameStore) AddGame(g *SabaccGame) {
	s.mu.Lock()
	s.games[g.ID] = g
	s.mu.Unlock()
}

// GetGame returns the table with the given ID, or nil.
func (s *GameStore) GetGame(id uuid.UUID) *SabaccGame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games[id]
}

// DeleteGame removes a table.
func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	delete(s.games, id)
	s.mu.Unlock()
}

// Len returns the number of live tables.
func (s *GameStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
