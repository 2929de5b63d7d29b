package engine

import "errors"

// Errors returned by GameState operations. A failed operation never changes
// the state. Callers match them with errors.Is; the returned error usually
// wraps one of these with more context.
var (
	ErrEmptyDrawPile     = errors.New("draw pile is empty")
	ErrInvalidMove       = errors.New("invalid move")
	ErrNoPendingExchange = errors.New("no pending exchange")
	ErrRoundsRemaining   = errors.New("rounds remaining")
)
