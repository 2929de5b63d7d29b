// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	engine "github.com/jason-s-yu/sabacc/engine"
	"github.com/jason-s-yu/sabacc/internal/models"
)

// HandState is one hand as shown on the board, with its score badge.
type HandState struct {
	Player int           `json:"player"`
	Cards  []models.Card `json:"cards"`
	Label  string        `json:"label"`
}

// RollState is the most recent dice roll.
type RollState struct {
	Dice     [2]int `json:"dice"`
	Doubles  bool   `json:"doubles"`
	Shift    bool   `json:"shift"`
	Recycles int    `json:"recycles"`
}

// ScoreState is the evaluation of one hand in a revealed result.
type ScoreState struct {
	Kind  string `json:"kind"`
	Sum   int    `json:"sum"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

// WinnerState is a revealed result. Winner indices are zero-based; Text numbers players from one.
type WinnerState struct {
	Kind    string       `json:"kind"`
	Winners []int        `json:"winners"`
	Scores  []ScoreState `json:"scores"`
	Text    string       `json:"text"`
}

func newWinnerState(res engine.WinnerResult) WinnerState {
	ws := WinnerState{
		Kind:    res.Kind.String(),
		Winners: append([]int{}, res.Winners...),
		Scores:  make([]ScoreState, len(res.Scores)),
		Text:    res.Text(),
	}
	for i, s := range res.Scores {
		ws.Scores[i] = ScoreState{Kind: s.Kind.String(), Sum: s.Sum, Count: s.Count, Label: s.Label()}
	}
	return ws
}

// SyncState is the full board. Sabacc is played face up here, so every card is visible.
type SyncState struct {
	GameID          uuid.UUID    `json:"gameId"`
	Round           int          `json:"round"`
	MaxRounds       int          `json:"maxRounds"`
	RoundsExhausted bool         `json:"roundsExhausted"`
	DrawPileSize    int          `json:"drawPileSize"`
	DiscardPileSize int          `json:"discardPileSize"`
	DiscardTop      *models.Card `json:"discardTop,omitempty"`
	Hands           []HandState  `json:"hands"`
	Held            *models.Card `json:"held,omitempty"`
	HeldFrom        string       `json:"heldFrom,omitempty"`
	ExchangeOpen    bool         `json:"exchangeOpen"`
	PreviousTop     *models.Card `json:"previousTop,omitempty"`
	LastRoll        *RollState   `json:"lastRoll,omitempty"`
	Winner          *WinnerState `json:"winner,omitempty"`
	LegalMoves      []string     `json:"legalMoves"`
}

// GetSyncState returns a snapshot of the board. It acquires the game lock.
func (g *SabaccGame) GetSyncState() SyncState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.syncState()
}

// syncState builds the board snapshot from the engine.
// Assumes lock is held by caller.
func (g *SabaccGame) syncState() SyncState {
	e := &g.Engine
	st := SyncState{
		GameID:          g.ID,
		Round:           int(e.Round),
		MaxRounds:       int(e.MaxRounds()),
		RoundsExhausted: e.RoundsExhausted(),
		DrawPileSize:    e.DrawPile.Size(),
		DiscardPileSize: e.DiscardPile.Size(),
		DiscardTop:      g.Cards.Model(e.DiscardTop()),
		Held:            g.Cards.Model(e.Held),
		ExchangeOpen:    e.Exchange.Open,
		LegalMoves:      e.LegalMoves().Names(),
	}
	if e.HasHeld() {
		st.HeldFrom = e.HeldFrom.String()
	}
	if e.Exchange.Open {
		st.PreviousTop = g.Cards.Model(e.Exchange.PreviousTop)
	}

	hands := e.AllHands()
	st.Hands = make([]HandState, len(hands))
	for i, h := range hands {
		st.Hands[i] = HandState{
			Player: i,
			Cards:  g.Cards.Models(h),
			Label:  engine.HandScore(h).Label(),
		}
	}

	if e.Rolled {
		r := e.LastRoll
		st.LastRoll = &RollState{
			Dice:     [2]int{int(r.Dice[0]), int(r.Dice[1])},
			Doubles:  r.Doubles(),
			Shift:    r.Shift,
			Recycles: int(r.Recycles),
		}
	}
	if e.WinnerRevealed {
		ws := newWinnerState(e.Result)
		st.Winner = &ws
	}
	return st
}
