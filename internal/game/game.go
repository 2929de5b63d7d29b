// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/sabacc/engine"
	"github.com/jason-s-yu/sabacc/internal/cache"
	"github.com/jason-s-yu/sabacc/internal/database"
	"github.com/jason-s-yu/sabacc/internal/models"
	"github.com/sirupsen/logrus"
)

// GameEventType represents the type of a table event broadcast via WebSockets.
type GameEventType string

// Constants defining the GameEvent types sent to clients.
const (
	EventTableDeal          GameEventType = "table_deal"           // Cards were dealt into the hands.
	EventPlayerDraw         GameEventType = "player_draw"          // Top of the draw pile became the held card.
	EventPlayerPickUp       GameEventType = "player_pickup"        // A hand card became the held card.
	EventPlayerDiscard      GameEventType = "player_discard"       // A card went onto the discard pile.
	EventPlayerReclaim      GameEventType = "player_reclaim"       // The covered discard was taken back.
	EventPlayerDrawExchange GameEventType = "player_draw_exchange" // Drew from the draw pile instead of reclaiming.
	EventPlayerPlace        GameEventType = "player_place"         // The held card went into a hand.
	EventDiceRoll           GameEventType = "dice_roll"            // Dice were rolled and the round advanced.
	EventSabaccShift        GameEventType = "sabacc_shift"         // Doubles redistributed every hand.
	EventWinnerRevealed     GameEventType = "winner_revealed"      // Final hands were scored.
	EventTableReset         GameEventType = "table_reset"          // Table returned to a fresh shuffled deck.
	EventActionRejected     GameEventType = "action_rejected"      // An action was refused; payload carries "message".
	EventSyncState          GameEventType = "sync_state"           // Full table state.
)

// Action types accepted by HandlePlayerAction.
const (
	ActionDeal         = "action_deal"
	ActionDraw         = "action_draw"
	ActionPickUp       = "action_pickup"
	ActionDiscard      = "action_discard"
	ActionReclaim      = "action_reclaim"
	ActionDrawExchange = "action_draw_exchange"
	ActionPlace        = "action_place"
	ActionRollDice     = "action_roll_dice"
	ActionRevealWinner = "action_reveal_winner"
	ActionReset        = "action_reset"
	ActionRequestSync  = "action_sync"
)

var (
	// ErrUnknownAction is returned for an unrecognised action type.
	ErrUnknownAction = errors.New("unknown action")
	// ErrBadPayload is returned when a card or player reference cannot be resolved.
	ErrBadPayload = errors.New("bad action payload")
)

// EventCard identifies a card within a GameEvent payload.
type EventCard struct {
	ID     uuid.UUID `json:"id"`
	Suit   string    `json:"suit"`
	Value  int       `json:"value"`
	Label  string    `json:"label"`
	Player *int      `json:"player,omitempty"` // Owning hand, if relevant.
}

// GameEvent is the standard structure for broadcasting table changes.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	Card    *EventCard             `json:"card,omitempty"`    // Primary card involved.
	Payload map[string]interface{} `json:"payload,omitempty"` // Additional data.
	State   *SyncState             `json:"state,omitempty"`   // Full state for sync and reset events.
}

// SabaccGame is one shared table. Every connected client may act on any hand.
type SabaccGame struct {
	ID        uuid.UUID
	CreatedAt time.Time

	Engine engine.GameState // The authoritative table state.
	Cards  CardRegistry     // UUIDs for every card, reassigned on reset.

	// CheckConservation verifies the deck invariant after every action.
	CheckConservation bool

	actionIndex int // Sequential index for the action historian.

	Mu sync.Mutex // Protects everything above.

	// BroadcastFn sends an event to every client at the table. Called with Mu held.
	BroadcastFn func(ev GameEvent)
}

// NewSabaccGame creates a table with a freshly shuffled deck seeded from the clock.
func NewSabaccGame(rules engine.HouseRules) (*SabaccGame, error) {
	return NewSabaccGameWithSeed(uint64(time.Now().UnixNano()), rules)
}

// NewSabaccGameWithSeed creates a table whose shuffles are determined by seed.
func NewSabaccGameWithSeed(seed uint64, rules engine.HouseRules) (*SabaccGame, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("new table: %w", err)
	}
	g := &SabaccGame{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Engine:    engine.NewGame(seed, rules),
		Cards:     newCardRegistry(),
	}
	g.log().WithField("players", rules.NumPlayers).Info("table created")
	return g, nil
}

func (g *SabaccGame) log() *logrus.Entry {
	return logrus.WithField("game", g.ID)
}

// fireEvent broadcasts an event via the BroadcastFn callback. Table events
// carry the board as it stands after the action; rejections do not.
// Assumes lock is held by caller.
func (g *SabaccGame) fireEvent(ev GameEvent) {
	if ev.State == nil && ev.Type != EventActionRejected {
		state := g.syncState()
		ev.State = &state
	}
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
		return
	}
	g.log().WithField("event", ev.Type).Debug("BroadcastFn is nil, event dropped")
}

// HandlePlayerAction applies one client command to the table.
// A refused command leaves the table unchanged, broadcasts EventActionRejected
// and returns the cause.
func (g *SabaccGame) HandlePlayerAction(action models.GameAction) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	entry := g.log().WithField("action", action.ActionType)

	var err error
	switch action.ActionType {
	case ActionDeal:
		err = g.handleDeal()
	case ActionDraw:
		err = g.handleDraw()
	case ActionPickUp:
		err = g.handlePickUp(action)
	case ActionDiscard:
		err = g.handleDiscard(action)
	case ActionReclaim:
		err = g.handleReclaim()
	case ActionDrawExchange:
		err = g.handleDrawExchange()
	case ActionPlace:
		err = g.handlePlace(action)
	case ActionRollDice:
		g.handleRollDice()
	case ActionRevealWinner:
		err = g.handleRevealWinner()
	case ActionReset:
		g.handleReset()
	case ActionRequestSync:
		state := g.syncState()
		g.fireEvent(GameEvent{Type: EventSyncState, State: &state})
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, action.ActionType)
	}

	if err != nil {
		entry.WithError(err).Info("action rejected")
		g.fireEvent(GameEvent{
			Type: EventActionRejected,
			Payload: map[string]interface{}{
				"action":  action.ActionType,
				"message": err.Error(),
			},
		})
		return err
	}

	if g.CheckConservation {
		if cerr := g.Engine.CheckConservation(); cerr != nil {
			entry.WithError(cerr).Error("deck conservation violated")
			return fmt.Errorf("after %s: %w", action.ActionType, cerr)
		}
	}
	entry.Debug("action applied")
	return nil
}

// cardFromPayload resolves the "id" field of an action to an engine card.
func (g *SabaccGame) cardFromPayload(action models.GameAction) (engine.Card, error) {
	id, ok := action.CardID()
	if !ok {
		return engine.EmptyCard, fmt.Errorf("%w: invalid card id", ErrBadPayload)
	}
	c, ok := g.Cards.Lookup(id)
	if !ok {
		return engine.EmptyCard, fmt.Errorf("%w: unknown card %s", ErrBadPayload, id)
	}
	return c, nil
}

func (g *SabaccGame) handleDeal() error {
	n, err := g.Engine.Deal()
	if err != nil {
		return err
	}
	g.fireEvent(GameEvent{
		Type: EventTableDeal,
		Payload: map[string]interface{}{
			"dealt":        n,
			"hands":        g.handModels(),
			"drawPileSize": g.Engine.DrawPile.Size(),
		},
	})
	g.logAction(ActionDeal, map[string]interface{}{"dealt": n})
	g.persistInitialGameState()
	return nil
}

func (g *SabaccGame) handleDraw() error {
	c, err := g.Engine.Draw()
	if err != nil {
		return err
	}
	g.fireEvent(GameEvent{Type: EventPlayerDraw, Card: g.Cards.EventCard(c)})
	g.logAction(ActionDraw, map[string]interface{}{"card": g.Cards.ID(c)})
	return nil
}

func (g *SabaccGame) handlePickUp(action models.GameAction) error {
	c, err := g.cardFromPayload(action)
	if err != nil {
		return err
	}
	from := g.Engine.Where(c)
	if err := g.Engine.PickUp(c); err != nil {
		return err
	}
	ev := g.Cards.EventCard(c)
	p := int(from.Player)
	ev.Player = &p
	g.fireEvent(GameEvent{Type: EventPlayerPickUp, Card: ev})
	g.logAction(ActionPickUp, map[string]interface{}{"card": g.Cards.ID(c), "player": p})
	return nil
}

func (g *SabaccGame) handleDiscard(action models.GameAction) error {
	c, err := g.cardFromPayload(action)
	if err != nil {
		return err
	}
	from := g.Engine.Where(c)
	if err := g.Engine.Discard(c); err != nil {
		return err
	}
	ev := g.Cards.EventCard(c)
	if from.Zone == engine.ZoneHand {
		p := int(from.Player)
		ev.Player = &p
	}
	payload := map[string]interface{}{
		"from":         from.Zone.String(),
		"exchangeOpen": g.Engine.Exchange.Open,
	}
	if g.Engine.Exchange.Open {
		payload["previousTop"] = g.Cards.EventCard(g.Engine.Exchange.PreviousTop)
	}
	g.fireEvent(GameEvent{Type: EventPlayerDiscard, Card: ev, Payload: payload})
	g.logAction(ActionDiscard, map[string]interface{}{"card": g.Cards.ID(c), "from": from.Zone.String()})
	return nil
}

func (g *SabaccGame) handleReclaim() error {
	c, err := g.Engine.ReclaimPrevious()
	if err != nil {
		return err
	}
	g.fireEvent(GameEvent{Type: EventPlayerReclaim, Card: g.Cards.EventCard(c)})
	g.logAction(ActionReclaim, map[string]interface{}{"card": g.Cards.ID(c)})
	return nil
}

func (g *SabaccGame) handleDrawExchange() error {
	c, err := g.Engine.DrawDuringExchange()
	if err != nil {
		return err
	}
	g.fireEvent(GameEvent{Type: EventPlayerDrawExchange, Card: g.Cards.EventCard(c)})
	g.logAction(ActionDrawExchange, map[string]interface{}{"card": g.Cards.ID(c)})
	return nil
}

func (g *SabaccGame) handlePlace(action models.GameAction) error {
	c, err := g.cardFromPayload(action)
	if err != nil {
		return err
	}
	p, ok := action.PlayerIndex()
	if !ok {
		return fmt.Errorf("%w: invalid player", ErrBadPayload)
	}
	if err := g.Engine.PlaceInHand(p, c); err != nil {
		return err
	}
	ev := g.Cards.EventCard(c)
	ev.Player = &p
	g.fireEvent(GameEvent{Type: EventPlayerPlace, Card: ev})
	g.logAction(ActionPlace, map[string]interface{}{"card": g.Cards.ID(c), "player": p})
	return nil
}

func (g *SabaccGame) handleRollDice() {
	res := g.Engine.RollDice()
	g.fireEvent(GameEvent{
		Type: EventDiceRoll,
		Payload: map[string]interface{}{
			"dice":    []int{int(res.Dice[0]), int(res.Dice[1])},
			"doubles": res.Doubles(),
			"round":   int(res.Round),
		},
	})
	if res.Shift {
		g.log().WithFields(logrus.Fields{"dice": res.Dice, "recycles": res.Recycles}).Info("sabacc shift")
		g.fireEvent(GameEvent{
			Type: EventSabaccShift,
			Payload: map[string]interface{}{
				"hands":    g.handModels(),
				"recycles": int(res.Recycles),
				"short":    shortList(res, g.Engine.NumPlayers()),
			},
		})
	}
	g.logAction(ActionRollDice, map[string]interface{}{
		"dice":  []int{int(res.Dice[0]), int(res.Dice[1])},
		"shift": res.Shift,
		"round": int(res.Round),
	})
}

func (g *SabaccGame) handleRevealWinner() error {
	res, err := g.Engine.RequestWinner()
	if err != nil {
		return err
	}
	ws := newWinnerState(res)
	g.fireEvent(GameEvent{
		Type: EventWinnerRevealed,
		Payload: map[string]interface{}{
			"kind":    ws.Kind,
			"winners": ws.Winners,
			"scores":  ws.Scores,
			"text":    ws.Text,
		},
	})
	g.log().WithField("result", ws.Text).Info("winner revealed")
	g.logAction(ActionRevealWinner, map[string]interface{}{"kind": ws.Kind, "winners": ws.Winners})
	g.persistFinalGameState(ws)
	return nil
}

func (g *SabaccGame) handleReset() {
	g.Engine.Reset()
	g.Cards = newCardRegistry()
	state := g.syncState()
	g.fireEvent(GameEvent{Type: EventTableReset, State: &state})
	g.logAction(ActionReset, nil)
}

// handModels returns every hand as client cards, indexed by player.
// Assumes lock is held by caller.
func (g *SabaccGame) handModels() [][]models.Card {
	hands := g.Engine.AllHands()
	out := make([][]models.Card, len(hands))
	for i, h := range hands {
		out[i] = g.Cards.Models(h)
	}
	return out
}

func shortList(res engine.DiceResult, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = int(res.Short[i])
	}
	return out
}

// persistInitialGameState saves the hands right after a deal to the audit store.
// Assumes lock is held by caller.
func (g *SabaccGame) persistInitialGameState() {
	type initialState struct {
		Round        int             `json:"round"`
		DrawPileSize int             `json:"drawPileSize"`
		Hands        [][]models.Card `json:"hands"`
	}
	snap := initialState{
		Round:        int(g.Engine.Round),
		DrawPileSize: g.Engine.DrawPile.Size(),
		Hands:        g.handModels(),
	}
	if database.DB != nil {
		go database.UpsertInitialGameState(context.Background(), g.ID, snap)
	}
}

// persistFinalGameState saves the revealed hands and result to the audit store.
// Assumes lock is held by caller.
func (g *SabaccGame) persistFinalGameState(ws WinnerState) {
	snapshot := map[string]interface{}{
		"hands":  g.handModels(),
		"result": ws,
		"round":  int(g.Engine.Round),
	}
	if database.DB != nil {
		go database.StoreFinalGameStateInDB(context.Background(), g.ID, snapshot)
	}
}

// logAction sends action details to the historian via Redis.
// Increments the internal action index for ordering.
// Assumes lock is held by caller.
func (g *SabaccGame) logAction(actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	if cache.Rdb == nil {
		return
	}

	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			logrus.WithFields(logrus.Fields{
				"game":   rec.GameID,
				"index":  rec.ActionIndex,
				"action": rec.ActionType,
			}).WithError(err).Error("failed publishing action to redis")
		}
	}(record)
}
