// internal/handlers/handler.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	engine "github.com/jason-s-yu/sabacc/engine"
	"github.com/jason-s-yu/sabacc/internal/auth"
	"github.com/jason-s-yu/sabacc/internal/cache"
	"github.com/jason-s-yu/sabacc/internal/game"
	"github.com/jason-s-yu/sabacc/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Handler serves the table API.
type Handler struct {
	Store             *game.GameStore
	Secret            []byte
	TokenTTL          time.Duration
	Rules             engine.HouseRules
	CheckConservation bool

	mu   sync.Mutex
	hubs map[uuid.UUID]*Hub
}

// NewHandler creates a handler backed by store.
func NewHandler(store *game.GameStore, secret []byte, ttl time.Duration, rules engine.HouseRules) *Handler {
	return &Handler{
		Store:    store,
		Secret:   secret,
		TokenTTL: ttl,
		Rules:    rules,
		hubs:     make(map[uuid.UUID]*Hub),
	}
}

// Register mounts the routes on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	e.POST("/tables", h.CreateTable)
	e.GET("/tables/:id", h.GetTable)
	e.DELETE("/tables/:id", h.DeleteTable)
	e.POST("/tables/:id/actions", h.PostAction)
	e.GET("/tables/:id/actions", h.GetActions)
	e.GET("/tables/:id/ws", h.TableSocket)
}

// CreateTableResponse is returned by POST /tables.
type CreateTableResponse struct {
	ID    uuid.UUID      `json:"id"`
	Token string         `json:"token"`
	State game.SyncState `json:"state"`
}

// CreateTable starts a new table and issues its access token.
func (h *Handler) CreateTable(c echo.Context) error {
	g, err := game.NewSabaccGame(h.Rules)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	g.CheckConservation = h.CheckConservation

	token, err := auth.IssueTableToken(h.Secret, g.ID, h.TokenTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hub := NewHub(g.ID)
	g.BroadcastFn = hub.Broadcast
	h.mu.Lock()
	h.hubs[g.ID] = hub
	h.mu.Unlock()
	h.Store.AddGame(g)

	logrus.WithField("table", g.ID).Info("table opened")
	return c.JSON(http.StatusCreated, CreateTableResponse{ID: g.ID, Token: token, State: g.GetSyncState()})
}

// GetTable returns the full board.
func (h *Handler) GetTable(c echo.Context) error {
	g, err := h.authorizedTable(c, bearerToken(c.Request()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g.GetSyncState())
}

// DeleteTable discards a table and disconnects its websockets. The action
// history in Redis is kept.
func (h *Handler) DeleteTable(c echo.Context) error {
	g, err := h.authorizedTable(c, bearerToken(c.Request()))
	if err != nil {
		return err
	}
	h.Store.DeleteGame(g.ID)
	h.mu.Lock()
	hub := h.hubs[g.ID]
	delete(h.hubs, g.ID)
	h.mu.Unlock()
	if hub != nil {
		hub.Close()
	}
	logrus.WithField("table", g.ID).Info("table closed")
	return c.NoContent(http.StatusNoContent)
}

// GetActions returns the table's action history from Redis, oldest first.
func (h *Handler) GetActions(c echo.Context) error {
	g, err := h.authorizedTable(c, bearerToken(c.Request()))
	if err != nil {
		return err
	}
	recs, err := cache.LoadGameActions(c.Request().Context(), g.ID)
	if err != nil {
		if errors.Is(err, cache.ErrNoRedis) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "action history disabled")
		}
		logrus.WithField("table", g.ID).WithError(err).Error("load action history")
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load action history")
	}
	return c.JSON(http.StatusOK, recs)
}

// PostAction applies one action and returns the resulting board.
func (h *Handler) PostAction(c echo.Context) error {
	g, err := h.authorizedTable(c, bearerToken(c.Request()))
	if err != nil {
		return err
	}
	var action models.GameAction
	if err := c.Bind(&action); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid action body")
	}
	if err := g.HandlePlayerAction(action); err != nil {
		return echo.NewHTTPError(actionStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, g.GetSyncState())
}

// TableSocket upgrades to a websocket that receives every table event and
// accepts actions. The token is passed as the "token" query parameter.
func (h *Handler) TableSocket(c echo.Context) error {
	g, err := h.authorizedTable(c, c.QueryParam("token"))
	if err != nil {
		return err
	}
	hub := h.hub(g.ID)
	if hub == nil {
		return echo.NewHTTPError(http.StatusNotFound, "table not found")
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		// Accept has already written the response.
		logrus.WithField("table", g.ID).WithError(err).Warn("websocket accept failed")
		return nil
	}
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	entry := logrus.WithField("table", g.ID)
	entry.Info("websocket attached")

	// Events queued before the sync state are already reflected in it.
	cl := hub.attach(ctx, conn)
	defer hub.detach(cl)

	state := g.GetSyncState()
	hub.sendTo(cl, game.GameEvent{Type: game.EventSyncState, State: &state})

	for {
		var action models.GameAction
		if err := wsjson.Read(ctx, conn, &action); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && websocket.CloseStatus(err) != websocket.StatusGoingAway {
				entry.WithError(err).Debug("websocket read ended")
			}
			entry.Info("websocket detached")
			return nil
		}
		// Rejections are broadcast as events, the error needs no further handling here.
		_ = g.HandlePlayerAction(action)
	}
}

func (h *Handler) hub(id uuid.UUID) *Hub {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hubs[id]
}

// authorizedTable resolves the :id route parameter and checks the token against it.
func (h *Handler) authorizedTable(c echo.Context, token string) (*game.SabaccGame, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid table id")
	}
	if token == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	if err := auth.Authorize(h.Secret, token, id); err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	g := h.Store.GetGame(id)
	if g == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "table not found")
	}
	return g, nil
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	v := r.Header.Get("Authorization")
	if !strings.HasPrefix(v, prefix) {
		return ""
	}
	return strings.TrimSpace(v[len(prefix):])
}

// actionStatus maps an action error to an HTTP status.
func actionStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrBadPayload), errors.Is(err, game.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrInvalidMove),
		errors.Is(err, engine.ErrEmptyDrawPile),
		errors.Is(err, engine.ErrNoPendingExchange),
		errors.Is(err, engine.ErrRoundsRemaining):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
