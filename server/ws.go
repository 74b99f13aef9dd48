package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ActionSink receives poker actions arriving over a table's websocket.
type ActionSink interface {
	Act(ctx context.Context, tableID, userID uuid.UUID, action domain.ActionType, amount decimal.Decimal) error
}

// wsClient is one websocket subscription to one table.
type wsClient struct {
	hub     *WSHub
	conn    *websocket.Conn
	send    chan domain.WSMessage
	tableID uuid.UUID
	userID  uuid.UUID
}

// WSHub fans table events out to subscribed connections. It satisfies the
// broadcaster ports of both game engines. Sends never block: a client whose
// buffer is full gets disconnected rather than stalling the table goroutine.
type WSHub struct {
	mu      sync.RWMutex
	tables  map[uuid.UUID]map[uuid.UUID]*wsClient
	actions ActionSink
	logger  *slog.Logger
}

func NewWSHub(logger *slog.Logger) *WSHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHub{
		tables: make(map[uuid.UUID]map[uuid.UUID]*wsClient),
		logger: logger,
	}
}

// BindActions attaches the poker action sink. The hub is created before the
// game services because they take it as their broadcaster, so the sink
// arrives late. Call before the router starts serving.
func (h *WSHub) BindActions(actions ActionSink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = actions
}

func (h *WSHub) actionSink() ActionSink {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.actions
}

func (h *WSHub) BroadcastToTable(tableID uuid.UUID, msg domain.WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.tables[tableID] {
		h.deliver(client, msg)
	}
}

func (h *WSHub) SendToPlayer(tableID, userID uuid.UUID, msg domain.WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if client, ok := h.tables[tableID][userID]; ok {
		h.deliver(client, msg)
	}
}

func (h *WSHub) deliver(client *wsClient, msg domain.WSMessage) {
	select {
	case client.send <- msg:
	default:
		h.logger.Warn("client send buffer full, dropping connection",
			"table_id", client.tableID, "user_id", client.userID)
		go client.conn.Close()
	}
}

func (h *WSHub) register(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.tables[client.tableID]
	if !ok {
		subs = make(map[uuid.UUID]*wsClient)
		h.tables[client.tableID] = subs
	}
	if prev, ok := subs[client.userID]; ok {
		close(prev.send)
		prev.conn.Close()
	}
	subs[client.userID] = client
}

func (h *WSHub) unregister(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.tables[client.tableID]
	if subs[client.userID] == client {
		delete(subs, client.userID)
		close(client.send)
		if len(subs) == 0 {
			delete(h.tables, client.tableID)
		}
	}
}

// HandleConnection upgrades the request and subscribes the caller to the
// table in the path. Auth comes from the token query parameter because
// browsers cannot set headers on websocket handshakes.
func (h *WSHub) HandleConnection(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.ValidateToken(c.Query("token"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, errorResponse(domain.ErrInvalidToken))
			return
		}
		tableID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		client := &wsClient{
			hub:     h,
			conn:    conn,
			send:    make(chan domain.WSMessage, sendBuffer),
			tableID: tableID,
			userID:  claims.UserID,
		}
		h.register(client)

		go client.writePump()
		go client.readPump()
	}
}

func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg domain.WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read error", "error", err, "user_id", c.userID)
			}
			return
		}
		c.handleMessage(msg)
	}
}

func (c *wsClient) handleMessage(msg domain.WSMessage) {
	switch msg.Type {
	case domain.MsgPing:
		// Pong frames handle liveness; an application ping just gets echoed.
		c.trySend(domain.WSMessage{Type: domain.MsgPing})
	case domain.MsgAction:
		var action domain.WSAction
		if err := json.Unmarshal(msg.Payload, &action); err != nil {
			c.trySend(domain.NewWSMessage(domain.MsgError, domain.WSError{Message: "malformed action payload"}))
			return
		}
		sink := c.hub.actionSink()
		if sink == nil {
			c.trySend(domain.NewWSMessage(domain.MsgError, domain.WSError{Message: "actions not accepted on this table"}))
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sink.Act(ctx, c.tableID, c.userID, action.Action, action.Amount); err != nil {
			c.trySend(domain.NewWSMessage(domain.MsgError, domain.WSError{Message: err.Error()}))
		}
	default:
		c.trySend(domain.NewWSMessage(domain.MsgError, domain.WSError{Message: "unknown message type: " + msg.Type}))
	}
}

func (c *wsClient) trySend(msg domain.WSMessage) {
	select {
	case c.send <- msg:
	default:
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
