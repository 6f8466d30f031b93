package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pricejoshua/wehavefoodathome-backend/logger"
	"go.uber.org/zap"
)

// WriteTimeout bounds a single socket write so one stalled peer cannot hold up a broadcast.
const WriteTimeout = 10 * time.Second

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type WSClient struct {
	HouseID uuid.UUID
	UserID  uuid.UUID
	Conn    Conn

	mu sync.Mutex
}

func (c *WSClient) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(websocket.TextMessage, msg)
}

// WritePing sends a keepalive, serialised with broadcasts.
func (c *WSClient) WritePing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.Conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
		return err
	}
	return c.Conn.WriteMessage(websocket.PingMessage, nil)
}

// RealtimeHub tracks the open sockets of every house.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uuid.UUID]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.HouseID] == nil {
		h.clients[c.HouseID] = make(map[*WSClient]struct{})
	}
	h.clients[c.HouseID][c] = struct{}{}
	h.mu.Unlock()
}

// Unregister forgets the client and closes its socket. Safe to call twice.
func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.HouseID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.HouseID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// Count returns the number of sockets open for a house.
func (h *RealtimeHub) Count(houseID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[houseID])
}

// Broadcast sends {"kind": event, "data": payload} to every socket of the house.
// Writes happen outside the hub lock; a socket whose write fails is dropped.
func (h *RealtimeHub) Broadcast(houseID uuid.UUID, event string, payload any) {
	msg, err := json.Marshal(map[string]any{"kind": event, "data": payload})
	if err != nil {
		logger.GetLogger().Error("marshal realtime event", zap.String("event", event), zap.Error(err))
		return
	}
	h.mu.RLock()
	targets := make([]*WSClient, 0, len(h.clients[houseID]))
	for c := range h.clients[houseID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(msg); err != nil {
			logger.GetLogger().Debug("realtime write failed", zap.String("house_id", houseID.String()), zap.Error(err))
			h.Unregister(c)
		}
	}
}
