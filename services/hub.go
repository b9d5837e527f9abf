package services

import (
	"encoding/json"
	"sync"

	"github.com/bellapacxx/bingo-server/game"
	"github.com/bellapacxx/bingo-server/utils/logger"
)

// Hub tracks connected clients per session and fans session events out to
// them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[string]*Client // session id -> connection id
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[string]*Client)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	if h.clients[c.sessionID] == nil {
		h.clients[c.sessionID] = make(map[string]*Client)
	}
	h.clients[c.sessionID][c.connID] = c
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if conns, ok := h.clients[c.sessionID]; ok {
		if conns[c.connID] == c {
			delete(conns, c.connID)
			if len(conns) == 0 {
				delete(h.clients, c.sessionID)
			}
		}
	}
	h.mu.Unlock()
}

// SinkFor returns the event sink bound to one session.
func (h *Hub) SinkFor(sessionID string) game.EventSink {
	return sessionSink{hub: h, sessionID: sessionID}
}

type sessionSink struct {
	hub       *Hub
	sessionID string
}

func (s sessionSink) Broadcast(ev game.Event) {
	s.hub.deliver(s.sessionID, "", ev)
}

func (s sessionSink) Send(playerID string, ev game.Event) {
	s.hub.deliver(s.sessionID, playerID, ev)
}

// deliver enqueues ev for the session's clients, all of them or only those
// bound to playerID. Enqueueing never blocks: the caller holds the session
// lock, so a slow socket drops messages instead of stalling the round.
func (h *Hub) deliver(sessionID, playerID string, ev game.Event) {
	b, err := json.Marshal(game.Envelope{Type: ev.Type(), Data: ev})
	if err != nil {
		logger.Errorf("[Hub] marshal %s event: %v", ev.Type(), err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients[sessionID] {
		if playerID != "" && c.PlayerID() != playerID {
			continue
		}
		c.enqueue(b)
	}
}
