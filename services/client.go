package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bellapacxx/bingo-server/game"
	"github.com/bellapacxx/bingo-server/utils/logger"
	"github.com/gorilla/websocket"
)

// Client is one websocket connection bound to a session. The player id is
// empty until a join command succeeds; every later command uses the bound
// id, never the one in the payload.
type Client struct {
	connID    string
	sessionID string
	conn      *websocket.Conn
	hub       *Hub
	session   *game.Session
	send      chan []byte
	once      sync.Once

	mu       sync.Mutex
	playerID string
}

func (c *Client) PlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

func (c *Client) bindPlayer(id string) {
	c.mu.Lock()
	c.playerID = id
	c.mu.Unlock()
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

func (c *Client) enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		logger.Debugf("[Client %s] dropping message, send buffer full", c.connID)
	}
}

// commandEnvelope is the client-to-server wire framing.
type commandEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		if id := c.PlayerID(); id != "" {
			_ = c.session.Leave(id)
		}
		c.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Infof("[Client %s] disconnected normally", c.connID)
			} else {
				logger.Infof("[Client %s] read error: %v", c.connID, err)
			}
			return
		}
		c.handleMessage(message)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Infof("[Client %s] write error: %v", c.connID, err)
			return
		}
	}
}

func (c *Client) handleMessage(msg []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[Client %s] recovered from panic: %v", c.connID, r)
		}
	}()

	var env commandEnvelope
	if err := json.Unmarshal(msg, &env); err != nil {
		c.reject("", fmt.Errorf("%w: malformed message", game.ErrInvalidInput))
		return
	}

	switch env.Type {
	case "join":
		var cmd game.JoinCommand
		if !c.decode(env, &cmd) {
			return
		}
		// Bind before joining so the joined event reaches this connection.
		c.bindPlayer(cmd.PlayerID)
		if err := c.session.Join(cmd); err != nil {
			c.bindPlayer("")
			c.reject(env.Type, err)
			return
		}
		logger.Infof("[Client %s] joined session %s as %s", c.connID, c.sessionID, cmd.PlayerID)

	case "select_card":
		var cmd game.ReserveCardCommand
		if !c.decode(env, &cmd) {
			return
		}
		c.run(env.Type, func(playerID string) error {
			cmd.PlayerID = playerID
			return c.session.ReserveCard(cmd)
		})

	case "release_card":
		var cmd game.ReleaseCardCommand
		if !c.decode(env, &cmd) {
			return
		}
		c.run(env.Type, func(playerID string) error {
			cmd.PlayerID = playerID
			return c.session.ReleaseCard(cmd)
		})

	case "ready":
		c.run(env.Type, func(playerID string) error {
			return c.session.MarkReady(game.ReadyCommand{PlayerID: playerID})
		})

	case "mark_number":
		var cmd game.MarkNumberCommand
		if !c.decode(env, &cmd) {
			return
		}
		c.run(env.Type, func(playerID string) error {
			cmd.PlayerID = playerID
			return c.session.MarkNumber(cmd)
		})

	case "claim_bingo":
		var cmd game.ClaimWinCommand
		if !c.decode(env, &cmd) {
			return
		}
		c.run(env.Type, func(playerID string) error {
			cmd.PlayerID = playerID
			return c.session.ClaimWin(cmd)
		})

	case "ping":
		b, _ := json.Marshal(game.Envelope{Type: "pong", Data: game.PongEvent{}})
		c.enqueue(b)

	default:
		c.reject(env.Type, fmt.Errorf("%w: unknown command %q", game.ErrInvalidInput, env.Type))
	}
}

// run executes a post-join command with the bound player id.
func (c *Client) run(action string, fn func(playerID string) error) {
	playerID := c.PlayerID()
	if playerID == "" {
		c.reject(action, fmt.Errorf("%w: join the session first", game.ErrNotFound))
		return
	}
	if err := fn(playerID); err != nil {
		logger.Infof("[Client %s] %s rejected: %v", c.connID, action, err)
		c.reject(action, err)
	}
}

func (c *Client) decode(env commandEnvelope, cmd any) bool {
	if err := json.Unmarshal(env.Data, cmd); err != nil {
		c.reject(env.Type, fmt.Errorf("%w: malformed %s payload", game.ErrInvalidInput, env.Type))
		return false
	}
	return true
}

// reject reports a failed command to this client only.
func (c *Client) reject(action string, err error) {
	ev := game.RejectEvent{Action: action, Code: game.RejectCode(err), Reason: err.Error()}
	b, merr := json.Marshal(game.Envelope{Type: ev.Type(), Data: ev})
	if merr != nil {
		return
	}
	c.enqueue(b)
}
