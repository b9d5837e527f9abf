package services

import (
	"net/http"

	"github.com/bellapacxx/bingo-server/game"
	"github.com/bellapacxx/bingo-server/utils/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades a connection and attaches it to the session in
// the path, creating the session on first connect.
func HandleWebSocket(hub *Hub, sessions *game.SessionRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorf("[WS] upgrade error: %v", err)
			return
		}

		session := sessions.GetOrCreate(sessionID, hub.SinkFor(sessionID))
		client := &Client{
			connID:    uuid.NewString(),
			sessionID: sessionID,
			conn:      conn,
			hub:       hub,
			session:   session,
			send:      make(chan []byte, 32),
		}
		hub.register(client)

		go client.writePump()
		go client.readPump()

		logger.Infof("[WS] new connection %s to session %s", client.connID, sessionID)
	}
}
