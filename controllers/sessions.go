package controllers

import (
	"net/http"

	"github.com/bellapacxx/bingo-server/game"
	"github.com/gin-gonic/gin"
)

// ListSessions returns a snapshot of every live session.
func ListSessions(sessions *game.SessionRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sessions": sessions.Snapshots()})
	}
}

// GetSession returns one session's snapshot.
func GetSession(sessions *game.SessionRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessions.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}
