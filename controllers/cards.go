package controllers

import (
	"net/http"
	"strconv"

	"github.com/bellapacxx/bingo-server/game"
	"github.com/gin-gonic/gin"
)

// GetCard returns the deterministic layout for one card id. Clients use it
// to preview cards during selection.
func GetCard(catalog *game.CardCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "card id must be an integer"})
			return
		}
		card, err := catalog.CardFor(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":      card.ID,
			"numbers": card.Numbers,
			"grid":    card.Grid(),
		})
	}
}
