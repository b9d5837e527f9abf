package routes

import (
	"github.com/bellapacxx/bingo-server/controllers"
	"github.com/bellapacxx/bingo-server/game"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, sessions *game.SessionRegistry, catalog *game.CardCatalog) {
	api := r.Group("/api")

	// ----------------------
	// Session routes
	// ----------------------
	api.GET("/sessions", controllers.ListSessions(sessions))   // List all sessions
	api.GET("/sessions/:id", controllers.GetSession(sessions)) // Session snapshot

	// ----------------------
	// Card routes
	// ----------------------
	api.GET("/cards/:id", controllers.GetCard(catalog)) // Card layout preview
}
