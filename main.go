package main

import (
	"net/http"
	"time"

	"github.com/bellapacxx/bingo-server/config"
	"github.com/bellapacxx/bingo-server/game"
	"github.com/bellapacxx/bingo-server/routes"
	"github.com/bellapacxx/bingo-server/services"
	"github.com/bellapacxx/bingo-server/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(cfg config.Config, sessions *game.SessionRegistry, catalog *game.CardCatalog, hub *services.Hub) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup REST routes
	routes.SetupRoutes(r, sessions, catalog)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket session endpoint
	r.GET("/ws/:session", services.HandleWebSocket(hub, sessions))

	return r
}

func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("[FATAL] failed to load config: %v", err)
	}

	catalog := game.NewCardCatalog()
	sessions := game.NewSessionRegistry(cfg.Settings(), catalog, logger.Log)
	sessions.StartSweeper(cfg.SweepInterval, cfg.EmptyGrace)
	defer sessions.Stop()

	hub := services.NewHub()
	router := setupRouter(cfg, sessions, catalog, hub)

	logger.Infof("bingo server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatalf("[FATAL] failed to start server: %v", err)
	}
}
