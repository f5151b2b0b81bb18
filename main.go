package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"mercari_mini_back_end_go/config"
	"mercari_mini_back_end_go/db"
	"mercari_mini_back_end_go/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	r := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsConfig))

	// Initialize database
	pool, err := db.InitDatabase(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer pool.Close()

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Mercari Mini API is running!")
	})

	// Initialize routes
	routes.SetupAuthRoutes(r, db.NewUserRepository(pool))
	routes.SetupItemRoutes(r, db.NewItemRepository(pool))

	// Start server
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
