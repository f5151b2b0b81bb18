package routes

import (
	"mercari_mini_back_end_go/auth"
	"mercari_mini_back_end_go/db"
	"mercari_mini_back_end_go/services"

	"github.com/gin-gonic/gin"
)

func SetupItemRoutes(r *gin.Engine, items db.ItemRepository) {
	// Browsing is public; /me and every mutation require a bearer token.
	r.GET("/api/items", func(c *gin.Context) {
		services.ListItems(c, items)
	})

	r.GET("/api/items/me", auth.RequireAuth(), func(c *gin.Context) {
		services.ListMyItems(c, items)
	})

	r.GET("/api/items/:itemId", func(c *gin.Context) {
		services.GetItemById(c, items)
	})

	r.POST("/api/items", auth.RequireAuth(), func(c *gin.Context) {
		services.CreateItem(c, items)
	})

	r.PUT("/api/items/:itemId", auth.RequireAuth(), func(c *gin.Context) {
		services.UpdateItem(c, items)
	})

	r.DELETE("/api/items/:itemId", auth.RequireAuth(), func(c *gin.Context) {
		services.DeleteItem(c, items)
	})
}
