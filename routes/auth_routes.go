package routes

import (
	"mercari_mini_back_end_go/db"
	"mercari_mini_back_end_go/services"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(r *gin.Engine, users db.UserRepository) {
	r.POST("/api/auth/register", func(c *gin.Context) {
		services.RegisterUser(c, users)
	})

	r.POST("/api/auth/login", func(c *gin.Context) {
		services.LoginUser(c, users)
	})
}
