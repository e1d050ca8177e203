package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to authentication
// r: the RouterGroup to which routes are added
// authRequired: the middleware guarding authenticated routes
func RegisterRoutes(r *gin.RouterGroup, h *Handler, authRequired gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", authRequired, h.Me)
		auth.POST("/logout", authRequired, h.Logout)
	}
}
