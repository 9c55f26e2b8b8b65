package router

import (
	"github.com/finsuite/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// ProductRoutes returns the product-service API routes
func ProductRoutes(h *handler.ProductHandler) *Resource {
	return NewResource("/products").
		POST("", h.Create).
		GET("", h.List).
		GET("/client/:clientId", h.ListByClient).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

// ClientRoutes returns the customer-service API routes
func ClientRoutes(h *handler.ClientHandler) *Resource {
	return NewResource("/clients").
		POST("", h.Create).
		GET("", h.List).
		GET("/id/:id", h.GetByID).
		PUT("/id/:id", h.Update).
		DELETE("/id/:id", h.Delete).
		GET("/:code", h.GetWithProducts).
		GET("/:code/basic", h.GetBasic)
}

// UserRoutes returns the iam-service API routes.
// guards (a rate limiter, for instance) run before sign-up and sign-in only.
func UserRoutes(h *handler.UserHandler, guards ...gin.HandlerFunc) *Resource {
	users := NewResource("/users")
	users.With(guards...).
		POST("/sign-up", h.SignUp).
		POST("/sign-in", h.SignIn)
	users.GET("/me", h.Me).
		POST("/sign-out", h.SignOut)
	return users
}
