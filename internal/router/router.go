// Package router defines how HTTP routes are registered for the API.
// Routes are wired explicitly at startup from the handlers and middleware
// passed in; there is no ambient routing table.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-list-api/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account routes. Register and login are open
// to any caller; logout and me run behind the token auth middleware so the
// caller's identity is already resolved when the handler executes.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth echo.MiddlewareFunc) {
	e.POST("/register", a.Register)
	e.POST("/login", a.Login)
	e.POST("/logout", a.Logout, auth)
	e.GET("/me", a.Me, auth)
}

// RegisterTodos registers the owner-scoped todo CRUD routes. Every route
// in the group passes through the token auth middleware before reaching a
// handler; the cache middleware runs after auth so cached entries are
// keyed by the resolved user.
func RegisterTodos(e *echo.Echo, h *handler.TodoHandler, auth, cache echo.MiddlewareFunc) {
	g := e.Group("/todo", auth, cache)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
