package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/zizeomlab/film-warranty/internal/handler"
	"github.com/zizeomlab/film-warranty/internal/middleware"
	"github.com/zizeomlab/film-warranty/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this to verify the service
	// is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login
	// and the two refresh variants.  Each handler generates or exchanges
	// tokens on its own.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a JSON body containing a `refresh_token` and
	// invalidates it; no JWT is required.  A valid token yields 204.
	g.POST("/logout", a.Logout)

	// Protected endpoints require a valid access token and a known role.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleSeller, model.RoleBuyer))
	auth.GET("/me", a.Me)
	// Revokes every refresh token of the caller, not just one.
	auth.POST("/logout-all", a.LogoutAll)
}

// RegisterAPI registers the record-management endpoints under /v1.  Every
// route requires a valid JWT; write access is narrowed per route with an
// additional RequireRole middleware.  The cache middleware, when non-nil,
// is applied only to listing and lookup GETs so that reads of the larger
// joined payloads can be served from Redis.
func RegisterAPI(e *echo.Echo, accounts *handler.AccountHandler, zizeoms *handler.ZizeomHandler, orders *handler.OrderHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleSeller, model.RoleBuyer),
	)

	adminOnly := middleware.RequireRole(model.RoleAdmin)
	adminOrSeller := middleware.RequireRole(model.RoleAdmin, model.RoleSeller)

	readMW := []echo.MiddlewareFunc{}
	if cache != nil {
		readMW = append(readMW, cache)
	}

	// ---- Accounts ----
	// Account administration is restricted to admins; sellers and buyers
	// manage their own profile through the auth endpoints.
	g.POST("/accounts", accounts.Create, adminOnly)
	g.GET("/accounts", accounts.List, append([]echo.MiddlewareFunc{adminOnly}, readMW...)...)
	g.GET("/accounts/:id", accounts.Get, adminOnly)

	// ---- Zizeoms ----
	g.POST("/zizeoms", zizeoms.Create, adminOrSeller)
	g.GET("/zizeoms", zizeoms.List, readMW...)
	g.GET("/zizeoms/:id", zizeoms.Get)
	// Recomputes the branch's consumed film counter from its detail rows.
	g.POST("/zizeoms/:id/reconcile", zizeoms.Reconcile, adminOnly)

	// ---- Orders ----
	g.POST("/orders", orders.Create, adminOrSeller)
	g.GET("/orders", orders.List, readMW...)
	// The literal route must be registered alongside /orders/:id; Echo
	// prefers the static segment, so /orders/lookup never matches :id.
	g.GET("/orders/lookup", orders.Lookup, readMW...)
	g.GET("/orders/:id", orders.Get)
}
