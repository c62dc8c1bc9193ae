package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/arcade-wallet/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/arcade-wallet/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/arcade-wallet/internal/model"      // import model for the staff role constants
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes for staff sessions.  The
// provided AuthHandler implements the logic for each endpoint.
// Unauthenticated operations live under /v1/auth; there is no public
// registration because staff accounts are provisioned by event admins
// ahead of time.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle staff login at /v1/auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to refresh access tokens at /v1/auth/refresh.
	// This rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Logout does not require JWT authentication.  The handler accepts a
	// JSON body containing a `refresh_token` and will invalidate that
	// token.  If the token is valid, a 204 response is returned.
	g.POST("/logout", a.Logout)
}

// RegisterStaffAPI registers the protected staff endpoints under /v1 and
// wires the middleware chain: JWT authentication, rate limiting, role
// enforcement and (for catalog reads) response caching.
//
// Role layout:
//   - /me and /wallets/lookup are available to both GATE and GAME staff
//   - /checkin/* is restricted to GATE staff working the entrance
//   - /games, /games/:id/presets and /txns/* are restricted to GAME staff
//     running stations and prize counters
func RegisterStaffAPI(
	e *echo.Echo,
	a *handler.AuthHandler,
	lookup *handler.LookupHandler,
	checkin *handler.CheckinHandler,
	txn *handler.TxnHandler,
	catalog *handler.CatalogHandler,
	jwtSecret string,
	rateLimit echo.MiddlewareFunc,
	cache echo.MiddlewareFunc,
) {
	auth := e.Group("/v1")
	// Apply the JWTAuth middleware to the protected group using the provided secret.
	auth.Use(middleware.JWTAuth(jwtSecret))
	if rateLimit != nil {
		auth.Use(rateLimit)
	}

	anyStaff := middleware.RequireRole(model.RoleGate, model.RoleGame)
	gateOnly := middleware.RequireRole(model.RoleGate)
	gameOnly := middleware.RequireRole(model.RoleGame)

	// Session introspection and attendee lookup work for every staff role.
	auth.GET("/me", a.Me, anyStaff)
	auth.GET("/wallets/lookup", lookup.Lookup, anyStaff)

	// Check-in transitions are a gate crew responsibility.
	auth.POST("/checkin/approve", checkin.Approve, gateOnly)
	auth.POST("/checkin/reject", checkin.Reject, gateOnly)

	// Catalog reads change rarely during an event, so they sit behind the
	// Redis response cache when one is configured.
	games := auth.Group("/games", gameOnly)
	if cache != nil {
		games.Use(cache)
	}
	games.GET("", catalog.ListGames)
	games.GET("/:id/presets", catalog.ListPresets)

	// Token movements are performed by game and prize staff.
	auth.POST("/txns/debit", txn.Debit, gameOnly)
	auth.POST("/txns/credit", txn.Credit, gameOnly)
}
