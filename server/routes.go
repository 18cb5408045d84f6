package server

import (
	"net/http"
)

func (s *Server) initRoutes() {
	// Auth
	s.RegisterRouteHandler("POST "+RouteAuth, ChainMiddleware(s.LoginHandler(), s.APIMiddleware(s.RateLimitMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Users
	s.RegisterRouteHandler("POST "+RouteUsers, ChainMiddleware(s.CreateUserHandler(), s.APIMiddleware(s.RateLimitMiddleware)...))
	s.RegisterRouteHandler("PATCH "+RouteUsers, ChainMiddleware(s.UpdateUserHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Gadgets (all require a valid access token)
	s.RegisterRouteHandler("POST "+RouteGadgets, ChainMiddleware(s.CreateGadgetHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteGadgets, ChainMiddleware(s.ListGadgetsHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("PATCH "+RouteGadgets, ChainMiddleware(s.UpdateGadgetHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("DELETE "+RouteGadget, ChainMiddleware(s.DecommissionGadgetHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteGadgetSelfDestruct, ChainMiddleware(s.SelfDestructGadgetHandler(), s.APIMiddleware(s.RequireAuth())...))

	s.RegisterRouteHandler("GET "+RouteMetrics, ChainMiddleware(s.metrics.Handler().ServeHTTP, s.LoggingMiddleware))

	// Everything else, including CORS preflights
	s.RegisterRouteHandler(RouteNotFound, ChainMiddleware(s.NotFoundHandler(), s.APIMiddleware()...))
}

// RegisterRouteHandler adds pattern to the mux and to the startup route log.
func (s *Server) RegisterRouteHandler(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}
