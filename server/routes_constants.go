package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth
	RouteAuth        = "/auth"
	RouteAuthRefresh = "/auth/refresh"
	RouteAuthLogout  = "/auth/logout"

	// Users
	RouteUsers = "/users"

	// Gadgets
	RouteGadgets            = "/gadgets"
	RouteGadget             = "/gadgets/{id}"
	RouteGadgetSelfDestruct = "/gadgets/{id}/self-destruct"

	RouteMetrics  = "/metrics"
	RouteNotFound = "/"
)
