package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-gadget-server/auth"
	"github.com/jrsteele09/go-gadget-server/gadgets"
	"github.com/jrsteele09/go-gadget-server/internal/config"
	"github.com/jrsteele09/go-gadget-server/internal/metrics"
	"github.com/jrsteele09/go-gadget-server/internal/ratelimit"
	"github.com/jrsteele09/go-gadget-server/internal/requestlog"
	"github.com/jrsteele09/go-gadget-server/token"
	"github.com/jrsteele09/go-gadget-server/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Dependencies are the collaborators built in main and injected into the
// server. Users, Gadgets and Codenames are required.
type Dependencies struct {
	Users      users.UserRepo
	Gadgets    gadgets.Repo
	Codenames  gadgets.CodenameGenerator
	Limiter    ratelimit.Limiter  // nil: in-memory limiter when rate limiting is enabled
	RequestLog *requestlog.Logger // nil: requests are not written to a file
	Metrics    *metrics.Metrics   // nil: private registry
}

type Server struct {
	env        string
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	auth       *auth.AuthService
	tokens     *token.Manager
	users      *users.Service
	gadgets    *gadgets.Service
	limiter    ratelimit.Limiter
	requestLog *requestlog.Logger
	metrics    *metrics.Metrics
}

func New(config config.Config, deps Dependencies, gadgetOptions ...gadgets.ServiceOption) (*Server, error) {
	if deps.Users == nil || deps.Gadgets == nil {
		return nil, errors.New("[Server New] user and gadget repos are required")
	}

	tokens, err := token.New(
		token.NewHMACSigner(config.GetAccessTokenSecret()),
		token.NewHMACSigner(config.GetRefreshTokenSecret()),
		token.WithTokenExpiry(config.GetAccessTokenExpiry(), config.GetRefreshTokenExpiry()),
	)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create token manager: %w", err)
	}

	authService, err := auth.NewAuthService(deps.Users, tokens)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create auth service: %w", err)
	}
	userService, err := users.NewService(deps.Users)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create user service: %w", err)
	}
	gadgetService, err := gadgets.NewService(deps.Gadgets, deps.Codenames, gadgetOptions...)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create gadget service: %w", err)
	}

	s := &Server{
		env:        config.GetEnv(),
		mux:        http.NewServeMux(),
		config:     config,
		auth:       authService,
		tokens:     tokens,
		users:      userService,
		gadgets:    gadgetService,
		limiter:    deps.Limiter,
		requestLog: deps.RequestLog,
		metrics:    deps.Metrics,
	}
	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.NewRegistry())
	}
	if s.limiter == nil && config.GetEnableRateLimiting() {
		s.limiter = ratelimit.NewMemoryLimiter(config.GetRateLimitRequests(), config.GetRateLimitWindow())
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
