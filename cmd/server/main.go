package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-gadget-server/codename"
	"github.com/jrsteele09/go-gadget-server/gadgets"
	fakegadgetrepo "github.com/jrsteele09/go-gadget-server/gadgets/repofake"
	"github.com/jrsteele09/go-gadget-server/gadgets/repopostgres"
	"github.com/jrsteele09/go-gadget-server/internal/config"
	"github.com/jrsteele09/go-gadget-server/internal/credentials"
	"github.com/jrsteele09/go-gadget-server/internal/database"
	"github.com/jrsteele09/go-gadget-server/internal/metrics"
	"github.com/jrsteele09/go-gadget-server/internal/ratelimit"
	"github.com/jrsteele09/go-gadget-server/internal/requestlog"
	"github.com/jrsteele09/go-gadget-server/server"
	"github.com/jrsteele09/go-gadget-server/users"
	fakeuserrepo "github.com/jrsteele09/go-gadget-server/users/repofake"
	userpostgres "github.com/jrsteele09/go-gadget-server/users/repopostgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const configFileEnvVar = "CONFIG_FILE"

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load(os.Getenv(configFileEnvVar))
	if err != nil {
		return err
	}
	setupLogging(c)
	if err := config.Validate(c); err != nil {
		return err
	}

	displayAppname(c.GetAppName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, closers, err := buildDependencies(ctx, c)
	defer func() {
		for _, closer := range closers {
			if err := closer.Close(); err != nil {
				log.Warn().Err(err).Msg("close failed")
			}
		}
	}()
	if err != nil {
		return err
	}

	handler, err := server.New(c, deps)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	return shutdown(httpServer)
}

func buildDependencies(ctx context.Context, c config.Config) (server.Dependencies, []io.Closer, error) {
	var (
		deps    server.Dependencies
		closers []io.Closer
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Metrics = metrics.New(registry)

	reqLog, err := requestlog.Open(c.GetLogFolder())
	if err != nil {
		return deps, closers, err
	}
	closers = append(closers, reqLog)
	deps.RequestLog = reqLog

	userRepo, gadgetRepo, db, err := openStore(ctx, c)
	if err != nil {
		return deps, closers, err
	}
	if db != nil {
		closers = append(closers, db)
	}
	deps.Users, deps.Gadgets = userRepo, gadgetRepo

	deps.Codenames, err = codenameGenerator(ctx, c)
	if err != nil {
		return deps, closers, err
	}

	if c.GetEnableRateLimiting() && c.GetRedisURL() != "" {
		client, err := ratelimit.NewRedisClient(c.GetRedisURL())
		if err != nil {
			return deps, closers, err
		}
		closers = append(closers, client)
		deps.Limiter = ratelimit.NewRedisLimiter(client, c.GetRateLimitRequests(), c.GetRateLimitWindow())
		log.Info().Msg("rate limiting backed by redis")
	}

	return deps, closers, nil
}

// openStore uses PostgreSQL when DATABASE_URL is set, otherwise the in-memory
// repositories.
func openStore(ctx context.Context, c config.Config) (users.UserRepo, gadgets.Repo, *sql.DB, error) {
	if c.GetDatabaseURL() == "" {
		log.Warn().Msg("DATABASE_URL not set, using the in-memory store")
		return fakeuserrepo.NewFakeUserRepo(), fakegadgetrepo.NewFakeGadgetRepo(), nil, nil
	}

	db, err := database.Open(ctx, c.GetDatabaseURL())
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	log.Info().Msg("connected to postgres")
	return userpostgres.NewPostgresUserRepo(db), repopostgres.NewPostgresGadgetRepo(db), db, nil
}

// codenameGenerator uses Vertex AI when a Google project is configured and the
// built in word list otherwise.
func codenameGenerator(ctx context.Context, c config.Config) (gadgets.CodenameGenerator, error) {
	if c.GetGoogleProjectID() == "" {
		return codename.NewWordList(), nil
	}
	if _, err := credentials.Bootstrap(c.GetCredentialsFolder()); err != nil {
		return nil, err
	}
	return codename.NewVertexGenerator(ctx, c.GetGoogleProjectID(), c.GetGoogleLocation(), c.GetCodenameModel())
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !c.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
