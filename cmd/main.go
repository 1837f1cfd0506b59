package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "gencontrol/docs"
	"gencontrol/internal/analytics"
	"gencontrol/internal/config"
	"gencontrol/internal/handlers"
	"gencontrol/internal/logger"
	"gencontrol/internal/physics"
	"gencontrol/internal/repository"
	"gencontrol/internal/repository/db"
	"gencontrol/internal/server"
	"gencontrol/internal/service"
)

// @title                       GEN-CONTROL fuel audit API
// @version                     1.0
// @description                 Diesel consumption prediction, fuel audit anomaly detection and load-factor learning.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	configDir := flag.String("config", "configs", "directory holding config.yml")
	issueFor := flag.String("issue-token", "", "print a bearer token for this operator and exit")
	flag.Parse()

	// load config.yml
	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error reading config:", err)
		os.Exit(1)
	}

	// init logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	if *issueFor != "" {
		issueToken(cfg, *issueFor, log)
		return
	}

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, log, serviceOptions(cfg))
	apiHandler := handlers.NewHandler(services, log, cfg.CORS.AllowedOrigins)

	if !services.Enabled() {
		log.Warnw("auth.disabled is set; API runs without bearer tokens")
	}

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// periodic relearn
	if cfg.Learning.Interval > 0 {
		log.Infow("learning scheduler started", "interval", cfg.Learning.Interval, "min_samples", cfg.Learning.MinSamples)
		go services.Scheduler.Run(ctx, cfg.Learning.Interval)
	}

	// start HTTP server
	srv := server.New(server.Timeouts{
		ReadHeader: cfg.Server.ReadHeaderTimeout,
		Write:      cfg.Server.WriteTimeout,
		Idle:       cfg.Server.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, cfg, log)
}

func serviceOptions(cfg *config.Config) service.Options {
	return service.Options{
		Physics: physics.Options{AgingFactor: cfg.Physics.AgingFactor},
		Thresholds: analytics.Thresholds{
			ZCritical:      cfg.Detector.ZCritical,
			ZWarning:       cfg.Detector.ZWarning,
			GrossDeviation: cfg.Detector.GrossDeviation,
			ColdCritical:   cfg.Detector.ColdCritical,
			ColdWarning:    cfg.Detector.ColdWarning,
		},
		HistoryLimit: cfg.Audit.HistoryLimit,
		DefaultAmbient: physics.Ambient{
			AltitudeM:    cfg.Audit.DefaultAltitudeM,
			TemperatureC: cfg.Audit.DefaultTemperatureC,
		},
		MinSamples: cfg.Learning.MinSamples,
		SigningKey: cfg.Auth.Key(),
		TokenTTL:   cfg.Auth.TokenTTL,
	}
}

func issueToken(cfg *config.Config, operator string, log *logger.Logger) {
	auth := service.NewAuthService(cfg.Auth.Key(), cfg.Auth.TokenTTL, nil)
	token, err := auth.IssueToken(operator)
	if err != nil {
		log.Fatalw("failed to issue token", "operator", operator, "err", err)
	}
	fmt.Println(token)
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening sqlite", "path", cfg.DB.Path)
	return db.InitDB(cfg.DB.Path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && err != http.ErrServerClosed {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, cfg *config.Config, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
