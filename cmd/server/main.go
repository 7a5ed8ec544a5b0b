package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cbodonnell/instalose/pkg/api"
	"github.com/cbodonnell/instalose/pkg/game"
	"github.com/cbodonnell/instalose/pkg/log"
	"github.com/cbodonnell/instalose/pkg/network"
	"github.com/cbodonnell/instalose/pkg/repositories"
	"github.com/cbodonnell/instalose/pkg/subscribers"
	"github.com/cbodonnell/instalose/pkg/version"
	"github.com/cbodonnell/instalose/pkg/workers"
)

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	allowOrigin := flag.String("allow-origin", "*", "comma-separated list of allowed origins")
	logLevel := flag.String("log-level", "info", "Log level")
	subscriberTTL := flag.Duration("subscriber-ttl", subscribers.DefaultTTL, "time-to-live of a push subscription")
	sweepInterval := flag.Duration("sweep-interval", time.Minute, "interval between expired subscriber sweeps")
	migrations := flag.String("migrations", "./migrations", "directory holding the sqlite and postgres migrations")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connStr := os.Getenv("INSTALOSE_DATABASE_URL")
	if connStr == "" {
		connStr = "memory://"
	}
	repository, err := repositories.NewRepositoryFromURL(ctx, connStr, *migrations)
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}
	defer repository.Close(context.Background())

	registry := subscribers.NewRegistry(subscribers.NewRegistryOptions{
		Store: repository,
		TTL:   *subscriberTTL,
	})
	defer registry.Close()

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		Repository:  repository,
		Broadcaster: registry,
	})

	connectionManager := network.NewConnectionManager()
	connectionEventWorker := workers.NewConnectionEventWorker(workers.NewConnectionEventWorkerOptions{
		ConnectionEventChan: connectionManager.GetConnectionEventChan(),
		Subscriptions:       gameManager,
	})
	go connectionEventWorker.Start(ctx)

	sweepWorker := workers.NewSubscriberSweepWorker(workers.NewSubscriberSweepWorkerOptions{
		Sweeper:  registry,
		Interval: *sweepInterval,
	})
	go sweepWorker.Start(ctx)

	apiServerOpts := api.NewAPIServerOptions{
		Port:              *port,
		Games:             gameManager,
		ConnectionManager: connectionManager,
		AllowedOrigins:    strings.Split(*allowOrigin, ","),
	}
	tlsCertFile := os.Getenv("INSTALOSE_API_TLS_CERT_FILE")
	tlsKeyFile := os.Getenv("INSTALOSE_API_TLS_KEY_FILE")
	if tlsCertFile != "" && tlsKeyFile != "" {
		apiServerOpts.TLS = &api.TLSConfig{
			CertFile: tlsCertFile,
			KeyFile:  tlsKeyFile,
		}
	}
	server := api.NewAPIServer(apiServerOpts)
	go server.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	sig := <-interrupt
	log.Info("Received %s, shutting down", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	log.Info("Closing %d push connections", connectionManager.Count())
	connectionManager.CloseAll("server shutting down")
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop server: %v", err)
	}
}
