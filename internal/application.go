package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rocketscienceinc/tris-server/internal/config"
	"github.com/rocketscienceinc/tris-server/internal/metrics"
	"github.com/rocketscienceinc/tris-server/internal/repository"
	"github.com/rocketscienceinc/tris-server/internal/repository/storage"
	"github.com/rocketscienceinc/tris-server/internal/transport/tcp"
	"github.com/rocketscienceinc/tris-server/internal/usecase"
	"github.com/rocketscienceinc/tris-server/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs one match and returns once it is over.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	first, err := conf.Players.FirstPlayer()
	if err != nil {
		return err
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	matchMetrics, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("could not register metrics: %w", err)
	}

	matchRepo := repository.NewMatchRepository(redisStorage, conf.Redis.MatchTTL)
	matchManager := usecase.NewMatchManager(logger, matchRepo, matchMetrics)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		mux := rest.NewMux(rest.NewHandlers(logger, matchRepo), registry)
		if httpErr := rest.Start(ctx, conf.HTTPPort, mux); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
			cancel()
		}
	}()

	lobby := tcp.NewLobby(logger, conf.Players.AddrA(), conf.Players.AddrB())
	if err = lobby.Listen(ctx); err != nil {
		return fmt.Errorf("could not open player ports: %w", err)
	}

	playerA, playerB, err := lobby.Accept(ctx)
	if err != nil {
		select {
		case httpErr := <-httpErrCh:
			return fmt.Errorf("HTTP server error: %w", httpErr)
		default:
		}

		if errors.Is(err, context.Canceled) {
			log.Info("Application context canceled, shutting down")
			return nil
		}

		return fmt.Errorf("could not seat players: %w", err)
	}

	// sessions block without deadlines, closing them is the only way to unblock on shutdown
	stop := context.AfterFunc(ctx, func() {
		_ = playerA.Close()
		_ = playerB.Close()
	})
	defer stop()

	match, err := matchManager.Run(ctx, playerA, playerB, first)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	log.Info("Match archived", "match_id", match.ID, "outcome", match.Outcome)

	return nil
}
