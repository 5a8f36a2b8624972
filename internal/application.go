package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/config"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/console"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/janitor"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-rounds/transport/rest"
	"github.com/rocketscienceinc/tictactoe-rounds/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	if conf.Mode == config.ModeConsole {
		return runConsole(ctx, logger)
	}

	return runServers(ctx, logger, conf)
}

// runConsole - plays a hot-seat game on stdin/stdout.
func runConsole(ctx context.Context, logger *slog.Logger) error {
	game := console.New(logger, tictactoe.NewController(), os.Stdin, os.Stdout)

	errCh := make(chan error, 1)
	go func() {
		errCh <- game.Run(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

// runServers - serves REST and WebSocket until ctx is canceled or one of them fails.
func runServers(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	sessionRepo, closeStore, err := openSessionStore(ctx, logger, conf)
	if err != nil {
		return err
	}

	defer closeStore()

	sessionUseCase := usecase.NewSessionManager(logger, sessionRepo)

	group, groupCtx := errgroup.WithContext(ctx)

	// run HTTP server
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)

		if httpErr := rest.Start(groupCtx, conf.HTTPPort, rest.NewRouter(logger, sessionUseCase)); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}

		return nil
	})

	// run Websocket server
	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)

		wsServer := websocket.New(logger, sessionUseCase)
		if wsErr := wsServer.Start(groupCtx, conf.SocketPort); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}

		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// openSessionStore - picks the session store from config. The returned func releases it.
func openSessionStore(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.SessionRepository, func(), error) {
	log := logger.With("component", "app")

	switch conf.Storage {
	case config.StorageRedis:
		redisStorage, err := storage.NewRedis(ctx, conf.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		closeStore := func() {
			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		log.Info("Using redis session storage", "addr", conf.Redis.GetRedisAddr())

		return repository.NewSessionRepository(redisStorage, conf.SessionTTL), closeStore, nil
	default:
		memoryStorage := repository.NewMemorySessionRepository()

		sweeper := janitor.New(logger, memoryStorage, conf.SessionTTL)
		if err := sweeper.Start(ctx, conf.Janitor.Schedule); err != nil {
			return nil, nil, err
		}

		log.Info("Using in-memory session storage", "schedule", conf.Janitor.Schedule)

		return memoryStorage, sweeper.Stop, nil
	}
}
