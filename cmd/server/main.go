package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ctchen222/chess-room/internal/api/controller"
	"ctchen222/chess-room/internal/archive"
	"ctchen222/chess-room/internal/config"
	"ctchen222/chess-room/internal/db"
	"ctchen222/chess-room/internal/events"
	"ctchen222/chess-room/internal/game"
	"ctchen222/chess-room/internal/gateway"
	"ctchen222/chess-room/internal/logger"
	"ctchen222/chess-room/internal/room"
	"ctchen222/chess-room/internal/server"
	"ctchen222/chess-room/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const releaseVersion = "0.1.0"

func main() {
	cobra.CheckErr(newCmd().Execute())
}

func newCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:     "chess-room",
		Short:   "Serves a single two-player chess game over websockets.",
		Long:    "Serves a single two-player chess game over websockets.\n\n" + config.Usage(),
		Args:    cobra.NoArgs,
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a yml config file (environment variables override it)")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Init(cfg.SlogLevel())
	gin.SetMode(gin.ReleaseMode)

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     releaseVersion,
		Stdout:      cfg.Telemetry.Stdout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	// Event mirror
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Redis.Addr != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb, cfg.Redis.ChannelPrefix)
		slog.InfoContext(ctx, "Mirroring room events to redis", "addr", cfg.Redis.Addr)
	}

	// Game archive
	var games archive.Archiver = archive.Disabled{}
	if cfg.Archive.Path != "" {
		pool, err := db.OpenSQLite(ctx, cfg.Archive.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize sqlite db: %w", err)
		}
		defer pool.Close()
		store, err := archive.NewStore(ctx, pool)
		if err != nil {
			return err
		}
		games = store
	}

	rm := room.NewRoom(
		cfg.Room.ID,
		game.NewHolder(game.NewChessOracle()),
		gateway.New(cfg.Room.ID, publisher),
		games,
		cfg.Room.Heartbeat,
	)

	roomCtx, stopRoom := context.WithCancel(context.Background())
	defer stopRoom()
	go func() {
		if err := rm.Run(roomCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Room stopped", "room.id", rm.ID, "error", err)
		}
	}()

	srv := server.NewServer(rm, controller.NewSessionController(rm, games))
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: srv.Engine(),
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "http server started", "addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("ListenAndServe: %w", err)
		}
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server exiting")
	return nil
}
