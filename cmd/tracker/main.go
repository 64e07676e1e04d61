package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/limoride/limotrack/internal/pkg/config"
	"github.com/limoride/limotrack/internal/pkg/health"
	"github.com/limoride/limotrack/internal/pkg/logger"
	nrpkg "github.com/limoride/limotrack/internal/pkg/newrelic"
	"github.com/limoride/limotrack/internal/pkg/server"
	"github.com/limoride/limotrack/internal/pkg/token"
	"github.com/limoride/limotrack/services/tracking"
	"github.com/limoride/limotrack/services/tracking/notifier"
	"go.uber.org/zap"
)

func main() {
	appName := "limotrack-tracker"
	configPath := config.GetEnv("CONFIG_PATH", "config/tracker.env")
	configs := config.InitConfig(configPath)

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)

	if nrApp != nil {
		if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		}
	}

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	logger.SetGlobalLogger(zapLogger)

	zapLogger.Info("Starting application",
		zap.String("app", appName),
		zap.String("version", configs.App.Version),
		zap.String("environment", configs.App.Environment),
	)

	bearer := os.Getenv("TRACKING_BEARER_TOKEN")
	if bearer == "" {
		zapLogger.Fatal("TRACKING_BEARER_TOKEN is required")
	}

	// Tracking core. The daemon has no interactive surface, so every
	// notification that warrants the system path goes to the log stream.
	visibility := &notifier.AppVisibility{}
	client := tracking.New(configs.Tracking, token.StaticStore{Bearer: bearer}, visibility, notifier.LogNotifier{})
	client.Start()

	shutdownManager := server.NewShutdownManager(zapLogger)
	shutdownManager.Register(func(ctx context.Context) error {
		client.Shutdown()
		return nil
	})
	shutdownManager.Register(func(ctx context.Context) error {
		return zapLogger.Close()
	})

	// Initialize Echo router for the debug/status surface
	e := echo.New()
	e.HideBanner = true
	e.Use(logger.RequestIDMiddleware())
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	e.GET("/health", health.NewPingHandler(appName))
	e.GET("/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"connection": client.ConnectionStatus(),
			"ride":       client.RideState(),
			"heartbeats": client.Heartbeats(),
		})
	})
	e.POST("/reconnect", func(c echo.Context) error {
		client.ForceReconnect()
		return c.NoContent(http.StatusAccepted)
	})

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		zapLogger.Error("Server exited with error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = shutdownManager.Shutdown(ctx)
}
