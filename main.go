package main

import (
	"context"
	"embed"
	stderrors "errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"edalens/internal"
	"edalens/internal/config"
	"edalens/internal/container"
	"edalens/ui"
)

//go:embed ui/templates/** ui/static/*
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Logging.Level), appConfig.Logging.Format)
	defer logger.Sync()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		logger.Error("Failed to create application container: %v", err)
		os.Exit(1)
	}
	appContainer.Start(context.Background())

	server, err := ui.NewServer(ui.Deps{
		Config:     appConfig,
		Assets:     embeddedFiles,
		Sessions:   appContainer.Sessions,
		Uploads:    appContainer.Uploads,
		Dashboards: appContainer.Dashboards,
		Metrics:    appContainer.Metrics,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("Failed to initialize server: %v", err)
		os.Exit(1)
	}

	srv := server.NewHTTPServer()
	go func() {
		logger.Info("🚀 Starting EDA server on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown: %v", err)
	}
	if err := appContainer.Shutdown(ctx); err != nil {
		logger.Warn("Container shutdown: %v", err)
	}
	logger.Info("Server exited")
}
