package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/psds-microservice/chatbot-service/internal/application"
	"github.com/psds-microservice/chatbot-service/internal/config"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the HTTP API server",
	RunE:  runAPI,
}

func runAPI(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, err := config.InitLogger(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	app, err := application.NewAPI(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx)
}
