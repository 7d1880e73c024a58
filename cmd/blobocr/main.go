package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cp25sy5-modjot/blob-ocr/internal/app"
	"github.com/cp25sy5-modjot/blob-ocr/internal/config"
	"github.com/cp25sy5-modjot/blob-ocr/internal/pkg/logger"
)

var logLevel string

func main() {
	_ = godotenv.Load() // .env is optional

	root := &cobra.Command{
		Use:           "blobocr",
		Short:         "Download one blob, clean it up and OCR it with Azure Document Intelligence",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runOnce,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	root.AddCommand(serveCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		log := logger.New(logger.Options{Level: levelFromEnv(), Format: os.Getenv(config.EnvLogFormat)})
		log.Fatal().Stack().Err(err).Msg("blobocr failed")
	}
}

func runOnce(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv(config.ModeRun)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	_, err = app.RunWith(cmd.Context(), cfg, app.DefaultFactory(), os.Stdout, log)
	return err
}

func newLogger(cfg config.Config) zerolog.Logger {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	return logger.New(logger.Options{Level: level, Format: cfg.Log.Format})
}

func levelFromEnv() string {
	if logLevel != "" {
		return logLevel
	}
	return os.Getenv(config.EnvLogLevel)
}
