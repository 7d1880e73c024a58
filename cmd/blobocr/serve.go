package main

import (
	"github.com/spf13/cobra"

	"github.com/cp25sy5-modjot/blob-ocr/internal/adapters/docintel"
	"github.com/cp25sy5-modjot/blob-ocr/internal/adapters/enhance"
	grpcadapter "github.com/cp25sy5-modjot/blob-ocr/internal/adapters/grpc"
	"github.com/cp25sy5-modjot/blob-ocr/internal/config"
	"github.com/cp25sy5-modjot/blob-ocr/internal/pkg/grpcserver"
	"github.com/cp25sy5-modjot/blob-ocr/internal/usecase"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve ExtractTextFromImage over gRPC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv(config.ModeServe)
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			// Adapters (infrastructure)
			enhancer := enhance.NewOpenCV(log)
			ocrAdapter := docintel.NewClient(cfg.DocIntel, log)

			// Application service (use cases)
			svc := usecase.NewAIService(enhancer, ocrAdapter, log)

			// gRPC server (interface adapter)
			s := grpcserver.New(cfg.GRPCAddr, log)
			grpcadapter.RegisterAIWrapperServer(s.Server, s.Health, svc)

			addr, err := s.Listen()
			if err != nil {
				return err
			}

			errc := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr.String()).Str("model", ocrAdapter.Model()).Msg("OCR gRPC listening")
				errc <- s.Start()
			}()

			// Graceful shutdown
			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
			}
			log.Info().Msg("shutting down")
			s.Stop()
			return nil
		},
	}
}
