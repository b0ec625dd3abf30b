package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pdf-converter/internal/config"
	"pdf-converter/internal/domain"
	"pdf-converter/internal/handler"
)

// writeMargin is the time left for sending the artifact once the converter has finished
const writeMargin = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	container, err := config.NewContainer(loadConfig(cmd), nil)
	if err != nil {
		return err
	}
	cfg := container.GetConfig()
	logger := container.GetLogger()

	if err := container.Checker.Check(); err != nil {
		logger.Warn("Converter not ready", "error", err.Error())
	}

	// Handlers
	convertHandler := handler.NewConvertHandler(container.ConversionService, handler.ConvertOptions{
		UploadField: cfg.GetUploadField(),
		Attachment:  cfg.GetAttachment(),
		MaxFileSize: cfg.GetMaxFileSize(),
	}, logger)
	healthHandler := handler.NewHealthHandler(config.ServiceName, container.Checker)
	requestMiddleware := handler.NewRequestMiddleware(logger)

	// Router
	router := handler.NewRouter(
		convertHandler,
		healthHandler,
		requestMiddleware.Middleware,
		cfg.GetAllowedOrigins(),
	)

	server := newHTTPServer(cfg, router)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening",
			"address", server.Addr,
			"backend", cfg.GetConverterBackend(),
			"format", string(cfg.GetOutputFormat()),
		)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", err)
		_ = server.Close()
	}

	logger.Info("Server exited")
	return nil
}

// newHTTPServer sizes the server deadlines for one request. The write deadline starts
// once headers are read, so it has to cover the upload, the conversion and the response.
func newHTTPServer(cfg domain.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.GetServerPort(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.GetUploadTimeout(),
		WriteTimeout:      cfg.GetUploadTimeout() + cfg.GetConversionTimeout() + writeMargin,
		IdleTimeout:       60 * time.Second,
	}
}
