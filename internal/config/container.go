package config

import (
	"fmt"
	"io"

	"pdf-converter/internal/converter"
	"pdf-converter/internal/domain"
	"pdf-converter/internal/service"
	"pdf-converter/pkg/logger"
)

// ServiceName is reported by the health endpoint and stamped on every log line
const ServiceName = "pdf-converter"

// converterBackend is what both converter implementations provide
type converterBackend interface {
	domain.Converter
	domain.ConverterChecker
}

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	Checker           domain.ConverterChecker
	ConversionService *service.ConversionService
}

// NewContainer validates cfg and wires the conversion pipeline.
// Logs go to logOutput, or stdout when nil.
func NewContainer(cfg *AppConfig, logOutput io.Writer) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger := logger.New(logger.Options{
		Level:       cfg.GetLogLevel(),
		Format:      cfg.GetLogFormat(),
		Output:      logOutput,
		ServiceName: ServiceName,
	})

	backend := newConverter(cfg, appLogger)

	conversionService := service.NewConversionService(backend, service.ConversionOptions{
		Format:      cfg.GetOutputFormat(),
		MaxFileSize: cfg.GetMaxFileSize(),
		WorkDir:     cfg.GetWorkDir(),
	}, appLogger)

	return &Container{
		Config:            cfg,
		Logger:            appLogger,
		Checker:           backend,
		ConversionService: conversionService,
	}, nil
}

func newConverter(cfg domain.Config, log domain.Logger) converterBackend {
	if cfg.GetConverterBackend() == BackendNative {
		return converter.NewNativeConverter(cfg.GetConversionTimeout(), log.With("converter", BackendNative))
	}
	return converter.NewExecConverter(converter.ExecOptions{
		Path:               cfg.GetConverterPath(),
		Interpreter:        cfg.GetConverterInterpreter(),
		Timeout:            cfg.GetConversionTimeout(),
		MaxDiagnosticChars: cfg.GetMaxDiagnosticChars(),
	}, log.With("converter", BackendExec))
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
