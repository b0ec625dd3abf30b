package domain

import (
	"context"
	"time"
)

// Converter turns the PDF at inputPath into an artifact written to outputPath
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string) error
}

// ConversionService runs the full upload to artifact pipeline for one request
type ConversionService interface {
	Convert(ctx context.Context, upload *Upload, deliver DeliverFunc) error
}

// ConverterChecker is implemented by converters that can report whether they are usable
type ConverterChecker interface {
	Check() error
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetLogFormat() string
	GetMaxFileSize() int64
	GetConverterBackend() string
	GetConverterPath() string
	GetConverterInterpreter() string
	GetConversionTimeout() time.Duration
	GetUploadTimeout() time.Duration
	GetOutputFormat() OutputFormat
	GetAttachment() bool
	GetUploadField() string
	GetWorkDir() string
	GetMaxDiagnosticChars() int
	GetAllowedOrigins() []string
	GetShutdownTimeout() time.Duration
	Validate() error
}
