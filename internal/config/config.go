package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pdf-converter/internal/domain"
)

const (
	BackendExec   = "exec"
	BackendNative = "native"

	// MinConversionTimeout is the lowest accepted CONVERSION_TIMEOUT
	MinConversionTimeout = 60 * time.Second
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort           string
	LogLevel             string
	LogFormat            string
	MaxFileSize          int64
	ConverterBackend     string
	ConverterPath        string
	ConverterInterpreter string
	ConversionTimeout    time.Duration
	UploadTimeout        time.Duration
	OutputFormat         string
	Attachment           bool
	UploadField          string
	WorkDir              string
	MaxDiagnosticChars   int
	AllowedOrigins       []string
	ShutdownTimeout      time.Duration
}

// NewConfig creates a new configuration instance from the environment
func NewConfig() *AppConfig {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:           getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8000")),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		MaxFileSize:          getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		ConverterBackend:     strings.ToLower(getEnvOrDefault("CONVERTER_BACKEND", BackendExec)),
		ConverterPath:        getEnvOrDefault("CONVERTER_PATH", "/opt/converter/converter.sh"),
		ConverterInterpreter: getEnvSetOrDefault("CONVERTER_INTERPRETER", "/bin/bash"),
		ConversionTimeout:    getEnvDurationOrDefault("CONVERSION_TIMEOUT", 120*time.Second),
		UploadTimeout:        getEnvDurationOrDefault("UPLOAD_TIMEOUT", 5*time.Minute),
		OutputFormat:         getEnvOrDefault("OUTPUT_FORMAT", string(domain.OutputFormatText)),
		Attachment:           getEnvBoolOrDefault("ATTACHMENT", true),
		UploadField:          getEnvOrDefault("UPLOAD_FIELD", "file"),
		WorkDir:              getEnvOrDefault("WORK_DIR", os.TempDir()),
		MaxDiagnosticChars:   getEnvIntOrDefault("MAX_DIAGNOSTIC_CHARS", 1000),
		AllowedOrigins:       getEnvListOrDefault("CORS_ALLOWED_ORIGINS", nil),
		ShutdownTimeout:      getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogFormat returns json or console
func (c *AppConfig) GetLogFormat() string {
	return c.LogFormat
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetConverterBackend returns exec or native
func (c *AppConfig) GetConverterBackend() string {
	return c.ConverterBackend
}

// GetConverterPath returns the converter executable path
func (c *AppConfig) GetConverterPath() string {
	return c.ConverterPath
}

// GetConverterInterpreter returns the interpreter used to launch the converter, if any
func (c *AppConfig) GetConverterInterpreter() string {
	return c.ConverterInterpreter
}

// GetConversionTimeout returns the per-conversion time limit
func (c *AppConfig) GetConversionTimeout() time.Duration {
	return c.ConversionTimeout
}

// GetUploadTimeout returns how long a client may take to send the whole request
func (c *AppConfig) GetUploadTimeout() time.Duration {
	return c.UploadTimeout
}

// GetOutputFormat returns the artifact format, falling back to text
func (c *AppConfig) GetOutputFormat() domain.OutputFormat {
	format, err := domain.ParseOutputFormat(c.OutputFormat)
	if err != nil {
		return domain.OutputFormatText
	}
	return format
}

// GetAttachment reports whether responses carry Content-Disposition: attachment
func (c *AppConfig) GetAttachment() bool {
	return c.Attachment
}

// GetUploadField returns the multipart field name carrying the upload
func (c *AppConfig) GetUploadField() string {
	return c.UploadField
}

// GetWorkDir returns the root for per-request work directories
func (c *AppConfig) GetWorkDir() string {
	return c.WorkDir
}

// GetMaxDiagnosticChars returns the cap on converter output echoed to clients
func (c *AppConfig) GetMaxDiagnosticChars() int {
	return c.MaxDiagnosticChars
}

// GetAllowedOrigins returns the CORS origins; empty disables CORS
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// GetShutdownTimeout returns the graceful shutdown grace period
func (c *AppConfig) GetShutdownTimeout() time.Duration {
	return c.ShutdownTimeout
}

// Validate reports every invalid setting at once
func (c *AppConfig) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.ServerPort); err != nil || port < 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %q", c.ServerPort))
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q (expected json or console)", c.LogFormat))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.MaxFileSize))
	}

	switch c.ConverterBackend {
	case BackendExec:
		if strings.TrimSpace(c.ConverterPath) == "" {
			errs = append(errs, errors.New("CONVERTER_PATH is required for the exec backend"))
		}
	case BackendNative:
	default:
		errs = append(errs, fmt.Errorf("invalid CONVERTER_BACKEND %q (expected exec or native)", c.ConverterBackend))
	}

	if c.ConversionTimeout < MinConversionTimeout {
		errs = append(errs, fmt.Errorf("CONVERSION_TIMEOUT must be at least %s, got %s", MinConversionTimeout, c.ConversionTimeout))
	}
	if c.UploadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("UPLOAD_TIMEOUT must be positive, got %s", c.UploadTimeout))
	}
	if _, err := domain.ParseOutputFormat(c.OutputFormat); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.UploadField) == "" {
		errs = append(errs, errors.New("UPLOAD_FIELD must not be empty"))
	}
	if c.MaxDiagnosticChars <= 0 {
		errs = append(errs, fmt.Errorf("MAX_DIAGNOSTIC_CHARS must be positive, got %d", c.MaxDiagnosticChars))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}

	return errors.Join(errs...)
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvSetOrDefault lets an explicitly empty variable override the default
func getEnvSetOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("90s", "2m") or a bare number of seconds
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
