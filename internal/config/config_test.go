package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"pdf-converter/internal/domain"
)

const defaultMaxFileSize int64 = 50 * 1024 * 1024

var configEnvKeys = []string{
	"PORT", "SERVER_PORT", "LOG_LEVEL", "LOG_FORMAT", "MAX_FILE_SIZE",
	"CONVERTER_BACKEND", "CONVERTER_PATH", "CONVERTER_INTERPRETER", "CONVERSION_TIMEOUT", "UPLOAD_TIMEOUT",
	"OUTPUT_FORMAT", "ATTACHMENT", "UPLOAD_FIELD", "WORK_DIR", "MAX_DIAGNOSTIC_CHARS",
	"CORS_ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT",
}

// clearEnv unsets every config variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := NewConfig()

	if cfg.GetServerPort() != "8000" {
		t.Fatalf("expected default server port 8000, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxFileSize() != defaultMaxFileSize {
		t.Fatalf("expected default max file size %d, got %d", defaultMaxFileSize, cfg.GetMaxFileSize())
	}
	if cfg.GetLogLevel() != "info" || cfg.GetLogFormat() != "json" {
		t.Fatalf("expected info/json logging, got %s/%s", cfg.GetLogLevel(), cfg.GetLogFormat())
	}
	if cfg.GetConverterBackend() != BackendExec {
		t.Fatalf("expected exec backend, got %s", cfg.GetConverterBackend())
	}
	if cfg.GetConverterPath() != "/opt/converter/converter.sh" {
		t.Fatalf("unexpected converter path %s", cfg.GetConverterPath())
	}
	if cfg.GetConverterInterpreter() != "/bin/bash" {
		t.Fatalf("expected /bin/bash interpreter, got %q", cfg.GetConverterInterpreter())
	}
	if cfg.GetConversionTimeout() != 120*time.Second {
		t.Fatalf("expected 120s timeout, got %s", cfg.GetConversionTimeout())
	}
	if cfg.GetUploadTimeout() != 5*time.Minute {
		t.Fatalf("expected 5m upload timeout, got %s", cfg.GetUploadTimeout())
	}
	if cfg.GetOutputFormat() != domain.OutputFormatText {
		t.Fatalf("expected text output, got %s", cfg.GetOutputFormat())
	}
	if !cfg.GetAttachment() {
		t.Fatalf("expected attachment by default")
	}
	if cfg.GetUploadField() != "file" {
		t.Fatalf("expected upload field file, got %s", cfg.GetUploadField())
	}
	if cfg.GetWorkDir() != os.TempDir() {
		t.Fatalf("expected work dir %s, got %s", os.TempDir(), cfg.GetWorkDir())
	}
	if cfg.GetMaxDiagnosticChars() != 1000 {
		t.Fatalf("expected 1000 diagnostic chars, got %d", cfg.GetMaxDiagnosticChars())
	}
	if len(cfg.GetAllowedOrigins()) != 0 {
		t.Fatalf("expected CORS disabled, got %v", cfg.GetAllowedOrigins())
	}
	if cfg.GetShutdownTimeout() != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %s", cfg.GetShutdownTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("MAX_FILE_SIZE", "12345")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("CONVERTER_BACKEND", "Native")
	t.Setenv("CONVERTER_INTERPRETER", "")
	t.Setenv("CONVERSION_TIMEOUT", "3m")
	t.Setenv("UPLOAD_TIMEOUT", "10m")
	t.Setenv("OUTPUT_FORMAT", "csv")
	t.Setenv("ATTACHMENT", "false")
	t.Setenv("UPLOAD_FIELD", "document")
	t.Setenv("WORK_DIR", "/var/tmp/conv")
	t.Setenv("MAX_DIAGNOSTIC_CHARS", "200")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("SHUTDOWN_TIMEOUT", "30")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9090" {
		t.Fatalf("expected server port 9090, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxFileSize() != 12345 {
		t.Fatalf("expected max file size 12345, got %d", cfg.GetMaxFileSize())
	}
	if cfg.GetLogLevel() != "debug" || cfg.GetLogFormat() != "console" {
		t.Fatalf("expected debug/console logging, got %s/%s", cfg.GetLogLevel(), cfg.GetLogFormat())
	}
	if cfg.GetConverterBackend() != BackendNative {
		t.Fatalf("expected native backend, got %s", cfg.GetConverterBackend())
	}
	if cfg.GetConverterInterpreter() != "" {
		t.Fatalf("expected empty interpreter to disable the default, got %q", cfg.GetConverterInterpreter())
	}
	if cfg.GetConversionTimeout() != 3*time.Minute {
		t.Fatalf("expected 3m timeout, got %s", cfg.GetConversionTimeout())
	}
	if cfg.GetUploadTimeout() != 10*time.Minute {
		t.Fatalf("expected 10m upload timeout, got %s", cfg.GetUploadTimeout())
	}
	if cfg.GetOutputFormat() != domain.OutputFormatCSV {
		t.Fatalf("expected csv output, got %s", cfg.GetOutputFormat())
	}
	if cfg.GetAttachment() {
		t.Fatalf("expected attachment disabled")
	}
	if cfg.GetUploadField() != "document" || cfg.GetWorkDir() != "/var/tmp/conv" {
		t.Fatalf("unexpected field/work dir %s %s", cfg.GetUploadField(), cfg.GetWorkDir())
	}
	if cfg.GetMaxDiagnosticChars() != 200 {
		t.Fatalf("expected 200 diagnostic chars, got %d", cfg.GetMaxDiagnosticChars())
	}
	origins := cfg.GetAllowedOrigins()
	if len(origins) != 2 || origins[0] != "https://a.example.com" || origins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins %v", origins)
	}
	if cfg.GetShutdownTimeout() != 30*time.Second {
		t.Fatalf("expected bare seconds to parse, got %s", cfg.GetShutdownTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected overrides to validate, got %v", err)
	}
}

func TestNewConfig_Fallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("MAX_FILE_SIZE", "not-a-number")
	t.Setenv("CONVERSION_TIMEOUT", "soon")
	t.Setenv("ATTACHMENT", "maybe")
	t.Setenv("MAX_DIAGNOSTIC_CHARS", "lots")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9091" {
		t.Fatalf("expected server port 9091, got %s", cfg.GetServerPort())
	}
	if cfg.GetMaxFileSize() != defaultMaxFileSize {
		t.Fatalf("expected default max file size %d, got %d", defaultMaxFileSize, cfg.GetMaxFileSize())
	}
	if cfg.GetConversionTimeout() != 120*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.GetConversionTimeout())
	}
	if !cfg.GetAttachment() {
		t.Fatalf("expected default attachment")
	}
	if cfg.GetMaxDiagnosticChars() != 1000 {
		t.Fatalf("expected default diagnostic chars, got %d", cfg.GetMaxDiagnosticChars())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *AppConfig)
		want   string
	}{
		{"timeout below minimum", func(c *AppConfig) { c.ConversionTimeout = 30 * time.Second }, "CONVERSION_TIMEOUT must be at least 1m0s"},
		{"timeout at minimum", func(c *AppConfig) { c.ConversionTimeout = MinConversionTimeout }, ""},
		{"unknown backend", func(c *AppConfig) { c.ConverterBackend = "docker" }, "invalid CONVERTER_BACKEND"},
		{"exec without path", func(c *AppConfig) { c.ConverterPath = " " }, "CONVERTER_PATH is required"},
		{"native without path", func(c *AppConfig) { c.ConverterBackend = BackendNative; c.ConverterPath = "" }, ""},
		{"zero upload timeout", func(c *AppConfig) { c.UploadTimeout = 0 }, "UPLOAD_TIMEOUT must be positive"},
		{"unknown format", func(c *AppConfig) { c.OutputFormat = "xlsx" }, "unknown output format"},
		{"zero max size", func(c *AppConfig) { c.MaxFileSize = 0 }, "MAX_FILE_SIZE must be positive"},
		{"bad port", func(c *AppConfig) { c.ServerPort = "http" }, "invalid port"},
		{"bad log format", func(c *AppConfig) { c.LogFormat = "xml" }, "invalid LOG_FORMAT"},
		{"empty field", func(c *AppConfig) { c.UploadField = "" }, "UPLOAD_FIELD must not be empty"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			cfg := NewConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	clearEnv(t)
	cfg := NewConfig()
	cfg.ConversionTimeout = time.Second
	cfg.OutputFormat = "pdf"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "CONVERSION_TIMEOUT") || !strings.Contains(err.Error(), "unknown output format") {
		t.Fatalf("expected both problems reported, got %v", err)
	}
}
