// Package converter provides the Converter backends: an external converter
// process and an in-process text extractor.
package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"pdf-converter/internal/domain"
	apperrors "pdf-converter/pkg/errors"
)

const (
	// DefaultTimeout is the wall-clock budget for one conversion
	DefaultTimeout = 120 * time.Second
	// DefaultMaxDiagnosticChars bounds captured output attached to errors
	DefaultMaxDiagnosticChars = 1000

	waitDelay = 5 * time.Second
)

// ExecOptions configures an ExecConverter
type ExecOptions struct {
	Path               string
	Interpreter        string
	Timeout            time.Duration
	MaxDiagnosticChars int
}

// ExecConverter runs an external converter as
// [interpreter] <path> <input-file> <output-file>.
type ExecConverter struct {
	path        string
	interpreter string
	timeout     time.Duration
	maxChars    int
	logger      domain.Logger
}

// NewExecConverter creates a converter backed by an external executable
func NewExecConverter(opts ExecOptions, logger domain.Logger) *ExecConverter {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxDiagnosticChars <= 0 {
		opts.MaxDiagnosticChars = DefaultMaxDiagnosticChars
	}
	return &ExecConverter{
		path:        opts.Path,
		interpreter: opts.Interpreter,
		timeout:     opts.Timeout,
		maxChars:    opts.MaxDiagnosticChars,
		logger:      logger,
	}
}

// Convert runs the converter and waits for it to exit, killing it once the timeout elapses
func (c *ExecConverter) Convert(ctx context.Context, inputPath, outputPath string) error {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	name, args := c.command(inputPath, outputPath)
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = filepath.Dir(inputPath)
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	output := newCappedBuffer(captureLimit)
	cmd.Stdout = output
	cmd.Stderr = output

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	reapProcess(cmd)

	// A background child still holding the output pipes does not make a zero exit a failure
	if errors.Is(err, exec.ErrWaitDelay) && runCtx.Err() == nil && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		c.logger.Warn("Converter left processes holding its output", "converter", c.path)
		err = nil
	}

	if err == nil {
		c.logger.Debug("Converter finished", "converter", c.path, "duration", elapsed.String())
		return nil
	}

	if ctxErr := runCtx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			c.logger.Warn("Converter timed out", "converter", c.path, "timeout", c.timeout.String())
			return apperrors.NewConversionTimeoutError(
				fmt.Sprintf("conversion timed out after %s", c.timeout), ctxErr)
		}
		return apperrors.NewIOError(domain.ErrCanceled.Error(), errors.Join(domain.ErrCanceled, ctxErr))
	}

	diag := TruncateOutput(output.String(), c.maxChars)

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		c.logger.Warn("Converter exited with error",
			"converter", c.path, "exit_code", exitErr.ExitCode(), "duration", elapsed.String())
		return apperrors.NewConversionFailedError(
			fmt.Sprintf("converter exited with status %d", exitErr.ExitCode()), diag, err)
	}
	c.logger.Error("Converter could not be started", err, "converter", c.path)
	return apperrors.NewConversionFailedError("converter could not be started", diag, err)
}

// Check reports whether the converter executable is present and runnable
func (c *ExecConverter) Check() error {
	if c.path == "" {
		return errors.New("converter path is not configured")
	}
	info, err := os.Stat(c.path)
	if err != nil {
		return fmt.Errorf("converter not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("converter path %s is a directory", c.path)
	}
	if c.interpreter != "" {
		if _, err := exec.LookPath(c.interpreter); err != nil {
			return fmt.Errorf("interpreter not found: %w", err)
		}
		return nil
	}
	if info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("converter %s is not executable", c.path)
	}
	return nil
}

func (c *ExecConverter) command(inputPath, outputPath string) (string, []string) {
	if c.interpreter != "" {
		return c.interpreter, []string{c.path, inputPath, outputPath}
	}
	return c.path, []string{inputPath, outputPath}
}
