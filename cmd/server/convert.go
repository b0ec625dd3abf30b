package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"pdf-converter/internal/config"
	"pdf-converter/internal/domain"
	apperrors "pdf-converter/pkg/errors"
)

var outputPath string

var convertCmd = &cobra.Command{
	Use:   "convert <file.pdf>",
	Short: "Convert a local PDF without starting the server",
	Long: `Runs a local PDF through the same pipeline as POST /convert and writes the
artifact to --output, or to stdout when no output file is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the artifact to this file instead of stdout")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	// stdout may carry the artifact, so logs go to stderr
	container, err := config.NewContainer(loadConfig(cmd), os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = convertFile(ctx, container.ConversionService, args[0], outputPath, cmd.OutOrStdout())
	if appErr, ok := apperrors.As(err); ok && appErr.Output != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), appErr.Output)
	}
	return err
}

// convertFile runs inputPath through svc and writes the artifact to outPath, or to stdout when outPath is empty.
// outPath is only created once the conversion has succeeded.
func convertFile(ctx context.Context, svc domain.ConversionService, inputPath, outPath string, stdout io.Writer) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	// Sniff the type the way a browser would label the upload
	br := bufio.NewReader(f)
	head, _ := br.Peek(512)

	upload := &domain.Upload{
		Filename:    filepath.Base(inputPath),
		ContentType: http.DetectContentType(head),
		Content:     br,
	}

	return svc.Convert(ctx, upload, func(artifact *domain.Artifact) error {
		if outPath == "" {
			_, err := io.Copy(stdout, artifact.Content)
			return err
		}

		out, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return apperrors.NewIOError("failed to create output file", err)
		}
		if _, err := io.Copy(out, artifact.Content); err != nil {
			_ = out.Close()
			return apperrors.NewIOError("failed to write output file", err)
		}
		if err := out.Close(); err != nil {
			return apperrors.NewIOError("failed to write output file", err)
		}
		return nil
	})
}
