package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"pdf-converter/internal/domain"
	"pdf-converter/internal/workspace"
	apperrors "pdf-converter/pkg/errors"
)

const (
	inputFileName  = "input.pdf"
	outputFileStem = "output"

	pdfMediaType = "application/pdf"
	pdfExtension = ".pdf"
)

// ConversionOptions configures the conversion pipeline
type ConversionOptions struct {
	Format      domain.OutputFormat
	MaxFileSize int64
	WorkDir     string
}

// ConversionService stages an upload, runs the converter and hands back the artifact
type ConversionService struct {
	converter domain.Converter
	opts      ConversionOptions
	logger    domain.Logger
}

// NewConversionService creates a new conversion service instance
func NewConversionService(converter domain.Converter, opts ConversionOptions, logger domain.Logger) *ConversionService {
	if opts.Format == "" {
		opts.Format = domain.OutputFormatText
	}
	return &ConversionService{
		converter: converter,
		opts:      opts,
		logger:    logger,
	}
}

// ValidateUpload checks the declared metadata of an upload.
// A PDF content type or a .pdf extension is enough; both are not required.
func ValidateUpload(upload *domain.Upload) error {
	if upload == nil || upload.Content == nil {
		return apperrors.NewValidationError(domain.ErrNoFile.Error(), domain.ErrNoFile)
	}
	if strings.TrimSpace(upload.Filename) == "" {
		return apperrors.NewValidationError(domain.ErrEmptyFilename.Error(), domain.ErrEmptyFilename)
	}
	if !isPDFContentType(upload.ContentType) && !hasPDFExtension(upload.Filename) {
		return apperrors.NewUnsupportedMediaError(domain.ErrUnsupportedType.Error(), domain.ErrUnsupportedType)
	}
	return nil
}

// Convert runs validate, stage, invoke, verify and deliver in order, returning on the first failure.
// The work directory lives until deliver returns and is removed on every path.
func (s *ConversionService) Convert(ctx context.Context, upload *domain.Upload, deliver domain.DeliverFunc) error {
	if err := ValidateUpload(upload); err != nil {
		return err
	}

	wd, err := workspace.Acquire(s.opts.WorkDir)
	if err != nil {
		return apperrors.NewIOError("failed to create work directory", err)
	}
	defer func() {
		if err := wd.Release(); err != nil {
			s.logger.Error("Failed to remove work directory", err, "path", wd.Path())
		}
	}()

	inputPath := wd.File(inputFileName)
	size, err := s.stage(ctx, upload.Content, inputPath)
	if err != nil {
		return err
	}
	s.logger.Debug("Upload staged", "filename", upload.Filename, "bytes", size)

	outputPath := wd.File(outputFileStem + s.opts.Format.Extension())
	if err := s.converter.Convert(ctx, inputPath, outputPath); err != nil {
		return err
	}

	out, info, err := openArtifact(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return deliver(&domain.Artifact{
		Content:   out,
		Size:      info.Size(),
		MediaType: s.opts.Format.MediaType(),
		Filename:  DownloadFilename(upload.Filename, s.opts.Format.Extension()),
	})
}

// stage copies the upload to path, enforcing the size limit
func (s *ConversionService) stage(ctx context.Context, content io.Reader, path string) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, apperrors.NewIOError("failed to create input file", err)
	}

	src := content
	if s.opts.MaxFileSize > 0 {
		src = io.LimitReader(content, s.opts.MaxFileSize+1)
	}

	n, copyErr := io.Copy(f, &contextReader{ctx: ctx, r: src})
	closeErr := f.Close()

	switch {
	case copyErr != nil && errors.Is(copyErr, domain.ErrFileTooLarge):
		return n, apperrors.NewTooLargeError(domain.ErrFileTooLarge.Error(), copyErr)
	case copyErr != nil && errors.Is(copyErr, domain.ErrCanceled):
		return n, apperrors.NewIOError(domain.ErrCanceled.Error(), copyErr)
	case copyErr != nil:
		return n, apperrors.NewIOError("failed to write input file", copyErr)
	case closeErr != nil:
		return n, apperrors.NewIOError("failed to write input file", closeErr)
	case s.opts.MaxFileSize > 0 && n > s.opts.MaxFileSize:
		return n, apperrors.NewTooLargeError(
			fmt.Sprintf("%s (limit %d bytes)", domain.ErrFileTooLarge, s.opts.MaxFileSize), domain.ErrFileTooLarge)
	case n == 0:
		return n, apperrors.NewValidationError(domain.ErrEmptyFile.Error(), domain.ErrEmptyFile)
	}
	return n, nil
}

// openArtifact treats a missing output as a converter failure, distinct from a non-zero exit
func openArtifact(path string) (*os.File, fs.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.Mode().IsRegular()) {
		return nil, nil, apperrors.NewConversionFailedError(domain.ErrNoOutput.Error(), "", domain.ErrNoOutput)
	}
	if err != nil {
		return nil, nil, apperrors.NewIOError("failed to read output file", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, apperrors.NewIOError("failed to read output file", err)
	}
	return f, info, nil
}

func isPDFContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == pdfMediaType
}

func hasPDFExtension(filename string) bool {
	return strings.EqualFold(filepath.Ext(SanitizeFilename(filename)), pdfExtension)
}

// contextReader stops a copy once the request context is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, errors.Join(domain.ErrCanceled, err)
	}
	return c.r.Read(p)
}
