// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"pdf-converter/internal/domain"
	apperrors "pdf-converter/pkg/errors"
)

// multipartOverhead is the allowance for boundaries and part headers on top of the file limit
const multipartOverhead = 1 << 20

// ConvertOptions configures the conversion endpoint
type ConvertOptions struct {
	UploadField string
	Attachment  bool
	MaxFileSize int64
}

// ConvertHandler handles POST /convert
type ConvertHandler struct {
	service domain.ConversionService
	opts    ConvertOptions
	logger  domain.Logger
}

// NewConvertHandler creates a new conversion handler
func NewConvertHandler(service domain.ConversionService, opts ConvertOptions, logger domain.Logger) *ConvertHandler {
	if opts.UploadField == "" {
		opts.UploadField = "file"
	}
	return &ConvertHandler{
		service: service,
		opts:    opts,
		logger:  logger,
	}
}

// Convert accepts one PDF in the multipart field and streams back the converted artifact
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)

	if h.opts.MaxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxFileSize+multipartOverhead)
	}

	upload, err := h.readUpload(r)
	if err != nil {
		h.fail(w, log, err)
		return
	}

	headerSent := false
	err = h.service.Convert(r.Context(), upload, func(artifact *domain.Artifact) error {
		header := w.Header()
		header.Set("Content-Type", artifact.MediaType)
		header.Set("Content-Length", strconv.FormatInt(artifact.Size, 10))
		header.Set("X-Content-Type-Options", "nosniff")
		if h.opts.Attachment {
			header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
				"filename": artifact.Filename,
			}))
		}
		w.WriteHeader(http.StatusOK)
		headerSent = true

		if _, err := io.Copy(w, artifact.Content); err != nil {
			return apperrors.NewIOError("failed to stream output", err)
		}
		return nil
	})

	if err != nil {
		if headerSent {
			log.Error("Failed to stream artifact", err, "filename", upload.Filename)
			return
		}
		h.fail(w, log, err)
		return
	}

	log.Info("Conversion succeeded", "filename", upload.Filename)
}

// readUpload returns the first file part named after the upload field, leaving its body unread
func (h *ConvertHandler) readUpload(r *http.Request) (*domain.Upload, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, apperrors.NewValidationError(domain.ErrNoFile.Error(), errors.Join(domain.ErrNoFile, err))
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewValidationError(domain.ErrNoFile.Error(), domain.ErrNoFile)
		}
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, apperrors.NewTooLargeError(domain.ErrFileTooLarge.Error(), errors.Join(domain.ErrFileTooLarge, err))
			}
			return nil, apperrors.NewValidationError("malformed multipart body", err)
		}

		if part.FormName() != h.opts.UploadField || !isFilePart(part) {
			_ = part.Close()
			continue
		}

		return &domain.Upload{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Content:     &partReader{part: part},
		}, nil
	}
}

// isFilePart reports whether the part declares a filename, even an empty one.
// A plain form value under the upload field is not a file.
func isFilePart(part *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}

func (h *ConvertHandler) fail(w http.ResponseWriter, log domain.Logger, err error) {
	appErr := writeAppError(w, err)
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		log.Warn("Rejected upload", "error", appErr.Message, "status", appErr.StatusCode)
	default:
		log.Error("Conversion failed", err, "kind", string(appErr.Type), "status", appErr.StatusCode)
	}
}

// partReader reports an exceeded body limit as domain.ErrFileTooLarge
type partReader struct {
	part *multipart.Part
}

func (p *partReader) Read(b []byte) (int, error) {
	n, err := p.part.Read(b)
	if err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return n, errors.Join(domain.ErrFileTooLarge, err)
		}
	}
	return n, err
}
