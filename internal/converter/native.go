package converter

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"pdf-converter/internal/domain"
	apperrors "pdf-converter/pkg/errors"
)

// NativeConverter extracts the embedded text layer in-process.
// Scanned (image-only) PDFs produce an empty artifact.
type NativeConverter struct {
	timeout time.Duration
	logger  domain.Logger
	extract func(ctx context.Context, inputPath string) ([]string, error)
}

// NewNativeConverter creates an in-process converter
func NewNativeConverter(timeout time.Duration, logger domain.Logger) *NativeConverter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &NativeConverter{timeout: timeout, logger: logger}
	c.extract = c.extractPages
	return c
}

// Convert writes plain text, or CSV when outputPath ends in .csv
func (c *NativeConverter) Convert(ctx context.Context, inputPath, outputPath string) error {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pages, err := c.extractWithDeadline(runCtx, inputPath)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(outputPath), ".csv") {
		err = writeCSV(outputPath, pages)
	} else {
		err = writeText(outputPath, pages)
	}
	if err != nil {
		return apperrors.NewIOError("failed to write output file", err)
	}
	return nil
}

// Check always succeeds; the backend has no external dependencies
func (c *NativeConverter) Check() error {
	return nil
}

type extraction struct {
	pages []string
	err   error
}

// extractWithDeadline stops waiting once ctx is done, even if the parser is stuck inside a page.
// An abandoned parser goroutine keeps running until the page returns.
func (c *NativeConverter) extractWithDeadline(ctx context.Context, inputPath string) ([]string, error) {
	done := make(chan extraction, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Warn("PDF parser panicked", "input", inputPath, "panic", fmt.Sprint(r))
				done <- extraction{err: apperrors.NewConversionFailedError("failed to parse pdf", "", fmt.Errorf("panic: %v", r))}
			}
		}()
		pages, err := c.extract(ctx, inputPath)
		done <- extraction{pages: pages, err: err}
	}()

	select {
	case res := <-done:
		return res.pages, res.err
	case <-ctx.Done():
		return nil, c.contextError(ctx.Err())
	}
}

func (c *NativeConverter) contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewConversionTimeoutError(fmt.Sprintf("conversion timed out after %s", c.timeout), err)
	}
	return apperrors.NewIOError(domain.ErrCanceled.Error(), errors.Join(domain.ErrCanceled, err))
}

func (c *NativeConverter) extractPages(ctx context.Context, inputPath string) ([]string, error) {
	f, r, err := pdf.Open(inputPath)
	if err != nil {
		return nil, apperrors.NewConversionFailedError("failed to open pdf", "", err)
	}
	defer func() { _ = f.Close() }()

	numPages := r.NumPage()
	fonts := make(map[string]*pdf.Font)
	pages := make([]string, 0, numPages)

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, c.contextError(err)
		}

		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, apperrors.NewConversionFailedError(fmt.Sprintf("failed to read page %d", i), "", err)
		}
		pages = append(pages, cleanPageText(text))
	}

	c.logger.Debug("Extracted text layer", "input", inputPath, "pages", numPages)
	return pages, nil
}

func writeText(path string, pages []string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	first := true
	for _, page := range pages {
		if page == "" {
			continue
		}
		if !first {
			_, _ = w.WriteString("\n\n")
		}
		_, _ = w.WriteString(page)
		first = false
	}
	if !first {
		_, _ = w.WriteString("\n")
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeCSV(path string, pages []string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(out)
	_ = w.Write([]string{"page", "line", "text"})
	for i, page := range pages {
		lineNo := 0
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			lineNo++
			_ = w.Write([]string{strconv.Itoa(i + 1), strconv.Itoa(lineNo), line})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
