package domain

import (
	"fmt"
	"io"
	"strings"
)

// OutputFormat selects the artifact kind produced by the converter
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat converts a config value into an OutputFormat
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case OutputFormatText, "txt":
		return OutputFormatText, nil
	case OutputFormatCSV:
		return OutputFormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text or csv)", s)
	}
}

// Extension returns the artifact file extension including the dot
func (f OutputFormat) Extension() string {
	if f == OutputFormatCSV {
		return ".csv"
	}
	return ".txt"
}

// MediaType returns the Content-Type served for the artifact
func (f OutputFormat) MediaType() string {
	if f == OutputFormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Upload is an incoming file as declared by the client
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// Artifact is the converter output being handed back to the caller.
// Content is only valid inside the delivery callback.
type Artifact struct {
	Content   io.Reader
	Size      int64
	MediaType string
	Filename  string
}

// DeliverFunc streams an artifact to its destination while the work directory still exists
type DeliverFunc func(artifact *Artifact) error
