package domain

import "errors"

// Domain errors
var (
	ErrNoFile          = errors.New("no file provided")
	ErrEmptyFilename   = errors.New("empty filename")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("empty file")
	ErrFileTooLarge    = errors.New("file too large")
	ErrNoOutput        = errors.New("no output produced")
	ErrCanceled        = errors.New("request canceled")
)
