package service

import (
	"path/filepath"
	"strings"
	"unicode"
)

const fallbackFilename = "document"

// SanitizeFilename reduces a client-supplied name to a safe single path segment.
// Both slash styles are treated as separators regardless of platform.
func SanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`<>:"|?*`, r) {
			return -1
		}
		return r
	}, name)

	name = strings.Trim(name, " .")
	if name == "" {
		return fallbackFilename
	}
	return name
}

// DownloadFilename swaps the extension of the sanitized upload name for ext
func DownloadFilename(uploadName, ext string) string {
	base := SanitizeFilename(uploadName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.Trim(stem, " .")
	if stem == "" {
		stem = fallbackFilename
	}
	return stem + ext
}
