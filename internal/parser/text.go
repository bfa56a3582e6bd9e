package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// textExtensions are filename extensions the text parser claims outright.
var textExtensions = map[string]struct{}{
	".txt": {},
	".md":  {},
	".csv": {},
	".log": {},
}

// Text handles plain-text documents. Also serves as the registry fallback.
type Text struct{}

// NewText creates a plain-text parser.
func NewText() *Text { return &Text{} }

// Parses reports whether filename has a known text extension.
func (t *Text) Parses(filename string) bool {
	_, ok := textExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Load validates the bytes decode as text and returns them as a string.
// Binary content fails with ErrUnsupportedDocument.
func (t *Text) Load(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("content is not valid UTF-8: %w", domain.ErrUnsupportedDocument)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", fmt.Errorf("content contains NUL bytes: %w", domain.ErrUnsupportedDocument)
	}
	return string(data), nil
}
