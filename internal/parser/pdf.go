package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// PDF extracts plain text from PDF documents.
type PDF struct{}

// NewPDF creates a PDF parser.
func NewPDF() *PDF { return &PDF{} }

// Parses reports whether filename has a .pdf extension.
func (p *PDF) Parses(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// Load extracts the text content of every page.
func (p *PDF) Load(data []byte) (string, error) {
	rdr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w: %w", domain.ErrUnsupportedDocument, err)
	}

	plain, err := rdr.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w: %w", domain.ErrUnsupportedDocument, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w: %w", domain.ErrUnsupportedDocument, err)
	}

	return buf.String(), nil
}
