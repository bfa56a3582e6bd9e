// Package parser extracts plain text from uploaded documents.
package parser

import "fmt"

// Parser extracts text from one document format.
type Parser interface {
	// Parses reports whether this parser handles the given filename.
	Parses(filename string) bool
	// Load extracts text from raw document bytes.
	Load(data []byte) (string, error)
}

// Registry tries parsers in priority order, falling back to plain text so
// ingestion never fails on an unrecognized extension alone.
type Registry struct {
	parsers  []Parser
	fallback Parser
}

// NewRegistry creates the default registry: PDF first, then plain text, with
// plain text as the fallback.
func NewRegistry() *Registry {
	text := NewText()
	return &Registry{
		parsers:  []Parser{NewPDF(), text},
		fallback: text,
	}
}

// Load selects a parser by filename and extracts the document text.
func (r *Registry) Load(filename string, data []byte) (string, error) {
	for _, p := range r.parsers {
		if p.Parses(filename) {
			text, err := p.Load(data)
			if err != nil {
				return "", fmt.Errorf("parse %s: %w", filename, err)
			}
			return text, nil
		}
	}

	text, err := r.fallback.Load(data)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", filename, err)
	}
	return text, nil
}
