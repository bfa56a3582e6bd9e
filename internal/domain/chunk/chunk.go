// Package chunk splits document text into overlapping spans for embedding.
package chunk

// Default splitting parameters.
const (
	DefaultSize    = 500
	DefaultOverlap = 50
)

// Chunk is a contiguous span of source text. Immutable once embedded.
type Chunk struct {
	Text     string
	Source   string // originating filename
	Position int    // zero-based chunk index within the source
}

// Embedded pairs a chunk with its embedding vector, 1:1.
type Embedded struct {
	Chunk
	Vector []float32
}

// Splitter produces fixed-size overlapping chunks. Boundaries fall on the
// size/overlap schedule, not on semantic boundaries.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter creates a splitter. Non-positive size or overlap, or an overlap
// not smaller than size, fall back to the defaults.
func NewSplitter(size, overlap int) Splitter {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultOverlap
		if overlap >= size {
			overlap = size / 10
		}
	}
	return Splitter{size: size, overlap: overlap}
}

// Split cuts text into chunks of at most size runes, each overlapping the
// previous by overlap runes. For text of length L the chunk count is
// ceil((L-overlap)/(size-overlap)); text no longer than size yields exactly
// one chunk. Empty text yields none.
func (s Splitter) Split(text, source string) []Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.size - s.overlap
	chunks := make([]Chunk, 0, (len(runes)+step-1)/step)

	for start := 0; start < len(runes); start += step {
		end := start + s.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			Text:     string(runes[start:end]),
			Source:   source,
			Position: len(chunks),
		})
		if end == len(runes) {
			break
		}
	}

	return chunks
}
