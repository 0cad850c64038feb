// Package chunker splits thread content into overlapping fixed-size windows.
package chunker

import (
	"fmt"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

// Window is one chunk of source text with its byte offsets.
// Offsets index into the original string, so text[Start:End] == Text.
type Window struct {
	Text  string
	Start int
	End   int
}

// Chunker produces overlapping windows over a text.
// The zero value is not usable; construct with New.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithSize sets the window size in characters.
func WithSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap between consecutive windows in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
// An overlap equal to or larger than the window size can never
// terminate, so it fails with domain.ErrInvalidChunkConfig.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		size:    domain.DefaultChunkSize,
		overlap: domain.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.overlap >= c.size {
		return nil, fmt.Errorf("overlap %d >= window size %d: %w",
			c.overlap, c.size, domain.ErrInvalidChunkConfig)
	}

	return c, nil
}

// Size returns the configured window size.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split slides a window of the configured size across text, advancing by
// size-overlap each step. The final window is clipped to the text
// length, never padded. Empty text yields no windows; text shorter than
// the window yields exactly one window spanning the whole text.
func (c *Chunker) Split(text string) []Window {
	if text == "" {
		return nil
	}

	length := len(text)
	stride := c.size - c.overlap
	windows := make([]Window, 0, (length+stride-1)/stride)

	for start := 0; start < length; start += stride {
		end := start + c.size
		if end > length {
			end = length
		}

		windows = append(windows, Window{
			Text:  text[start:end],
			Start: start,
			End:   end,
		})

		if end == length {
			break
		}
	}

	return windows
}
