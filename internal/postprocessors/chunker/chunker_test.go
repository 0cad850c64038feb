package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

func TestNewDefaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultChunkSize, c.Size())
	assert.Equal(t, domain.DefaultChunkOverlap, c.Overlap())
}

func TestNewInvalidOverlap(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{name: "overlap equals size", opts: []Option{WithSize(100), WithOverlap(100)}},
		{name: "overlap exceeds size", opts: []Option{WithSize(100), WithOverlap(150)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)
		})
	}
}

func TestSplitEmpty(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.Empty(t, c.Split(""))
}

func TestSplitShortText(t *testing.T) {
	c, err := New(WithSize(512), WithOverlap(128))
	require.NoError(t, err)

	windows := c.Split("short text")
	require.Len(t, windows, 1)
	assert.Equal(t, "short text", windows[0].Text)
	assert.Equal(t, 0, windows[0].Start)
	assert.Equal(t, 10, windows[0].End)
}

func TestSplitExactWindow(t *testing.T) {
	c, err := New(WithSize(10), WithOverlap(2))
	require.NoError(t, err)

	windows := c.Split("0123456789")
	require.Len(t, windows, 1, "text of exactly one window must not spill into a second")
}

func TestSplitOffsetsResliceSource(t *testing.T) {
	c, err := New(WithSize(50), WithOverlap(10))
	require.NoError(t, err)

	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 20)
	for _, w := range c.Split(text) {
		assert.Equal(t, text[w.Start:w.End], w.Text)
	}
}

func TestSplitCoverageAndOverlap(t *testing.T) {
	const size, overlap = 512, 128
	c, err := New(WithSize(size), WithOverlap(overlap))
	require.NoError(t, err)

	text := strings.Repeat("x", 2000)
	windows := c.Split(text)
	require.NotEmpty(t, windows)

	// First window starts at 0, last ends at len(text).
	assert.Equal(t, 0, windows[0].Start)
	assert.Equal(t, len(text), windows[len(windows)-1].End)

	for i, w := range windows {
		if i == 0 {
			continue
		}
		prev := windows[i-1]
		assert.Equal(t, prev.End-overlap, w.Start,
			"consecutive windows overlap by exactly the configured amount")
		assert.Less(t, w.Start, prev.End, "no gaps between windows")
	}
}

func TestSplitCountDeterministic(t *testing.T) {
	const size, overlap = 512, 128
	const stride = size - overlap

	c, err := New(WithSize(size), WithOverlap(overlap))
	require.NoError(t, err)

	tests := []struct {
		length int
		want   int
	}{
		{length: 1, want: 1},
		{length: size, want: 1},
		{length: size + 1, want: 2},
		{length: size + stride, want: 2},
		{length: size + stride + 1, want: 3},
		{length: 2000, want: 1 + (2000-size+stride-1)/stride},
	}

	for _, tt := range tests {
		windows := c.Split(strings.Repeat("a", tt.length))
		assert.Len(t, windows, tt.want, "length %d", tt.length)
	}
}

func TestSplitRestartable(t *testing.T) {
	c, err := New(WithSize(8), WithOverlap(3))
	require.NoError(t, err)

	text := "abcdefghijklmnopqrstuvwxyz"
	first := c.Split(text)
	second := c.Split(text)
	assert.Equal(t, first, second, "no hidden state between calls")
}
