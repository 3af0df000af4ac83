package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSplitterDefaults(t *testing.T) {
	s := NewSplitter(0, 0)
	assert.Equal(t, 500, s.ChunkSize)
	assert.Equal(t, 0, s.ChunkOverlap)

	s = NewSplitter(200, 300)
	assert.Equal(t, 200, s.ChunkSize)
	assert.Equal(t, 20, s.ChunkOverlap, "invalid overlap should fall back to a tenth of the size")
}

func TestSplitEmpty(t *testing.T) {
	s := NewSplitter(100, 10)
	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("\n\n\n\n"))
}

func TestSplitSingleParagraph(t *testing.T) {
	s := NewSplitter(100, 10)
	chunks := s.Split("Kaede works in PR at a small startup.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Kaede works in PR at a small startup.", chunks[0])
}

func TestSplitPacksParagraphsWithinBudget(t *testing.T) {
	s := NewSplitter(100, 0)
	chunks := s.Split("First paragraph.\n\nSecond paragraph.")
	require.Len(t, chunks, 1)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", chunks[0])
}

func TestSplitBreaksOnBudget(t *testing.T) {
	a := strings.Repeat("a", 30)
	b := strings.Repeat("b", 30)
	s := NewSplitter(40, 0)

	chunks := s.Split(a + "\n\n" + b)
	require.Len(t, chunks, 2)
	assert.Equal(t, a, chunks[0])
	assert.Equal(t, b, chunks[1])
}

func TestSplitCarriesOverlap(t *testing.T) {
	a := strings.Repeat("a", 10)
	b := strings.Repeat("b", 10)
	s := NewSplitter(12, 4)

	chunks := s.Split(a + "\n\n" + b)
	require.Len(t, chunks, 2)
	assert.Equal(t, a, chunks[0])
	assert.True(t, strings.HasPrefix(chunks[1], "aaaa"), "second chunk should open with the overlap tail")
	assert.True(t, strings.HasSuffix(chunks[1], b))
}

func TestSplitHardSplitsOversizedParagraph(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxy"
	s := NewSplitter(10, 2)

	chunks := s.Split(text)
	require.Len(t, chunks, 3)
	assert.Equal(t, "abcdefghij", chunks[0])
	assert.Equal(t, "ijklmnopqr", chunks[1])
	assert.Equal(t, "qrstuvwxy", chunks[2])
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 10)
	}
}

func TestSplitHandlesMultibyteRunes(t *testing.T) {
	text := strings.Repeat("楓", 25)
	s := NewSplitter(10, 0)

	chunks := s.Split(text)
	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("楓", 10), chunks[0])
	assert.Equal(t, strings.Repeat("楓", 5), chunks[2])
}
