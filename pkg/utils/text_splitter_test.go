package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		overlap    int
		wantChunks int
	}{
		{"empty text", "", 400, 120, 0},
		{"shorter than one chunk", "short", 400, 120, 1},
		{"exact chunk size", strings.Repeat("a", 400), 400, 120, 1},
		{"two windows", strings.Repeat("a", 500), 400, 120, 2},
		{"overlap equal to size falls back to full steps", strings.Repeat("a", 900), 300, 300, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)
			assert.Len(t, chunks, tt.wantChunks)
		})
	}
}

func TestSplitTextOffsets(t *testing.T) {
	text := strings.Repeat("x", 1000)
	chunks := SplitText(text, 400, 120)

	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 400, chunks[0].End)
	assert.Equal(t, 280, chunks[1].Start, "window advances chunkSize-overlap")
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, c.End-c.Start, len([]rune(c.Text)))
	}
	last := chunks[len(chunks)-1]
	assert.Equal(t, 1000, last.End, "last chunk reaches the end of the text")
}

func TestSplitTextPreservesMultibyteRunes(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 100)
	chunks := SplitText(text, 50, 10)

	var rebuilt strings.Builder
	prevEnd := 0
	for _, c := range chunks {
		runes := []rune(c.Text)
		rebuilt.WriteString(string(runes[prevEnd-c.Start:]))
		prevEnd = c.End
	}
	assert.Equal(t, text, rebuilt.String())
}
