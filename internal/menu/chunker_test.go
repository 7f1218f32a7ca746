package menu

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextRejoins(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("Chicken Tikka Masala   $14.50\n")
		if i%7 == 0 {
			b.WriteString("DESSERTS\n")
		}
	}
	text := b.String()

	chunks := ChunkText(text, 100)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 100)
		assert.NotEmpty(t, c)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunkTextSplitsAtNewline(t *testing.T) {
	chunks := ChunkText("aaa\nbbb\nccc", 8)
	assert.Equal(t, []string{"aaa\nbbb", "\nccc"}, chunks)
}

func TestChunkTextHardCut(t *testing.T) {
	chunks := ChunkText("abcdefghij", 4)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, chunks)
}

func TestChunkTextCountsCharacters(t *testing.T) {
	chunks := ChunkText("ééé", 2)
	assert.Equal(t, []string{"éé", "é"}, chunks)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %q", c)
	}

	jp := "前菜\n春巻き 500円\n餃子 600円"
	assert.Equal(t, []string{jp}, ChunkText(jp, utf8.RuneCountInString(jp)))

	chunks = ChunkText(jp, 12)
	assert.Equal(t, []string{"前菜\n春巻き 500円", "\n餃子 600円"}, chunks)
}

func TestChunkTextEdges(t *testing.T) {
	assert.Nil(t, ChunkText("", 10))
	assert.Equal(t, []string{"short"}, ChunkText("short", 10))
	assert.Equal(t, []string{"whole text"}, ChunkText("whole text", 0))
}
