package intelligence

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestChunkTextShortInputSingleChunk(t *testing.T) {
	chunks := ChunkText("OneTracker tracks shipments.", 500, 100)
	require.Equal(t, []string{"OneTracker tracks shipments."}, chunks)
}

func TestChunkTextRespectsSizeBound(t *testing.T) {
	text := strings.Repeat("tracking updates arrive in real time. ", 100)
	chunks := ChunkText(text, 500, 100)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		require.LessOrEqual(t, utf8.RuneCountInString(c), 500)
		require.NotEmpty(t, c)
	}
}

func TestChunkTextPrefersParagraphBreaks(t *testing.T) {
	para := strings.Repeat("a", 200)
	text := para + "\n\n" + strings.Repeat("b", 200) + "\n\n" + strings.Repeat("c", 200)

	chunks := ChunkText(text, 450, 0)
	require.Len(t, chunks, 2)
	require.True(t, strings.HasPrefix(chunks[0], para))
	require.True(t, strings.HasSuffix(chunks[0], strings.Repeat("b", 200)))
	require.Equal(t, strings.Repeat("c", 200), chunks[1])
}

func TestChunkTextOverlapCarriesContext(t *testing.T) {
	text := strings.Repeat("x", 500) + " " + strings.Repeat("y", 200)
	chunks := ChunkText(text, 500, 100)

	require.Len(t, chunks, 2)
	// The second chunk starts with the tail of the first.
	require.Contains(t, chunks[1], "x")
	require.Contains(t, chunks[1], "y")
}

func TestChunkTextUnbreakableRunHardCuts(t *testing.T) {
	chunks := ChunkText(strings.Repeat("z", 1200), 500, 0)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		require.LessOrEqual(t, utf8.RuneCountInString(c), 500)
	}
}

func TestChunkTextMultiByteRunesStayValid(t *testing.T) {
	text := strings.Repeat("配送状況を追跡します。", 200)
	for _, c := range ChunkText(text, 500, 100) {
		require.True(t, utf8.ValidString(c))
	}
}
