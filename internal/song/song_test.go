package song

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyChordLine(t *testing.T) {
	prog := Parse("C  Am  F  G")
	require.Len(t, prog.Lines, 1)
	line := prog.Lines[0]
	assert.Equal(t, ChordLine, line.Kind)
	require.Len(t, line.ChordTokens, 4)
	for _, tok := range line.ChordTokens {
		assert.True(t, tok.Valid())
	}
}

func TestClassifyLyricLine(t *testing.T) {
	prog := Parse("Hello darkness my old friend")
	require.Len(t, prog.Lines, 1)
	assert.Equal(t, LyricLine, prog.Lines[0].Kind)
}

func TestLyricLineDoesNotAffectChordLineBelow(t *testing.T) {
	prog := Parse("Hello darkness my old friend\nC Am F G")
	require.Len(t, prog.Lines, 2)
	assert.Equal(t, LyricLine, prog.Lines[0].Kind)
	assert.Equal(t, ChordLine, prog.Lines[1].Kind)
}

func TestChordLineKeepsInvalidTokenAsMarker(t *testing.T) {
	prog := Parse("C Am Foo G")
	line := prog.Lines[0]
	assert.Equal(t, ChordLine, line.Kind)
	require.Len(t, line.ChordTokens, 4)
	assert.False(t, line.ChordTokens[2].Valid())
}

func TestDirectiveLine(t *testing.T) {
	prog := Parse("{bpm:120} {time:3/4}")
	line := prog.Lines[0]
	assert.Equal(t, DirectiveLine, line.Kind)
	require.Len(t, line.DirectiveTokens, 2)
}

func TestMixedDirectiveAndLyricIsLyric(t *testing.T) {
	prog := Parse("some text {bpm:120}")
	assert.Equal(t, LyricLine, prog.Lines[0].Kind)
}

func TestCommentLine(t *testing.T) {
	prog := Parse("  // this is a comment")
	assert.Equal(t, CommentLine, prog.Lines[0].Kind)
}

func TestTrailingCommentStripped(t *testing.T) {
	prog := Parse("C G // turnaround")
	line := prog.Lines[0]
	assert.Equal(t, ChordLine, line.Kind)
	assert.Equal(t, "// turnaround", line.Comment)
	require.Len(t, line.ChordTokens, 2)
}

func TestLabelTable(t *testing.T) {
	prog := Parse("{label:verse}\nC G\n{loop:verse 2}")
	idx, ok := prog.LineAt("verse")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	start, ok := prog.LineAt("@start")
	require.True(t, ok)
	assert.Equal(t, 0, start)
}

func TestLabelRedefinitionLastWins(t *testing.T) {
	prog := Parse("{label:x}\nC\n{label:x}\nG")
	idx, ok := prog.LineAt("x")
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestChordTokenSpans(t *testing.T) {
	prog := Parse("C  Am")
	line := prog.Lines[0]
	require.Len(t, line.ChordTokens, 2)
	assert.Equal(t, 0, line.ChordTokens[0].Span.ByteStart)
	assert.Equal(t, 1, line.ChordTokens[0].Span.ByteEnd)
	assert.Equal(t, 3, line.ChordTokens[1].Span.ByteStart)
	assert.Equal(t, 5, line.ChordTokens[1].Span.ByteEnd)
}
