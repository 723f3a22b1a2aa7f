package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePitch(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantName Name
		wantAcc  Accidental
		wantLen  int
	}{
		{"bare root", "C", C, Natural, 1},
		{"sharp", "F#", F, Sharp, 2},
		{"flat", "Bb", B, Flat, 2},
		{"lowercase root", "c", C, Natural, 1},
		{"trailing garbage ignored by consumed count", "C#m7", C, Sharp, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, n, err := ParsePitch(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name)
			assert.Equal(t, tt.wantAcc, p.Accidental)
			assert.Equal(t, tt.wantLen, n)
		})
	}
}

func TestParsePitchUnknownRoot(t *testing.T) {
	_, _, err := ParsePitch("H")
	assert.Error(t, err)
}

func TestMIDIRoundTrip(t *testing.T) {
	p := Pitch{Name: C, Accidental: Natural}
	assert.Equal(t, 60, p.MIDI(4))

	class, octave := FromMIDI(60)
	assert.Equal(t, 0, class)
	assert.Equal(t, 4, octave)
}

func TestEnharmonicEqual(t *testing.T) {
	eb := Pitch{Name: E, Accidental: Flat}
	dSharp := Pitch{Name: D, Accidental: Sharp}
	assert.True(t, eb.EnharmonicEqual(dSharp))
	assert.False(t, eb.Equal(dSharp))
}

func TestSolfegeRoundTrip(t *testing.T) {
	for root, expected := range map[Name]string{C: "Do", D: "Re", E: "Mi", F: "Fa", G: "Sol", A: "La", B: "Si"} {
		p := Pitch{Name: root}
		assert.Equal(t, expected, p.Solfege())

		parsed, n, err := ParseSolfege(expected)
		require.NoError(t, err)
		assert.Equal(t, root, parsed.Name)
		assert.Equal(t, len(expected), n)
	}
}

func TestParseSolfegeWithAccidental(t *testing.T) {
	p, n, err := ParseSolfege("Reb")
	require.NoError(t, err)
	assert.Equal(t, D, p.Name)
	assert.Equal(t, Flat, p.Accidental)
	assert.Equal(t, 3, n)
}

func TestClampAndTranspose(t *testing.T) {
	assert.Equal(t, 127, Clamp(200))
	assert.Equal(t, 0, Clamp(-10))
	assert.Equal(t, 62, Transpose(60, 2))
}
