package voicing

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chordsheet-engine/internal/chord"
)

func mustParse(t *testing.T, token string) chord.Symbol {
	t.Helper()
	sym, err := chord.Parse(token)
	require.NoError(t, err)
	return sym
}

func TestVoicePianoC(t *testing.T) {
	sym := mustParse(t, "C")
	v := VoicePiano(sym, nil)

	assert.Equal(t, 36, v.Bass) // C2
	pitchClasses := map[int]bool{}
	for _, n := range v.Notes {
		pitchClasses[n%12] = true
	}
	assert.True(t, pitchClasses[0]) // C
	assert.True(t, pitchClasses[4]) // E
	assert.True(t, pitchClasses[7]) // G
	for _, vel := range v.Velocities {
		assert.Equal(t, 90, vel)
	}
}

func TestVoicePianoVoiceLeadingAmAfterC(t *testing.T) {
	c := VoicePiano(mustParse(t, "C"), nil)
	am := VoicePiano(mustParse(t, "Am"), &c)

	cPitches := map[int]bool{}
	for _, n := range c.Notes {
		cPitches[n] = true
	}
	amPitches := map[int]bool{}
	for _, n := range am.Notes {
		amPitches[n] = true
	}
	// C and E are common tones between C major and A minor; they should be
	// held rather than jumping an octave.
	held := 0
	for p := range cPitches {
		if amPitches[p] {
			held++
		}
	}
	assert.GreaterOrEqual(t, held, 2)
}

func TestVoicePianoRestProducesNothing(t *testing.T) {
	sym := mustParse(t, "NC")
	v := VoicePiano(sym, nil)
	assert.Empty(t, v.Notes)
}

func TestVoicePianoSlashBass(t *testing.T) {
	sym := mustParse(t, "C/E")
	v := VoicePiano(sym, nil)
	assert.Equal(t, 40, v.Bass) // E2
}

func TestVoiceGuitarFretsWithinRange(t *testing.T) {
	sym := mustParse(t, "G")
	v := VoiceGuitar(sym, nil, 0, nil)
	for _, f := range v.Frets {
		assert.True(t, f == -1 || (f >= 0 && f <= 12))
	}
	require.NotEmpty(t, v.Notes)
	classes := map[int]bool{7: true, 11: true, 2: true} // G, B, D
	for _, n := range v.Notes {
		assert.True(t, classes[((n%12)+12)%12])
	}
}

func TestVoiceGuitarBassStringMatchesRoot(t *testing.T) {
	sym := mustParse(t, "A")
	v := VoiceGuitar(sym, nil, 0, nil)
	require.GreaterOrEqual(t, v.Frets[0], 0)
	assert.Equal(t, 9, ((v.Bass%12)+12)%12) // A
}

func TestVoiceGuitarCapoReachesSamePitchWithLowerFret(t *testing.T) {
	sym := mustParse(t, "G")
	open := VoiceGuitar(sym, nil, 0, nil)
	capoed := VoiceGuitar(sym, nil, 2, nil)
	// A capo lets the same concert pitch be reached at an equal or lower
	// fret, since the open string itself now sounds higher.
	assert.LessOrEqual(t, capoed.Frets[0], open.Frets[0])
	assert.Equal(t, ((open.Bass%12)+12)%12, ((capoed.Bass%12)+12)%12)
}

func TestVoiceGuitarVoiceLeadsTowardPrevious(t *testing.T) {
	c := VoiceGuitar(mustParse(t, "C"), nil, 0, nil)
	g := VoiceGuitar(mustParse(t, "G"), nil, 0, &c)

	sortedNotes := append([]int{}, g.Notes...)
	sort.Ints(sortedNotes)
	require.NotEmpty(t, sortedNotes)

	unled := VoiceGuitar(mustParse(t, "G"), nil, 0, nil)
	for i := 0; i < 6; i++ {
		assert.LessOrEqual(t, absInt(g.Frets[i]-c.Frets[i]), absInt(unled.Frets[i]-c.Frets[i]))
	}
}
