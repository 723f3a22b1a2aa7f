package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chordsheet-engine/internal/directive"
	"chordsheet-engine/internal/notation"
	"chordsheet-engine/internal/song"
)

func defaultContext() Context {
	return Context{BPM: 120, TimeSig: directive.TimeSigValue{Num: 4, Unit: 4}, Key: notation.Key{Mode: notation.Major}}
}

func chordTexts(p PlaybackPlan) []string {
	var out []string
	for _, s := range p.Steps {
		if s.Kind == Play {
			out = append(out, s.Chord.String())
		}
	}
	return out
}

func TestBuildSimpleChordSequence(t *testing.T) {
	prog := song.Parse("C  G  Am  F")
	p := Build(prog, 0, defaultContext())
	assert.Equal(t, []string{"C", "G", "Am", "F"}, chordTexts(p))
}

func TestBuildLoopPlaysSectionCountTimesTotal(t *testing.T) {
	prog := song.Parse("{label:v}\nC  G\n{loop:v 2}")
	p := Build(prog, 0, defaultContext())
	// count is the total number of plays, including the pass already played
	// on the way to the loop directive — {loop:v 2} plays C G twice total,
	// not three times.
	assert.Equal(t, []string{"C", "G", "C", "G"}, chordTexts(p))
}

func TestBuildLoopRestoresSnapshotContext(t *testing.T) {
	// The first chord in the section plays before any {bpm:...} directive,
	// so it relies on whatever the label snapshot captured (120, the
	// document default). A loop that plays the section twice total must
	// restore that snapshot for its one repeat, or the repeat's first chord
	// would wrongly inherit the 140 left over from the end of the original
	// pass.
	prog := song.Parse("{label:v}\nC\n{bpm:140}\nC\n{loop:v 2}\nC")
	p := Build(prog, 0, defaultContext())

	var bpmAtEachPlay []float64
	bpm := p.InitialTempo
	for _, s := range p.Steps {
		if s.Kind == ContextChange && s.HasTempo {
			bpm = s.Tempo.Apply(p.InitialTempo, bpm)
		}
		if s.Kind == Play {
			bpmAtEachPlay = append(bpmAtEachPlay, bpm)
		}
	}
	require.Len(t, bpmAtEachPlay, 5)
	assert.Equal(t, []float64{120, 140, 120, 140, 140}, bpmAtEachPlay)
}

func TestBuildMissingLoopTargetIsSkipped(t *testing.T) {
	prog := song.Parse("C  G\n{loop:ghost 2}")
	p := Build(prog, 0, defaultContext())
	assert.Equal(t, []string{"C", "G"}, chordTexts(p))
}

func TestBuildRestStepCarriesNoPitches(t *testing.T) {
	prog := song.Parse("C  NC*2  G")
	p := Build(prog, 0, defaultContext())
	require.Len(t, p.Steps, 3)
	assert.True(t, p.Steps[1].Chord.Rest)
}

func TestBuildUsesTimeSigForImplicitBeats(t *testing.T) {
	prog := song.Parse("{time:3/4}\nC")
	p := Build(prog, 0, defaultContext())
	var found bool
	for _, s := range p.Steps {
		if s.Kind == Play {
			found = true
			assert.Equal(t, int64(3), s.Beats.Num().Int64())
		}
	}
	assert.True(t, found)
}

func TestBuildScaleDirectiveCarriesStyle(t *testing.T) {
	prog := song.Parse("{scale:jazz}\nC")
	p := Build(prog, 0, defaultContext())

	var style string
	for _, s := range p.Steps {
		if s.Kind == ContextChange && s.HasScale {
			style = s.ScaleStyle
		}
	}
	assert.Equal(t, "jazz", style)
}

func TestBuildStartFromMidDocument(t *testing.T) {
	prog := song.Parse("C\nG\n{label:chorus}\nAm\nF")
	idx, ok := prog.LineAt("chorus")
	require.True(t, ok)
	p := Build(prog, idx, defaultContext())
	assert.Equal(t, []string{"Am", "F"}, chordTexts(p))
}
