// Package strudel renders a built PlaybackPlan as Strudel live-coding
// pattern source, so a resolved chord sheet can be dropped straight into
// a Strudel session.
package strudel

import (
	"fmt"
	"strings"

	"chordsheet-engine/internal/plan"
	"chordsheet-engine/internal/voicing"
)

var strudelNoteNames = []string{"c", "cs", "d", "ds", "e", "f", "fs", "g", "gs", "a", "as", "b"}

// midiToStrudel converts a MIDI pitch to Strudel's "name+octave" spelling,
// using Strudel's c4 == middle-C convention (MIDI 60).
func midiToStrudel(pitch int) string {
	octave := pitch/12 - 1
	class := ((pitch % 12) + 12) % 12
	return fmt.Sprintf("%s%d", strudelNoteNames[class], octave)
}

// GenerateStrudel renders p as a single Strudel pattern: one chord voicing
// per Play step, each held for its step's beat count, set against p's
// initial tempo.
func GenerateStrudel(p plan.PlaybackPlan) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("// Tempo: %.0f BPM\n\n", p.InitialTempo))

	var patterns []string
	var prev *voicing.Voiced
	for _, step := range p.Steps {
		if step.Kind != plan.Play {
			continue
		}
		if step.Chord.Rest {
			rest := "~"
			if step.Beats != nil {
				if b, _ := step.Beats.Float64(); b != 1.0 {
					rest = fmt.Sprintf("~@%g", b)
				}
			}
			patterns = append(patterns, rest)
			continue
		}

		voiced := voicing.VoicePiano(step.Chord, prev)
		prev = &voiced

		notes := make([]string, 0, len(voiced.Notes))
		for _, n := range voiced.Notes {
			notes = append(notes, midiToStrudel(n))
		}

		beats := 1.0
		if step.Beats != nil {
			beats, _ = step.Beats.Float64()
		}

		noteStr := fmt.Sprintf("[%s]", strings.Join(notes, ","))
		if beats != 1.0 {
			noteStr = fmt.Sprintf("%s@%g", noteStr, beats)
		}
		patterns = append(patterns, noteStr)
	}

	pattern := strings.Join(patterns, " ")
	sb.WriteString(fmt.Sprintf("note(\"%s\").s(\"piano\")", pattern))
	sb.WriteString(fmt.Sprintf("\n  .cpm(%g/4)", p.InitialTempo))

	return sb.String()
}
