package display

import (
	"fmt"

	"chordsheet-engine/internal/voicing"
)

// ChordChart renders guitar chord diagrams from live-computed voicings
// rather than a fixed per-name lookup table: the caller supplies the
// pitches, this package only draws them.
type ChordChart struct{}

// NewChordChart creates a chord diagram renderer.
func NewChordChart() *ChordChart {
	return &ChordChart{}
}

// RenderHorizontal renders name's computed voicing as multi-line fretboard
// art.
func (cc *ChordChart) RenderHorizontal(name string, v voicing.Voiced) []string {
	if len(v.Notes) == 0 {
		return []string{fmt.Sprintf(" %s: [no voicing]", name)}
	}
	return cc.RenderSingleChord(name, v)
}

// RenderSingleChord renders one fingering horizontally: a name/tab header
// line followed by a four-fret diagram that starts at the nut, or one fret
// below the lowest fretted note when that note is above fret 3.
func (cc *ChordChart) RenderSingleChord(name string, v voicing.Voiced) []string {
	lines := []string{}

	tabStr := ""
	for i := 0; i < 6; i++ {
		if v.Frets[i] == -1 {
			tabStr += "x"
		} else {
			tabStr += fmt.Sprintf("%d", v.Frets[i])
		}
	}
	lines = append(lines, fmt.Sprintf(" \033[1m%s\033[0m [%s]", name, tabStr))

	minFret := 99
	for _, f := range v.Frets {
		if f > 0 && f < minFret {
			minFret = f
		}
	}

	startFret := 1
	if minFret != 99 && minFret > 3 {
		startFret = minFret - 1
	}
	endFret := startFret + 3

	indicatorLine := " "
	for str := 0; str < 6; str++ {
		f := v.Frets[str]
		if f == -1 {
			indicatorLine += "x  "
		} else if f == 0 {
			indicatorLine += "○  "
		} else {
			indicatorLine += "   "
		}
	}
	lines = append(lines, indicatorLine)

	if startFret == 1 {
		lines = append(lines, " ══════════════════")
	} else {
		lines = append(lines, fmt.Sprintf(" %dfr─────────────", startFret))
	}

	for fret := startFret; fret <= endFret; fret++ {
		line := " "
		for str := 0; str < 6; str++ {
			if v.Frets[str] == fret {
				line += "●  "
			} else {
				line += "│  "
			}
		}
		lines = append(lines, line)
	}

	return lines
}

// RenderCompact renders a single-line name/tab indicator.
func (cc *ChordChart) RenderCompact(name string, v voicing.Voiced) string {
	if len(v.Notes) == 0 {
		return fmt.Sprintf("%s: ?", name)
	}
	tabStr := ""
	for i := 0; i < 6; i++ {
		if v.Frets[i] == -1 {
			tabStr += "x"
		} else {
			tabStr += fmt.Sprintf("%d", v.Frets[i])
		}
	}
	return fmt.Sprintf("%s [%s]", name, tabStr)
}
