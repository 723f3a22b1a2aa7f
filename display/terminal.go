package display

import (
	"fmt"
	"strings"

	"chordsheet-engine/internal/notation"
	"chordsheet-engine/internal/plan"
	"chordsheet-engine/internal/song"
)

// ShowProgram prints a headless summary of prog and its built plan: the
// initial tempo/time/key, counts of chord, lyric, and directive lines, and the chord
// sequence the plan will actually play.
func ShowProgram(prog song.Program, p plan.PlaybackPlan) {
	keyName := p.InitialKey.Root.String()
	if p.InitialKey.Mode == notation.Minor {
		keyName += "m"
	}
	info := fmt.Sprintf("Key: %s | Tempo: %.0f BPM | %d/%d",
		keyName,
		p.InitialTempo,
		p.InitialTime.Num,
		p.InitialTime.Unit,
	)

	title := "Chord Sheet"
	maxLen := len(title)
	if len(info) > maxLen {
		maxLen = len(info)
	}

	fmt.Printf("┌─ %s %s┐\n", title, strings.Repeat("─", maxLen-len(title)+1))
	fmt.Printf("│ %s%s │\n", info, strings.Repeat(" ", maxLen-len(info)))
	fmt.Printf("└%s┘\n\n", strings.Repeat("─", maxLen+2))

	lyricLines, chordLines, directiveLines := 0, 0, 0
	for _, l := range prog.Lines {
		switch l.Kind {
		case song.LyricLine:
			lyricLines++
		case song.ChordLine:
			chordLines++
		case song.DirectiveLine:
			directiveLines++
		}
	}
	fmt.Printf("%d chord lines, %d lyric lines, %d directive lines\n\n", chordLines, lyricLines, directiveLines)

	names := make([]string, 0, len(p.Steps))
	for _, step := range p.Steps {
		if step.Kind != plan.Play {
			continue
		}
		if step.Chord.Rest {
			names = append(names, "%")
			continue
		}
		names = append(names, step.Chord.String())
	}

	fmt.Printf("Playback sequence (%d steps):\n", len(names))
	perLine := 4
	for i := 0; i < len(names); i += perLine {
		end := i + perLine
		if end > len(names) {
			end = len(names)
		}
		fmt.Printf("  %s\n", strings.Join(names[i:end], " | "))
	}
}
