// Package notation translates chord symbols between American, European
// solfège, and Roman-numeral representations.
package notation

import (
	"fmt"

	"chordsheet-engine/internal/chord"
	"chordsheet-engine/internal/note"
)

// Kind identifies which root-naming system a document is currently using.
type Kind int

const (
	American Kind = iota
	European
	Roman
)

func (k Kind) String() string {
	switch k {
	case European:
		return "european"
	case Roman:
		return "roman"
	default:
		return "american"
	}
}

// Mode is the tonal quality of an active key: major or (natural) minor.
type Mode int

const (
	Major Mode = iota
	Minor
)

// Key is the tonal center a document's Roman numerals resolve against.
type Key struct {
	Root note.Pitch
	Mode Mode
}

// majorScaleOffsets and minorScaleOffsets give each scale degree's semitone
// distance above the tonic; index 0 is the tonic itself.
var majorScaleOffsets = [7]int{0, 2, 4, 5, 7, 9, 11}
var minorScaleOffsets = [7]int{0, 2, 3, 5, 7, 8, 10}

// RenderRoot renders a resolved symbol's root in the given Kind: American
// letter name or European solfège syllable. Roman symbols have no root
// until ResolveRoman has run.
func RenderRoot(sym chord.Symbol, kind Kind) string {
	if kind == European {
		return sym.Root.Solfege()
	}
	return sym.Root.String()
}

// ResolveRoman evaluates an unresolved Roman-numeral symbol against key,
// producing a concrete Symbol with Root/Quality/Seventh populated. It
// returns an error if sym is not a Roman-form symbol.
func ResolveRoman(sym chord.Symbol, key Key) (chord.Symbol, error) {
	if sym.Roman == nil {
		return chord.Symbol{}, fmt.Errorf("notation: symbol is not in Roman form")
	}
	resolved, err := resolveOne(sym.Roman, key)
	if err != nil {
		return chord.Symbol{}, err
	}
	resolved.Beats = sym.Beats
	return resolved, nil
}

func resolveOne(r *chord.Roman, key Key) (chord.Symbol, error) {
	if r.Degree < 1 || r.Degree > 7 {
		return chord.Symbol{}, fmt.Errorf("notation: degree %d out of range", r.Degree)
	}
	offsets := majorScaleOffsets
	if key.Mode == Minor {
		offsets = minorScaleOffsets
	}
	semitones := key.Root.Class() + offsets[r.Degree-1] + int(r.Accidental)

	sym := chord.Symbol{
		Root:    pitchFromClass(semitones, key),
		Quality: chord.Major,
	}
	if r.Minor {
		sym.Quality = chord.Minor
	}
	if r.Dim {
		sym.Quality = chord.Dim
	}

	switch r.Seventh {
	case chord.Maj7:
		sym.Seventh = chord.Maj7
	case chord.Dom7:
		if sym.Quality == chord.Minor {
			sym.Seventh = chord.Min7
		} else if sym.Quality == chord.Dim {
			sym.Seventh = chord.M7b5
		} else {
			sym.Seventh = chord.Dom7
		}
	}

	if r.Bass != nil {
		bassResolved, err := resolveOne(r.Bass, key)
		if err != nil {
			return chord.Symbol{}, err
		}
		sym.Bass = &chord.Bass{Pitch: bassResolved.Root}
	}

	return sym, nil
}

// pitchFromClass spells a pitch class using sharps in a major key and flats
// in a minor key, which matches the written convention for diatonic chords
// built from Roman numerals in each mode.
func pitchFromClass(class int, key Key) note.Pitch {
	preferFlats := key.Mode == Minor
	name := note.NameForClass(((class % 12) + 12) % 12, preferFlats)
	p, err := note.ParsePitchName(name)
	if err != nil {
		// note.NameForClass always returns a parseable name.
		return note.Pitch{}
	}
	return p
}

// RomanForChord is the inverse of ResolveRoman: it expresses a resolved,
// non-Roman Symbol as a Roman numeral relative to key, used to test
// round-trip stability (property 3).
func RomanForChord(sym chord.Symbol, key Key) (*chord.Roman, error) {
	if sym.Roman != nil {
		return nil, fmt.Errorf("notation: symbol is already in Roman form")
	}
	offsets := majorScaleOffsets
	if key.Mode == Minor {
		offsets = minorScaleOffsets
	}
	rel := ((sym.Root.Class() - key.Root.Class()) % 12 + 12) % 12

	degree := 0
	accidental := note.Natural
	for i, off := range offsets {
		if off == rel {
			degree = i + 1
			break
		}
	}
	if degree == 0 {
		// Not a diatonic degree: find the nearest degree below and mark
		// the chromatic alteration explicitly.
		for i, off := range offsets {
			if off == (rel+1)%12 {
				degree = i + 1
				accidental = note.Flat
				break
			}
			if off == (rel-1+12)%12 {
				degree = i + 1
				accidental = note.Sharp
				break
			}
		}
	}
	if degree == 0 {
		return nil, fmt.Errorf("notation: root is not reachable from key %v", key)
	}

	r := &chord.Roman{
		Accidental: accidental,
		Degree:     degree,
		Minor:      sym.Quality == chord.Minor,
		Dim:        sym.Quality == chord.Dim,
	}
	switch sym.Seventh {
	case chord.Maj7:
		r.Seventh = chord.Maj7
	case chord.Dom7, chord.Min7, chord.M7b5:
		r.Seventh = chord.Dom7
	}
	return r, nil
}
