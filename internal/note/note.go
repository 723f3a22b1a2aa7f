// Package note converts between pitch names and MIDI note numbers.
//
// Middle C (MIDI 60) is octave 4, matching the convention the rest of the
// engine assumes when placing chord tones.
package note

import (
	"fmt"
	"strconv"
	"strings"
)

// Name is a natural note letter, A-G.
type Name byte

const (
	C Name = 'C'
	D Name = 'D'
	E Name = 'E'
	F Name = 'F'
	G Name = 'G'
	A Name = 'A'
	B Name = 'B'
)

// IsValid reports whether n is one of A-G.
func (n Name) IsValid() bool {
	return n >= 'A' && n <= 'G'
}

// Accidental modifies a natural note by a number of semitones.
type Accidental int

const (
	Natural Accidental = 0
	Sharp   Accidental = 1
	Flat    Accidental = -1
)

func (a Accidental) String() string {
	switch a {
	case Sharp:
		return "#"
	case Flat:
		return "b"
	default:
		return ""
	}
}

// pitchClass maps each natural note name to its semitone offset from C.
var pitchClass = map[Name]int{
	C: 0, D: 2, E: 4, F: 5, G: 7, A: 9, B: 11,
}

// sharpNames and flatNames are the 12 display spellings, C=0.
var sharpNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
var flatNames = []string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// Pitch is a note name plus accidental; it has no inherent octave.
type Pitch struct {
	Name       Name
	Accidental Accidental
}

// Class returns the pitch class (0-11, C=0) of p.
func (p Pitch) Class() int {
	return ((pitchClass[p.Name] + int(p.Accidental))%12 + 12) % 12
}

// String renders p in American notation, e.g. "C#", "Eb".
func (p Pitch) String() string {
	return string(p.Name) + p.Accidental.String()
}

// ParsePitch parses a root letter with an optional single '#'/'b' suffix.
// It returns the parsed pitch and the number of bytes consumed.
func ParsePitch(s string) (Pitch, int, error) {
	if len(s) == 0 {
		return Pitch{}, 0, fmt.Errorf("note: empty pitch")
	}
	n := Name(toUpperASCII(s[0]))
	if !n.IsValid() {
		return Pitch{}, 0, fmt.Errorf("note: unknown root %q", s[0:1])
	}
	consumed := 1
	acc := Natural
	if len(s) > 1 {
		switch s[1] {
		case '#':
			acc = Sharp
			consumed = 2
		case 'b':
			acc = Flat
			consumed = 2
		}
	}
	return Pitch{Name: n, Accidental: acc}, consumed, nil
}

func toUpperASCII(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// MIDI returns the MIDI note number for p at the given octave, where
// octave 4 contains middle C (MIDI 60).
func (p Pitch) MIDI(octave int) int {
	return p.Class() + (octave+1)*12
}

// FromMIDI splits a MIDI note number into its pitch class (C=0) and octave.
// Octave 4 contains MIDI 60 (middle C).
func FromMIDI(midi int) (class int, octave int) {
	class = ((midi % 12) + 12) % 12
	octave = midi/12 - 1
	return
}

// NameForClass renders a pitch class (0-11) as a display string, preferring
// sharps unless preferFlats is set.
func NameForClass(class int, preferFlats bool) string {
	class = ((class % 12) + 12) % 12
	if preferFlats {
		return flatNames[class]
	}
	return sharpNames[class]
}

// MIDIToName renders a MIDI note number as "<Name><octave>", e.g. "C4", "F#3".
func MIDIToName(midi int, preferFlats bool) string {
	class, octave := FromMIDI(midi)
	return NameForClass(class, preferFlats) + strconv.Itoa(octave)
}

// Clamp keeps a MIDI note number inside the valid 0-127 wire range.
func Clamp(midi int) int {
	if midi < 0 {
		return 0
	}
	if midi > 127 {
		return 127
	}
	return midi
}

// Transpose shifts a MIDI note by semitones, clamping to the valid range.
func Transpose(midi, semitones int) int {
	return Clamp(midi + semitones)
}

// ParsePitchName is a convenience wrapper used by notation/chord packages:
// it requires the whole string to be consumed as a bare pitch (root +
// optional accidental), returning an error otherwise.
func ParsePitchName(s string) (Pitch, error) {
	p, n, err := ParsePitch(s)
	if err != nil {
		return Pitch{}, err
	}
	if n != len(s) {
		return Pitch{}, fmt.Errorf("note: trailing characters in pitch %q", s)
	}
	return p, nil
}

// Equal reports whether two pitches denote the same written note (not the
// same pitch class — Eb and D# are not Equal, only EnharmonicEqual).
func (p Pitch) Equal(o Pitch) bool {
	return p.Name == o.Name && p.Accidental == o.Accidental
}

// EnharmonicEqual reports whether p and o sound the same.
func (p Pitch) EnharmonicEqual(o Pitch) bool {
	return p.Class() == o.Class()
}

// solfegeNames maps American roots to European solfège and back; used by
// the notation package to translate between the two naming systems.
var solfegeNames = map[Name]string{
	C: "Do", D: "Re", E: "Mi", F: "Fa", G: "Sol", A: "La", B: "Si",
}

var namesToSolfege = solfegeNames

var solfegeToName = func() map[string]Name {
	m := make(map[string]Name, len(solfegeNames))
	for n, s := range solfegeNames {
		m[strings.ToLower(s)] = n
	}
	return m
}()

// Solfege renders p's root in European solfège, keeping the accidental.
func (p Pitch) Solfege() string {
	return namesToSolfege[p.Name] + p.Accidental.String()
}

// ParseSolfege parses a European solfège root (Do, Re, Mi, Fa, Sol, La, Si)
// with an optional accidental suffix, returning the pitch and bytes consumed.
func ParseSolfege(s string) (Pitch, int, error) {
	lower := strings.ToLower(s)
	// Try longest syllables first ("sol" before "so", etc.) — only "sol" has
	// this ambiguity among the seven syllables.
	for _, syll := range []string{"sol", "do", "re", "mi", "fa", "la", "si"} {
		if strings.HasPrefix(lower, syll) {
			n, ok := solfegeToName[syll]
			if !ok {
				continue
			}
			consumed := len(syll)
			acc := Natural
			if len(s) > consumed {
				switch s[consumed] {
				case '#':
					acc = Sharp
					consumed++
				case 'b':
					acc = Flat
					consumed++
				}
			}
			return Pitch{Name: n, Accidental: acc}, consumed, nil
		}
	}
	return Pitch{}, 0, fmt.Errorf("note: unknown solfège root in %q", s)
}
