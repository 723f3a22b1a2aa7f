package chord

import (
	"math/big"
	"strings"

	"chordsheet-engine/internal/note"
)

// Roman is an unresolved Roman-numeral chord. It must be evaluated against
// an active key by internal/notation before it carries concrete pitches.
type Roman struct {
	Accidental note.Accidental // optional leading b/# relative to the scale degree
	Degree     int             // 1-7 (I=1 .. VII=7)
	Minor      bool            // true when the numeral was written lowercase
	Dim        bool            // true when a trailing ° was present
	Seventh    Seventh         // SeventhNone, Dom7 (bare "7"), or Maj7 ("maj7")
	Bass       *Roman          // present for a "/roman" slash bass
	Beats      *big.Rat
}

// upperNumerals and lowerNumerals are checked longest-first so that e.g.
// "VII" is matched whole instead of "V" followed by leftover "II".
var upperNumerals = []struct {
	text   string
	degree int
}{
	{"VII", 7}, {"III", 3}, {"VI", 6}, {"IV", 4}, {"II", 2}, {"V", 5}, {"I", 1},
}

var lowerNumerals = []struct {
	text   string
	degree int
}{
	{"vii", 7}, {"iii", 3}, {"vi", 6}, {"iv", 4}, {"ii", 2}, {"v", 5}, {"i", 1},
}

// tryParseRoman attempts to parse body as a Roman-numeral chord. It returns
// ok=false (not an error) when body doesn't start with a Roman numeral at
// all, so the caller falls back to American/European chord parsing.
func tryParseRoman(body string) (*Roman, bool) {
	rest := body
	acc := note.Natural
	if strings.HasPrefix(rest, "b") {
		acc = note.Flat
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "#") {
		acc = note.Sharp
		rest = rest[1:]
	}

	degree, minor, consumed := matchNumeral(rest)
	if consumed == 0 {
		return nil, false
	}
	rest = rest[consumed:]

	r := &Roman{Accidental: acc, Degree: degree, Minor: minor}

	if strings.HasPrefix(rest, "°") {
		r.Dim = true
		rest = rest[len("°"):]
	}

	switch {
	case strings.HasPrefix(rest, "maj7"):
		r.Seventh = Maj7
		rest = rest[len("maj7"):]
	case strings.HasPrefix(rest, "7"):
		r.Seventh = Dom7
		rest = rest[1:]
	}

	if strings.HasPrefix(rest, "/") {
		bassRest := rest[1:]
		bassAcc := note.Natural
		if strings.HasPrefix(bassRest, "b") {
			bassAcc = note.Flat
			bassRest = bassRest[1:]
		} else if strings.HasPrefix(bassRest, "#") {
			bassAcc = note.Sharp
			bassRest = bassRest[1:]
		}
		bassDegree, bassMinor, bassConsumed := matchNumeral(bassRest)
		if bassConsumed == 0 {
			return nil, false
		}
		bassRest = bassRest[bassConsumed:]
		if bassRest != "" {
			return nil, false
		}
		r.Bass = &Roman{Accidental: bassAcc, Degree: bassDegree, Minor: bassMinor}
		rest = ""
	}

	if rest != "" {
		return nil, false
	}
	return r, true
}

func matchNumeral(s string) (degree int, minor bool, consumed int) {
	for _, n := range upperNumerals {
		if strings.HasPrefix(s, n.text) {
			return n.degree, false, len(n.text)
		}
	}
	for _, n := range lowerNumerals {
		if strings.HasPrefix(s, n.text) {
			return n.degree, true, len(n.text)
		}
	}
	return 0, false, 0
}

// String renders the canonical form of a Roman chord.
func (r Roman) String() string {
	var sb strings.Builder
	if r.Accidental == note.Flat {
		sb.WriteString("b")
	} else if r.Accidental == note.Sharp {
		sb.WriteString("#")
	}
	numeral := romanDigits(r.Degree)
	if r.Minor {
		numeral = strings.ToLower(numeral)
	}
	sb.WriteString(numeral)
	if r.Dim {
		sb.WriteString("°")
	}
	switch r.Seventh {
	case Maj7:
		sb.WriteString("maj7")
	case Dom7:
		sb.WriteString("7")
	}
	if r.Bass != nil {
		sb.WriteString("/")
		sb.WriteString(r.Bass.String())
	}
	return sb.String()
}

func romanDigits(degree int) string {
	switch degree {
	case 1:
		return "I"
	case 2:
		return "II"
	case 3:
		return "III"
	case 4:
		return "IV"
	case 5:
		return "V"
	case 6:
		return "VI"
	case 7:
		return "VII"
	default:
		return "?"
	}
}
