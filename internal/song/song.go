// Package song classifies the lines of a chord-sheet document into chord,
// lyric, comment, and directive lines, and builds the label table used by
// loop resolution.
package song

import (
	"strings"

	"chordsheet-engine/internal/chord"
	"chordsheet-engine/internal/directive"
)

// LineKind identifies which of the four line classes a Line belongs to.
type LineKind int

const (
	LyricLine LineKind = iota
	ChordLine
	CommentLine
	DirectiveLine
)

// Span locates a token within the original document text.
type Span struct {
	LineIndex int
	ByteStart int
	ByteEnd   int
}

// ChordToken is one whitespace-delimited word from a ChordLine, carrying
// its parse result (valid or not) and source span.
type ChordToken struct {
	Text   string
	Span   Span
	Symbol chord.Symbol
	Err    error // non-nil when Symbol did not parse; token still renders, just grayed out
}

// Valid reports whether the token parsed into a usable chord symbol.
func (t ChordToken) Valid() bool {
	return t.Err == nil
}

// DirectiveToken is one "{...}" form parsed from a DirectiveLine.
type DirectiveToken struct {
	Directive directive.Directive
	Span      Span
}

// Line is one line of the source document, classified and tokenized.
type Line struct {
	Kind LineKind
	Raw  string
	Span Span

	// Comment is the trailing "//..." suffix stripped before classifying
	// the rest of the line (empty if there was none).
	Comment string

	ChordTokens     []ChordToken
	DirectiveTokens []DirectiveToken
}

// Program is a fully parsed chord sheet: its lines plus a label table
// mapping a label name to the index of the line that defined it.
type Program struct {
	Lines  []Line
	Labels map[string]int
}

// chordLineThreshold is the minimum fraction of non-empty words on a line
// that must parse as chord symbols for the line to be classified as a
// ChordLine rather than a LyricLine.
const chordLineThreshold = 0.6

// Parse splits text into lines and classifies each one in order.
func Parse(text string) Program {
	rawLines := strings.Split(text, "\n")
	prog := Program{Labels: map[string]int{"@start": 0}}

	for i, raw := range rawLines {
		line := parseLine(raw, i)
		prog.Lines = append(prog.Lines, line)

		if line.Kind == DirectiveLine {
			for _, dt := range line.DirectiveTokens {
				if dt.Directive.Kind == directive.Label && dt.Directive.Valid {
					prog.Labels[dt.Directive.Label] = i
				}
			}
		}
	}
	return prog
}

func parseLine(raw string, index int) Line {
	body, comment := stripComment(raw)

	if strings.TrimSpace(body) == "" {
		if comment != "" {
			return Line{Kind: CommentLine, Raw: raw, Span: Span{LineIndex: index, ByteEnd: len(raw)}, Comment: comment}
		}
		return Line{Kind: LyricLine, Raw: raw, Span: Span{LineIndex: index, ByteEnd: len(raw)}}
	}

	if directive.IsDirectiveLine(body) {
		return classifyDirectiveLine(body, comment, raw, index)
	}

	return classifyWordLine(body, comment, raw, index)
}

// stripComment splits raw at the first "//" that is not inside a "{...}"
// directive form, since directive values (e.g. a time signature) never
// themselves contain "//".
func stripComment(raw string) (body string, comment string) {
	depth := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 && i+1 < len(raw) && raw[i] == '/' && raw[i+1] == '/' {
			return raw[:i], raw[i:]
		}
	}
	return raw, ""
}

func classifyDirectiveLine(body, comment, raw string, index int) Line {
	forms := directive.FindForms(body)
	tokens := make([]DirectiveToken, 0, len(forms))
	for _, f := range forms {
		d, _ := directive.Parse(f.Body)
		tokens = append(tokens, DirectiveToken{
			Directive: d,
			Span:      Span{LineIndex: index, ByteStart: f.Start, ByteEnd: f.End},
		})
	}
	return Line{
		Kind:            DirectiveLine,
		Raw:             raw,
		Span:            Span{LineIndex: index, ByteEnd: len(raw)},
		Comment:         comment,
		DirectiveTokens: tokens,
	}
}

func classifyWordLine(body, comment, raw string, index int) Line {
	words := fieldsWithOffsets(body)
	if len(words) == 0 {
		return Line{Kind: LyricLine, Raw: raw, Span: Span{LineIndex: index, ByteEnd: len(raw)}, Comment: comment}
	}

	valid := 0
	tokens := make([]ChordToken, 0, len(words))
	for _, w := range words {
		sym, err := chord.Parse(w.text)
		if err == nil {
			valid++
		}
		tokens = append(tokens, ChordToken{
			Text:   w.text,
			Span:   Span{LineIndex: index, ByteStart: w.start, ByteEnd: w.end},
			Symbol: sym,
			Err:    err,
		})
	}

	ratio := float64(valid) / float64(len(words))
	if ratio >= chordLineThreshold {
		return Line{Kind: ChordLine, Raw: raw, Span: Span{LineIndex: index, ByteEnd: len(raw)}, Comment: comment, ChordTokens: tokens}
	}
	return Line{Kind: LyricLine, Raw: raw, Span: Span{LineIndex: index, ByteEnd: len(raw)}, Comment: comment}
}

type wordSpan struct {
	text  string
	start int
	end   int
}

// fieldsWithOffsets is strings.Fields that also records each field's byte
// offsets in s, needed for click/highlight spans.
func fieldsWithOffsets(s string) []wordSpan {
	var words []wordSpan
	inWord := false
	start := 0
	for i, r := range s {
		isSpace := r == ' ' || r == '\t'
		if !isSpace && !inWord {
			inWord = true
			start = i
		} else if isSpace && inWord {
			inWord = false
			words = append(words, wordSpan{text: s[start:i], start: start, end: i})
		}
	}
	if inWord {
		words = append(words, wordSpan{text: s[start:], start: start, end: len(s)})
	}
	return words
}

// LineAt returns the index of the label in the program, or false if the
// label has not been defined.
func (p Program) LineAt(label string) (int, bool) {
	idx, ok := p.Labels[label]
	return idx, ok
}
