// Package interactor maps editor actions (a click on a chord, a
// play-from-cursor request) onto scheduler commands, resolving spans
// against the current SongProgram and PlaybackPlan by linear search.
package interactor

import (
	"chordsheet-engine/internal/directive"
	"chordsheet-engine/internal/notation"
	"chordsheet-engine/internal/plan"
	"chordsheet-engine/internal/scheduler"
	"chordsheet-engine/internal/song"
)

// Interactor bridges editor gestures to the scheduler, owning the current
// document, key, and build inputs needed to rebuild a plan on demand.
type Interactor struct {
	engine *scheduler.Engine

	prog song.Program
	ctx  plan.Context
}

// New creates an Interactor over engine, starting from prog with the given
// initial tempo/time-signature/key context.
func New(engine *scheduler.Engine, prog song.Program, ctx plan.Context) *Interactor {
	return &Interactor{engine: engine, prog: prog, ctx: ctx}
}

// SetProgram replaces the backing document, e.g. after an edit.
func (it *Interactor) SetProgram(prog song.Program) {
	it.prog = prog
}

// PlayChordAt looks up the chord token at span, resolves it against the
// active key, and issues a foreground PlaySingle. It returns false if span
// does not land on a valid chord token.
func (it *Interactor) PlayChordAt(span song.Span) bool {
	tok, ok := it.findChordToken(span)
	if !ok || !tok.Valid() {
		return false
	}

	sym := tok.Symbol
	if sym.IsRoman() {
		resolved, err := notation.ResolveRoman(sym, it.ctx.Key)
		if err != nil {
			return false
		}
		sym = resolved
	}

	beats := 0.0
	if sym.Beats != nil {
		beats, _ = sym.Beats.Float64()
	}
	s := tok.Span
	it.engine.PlaySingle(sym, beats, &s)
	return true
}

// findChordToken performs a linear search over the line's tokens: sufficient
// at the document sizes this engine targets, and simple enough to stay
// correct as spans shift under edits.
func (it *Interactor) findChordToken(span song.Span) (song.ChordToken, bool) {
	if span.LineIndex < 0 || span.LineIndex >= len(it.prog.Lines) {
		return song.ChordToken{}, false
	}
	line := it.prog.Lines[span.LineIndex]
	for _, tok := range line.ChordTokens {
		if span.ByteStart >= tok.Span.ByteStart && span.ByteStart < tok.Span.ByteEnd {
			return tok, true
		}
	}
	return song.ChordToken{}, false
}

// StartFrom builds a PlaybackPlan from cursorLine to the end of the
// document and issues Start. The walk's initial tempo/time/key context is
// captured from directives encountered before cursorLine, falling back to
// it.ctx when the document never sets them.
func (it *Interactor) StartFrom(cursorLine int) {
	initial := it.contextBefore(cursorLine)
	p := plan.Build(it.prog, cursorLine, initial)
	it.engine.Start(p, 0)
}

// Start is StartFrom(@start).
func (it *Interactor) Start() {
	it.StartFrom(0)
}

// contextBefore replays the directives on lines [0, cursorLine) to recover
// the tempo/time/key state that would be active at cursorLine, matching
// step 1 of the PlaybackPlan build ("directive effects encountered before
// the start position").
func (it *Interactor) contextBefore(cursorLine int) plan.Context {
	ctx := it.ctx
	for i := 0; i < cursorLine && i < len(it.prog.Lines); i++ {
		line := it.prog.Lines[i]
		if line.Kind != song.DirectiveLine {
			continue
		}
		for _, dt := range line.DirectiveTokens {
			if !dt.Directive.Valid {
				continue
			}
			switch dt.Directive.Kind {
			case directive.Tempo:
				ctx.BPM = dt.Directive.Tempo.Apply(ctx.BPM, ctx.BPM)
			case directive.TimeSig:
				ctx.TimeSig = dt.Directive.TimeSig
			case directive.KeyDirective:
				mode := notation.Major
				if dt.Directive.Key.Minor {
					mode = notation.Minor
				}
				ctx.Key = notation.Key{Root: dt.Directive.Key.Root, Mode: mode}
			}
		}
	}
	return ctx
}
