// Package plan flattens a parsed song.Program into a PlaybackPlan: a linear
// sequence of Play and ContextChange steps with loops and labels already
// unrolled, ready for the scheduler to walk without re-consulting the
// source document.
package plan

import (
	"math/big"

	"chordsheet-engine/internal/chord"
	"chordsheet-engine/internal/directive"
	"chordsheet-engine/internal/notation"
	"chordsheet-engine/internal/song"
)

// StepKind distinguishes the two PlanStep shapes.
type StepKind int

const (
	Play StepKind = iota
	ContextChange
)

// Step is one entry of a PlaybackPlan.
type Step struct {
	Kind StepKind

	// Play fields.
	Chord chord.Symbol
	Beats *big.Rat
	Span  song.Span

	// ContextChange fields; a field is left at its zero value when the
	// originating directive did not touch it. HasX flags distinguish "not
	// present" from "explicitly set to zero".
	HasTempo   bool
	Tempo      directive.TempoExpr
	HasTimeSig bool
	TimeSig    directive.TimeSigValue
	HasKey     bool
	Key        notation.Key
	HasScale   bool
	ScaleStyle string
}

// Context is the tempo/time-signature/key state in effect at some point in
// the walk; snapshots of it are what a Label directive records and what a
// Loop restores.
type Context struct {
	BPM        float64
	TimeSig    directive.TimeSigValue
	Key        notation.Key
	ScaleStyle string // supplemental {scale:<style>} value, e.g. "jazz"; empty if unset
}

// PlaybackPlan is the flattened, loop-unrolled program the scheduler walks.
type PlaybackPlan struct {
	Steps        []Step
	InitialTempo float64
	InitialTime  directive.TimeSigValue
	InitialKey   notation.Key
}

const defaultMaxLoopDepth = 8

// Build flattens prog into a PlaybackPlan starting at startLine, beginning
// from initial. Lines before startLine are not walked, so labels there
// record no snapshot; a loop whose target label precedes startLine still
// replays from that label's line, starting from the context current at the
// loop directive.
func Build(prog song.Program, startLine int, initial Context) PlaybackPlan {
	b := &builder{
		prog:       prog,
		ctx:        initial,
		initialBPM: initial.BPM,
		snapshots:  map[string]Context{"@start": initial},
	}
	plan := PlaybackPlan{InitialTempo: initial.BPM, InitialTime: initial.TimeSig, InitialKey: initial.Key}
	b.walk(startLine, len(prog.Lines), 0)
	plan.Steps = b.steps
	return plan
}

type builder struct {
	prog       song.Program
	ctx        Context
	initialBPM float64
	snapshots  map[string]Context
	steps      []Step
}

// walk appends steps for lines [from, to) of prog, honoring label snapshots
// and loop directives as it goes. depth bounds loop nesting so a malformed
// or self-referential loop chain cannot recurse forever.
func (b *builder) walk(from, to, depth int) {
	if depth > defaultMaxLoopDepth {
		return
	}
	for i := from; i < to && i < len(b.prog.Lines); i++ {
		line := b.prog.Lines[i]
		switch line.Kind {
		case song.ChordLine:
			for _, tok := range line.ChordTokens {
				b.emitChord(tok)
			}
		case song.DirectiveLine:
			for _, dt := range line.DirectiveTokens {
				b.applyDirective(dt, i, depth)
			}
		}
	}
}

func (b *builder) emitChord(tok song.ChordToken) {
	sym := tok.Symbol
	beats := sym.Beats
	if beats == nil {
		beats = big.NewRat(int64(b.ctx.TimeSig.Num), 1)
	}

	resolved := sym
	if sym.IsRoman() {
		if r, err := notation.ResolveRoman(sym, b.ctx.Key); err == nil {
			resolved = r
		} else {
			resolved = chord.Symbol{Rest: true, Beats: beats}
		}
	}

	b.steps = append(b.steps, Step{
		Kind:  Play,
		Chord: resolved,
		Beats: beats,
		Span:  tok.Span,
	})
}

func (b *builder) applyDirective(dt song.DirectiveToken, lineIndex, depth int) {
	d := dt.Directive
	if !d.Valid {
		return
	}
	switch d.Kind {
	case directive.Tempo:
		b.ctx.BPM = d.Tempo.Apply(b.initialBPM, b.ctx.BPM)
		b.steps = append(b.steps, Step{Kind: ContextChange, HasTempo: true, Tempo: d.Tempo, Span: dt.Span})

	case directive.TimeSig:
		b.ctx.TimeSig = d.TimeSig
		b.steps = append(b.steps, Step{Kind: ContextChange, HasTimeSig: true, TimeSig: d.TimeSig, Span: dt.Span})

	case directive.KeyDirective:
		mode := notation.Major
		if d.Key.Minor {
			mode = notation.Minor
		}
		key := notation.Key{Root: d.Key.Root, Mode: mode}
		b.ctx.Key = key
		b.steps = append(b.steps, Step{Kind: ContextChange, HasKey: true, Key: key, Span: dt.Span})

	case directive.Scale:
		b.ctx.ScaleStyle = d.Scale
		b.steps = append(b.steps, Step{Kind: ContextChange, HasScale: true, ScaleStyle: d.Scale, Span: dt.Span})

	case directive.Label:
		b.snapshots[d.Label] = b.ctx

	case directive.Loop:
		b.runLoop(d.Loop, lineIndex, depth)
	}
}

// runLoop restores the context snapshot captured at the loop's target label
// (emitting it as a ContextChange step so the scheduler restores it too),
// then replays steps from the target line up to (but not including) the
// loop directive's own line. count is the total number of times the
// section plays, including the pass that already played on the way to the
// loop directive — so the loop itself only replays count-1 more times.
func (b *builder) runLoop(lv directive.LoopValue, loopLine, depth int) {
	targetLine, ok := b.prog.LineAt(lv.Target)
	if !ok || targetLine > loopLine {
		return
	}
	snap, ok := b.snapshots[lv.Target]
	if !ok {
		snap = b.ctx
	}
	for n := 0; n < lv.Count-1; n++ {
		b.ctx = snap
		b.steps = append(b.steps, Step{
			Kind:       ContextChange,
			HasTempo:   true,
			Tempo:      directive.TempoExpr{Op: directive.TempoAbsolute, Value: snap.BPM},
			HasTimeSig: true,
			TimeSig:    snap.TimeSig,
			HasKey:     true,
			Key:        snap.Key,
		})
		b.walk(targetLine, loopLine, depth+1)
	}
}
