// Package scheduler walks a PlaybackPlan against a wall clock, voicing each
// chord and emitting timed note-on/note-off events through an EventBuffer
// into a SynthSink. It runs on a single dedicated worker goroutine for
// deterministic ordering; callers communicate exclusively through a
// thread-safe command channel, mirroring the UI-thread/scheduler-thread
// split the rest of the engine assumes.
package scheduler

import (
	"sync"
	"time"

	"chordsheet-engine/internal/chord"
	"chordsheet-engine/internal/eventbuffer"
	"chordsheet-engine/internal/notation"
	"chordsheet-engine/internal/plan"
	"chordsheet-engine/internal/song"
	"chordsheet-engine/internal/synth"
	"chordsheet-engine/internal/voicing"
)

// State is the playback state machine.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// VoicingKind selects which engine voices each resolved chord.
type VoicingKind int

const (
	Piano VoicingKind = iota
	Guitar
)

// pitchedChannel is the MIDI channel pitched playback uses; channel 9 is
// reserved for a future metronome/percussion track.
const pitchedChannel uint8 = 0

// tickInterval bounds how often the worker samples its virtual clock,
// comfortably inside the 10ms cancellation budget.
const tickInterval = 5 * time.Millisecond

// Snapshot is a read-only view of engine state published after every
// transition, for the UI to render without touching scheduler internals.
type Snapshot struct {
	State     State
	Step      int
	BPM       float64
	TimeSig   TimeSig
	Key       notation.Key
	ChordName string
	Span      *song.Span
}

// TimeSig is the time signature carried on a Snapshot.
type TimeSig struct {
	Num  int
	Unit int
}

// Config configures how the engine voices chords.
type Config struct {
	Voicing VoicingKind
	Tuning  []int // guitar only; nil uses standard tuning
	Capo    int   // guitar only
}

// Engine owns PlayerState and drains commands in FIFO order from a single
// worker goroutine.
type Engine struct {
	sink   synth.Sink
	buffer *eventbuffer.Buffer
	cfg    Config

	onHighlight   func(*song.Span)
	onStateChange func(Snapshot)

	cmds chan command
	done chan struct{}

	mu           sync.Mutex
	lastSnapshot Snapshot

	// worker-goroutine-owned state; never touched outside run().
	state         State
	p             plan.PlaybackPlan
	cursor        int
	initialBPM    float64
	currentBPM    float64
	currentTime   plan.Context
	previousVoiced *voicing.Voiced
	activePitches map[int]bool

	stepStart    time.Time
	stepDuration time.Duration
	remaining    time.Duration
	stepChord    chord.Symbol
}

// New creates an Engine writing through sink, backed by a bounded event
// buffer of the given capacity. onHighlight and onStateChange may be nil.
func New(sink synth.Sink, bufferCapacity int, cfg Config, onHighlight func(*song.Span), onStateChange func(Snapshot)) *Engine {
	e := &Engine{
		sink:          sink,
		buffer:        eventbuffer.New(bufferCapacity),
		cfg:           cfg,
		onHighlight:   onHighlight,
		onStateChange: onStateChange,
		cmds:          make(chan command, 32),
		done:          make(chan struct{}),
		activePitches: map[int]bool{},
	}
	go e.drainBuffer()
	go e.run()
	return e
}

// drainBuffer is the sink-writer goroutine: it pulls queued events off the
// buffer and issues them to the sink, decoupling the worker's timing loop
// from the sink's call latency.
func (e *Engine) drainBuffer() {
	for {
		ev, ok := e.buffer.Pop()
		if !ok {
			return
		}
		switch ev.Kind {
		case eventbuffer.NoteOn:
			e.sink.NoteOn(ev.Channel, ev.Pitch, ev.Velocity)
		case eventbuffer.NoteOff:
			e.sink.NoteOff(ev.Channel, ev.Pitch)
		case eventbuffer.AllNotesOff:
			e.sink.AllNotesOff(ev.Channel)
		case eventbuffer.ProgramSelect:
			e.sink.ProgramChange(ev.Channel, ev.Program)
		}
	}
}

// Close stops the worker and sink-writer goroutines and closes the sink.
func (e *Engine) Close() {
	close(e.cmds)
	<-e.done
	e.buffer.Close()
	e.sink.Close()
}

type commandKind int

const (
	cmdStart commandKind = iota
	cmdPause
	cmdResume
	cmdStop
	cmdPlaySingle
	cmdSetInitialTempo
)

type command struct {
	kind commandKind

	plan  plan.PlaybackPlan
	step  int
	bpm   float64
	chord chord.Symbol
	beats float64
	span  *song.Span
}

// Start rebuilds playback from p beginning at startStep.
func (e *Engine) Start(p plan.PlaybackPlan, startStep int) {
	e.cmds <- command{kind: cmdStart, plan: p, step: startStep}
}

// Pause freezes the current step's remaining duration and releases sound.
func (e *Engine) Pause() { e.cmds <- command{kind: cmdPause} }

// Resume re-attacks the current step's voicing and continues its remaining
// duration.
func (e *Engine) Resume() { e.cmds <- command{kind: cmdResume} }

// Stop releases all sound, resets the cursor, and returns to Stopped.
func (e *Engine) Stop() { e.cmds <- command{kind: cmdStop} }

// SetInitialTempo overrides the tempo baseline used for percent/multiplier/
// reset tempo expressions. The next Start replaces it with the plan's
// InitialTempo.
func (e *Engine) SetInitialTempo(bpm float64) {
	e.cmds <- command{kind: cmdSetInitialTempo, bpm: bpm}
}

// PlaySingle plays one resolved chord in the foreground, independent of the
// current plan cursor, using the engine's current voicing state for
// voice-leading continuity. beats is not used: the chord has no timed
// release and sounds until the next PlaySingle, Play step, or Stop.
func (e *Engine) PlaySingle(sym chord.Symbol, beats float64, span *song.Span) {
	e.cmds <- command{kind: cmdPlaySingle, chord: sym, beats: beats, span: span}
}

// Snapshot returns the most recently published state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSnapshot
}

func (e *Engine) run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	defer close(e.done)

	for {
		select {
		case cmd, ok := <-e.cmds:
			if !ok {
				e.releaseAll()
				return
			}
			e.handle(cmd)
		case <-ticker.C:
			if e.state == Playing {
				e.tick()
			}
		}
	}
}

func (e *Engine) handle(cmd command) {
	switch cmd.kind {
	case cmdStart:
		e.doStart(cmd.plan, cmd.step)
	case cmdPause:
		e.doPause()
	case cmdResume:
		e.doResume()
	case cmdStop:
		e.doStop()
	case cmdSetInitialTempo:
		e.initialBPM = cmd.bpm
		if e.state == Stopped {
			e.currentBPM = cmd.bpm
		}
	case cmdPlaySingle:
		e.doPlaySingle(cmd.chord, cmd.beats, cmd.span)
	}
}

func (e *Engine) doStart(p plan.PlaybackPlan, startStep int) {
	e.p = p
	e.cursor = startStep
	e.initialBPM = p.InitialTempo
	e.currentBPM = p.InitialTempo
	e.currentTime = plan.Context{BPM: p.InitialTempo, TimeSig: p.InitialTime, Key: p.InitialKey}
	e.state = Playing
	e.advance()
}

// advance processes ContextChange steps instantly, then begins timing the
// next Play step it finds (or stops if the plan has run out).
func (e *Engine) advance() {
	for e.cursor < len(e.p.Steps) {
		step := e.p.Steps[e.cursor]
		if step.Kind == plan.ContextChange {
			e.applyContextChange(step)
			e.cursor++
			continue
		}
		e.beginPlayStep(step)
		return
	}
	e.finishPlan()
}

func (e *Engine) applyContextChange(step plan.Step) {
	if step.HasTempo {
		e.currentBPM = step.Tempo.Apply(e.initialBPM, e.currentBPM)
	}
	if step.HasTimeSig {
		e.currentTime.TimeSig = step.TimeSig
	}
	if step.HasKey {
		e.currentTime.Key = step.Key
	}
}

func (e *Engine) beginPlayStep(step plan.Step) {
	bpm := e.currentBPM
	if bpm <= 0 {
		bpm = 120
	}
	secondsPerBeat := 60 / bpm
	beats, _ := step.Beats.Float64()
	duration := time.Duration(beats * secondsPerBeat * float64(time.Second))

	e.playVoicing(step.Chord, &step.Span)

	e.stepStart = time.Now()
	e.stepDuration = duration
	e.stepChord = step.Chord
	e.publish()
}

// playVoicing releases pitches no longer needed, voices sym, and emits
// note_on for whatever is newly required, then invokes the highlight
// callback. previousVoiced is updated on return; a rest leaves whatever is
// currently sounding untouched instead of voicing anything new.
func (e *Engine) playVoicing(sym chord.Symbol, span *song.Span) {
	if sym.Rest {
		if e.onHighlight != nil {
			e.onHighlight(span)
		}
		return
	}

	var v voicing.Voiced
	if e.cfg.Voicing == Guitar {
		v = voicing.VoiceGuitar(sym, e.cfg.Tuning, e.cfg.Capo, e.previousVoiced)
	} else {
		v = voicing.VoicePiano(sym, e.previousVoiced)
	}

	newSet := map[int]bool{}
	for _, n := range v.Notes {
		newSet[n] = true
	}
	newSet[v.Bass] = true

	for p := range e.activePitches {
		if !newSet[p] {
			e.buffer.Push(eventbuffer.Event{Kind: eventbuffer.NoteOff, Channel: pitchedChannel, Pitch: uint8(p)})
			delete(e.activePitches, p)
		}
	}
	if !e.activePitches[v.Bass] {
		e.buffer.Push(eventbuffer.Event{Kind: eventbuffer.NoteOn, Channel: pitchedChannel, Pitch: uint8(v.Bass), Velocity: 110})
		e.activePitches[v.Bass] = true
	}
	for i, n := range v.Notes {
		if !e.activePitches[n] {
			e.buffer.Push(eventbuffer.Event{Kind: eventbuffer.NoteOn, Channel: pitchedChannel, Pitch: uint8(n), Velocity: uint8(v.Velocities[i])})
			e.activePitches[n] = true
		}
	}

	e.previousVoiced = &v
	if e.onHighlight != nil {
		e.onHighlight(span)
	}
}

func (e *Engine) tick() {
	if time.Since(e.stepStart) < e.stepDuration {
		return
	}
	e.cursor++
	e.advance()
}

func (e *Engine) finishPlan() {
	e.releaseAll()
	e.state = Stopped
	if e.onHighlight != nil {
		e.onHighlight(nil)
	}
	e.publish()
}

func (e *Engine) doPause() {
	if e.state != Playing {
		return
	}
	elapsed := time.Since(e.stepStart)
	e.remaining = e.stepDuration - elapsed
	if e.remaining < 0 {
		e.remaining = 0
	}
	e.releaseAll()
	e.state = Paused
	e.publish()
}

func (e *Engine) doResume() {
	if e.state != Paused {
		return
	}
	e.state = Playing
	e.playVoicing(e.stepChord, nil)
	e.stepStart = time.Now()
	e.stepDuration = e.remaining
	e.publish()
}

func (e *Engine) doStop() {
	e.releaseAll()
	e.state = Stopped
	e.cursor = 0
	e.previousVoiced = nil
	if e.onHighlight != nil {
		e.onHighlight(nil)
	}
	e.publish()
}

// doPlaySingle plays sym immediately regardless of the current state,
// independent of the plan cursor. beats is accepted for API symmetry with
// PlaySingle's public signature but, like a Play step, the voicing it
// produces is only released by the next PlaySingle, the next Play step, or
// Stop.
func (e *Engine) doPlaySingle(sym chord.Symbol, beats float64, span *song.Span) {
	e.playVoicing(sym, span)
}

// releaseAll sends all_notes_off and clears locally tracked active pitches.
func (e *Engine) releaseAll() {
	e.buffer.Push(eventbuffer.Event{Kind: eventbuffer.AllNotesOff, Channel: pitchedChannel})
	e.activePitches = map[int]bool{}
}

func (e *Engine) publish() {
	snap := Snapshot{
		State:     e.state,
		Step:      e.cursor,
		BPM:       e.currentBPM,
		TimeSig:   TimeSig{Num: e.currentTime.TimeSig.Num, Unit: e.currentTime.TimeSig.Unit},
		Key:       e.currentTime.Key,
		ChordName: e.stepChord.String(),
	}
	e.mu.Lock()
	e.lastSnapshot = snap
	e.mu.Unlock()
	if e.onStateChange != nil {
		e.onStateChange(snap)
	}
}
