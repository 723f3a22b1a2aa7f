package scheduler

import (
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chordsheet-engine/internal/chord"
	"chordsheet-engine/internal/directive"
	"chordsheet-engine/internal/notation"
	"chordsheet-engine/internal/plan"
	"chordsheet-engine/internal/song"
)

type recordedEvent struct {
	kind     string
	channel  uint8
	pitch    uint8
	velocity uint8
}

type recordingSink struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingSink) record(kind string, channel, pitch, velocity uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{kind, channel, pitch, velocity})
}

func (r *recordingSink) NoteOn(channel, pitch, velocity uint8) error {
	r.record("on", channel, pitch, velocity)
	return nil
}
func (r *recordingSink) NoteOff(channel, pitch uint8) error {
	r.record("off", channel, pitch, 0)
	return nil
}
func (r *recordingSink) AllNotesOff(channel uint8) error {
	r.record("allOff", channel, 0, 0)
	return nil
}
func (r *recordingSink) ProgramChange(channel, program uint8) error {
	r.record("prog", channel, program, 0)
	return nil
}
func (r *recordingSink) Close() error { return nil }

func (r *recordingSink) snapshot() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recordedEvent, len(r.events))
	copy(out, r.events)
	return out
}

func mustParse(t *testing.T, token string) chord.Symbol {
	t.Helper()
	sym, err := chord.Parse(token)
	require.NoError(t, err)
	return sym
}

func fastPlan(t *testing.T, chords ...string) plan.PlaybackPlan {
	t.Helper()
	p := plan.PlaybackPlan{
		InitialTempo: 12000, // absurdly fast so beats resolve in a few ms
		InitialTime:  directive.TimeSigValue{Num: 4, Unit: 4},
		InitialKey:   notation.Key{Mode: notation.Major},
	}
	for _, c := range chords {
		sym := mustParse(t, c)
		sym.Beats = big.NewRat(1, 1)
		p.Steps = append(p.Steps, plan.Step{Kind: plan.Play, Chord: sym, Beats: sym.Beats})
	}
	return p
}

func TestEngineStartPlaysFirstStepImmediately(t *testing.T) {
	sink := &recordingSink{}
	e := New(sink, 64, Config{Voicing: Piano}, nil, nil)
	defer e.Close()

	p := fastPlan(t, "C", "G")
	e.Start(p, 0)

	require.Eventually(t, func() bool {
		for _, ev := range sink.snapshot() {
			if ev.kind == "on" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
}

func TestEngineAdvancesThroughAllSteps(t *testing.T) {
	sink := &recordingSink{}
	e := New(sink, 64, Config{Voicing: Piano}, nil, nil)
	defer e.Close()

	p := fastPlan(t, "C", "G", "Am")
	e.Start(p, 0)

	require.Eventually(t, func() bool {
		return e.Snapshot().State == Stopped
	}, 2*time.Second, 2*time.Millisecond)
}

func TestEngineStopEmitsAllNotesOff(t *testing.T) {
	sink := &recordingSink{}
	e := New(sink, 64, Config{Voicing: Piano}, nil, nil)
	defer e.Close()

	p := fastPlan(t, "C")
	e.Start(p, 0)
	time.Sleep(5 * time.Millisecond)
	e.Stop()

	require.Eventually(t, func() bool {
		for _, ev := range sink.snapshot() {
			if ev.kind == "allOff" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
	assert.Equal(t, Stopped, e.Snapshot().State)
}

func TestEnginePauseReleasesAndResumeReattacks(t *testing.T) {
	sink := &recordingSink{}
	p := plan.PlaybackPlan{
		InitialTempo: 20, // slow enough that pause lands mid-step
		InitialTime:  directive.TimeSigValue{Num: 4, Unit: 4},
	}
	sym := mustParse(t, "C")
	sym.Beats = big.NewRat(4, 1)
	p.Steps = []plan.Step{{Kind: plan.Play, Chord: sym, Beats: sym.Beats}}

	e := New(sink, 64, Config{Voicing: Piano}, nil, nil)
	defer e.Close()

	e.Start(p, 0)
	time.Sleep(20 * time.Millisecond)
	e.Pause()
	require.Eventually(t, func() bool { return e.Snapshot().State == Paused }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		for _, ev := range sink.snapshot() {
			if ev.kind == "allOff" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)

	e.Resume()
	require.Eventually(t, func() bool { return e.Snapshot().State == Playing }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		released := false
		for _, ev := range sink.snapshot() {
			if ev.kind == "allOff" {
				released = true
			}
			if released && ev.kind == "on" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
}

func TestEngineHighlightCallbackFiresPerStep(t *testing.T) {
	sink := &recordingSink{}
	var mu sync.Mutex
	var spans []*song.Span
	onHighlight := func(s *song.Span) {
		mu.Lock()
		defer mu.Unlock()
		spans = append(spans, s)
	}

	e := New(sink, 64, Config{Voicing: Piano}, onHighlight, nil)
	defer e.Close()

	p := fastPlan(t, "C", "G")
	e.Start(p, 0)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(spans) >= 2
	}, time.Second, time.Millisecond)
}

func TestEnginePlaySingleDoesNotDisturbStoppedState(t *testing.T) {
	sink := &recordingSink{}
	e := New(sink, 64, Config{Voicing: Piano}, nil, nil)
	defer e.Close()

	e.PlaySingle(mustParse(t, "C"), 0, nil)

	require.Eventually(t, func() bool {
		for _, ev := range sink.snapshot() {
			if ev.kind == "on" {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
	assert.Equal(t, Stopped, e.Snapshot().State)
}
