package interactor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chordsheet-engine/internal/config"
	"chordsheet-engine/internal/directive"
	"chordsheet-engine/internal/notation"
	"chordsheet-engine/internal/plan"
	"chordsheet-engine/internal/scheduler"
	"chordsheet-engine/internal/song"
	"chordsheet-engine/internal/synth"
)

type fakeSink struct {
	mu  sync.Mutex
	ons int
}

func (f *fakeSink) NoteOn(channel, pitch, velocity uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ons++
	return nil
}
func (f *fakeSink) NoteOff(channel, pitch uint8) error         { return nil }
func (f *fakeSink) AllNotesOff(channel uint8) error            { return nil }
func (f *fakeSink) ProgramChange(channel, program uint8) error { return nil }
func (f *fakeSink) Close() error                               { return nil }

func (f *fakeSink) noteOnCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ons
}

func baseContext() plan.Context {
	return plan.Context{BPM: 120, TimeSig: directive.TimeSigValue{Num: 4, Unit: 4}, Key: notation.Key{Mode: notation.Major}}
}

func TestPlayChordAtValidSpanFires(t *testing.T) {
	sink := &fakeSink{}
	engine := scheduler.New(sink, 64, scheduler.Config{Voicing: scheduler.Piano}, nil, nil)
	defer engine.Close()

	prog := song.Parse("C  G  Am  F")
	it := New(engine, prog, baseContext())

	ok := it.PlayChordAt(prog.Lines[0].ChordTokens[0].Span)
	require.True(t, ok)

	require.Eventually(t, func() bool { return sink.noteOnCount() > 0 }, time.Second, time.Millisecond)
}

func TestPlayChordAtInvalidSpanFails(t *testing.T) {
	sink := &fakeSink{}
	engine := scheduler.New(sink, 64, scheduler.Config{Voicing: scheduler.Piano}, nil, nil)
	defer engine.Close()

	prog := song.Parse("Hello darkness my old friend")
	it := New(engine, prog, baseContext())

	ok := it.PlayChordAt(song.Span{LineIndex: 0, ByteStart: 0, ByteEnd: 1})
	assert.False(t, ok)
}

func TestContextBeforeCapturesPrecedingDirectives(t *testing.T) {
	sink := &fakeSink{}
	engine := scheduler.New(sink, 64, scheduler.Config{Voicing: scheduler.Piano}, nil, nil)
	defer engine.Close()

	prog := song.Parse("{bpm:90}\n{time:3/4}\nC\nG")
	it := New(engine, prog, baseContext())

	ctx := it.contextBefore(2)
	assert.Equal(t, 90.0, ctx.BPM)
	assert.Equal(t, 3, ctx.TimeSig.Num)
}

func TestStartFromBuildsPlanFromCursor(t *testing.T) {
	sink := &fakeSink{}
	engine := scheduler.New(sink, 64, scheduler.Config{Voicing: scheduler.Piano}, nil, nil)
	defer engine.Close()

	prog := song.Parse("C\nG\n{label:chorus}\nAm\nF")
	idx, ok := prog.LineAt("chorus")
	require.True(t, ok)

	it := New(engine, prog, baseContext())
	it.StartFrom(idx)

	require.Eventually(t, func() bool { return sink.noteOnCount() > 0 }, time.Second, time.Millisecond)
}

func TestConfigDefaultFeedsInteractorContext(t *testing.T) {
	cfg := config.Default()
	ctx := plan.Context{BPM: cfg.InitialBPM, TimeSig: directive.TimeSigValue{Num: 4, Unit: 4}}
	assert.Equal(t, 120.0, New(nil, song.Program{}, ctx).contextBefore(0).BPM)
}
