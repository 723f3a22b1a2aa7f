// Package synth defines the narrow sink interface the scheduler drains the
// event buffer into, along with two concrete sinks: a live MIDI-out port
// and a FluidSynth subprocess driven over its stdin shell protocol.
package synth

import "errors"

// ErrUnavailable is returned by a sink constructor when the underlying
// device or subprocess could not be reached, so callers can fall back to a
// silent sink rather than failing playback outright.
var ErrUnavailable = errors.New("synth: sink unavailable")

// Sink is the interface the scheduler writes MIDI instructions through.
// The scheduler calls it only from its single sink-writer goroutine; no
// concurrent-call guarantee is made or needed.
type Sink interface {
	NoteOn(channel, pitch, velocity uint8) error
	NoteOff(channel, pitch uint8) error
	AllNotesOff(channel uint8) error
	ProgramChange(channel, program uint8) error
	Close() error
}
