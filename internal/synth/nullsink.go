package synth

// NullSink discards every instruction. Used when no audio backend is
// available so playback can still run (and drive the highlight callback)
// silently rather than failing outright.
type NullSink struct{}

func (NullSink) NoteOn(channel, pitch, velocity uint8) error { return nil }
func (NullSink) NoteOff(channel, pitch uint8) error          { return nil }
func (NullSink) AllNotesOff(channel uint8) error             { return nil }
func (NullSink) ProgramChange(channel, program uint8) error  { return nil }
func (NullSink) Close() error                                { return nil }
