package synth

import (
	"fmt"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// MIDIOutSink drives a live MIDI-out port via raw channel-voice messages.
type MIDIOutSink struct {
	mu  sync.Mutex
	out drivers.Out
}

// OpenMIDIOut opens the named MIDI-out port, or the first available port
// when name is empty. It returns ErrUnavailable wrapped with the underlying
// cause when no matching port can be opened.
func OpenMIDIOut(name string) (*MIDIOutSink, error) {
	var out drivers.Out
	var err error
	if name == "" {
		ports := midi.GetOutPorts()
		if len(ports) == 0 {
			return nil, fmt.Errorf("%w: no MIDI output ports found", ErrUnavailable)
		}
		out = ports[0]
	} else {
		out, err = midi.FindOutPort(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
		}
	}
	if err := out.Open(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return &MIDIOutSink{out: out}, nil
}

func (s *MIDIOutSink) NoteOn(channel, pitch, velocity uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Send([]byte{0x90 | (channel & 0x0f), pitch, velocity})
}

func (s *MIDIOutSink) NoteOff(channel, pitch uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Send([]byte{0x80 | (channel & 0x0f), pitch, 0})
}

func (s *MIDIOutSink) AllNotesOff(channel uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Send([]byte{0xb0 | (channel & 0x0f), 123, 0})
}

func (s *MIDIOutSink) ProgramChange(channel, program uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Send([]byte{0xc0 | (channel & 0x0f), program})
}

func (s *MIDIOutSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Close()
}
