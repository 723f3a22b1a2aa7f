package synth

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// FluidSynthSink drives an interactive FluidSynth subprocess over its
// stdin shell protocol ("noteon", "noteoff", "prog", "cc").
type FluidSynthSink struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// NewFluidSynthSink launches fluidsynth in server mode against soundFont.
// It returns ErrUnavailable if the fluidsynth binary is not on PATH or
// fails to start.
func NewFluidSynthSink(soundFont string) (*FluidSynthSink, error) {
	if _, err := exec.LookPath("fluidsynth"); err != nil {
		return nil, fmt.Errorf("%w: fluidsynth not found on PATH", ErrUnavailable)
	}

	cmd := exec.Command("fluidsynth",
		"-a", "pulseaudio",
		"-q",
		"-s",
		"-g", "1.0",
		soundFont,
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	// FluidSynth's server shell needs a moment to come up before it will
	// accept commands on stdin.
	time.Sleep(200 * time.Millisecond)

	return &FluidSynthSink{cmd: cmd, stdin: stdin}, nil
}

func (s *FluidSynthSink) send(line string) error {
	_, err := fmt.Fprintf(s.stdin, "%s\n", line)
	return err
}

func (s *FluidSynthSink) NoteOn(channel, pitch, velocity uint8) error {
	return s.send(fmt.Sprintf("noteon %d %d %d", channel, pitch, velocity))
}

func (s *FluidSynthSink) NoteOff(channel, pitch uint8) error {
	return s.send(fmt.Sprintf("noteoff %d %d", channel, pitch))
}

func (s *FluidSynthSink) AllNotesOff(channel uint8) error {
	return s.send(fmt.Sprintf("cc %d 123 0", channel))
}

func (s *FluidSynthSink) ProgramChange(channel, program uint8) error {
	return s.send(fmt.Sprintf("prog %d %d", channel, program))
}

func (s *FluidSynthSink) Close() error {
	s.stdin.Close()
	return s.cmd.Process.Kill()
}

// systemSoundFontLocations lists the well-known Linux soundfont paths
// checked when no local or custom one is found.
var systemSoundFontLocations = []string{
	"/usr/share/sounds/sf2/FluidR3_GM.sf2",
	"/usr/share/sounds/sf2/default.sf2",
	"/usr/share/soundfonts/FluidR3_GM.sf2",
	"/usr/share/soundfonts/default.sf2",
	"/usr/share/soundfonts/default-GM.sf2",
	"/usr/share/sounds/sf2/TimGM6mb.sf2",
}

// FindSoundFont locates a .sf2 file to pass to NewFluidSynthSink: customPath
// if set, else the project-local ./soundfonts directory, else the user's
// and system's well-known soundfont locations.
func FindSoundFont(customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		return "", fmt.Errorf("soundfont not found: %s", customPath)
	}

	if matches, _ := filepath.Glob("./soundfonts/*.sf2"); len(matches) > 0 {
		return matches[0], nil
	}

	home, _ := os.UserHomeDir()
	for _, dir := range []string{
		filepath.Join(home, ".local/share/soundfonts"),
		filepath.Join(home, "soundfonts"),
	} {
		if matches, _ := filepath.Glob(filepath.Join(dir, "*.sf2")); len(matches) > 0 {
			return matches[0], nil
		}
	}

	for _, loc := range systemSoundFontLocations {
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}

	return "", fmt.Errorf("no soundfont found")
}

// ListSoundFonts returns every .sf2 file discoverable in the project-local
// directory, the user's soundfont directories, and system locations.
func ListSoundFonts() []string {
	var found []string
	seen := map[string]bool{}

	add := func(matches []string) {
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				found = append(found, m)
			}
		}
	}

	local, _ := filepath.Glob("./soundfonts/*.sf2")
	add(local)

	for _, loc := range systemSoundFontLocations {
		if _, err := os.Stat(loc); err == nil {
			add([]string{loc})
		}
	}

	home, _ := os.UserHomeDir()
	patterns := []string{
		"/usr/share/sounds/sf2/*.sf2",
		"/usr/share/soundfonts/*.sf2",
		filepath.Join(home, ".local/share/soundfonts/*.sf2"),
	}
	for _, pattern := range patterns {
		matches, _ := filepath.Glob(pattern)
		add(matches)
	}

	return found
}
