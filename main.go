package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"chordsheet-engine/display"
	"chordsheet-engine/internal/config"
	"chordsheet-engine/internal/directive"
	"chordsheet-engine/internal/note"
	"chordsheet-engine/internal/notation"
	"chordsheet-engine/internal/plan"
	"chordsheet-engine/internal/scheduler"
	"chordsheet-engine/internal/song"
	"chordsheet-engine/internal/synth"
	"chordsheet-engine/internal/voicing"
	"chordsheet-engine/strudel"
	"chordsheet-engine/theory"
)

// soundFontPath can be set via --soundfont flag or SOUNDFONT env var.
var soundFontPath string

func main() {
	args := parseArgs(os.Args[1:])

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]

	switch command {
	case "play":
		if len(args) < 2 {
			fmt.Println("Error: play requires a chord sheet file")
			printUsage()
			os.Exit(1)
		}
		playFile(args[1])
	case "show":
		if len(args) < 2 {
			fmt.Println("Error: show requires a chord sheet file")
			printUsage()
			os.Exit(1)
		}
		showFile(args[1])
	case "strudel":
		if len(args) < 2 {
			fmt.Println("Error: strudel requires a chord sheet file")
			printUsage()
			os.Exit(1)
		}
		outputPath := ""
		if len(args) >= 3 {
			outputPath = args[2]
		}
		exportStrudel(args[1], outputPath)
	case "soundfonts":
		listSoundFonts()
	default:
		printUsage()
		os.Exit(1)
	}
}

// parseArgs extracts flags and returns remaining args.
func parseArgs(args []string) []string {
	var remaining []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--soundfont" || arg == "-sf":
			if i+1 < len(args) {
				soundFontPath = args[i+1]
				i++
			} else {
				fmt.Println("Error: --soundfont requires a path")
				os.Exit(1)
			}
		case strings.HasPrefix(arg, "--soundfont="):
			soundFontPath = strings.TrimPrefix(arg, "--soundfont=")
		case strings.HasPrefix(arg, "-sf="):
			soundFontPath = strings.TrimPrefix(arg, "-sf=")
		case arg == "--help" || arg == "-h":
			printUsage()
			os.Exit(0)
		default:
			remaining = append(remaining, arg)
		}
	}

	if soundFontPath == "" {
		soundFontPath = os.Getenv("SOUNDFONT")
	}

	return remaining
}

// loadProgram reads and classifies a chord sheet, and loads the user's
// persisted config (initialContext turns it into a plan context).
func loadProgram(filename string) (song.Program, config.PlayerConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return song.Program{}, config.PlayerConfig{}, err
	}
	cfg, err := config.Load(configPath())
	if err != nil {
		return song.Program{}, config.PlayerConfig{}, err
	}
	return song.Parse(string(data)), cfg, nil
}

func configPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chordsheet-engine.yaml")
}

func initialContext(cfg config.PlayerConfig) plan.Context {
	return plan.Context{
		BPM:     cfg.InitialBPM,
		TimeSig: directive.TimeSigValue{Num: 4, Unit: 4},
		Key:     notation.Key{Root: note.Pitch{Name: 'C'}, Mode: notation.Major},
	}
}

// openSink tries a real MIDI output port first, falls back to an
// interactive FluidSynth subprocess, and finally a silent sink — playback
// is never disabled outright, it just degrades.
func openSink() synth.Sink {
	if out, err := synth.OpenMIDIOut(""); err == nil {
		fmt.Println("♪ Using live MIDI output port")
		return out
	}

	if sf, err := synth.FindSoundFont(soundFontPath); err == nil {
		if fs, err := synth.NewFluidSynthSink(sf); err == nil {
			fmt.Printf("♪ Using FluidSynth (%s)\n", sf)
			return fs
		}
	}

	fmt.Println("⚠ No synthesizer available — playing silently")
	return synth.NullSink{}
}

func playFile(filename string) {
	prog, cfg, err := loadProgram(filename)
	if err != nil {
		fmt.Printf("Error loading file: %v\n", err)
		os.Exit(1)
	}

	ctx := initialContext(cfg)
	p := plan.Build(prog, 0, ctx)
	display.ShowProgram(prog, p)

	if abs, err := filepath.Abs(filename); err == nil {
		cfg.PushRecentFile(abs)
		config.Save(configPath(), cfg)
	}

	sink := openSink()
	voicingKind := scheduler.Piano
	if cfg.Voicing == "guitar" {
		voicingKind = scheduler.Guitar
	}

	done := make(chan struct{})
	engine := scheduler.New(sink, 256, scheduler.Config{Voicing: voicingKind}, nil, func(snap scheduler.Snapshot) {
		if snap.State == scheduler.Stopped && snap.Step == len(p.Steps) {
			select {
			case <-done:
			default:
				close(done)
			}
		}
	})
	defer engine.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("\n♪ Playing... (Press Ctrl+C to stop)")
	engine.Start(p, 0)

	select {
	case <-done:
	case <-sig:
		engine.Stop()
	}

	fmt.Println("\n✓ Playback complete!")
}

func showFile(filename string) {
	prog, cfg, err := loadProgram(filename)
	if err != nil {
		fmt.Printf("Error loading file: %v\n", err)
		os.Exit(1)
	}
	p := plan.Build(prog, 0, initialContext(cfg))
	display.ShowProgram(prog, p)
	printChordDiagrams(p)

	if style := scaleStyle(p); style != "" {
		printScaleOverlay(p, style)
	}
}

// printChordDiagrams renders a guitar fretboard diagram for each distinct
// chord the plan plays, in order of first appearance, using ChordChart's
// box-drawing renderer over a live-computed reference voicing rather than a
// name-keyed lookup table.
func printChordDiagrams(p plan.PlaybackPlan) {
	seen := map[string]bool{}
	chart := display.NewChordChart()

	fmt.Println("\nChord diagrams:")
	for _, step := range p.Steps {
		if step.Kind != plan.Play || step.Chord.Rest {
			continue
		}
		name := step.Chord.String()
		if seen[name] {
			continue
		}
		seen[name] = true

		v := voicing.VoiceGuitar(step.Chord, nil, 0, nil)
		for _, line := range chart.RenderHorizontal(name, v) {
			fmt.Println(line)
		}
		fmt.Println()
	}
}

// scaleStyle returns the last {scale:<style>} value set in p, or "" if the
// document never sets one.
func scaleStyle(p plan.PlaybackPlan) string {
	style := ""
	for _, step := range p.Steps {
		if step.Kind == plan.ContextChange && step.HasScale {
			style = step.ScaleStyle
		}
	}
	return style
}

// printScaleOverlay renders the fretboard for the scale the document's
// {scale:...} directive selects against its initial key, with every fret
// position of a chord root the document actually plays marked as playing.
func printScaleOverlay(p plan.PlaybackPlan, style string) {
	keyName := p.InitialKey.Root.String()
	if p.InitialKey.Mode == notation.Minor {
		keyName += "m"
	}
	scale := theory.GetScaleForStyle(keyName, style, "")
	fd := display.NewFretboardDisplay(scale, 12)

	for _, class := range chordRootClasses(p) {
		for _, open := range theory.GuitarTuning {
			for fret := 0; fret <= 12; fret++ {
				if (open+fret)%12 == class {
					fd.HighlightNote(open + fret)
				}
			}
		}
	}

	fmt.Println()
	for _, line := range fd.Render() {
		fmt.Println(line)
	}
}

// chordRootClasses returns the distinct pitch classes (0-11) of every
// chord root the plan plays, in order of first appearance.
func chordRootClasses(p plan.PlaybackPlan) []int {
	seen := map[int]bool{}
	var out []int
	for _, step := range p.Steps {
		if step.Kind != plan.Play || step.Chord.Rest {
			continue
		}
		class := step.Chord.Root.Class()
		if !seen[class] {
			seen[class] = true
			out = append(out, class)
		}
	}
	return out
}

func exportStrudel(filename, outputPath string) {
	prog, cfg, err := loadProgram(filename)
	if err != nil {
		fmt.Printf("Error loading file: %v\n", err)
		os.Exit(1)
	}

	p := plan.Build(prog, 0, initialContext(cfg))
	display.ShowProgram(prog, p)

	code := strudel.GenerateStrudel(p)

	if outputPath == "" {
		base := filepath.Base(filename)
		ext := filepath.Ext(base)
		outputPath = strings.TrimSuffix(base, ext) + ".strudel.js"
	}

	if err := os.WriteFile(outputPath, []byte(code), 0644); err != nil {
		fmt.Printf("Error writing Strudel file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n✓ Exported to: %s\n", outputPath)
	fmt.Println("Paste the code into https://strudel.cc to play!")
}

func listSoundFonts() {
	fmt.Println("Available SoundFonts:")
	fmt.Println()

	found := synth.ListSoundFonts()

	if len(found) == 0 {
		fmt.Println("  No SoundFonts found!")
		fmt.Println()
		fmt.Println("Install the default SoundFont:")
		fmt.Println("  sudo apt install fluid-soundfont-gm")
		fmt.Println()
		fmt.Println("Place .sf2 files in ./soundfonts/ or specify with --soundfont flag")
	} else {
		for _, sf := range found {
			fmt.Printf("  %s\n", sf)
		}
		fmt.Println()
		fmt.Println("Use with: chordsheet-engine play --soundfont <path> <file>")
	}
}

func printUsage() {
	fmt.Println("Chordsheet Engine v0.1")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  chordsheet-engine play <file>              Play a chord sheet")
	fmt.Println("  chordsheet-engine show <file>               Summarize a chord sheet")
	fmt.Println("  chordsheet-engine strudel <file> [out]      Export to Strudel code")
	fmt.Println("  chordsheet-engine soundfonts                List available SoundFonts")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --soundfont, -sf <path>   Use custom SoundFont (.sf2 file)")
	fmt.Println("  --help, -h                Show this help")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  SOUNDFONT                 Default SoundFont path")
}
