package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go-boom/capture"
	"go-boom/config"
	"go-boom/debug"
	"go-boom/drums"
	"go-boom/flip"
	"go-boom/grid"
	"go-boom/melodic"
	"go-boom/midi"
	"go-boom/render"
	"go-boom/scale"
	"go-boom/seed"
	"go-boom/style"
	"go-boom/theme"
	"go-boom/transcribe"
	"go-boom/widgets"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
	}
	defer debug.Disable()

	args := os.Args[2:]
	switch os.Args[1] {
	case "drums":
		err = runDrums(cfg, args)
	case "bass":
		err = runMelodic(cfg, args, melodic.Generate)
	case "808":
		err = runMelodic(cfg, args, melodic.Generate808)
	case "blend":
		err = runBlend(cfg, args)
	case "flip":
		err = runFlip(cfg, args)
	case "expand":
		err = runExpand(cfg, args)
	case "transcribe":
		err = runTranscribe(cfg, args)
	case "list":
		list()
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("go-boom pattern generator")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  drums       - Generate a drum groove")
	fmt.Println("  bass        - Generate a stepwise bass line")
	fmt.Println("  808         - Generate an 808 line")
	fmt.Println("  blend       - Generate drums from one of two weighted styles")
	fmt.Println("  flip        - Vary a MIDI file")
	fmt.Println("  expand      - Expand a sparse drum MIDI file into a groove")
	fmt.Println("  transcribe  - Turn a WAV drum loop into a drum pattern")
	fmt.Println("  list        - List styles, scales, kits and meters")
	fmt.Println("")
	fmt.Println("Run a command with -h for its flags.")
}

// common holds the flags every generating command shares
type common struct {
	bars, rest, dotted, triplet, swing int
	seed                               int64
	meter, out, png, kit               string
	bpm                                int
	debug                              bool
}

func (c *common) register(fs *flag.FlagSet, cfg *config.Config) {
	g := cfg.Generation
	fs.IntVar(&c.bars, "bars", g.Bars, "bars (1-16)")
	fs.IntVar(&c.rest, "rest", g.RestPct, "rest density %")
	fs.IntVar(&c.dotted, "dotted", g.DottedPct, "dotted feel %")
	fs.IntVar(&c.triplet, "triplet", g.TripletPct, "triplet feel %")
	fs.IntVar(&c.swing, "swing", g.SwingPct, "swing %")
	fs.Int64Var(&c.seed, "seed", g.Seed, "seed, -1 for a fresh one")
	fs.StringVar(&c.meter, "meter", g.TimeSignature, "time signature, e.g. 7/8 or 3+3+2/8")
	fs.StringVar(&c.out, "out", "", "MIDI output path (default: a generated name in the export dir)")
	fs.StringVar(&c.png, "png", "", "also write a PNG snapshot here")
	fs.StringVar(&c.kit, "kit", cfg.Export.Kit, "drum map: "+strings.Join(grid.KitNames(), ", "))
	fs.IntVar(&c.bpm, "bpm", cfg.Export.BPM, "tempo written to the file")
	fs.BoolVar(&c.debug, "debug", false, "write a debug log to "+debug.DefaultPath())
}

func (c *common) parse(fs *flag.FlagSet, args []string) {
	fs.Parse(args)
	if c.debug && !debug.Enabled() {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
	}
}

func (c *common) drumOptions(seedVal int64) drums.Options {
	return drums.Options{
		Bars:       c.bars,
		RestPct:    c.rest,
		DottedPct:  c.dotted,
		TripletPct: c.triplet,
		SwingPct:   c.swing,
		Seed:       seedVal,
		Meter:      grid.ParseTimeSignature(c.meter),
	}
}

// write exports p and prints it
func (c *common) write(cfg *config.Config, p grid.Pattern, name string) error {
	name = strings.ReplaceAll(name, " ", "-")
	path := c.out
	if path == "" {
		dir, err := cfg.ExportDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, name+".mid")
	}
	opts := midi.ExportOptions{BPM: float64(c.bpm), Kit: c.kit, Meter: grid.ParseTimeSignature(c.meter), Name: name}
	if err := midi.WriteFile(path, p, opts); err != nil {
		return err
	}
	if c.png != "" {
		if err := render.SavePNG(c.png, p, render.Options{}); err != nil {
			return err
		}
	}

	th := theme.New(nil)
	if p.Kind == grid.KindDrum {
		fmt.Println(widgets.RenderDrumGrid(p, th, -1))
	} else {
		fmt.Println(widgets.RenderPianoRoll(p, th))
	}
	fmt.Printf("\n%d notes -> %s\n", p.Len(), path)
	return nil
}

func runDrums(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("drums", flag.ExitOnError)
	var c common
	c.register(fs, cfg)
	styleName := fs.String("style", cfg.Generation.DrumStyle, "drum style: "+strings.Join(style.Names(), ", "))
	expand := fs.Bool("expand", false, "expand the groove afterwards")
	c.parse(fs, args)

	s := seed.Resolve(c.seed)
	spec := style.Get(*styleName)
	p := drums.Generate(spec, c.drumOptions(s))
	if *expand {
		p = drums.Expand(p, c.bars)
	}
	return c.write(cfg, p, fmt.Sprintf("drums_%s_%d", spec.Name, s))
}

func runMelodic(cfg *config.Config, args []string, gen func(melodic.Options) grid.Pattern) error {
	fs := flag.NewFlagSet("melodic", flag.ExitOnError)
	var c common
	c.register(fs, cfg)
	g := cfg.Generation
	styleName := fs.String("style", g.BassStyle, "bass style: "+strings.Join(style.BassNames(), ", "))
	key := fs.String("key", g.Key, "key")
	scaleName := fs.String("scale", g.Scale, "scale (see list)")
	octave := fs.Int("octave", g.Octave, "octave offset -2..2")
	follow := fs.String("follow", "", "drum style whose kicks the line should follow")
	c.parse(fs, args)

	s := seed.Resolve(c.seed)
	opts := melodic.Options{
		Style:      *styleName,
		Key:        *key,
		Scale:      *scaleName,
		Bars:       c.bars,
		Octave:     *octave,
		RestPct:    c.rest,
		DottedPct:  c.dotted,
		TripletPct: c.triplet,
		SwingPct:   c.swing,
		Seed:       s,
		Meter:      grid.ParseTimeSignature(c.meter),
	}
	if *follow != "" {
		kicks := drums.Generate(style.Get(*follow), c.drumOptions(s))
		opts.Kicks = &kicks
	}
	p := gen(opts)
	return c.write(cfg, p, fmt.Sprintf("bass_%s_%s_%d", style.GetBass(*styleName).Name, *key, s))
}

func runBlend(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("blend", flag.ExitOnError)
	var c common
	c.register(fs, cfg)
	a := fs.String("a", "trap", "first style")
	b := fs.String("b", "drill", "second style")
	wa := fs.Float64("wa", 1, "weight of the first style")
	wb := fs.Float64("wb", 1, "weight of the second style")
	c.parse(fs, args)

	s := seed.Resolve(c.seed)
	p, chosen := drums.Blend(style.Get(*a), style.Get(*b), *wa, *wb, c.drumOptions(s))
	fmt.Printf("picked %s\n", chosen.Name)
	return c.write(cfg, p, fmt.Sprintf("blend_%s_%d", chosen.Name, s))
}

func readMIDI(path string, kind grid.Kind, kit, meter string) (grid.Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return grid.Pattern{}, err
	}
	defer f.Close()
	return midi.Import(f, midi.ImportOptions{Kind: kind, Kit: kit, Meter: grid.ParseTimeSignature(meter)})
}

func runFlip(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("flip", flag.ExitOnError)
	var c common
	c.register(fs, cfg)
	in := fs.String("in", "", "MIDI file to vary")
	melodicIn := fs.Bool("melodic", false, "treat the file as a melodic line")
	density := fs.Int("density", cfg.Generation.FlipDensity, "how much to change, 0-100")
	humanize := fs.Int("humanize", 0, "timing jitter in ticks after flipping")
	c.parse(fs, args)
	if *in == "" {
		return fmt.Errorf("flip needs -in")
	}

	kind := grid.KindDrum
	if *melodicIn {
		kind = grid.KindMelodic
	}
	p, err := readMIDI(*in, kind, c.kit, c.meter)
	if err != nil {
		return err
	}
	s := seed.Resolve(c.seed)
	if kind == grid.KindMelodic {
		p = flip.Melodic(p, s, *density, p.Bars)
	} else {
		p = flip.Drums(p, s, *density, p.Bars)
	}
	if *humanize > 0 {
		p = flip.Humanize(p, s, *humanize, *humanize)
	}
	c.bars = p.Bars
	return c.write(cfg, p, fmt.Sprintf("flip_%d", s))
}

func runExpand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("expand", flag.ExitOnError)
	var c common
	c.register(fs, cfg)
	in := fs.String("in", "", "sparse drum MIDI file")
	bump := fs.Bool("bump", false, "rotate lanes after expanding")
	c.parse(fs, args)
	if *in == "" {
		return fmt.Errorf("expand needs -in")
	}

	p, err := readMIDI(*in, grid.KindDrum, c.kit, c.meter)
	if err != nil {
		return err
	}
	p = drums.Expand(p, c.bars)
	if *bump {
		p = drums.BumpRows(p)
	}
	return c.write(cfg, p, "expand")
}

func runTranscribe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("transcribe", flag.ExitOnError)
	var c common
	c.register(fs, cfg)
	bpm := fs.Int("tempo", cfg.Transcription.BPM, "tempo of the recording")
	c.parse(fs, args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: boom transcribe [flags] loop.wav")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	rec := capture.NewRecorder(cfg.Capture.SampleRate, cfg.Capture.Seconds)
	if err := capture.CaptureWAV(rec, f, capture.DefaultBlockSize); err != nil {
		return err
	}
	bars := c.bars
	if !flagSet(fs, "bars") {
		bars = cfg.Transcription.Bars
	}
	p := transcribe.Drums(rec.Samples(), transcribe.Options{SampleRate: rec.SampleRate(), Bars: bars, BPM: *bpm})
	c.bpm = *bpm
	name := strings.TrimSuffix(filepath.Base(fs.Arg(0)), filepath.Ext(fs.Arg(0)))
	return c.write(cfg, p, "transcribed_"+name)
}

func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func list() {
	fmt.Println("Drum styles:")
	for _, spec := range style.Builtin().Drums() {
		fmt.Printf("  %-10s %d-%d bpm, swing %.0f%%\n", spec.Name, spec.BPMMin, spec.BPMMax, spec.SwingPct)
	}
	fmt.Println("Bass styles: " + strings.Join(style.BassNames(), ", "))
	fmt.Println("Kits:        " + strings.Join(grid.KitNames(), ", "))
	fmt.Println("Keys:        " + strings.Join(scale.Keys[:], " "))
	fmt.Println("Meters:      " + strings.Join(grid.TimeSignatures, " "))
	fmt.Println("Scales:")
	for _, name := range scale.Names() {
		fmt.Println("  " + name)
	}
}
