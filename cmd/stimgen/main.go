package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/neurlang/gostim/channel"
	"github.com/neurlang/gostim/encode"
	"github.com/neurlang/gostim/internal/config"
	"github.com/neurlang/gostim/preview"
	"github.com/neurlang/gostim/stimerr"
	"github.com/neurlang/gostim/synth"
	"github.com/neurlang/gostim/timing"
	"github.com/pion/logging"
)

type options struct {
	synth     synth.Config
	container encode.Container
	chunk     int
	dir       string
	output    string
	preview   string
	dryRun    bool
	verbose   verbosity
}

func parseArgs(args []string, env config.Config) (*options, error) {
	var (
		o         = &options{}
		mode      string
		format    string
		freq      float64
		freqRight float64
		phase     float64
		mirror    bool
		block     int
		pulse     int
		offset    int
		pauses    string
		pauseCyc  time.Duration
	)

	flagSet := flag.NewFlagSet("stimgen", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&mode, "mode", env.Mode, "timing mode: blocked, phase or fixed")
	flagSet.DurationVar(&o.synth.Duration, "duration", env.Duration, "output length")
	flagSet.IntVar(&o.synth.SampleRate, "rate", env.SampleRate, "sample rate in Hz")
	flagSet.Float64Var(&freq, "freq", env.Frequency, "stimulation frequency in Hz")
	flagSet.Float64Var(&freqRight, "freq-right", 0, "right hand frequency in Hz, defaults to -freq")
	flagSet.Float64Var(&phase, "phase", 0, "right hand phase offset in cycles, [0, 1)")
	flagSet.BoolVar(&mirror, "mirror", false, "reverse the finger order of the right hand")
	flagSet.IntVar(&block, "block", int(env.Block/time.Millisecond), "block length in ms (blocked mode)")
	flagSet.IntVar(&pulse, "pulse", int(env.Pulse/time.Millisecond), "burst length in ms within a block, 0 for the whole block")
	flagSet.IntVar(&offset, "offset", int(env.Offset/time.Millisecond), "per finger delay in ms (fixed mode)")
	flagSet.IntVar(&o.synth.BitDepth, "bits", env.BitDepth, "bit depth: 8, 16 or 24")
	flagSet.Float64Var(&o.synth.Gain, "gain", env.Gain, "amplitude, (0, 1]")
	flagSet.BoolVar(&o.synth.Shuffle, "shuffle", false, "shuffle the finger order of every cycle (blocked mode)")
	flagSet.Uint64Var(&o.synth.Seed, "seed", 0, "shuffle seed")
	flagSet.IntVar(&o.synth.PausePeriod, "pause-period", 0, "number of cycles in a pause pattern")
	flagSet.StringVar(&pauses, "pauses", "", "comma separated silent cycles within the pause period")
	flagSet.DurationVar(&pauseCyc, "pause-cycle", 0, "pause cycle length, defaults to four blocks")
	flagSet.IntVar(&o.synth.TableSize, "table", 0, "sine lookup table size, 0 for exact sine")
	flagSet.IntVar(&o.synth.Workers, "workers", env.Workers, "parallel workers per chunk")
	flagSet.IntVar(&o.chunk, "chunk", env.ChunkFrames, "frames per encoded chunk")
	flagSet.StringVar(&format, "format", env.Format, "container: flac or wav")
	flagSet.StringVar(&o.dir, "dir", env.OutputDir, "output directory")
	flagSet.StringVar(&o.output, "o", "", "output file, overrides -dir and the generated name")
	flagSet.StringVar(&o.preview, "preview", "", "also write a stereo WAV of two channels, e.g. l1,r1")
	flagSet.BoolVar(&o.dryRun, "n", false, "print the plan without writing")
	flagSet.Var(&o.verbose, "v", "more log output, repeatable")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: stimgen [flags]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if flagSet.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", flagSet.Arg(0))
	}

	var errs stimerr.ConfigError
	m, err := timing.ParseMode(mode)
	if err != nil {
		errs.Add("mode", mode, err.Error())
	}
	o.synth.Mode = m
	if o.container, err = encode.ParseContainer(format); err != nil {
		errs.Add("format", format, err.Error())
	}
	if o.synth.Pauses, err = parseInts(pauses); err != nil {
		errs.Add("pauses", pauses, "must be a comma separated list of integers")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	formatSet := false
	flagSet.Visit(func(f *flag.Flag) { formatSet = formatSet || f.Name == "format" })
	if o.output != "" && !formatSet {
		o.container = encode.ContainerFor(o.output)
	}

	right := channel.GroupSettings{Frequency: freq, PhaseOffset: phase, Mirror: mirror}
	if freqRight != 0 {
		right.Frequency = freqRight
	}
	o.synth.Layout = channel.Layout{
		Groups:          [channel.Groups]channel.GroupSettings{{Frequency: freq}, right},
		AllowAsymmetric: right.Frequency != freq || phase != 0,
	}
	o.synth.Block = time.Duration(block) * time.Millisecond
	o.synth.Pulse = time.Duration(pulse) * time.Millisecond
	o.synth.Offset = time.Duration(offset) * time.Millisecond
	o.synth.PauseCycle = pauseCyc
	return o, nil
}

func (o *options) path() string {
	if o.output != "" {
		return o.output
	}
	return filepath.Join(o.dir, fileName(&o.synth, o.container))
}

func main() {
	o, err := parseArgs(os.Args[1:], config.Load())
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error parsing arguments: %v\n", err)
		os.Exit(1)
	}

	factory := logging.NewDefaultLoggerFactory()
	factory.Writer = os.Stderr
	factory.DefaultLogLevel = o.verbose.level()
	log := factory.NewLogger("stimgen")

	b, err := synth.New(o.synth)
	if err != nil {
		var ce *stimerr.ConfigError
		if errors.As(err, &ce) {
			for _, f := range ce.Fields {
				fmt.Printf("Error: %s\n", f)
			}
			os.Exit(1)
		}
		fmt.Printf("Error building stimulation: %v\n", err)
		os.Exit(1)
	}
	for _, w := range o.synth.Warnings() {
		log.Warn(w)
	}
	for _, t := range o.synth.Tags() {
		log.Debugf("%s=%s", t[0], t[1])
	}

	path := o.path()
	fmt.Printf("Output  : %s\n", path)
	fmt.Printf("Frames  : %d (%d channels, %d Hz, %d bit)\n", b.TotalFrames(), channel.Count, b.SampleRate(), b.BitDepth())
	fmt.Printf("Run id  : %s\n", encode.RunID(o.synth.Fingerprint()))
	if o.dryRun {
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := encode.Options{
		ChunkFrames: o.chunk,
		Container:   o.container,
		Log:         factory.NewLogger("encode"),
	}
	if bar := newProgressBar(); bar != nil {
		opts.Progress = bar.update
	}
	start := time.Now()
	st, err := encode.EncodeFile(ctx, path, b, opts)
	if err != nil {
		stop()
		fmt.Printf("Error encoding %s: %v\n", path, err)
		os.Exit(1)
	}
	log.Infof("wrote %d frames in %d chunks in %v", st.Frames, st.Chunks, time.Since(start).Round(time.Millisecond))

	if o.preview != "" {
		if err := writePreview(path, b, o.preview); err != nil {
			stop()
			fmt.Printf("Error writing preview: %v\n", err)
			os.Exit(1)
		}
	}
}

func writePreview(path string, b *synth.Builder, pair string) error {
	names := strings.Split(pair, ",")
	if len(names) != 2 {
		return fmt.Errorf("want two channels, got %q", pair)
	}
	left, err := channel.Parse(names[0])
	if err != nil {
		return err
	}
	right, err := channel.Parse(names[1])
	if err != nil {
		return err
	}
	out := strings.TrimSuffix(path, filepath.Ext(path)) + "-" + left.String() + right.String() + ".preview.wav"
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := preview.SaveWav(f, b, left, right); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Preview : %s\n", out)
	return nil
}
