package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/neurlang/gostim/analysis"
	"github.com/neurlang/gostim/channel"
	"github.com/neurlang/gostim/stimerr"
)

func main() {
	var (
		gap   int
		shown int
	)
	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.IntVar(&gap, "gap", 2, "silent samples allowed inside a burst")
	flagSet.IntVar(&shown, "runs", 8, "bursts to list per channel")
	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: stiminspect [-gap 2] [-runs 8] <file.flac>")
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if flagSet.NArg() < 1 {
		flagSet.Usage()
		os.Exit(1)
	}
	filename := flagSet.Arg(0)

	rec, err := analysis.OpenFLAC(filename)
	if errors.Is(err, stimerr.ErrNotFLAC) {
		fmt.Printf("Error: %s is not a FLAC file\n", filename)
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Error decoding %s: %v\n", filename, err)
		os.Exit(1)
	}

	fmt.Printf("File     : %s\n", filename)
	fmt.Printf("Format   : %d channels, %d Hz, %d bit, %d frames\n", len(rec.Channels), rec.SampleRate, rec.BitDepth, rec.Frames())
	fmt.Printf("Checksum : %s\n", rec.Checksum())
	for _, t := range rec.Tags {
		fmt.Printf("   %s=%s\n", t[0], t[1])
	}
	fmt.Println()

	for i, samples := range rec.Channels {
		name := fmt.Sprint(i)
		if c := channel.Channel(i); c.Valid() {
			name = c.String()
		}
		runs := analysis.ActiveRuns(samples, gap)
		fmt.Printf("%s: %d bursts, peak %d\n", name, len(runs), analysis.Peak(samples))
		for j, r := range runs {
			if j == shown {
				fmt.Printf("   ...\n")
				break
			}
			f := analysis.DominantFrequency(samples[r.Start:r.End], rec.SampleRate)
			fmt.Printf("   %8d..%-8d %6d samples %8.2f Hz\n", r.Start, r.End, r.Len(), f)
		}
	}
}
