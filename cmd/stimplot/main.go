package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/neurlang/gostim/analysis"
)

func save(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	var (
		raw  bool
		step int
	)
	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&raw, "raw", false, "also write the energy map as little endian float16 to <file>.f16")
	flagSet.IntVar(&step, "step", 10, "milliseconds per image column")
	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: stimplot [-raw] [-step 10] <file.flac>")
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	// Check if the filename argument is provided
	if flagSet.NArg() < 1 {
		flagSet.Usage()
		os.Exit(1)
	}
	var filename = flagSet.Arg(0)

	rec, err := analysis.OpenFLAC(filename)
	if err != nil {
		fmt.Printf("Error loading %s: %v\n", filename, err)
		os.Exit(1)
	}

	shift := rec.SampleRate * step / 1000
	if shift < 1 {
		shift = 1
	}
	energy, err := analysis.EnergyMap(rec, shift, 4*shift)
	if err != nil {
		fmt.Printf("Error computing energy: %v\n", err)
		os.Exit(1)
	}
	analysis.LogScale(energy)

	if err := save(filename+".png", func(w io.Writer) error { return analysis.WritePNG(w, energy) }); err != nil {
		fmt.Printf("Error writing image: %v\n", err)
		os.Exit(1)
	}
	if raw {
		if err := save(filename+".f16", func(w io.Writer) error { return analysis.WriteBuffer(w, energy) }); err != nil {
			fmt.Printf("Error writing energy buffer: %v\n", err)
			os.Exit(1)
		}
	}
}
