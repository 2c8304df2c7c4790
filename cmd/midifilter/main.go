package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"midifilter/pkg/filters"
	"midifilter/pkg/midirep"
)

var (
	filterFlag     = pflag.StringP("filter", "f", "none", "filter to apply")
	resolutionFlag = pflag.Uint16P("resolution", "r", midirep.DefaultTicksPerBeat, "output ticks per beat")
	multFlag       = pflag.Float64("mult", 1, "beat scale factor for the swing filters")
	verboseFlag    = pflag.BoolP("verbose", "v", false, "enable debug logging")
)

var logger *log.Logger

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] input.mid output.mid\nFilters: %v, swing, unswing\n",
			os.Args[0], filters.Names())
		pflag.PrintDefaults()
	}
	pflag.Parse()

	logger = log.New(os.Stdout, "", log.Ldate|log.Ltime)

	if *verboseFlag {
		zl, err := zap.NewDevelopment()
		if err != nil {
			logger.Fatalf("failed to build logger: %v", err)
		}
		defer zl.Sync()
		midirep.SetLogger(zl)
	}

	fn, err := resolveFilter(*filterFlag, *multFlag)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	input, output, err := choosePaths(pflag.Args())
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			logger.Printf("cancelled")
			os.Exit(1)
		}
		logger.Fatalf("%v", err)
	}

	logger.Printf("processing %s -> %s with filter %q", input, output, *filterFlag)

	if err := midirep.ProcessFile(input, output, *resolutionFlag, fn); err != nil {
		logger.Fatalf("processing failed: %v", err)
	}

	logger.Printf("done")
}

func resolveFilter(name string, mult float64) (midirep.Transform, error) {
	switch name {
	case "swing":
		return filters.Swing(mult), nil
	case "unswing":
		return filters.Unswing(mult), nil
	}
	fn, ok := filters.Registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown filter %q, available: %v, swing, unswing", name, filters.Names())
	}
	return fn, nil
}

// choosePaths takes input and output from the command line, falling
// back to file dialogs for whichever is missing.
func choosePaths(args []string) (string, string, error) {
	var input, output string
	var err error

	if len(args) > 0 {
		input = args[0]
	} else {
		input, err = dialog.File().Title("Open MIDI file").Filter("MIDI files (*.mid)", "mid").Load()
		if err != nil {
			return "", "", err
		}
	}

	if len(args) > 1 {
		output = args[1]
	} else {
		output, err = dialog.File().Title("Save MIDI file").Filter("MIDI files (*.mid)", "mid").Save()
		if err != nil {
			return "", "", err
		}
	}

	if err := validatePaths(input, output); err != nil {
		return "", "", err
	}
	return input, output, nil
}

func validatePaths(input, output string) error {
	info, err := os.Stat(input)
	if err != nil || info.IsDir() {
		return fmt.Errorf("input file %q does not exist", input)
	}
	if filepath.Ext(input) != ".mid" {
		return fmt.Errorf("input file %q does not end with .mid", input)
	}
	if filepath.Ext(output) != ".mid" {
		return fmt.Errorf("output file %q does not end with .mid", output)
	}
	return nil
}
