package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"midifilter/pkg/midirep"
)

const maxGoroutines = 10

var (
	listFlag    = pflag.StringP("list", "l", "", "The path to the list of midi files,\nfind . -type f -name \"*.mid\" > midi_list.txt")
	maxFlag     = pflag.IntP("parallel", "p", maxGoroutines, "Number of files processed in parallel, must be > 0")
	verboseFlag = pflag.BoolP("verbose", "v", false, "enable debug logging")
)

func readList(file *os.File) <-chan string {
	out := make(chan string)

	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanLines)

	go func() {
		for scanner.Scan() {
			out <- scanner.Text()
		}
		close(out)
	}()

	return out
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s \n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *listFlag == "" {
		pflag.Usage()
		return
	}

	if *maxFlag <= 0 {
		pflag.Usage()
		return
	}

	if *verboseFlag {
		zl, err := zap.NewDevelopment()
		if err != nil {
			log.Fatal(err)
		}
		defer zl.Sync()
		enableDebugLogging(zl)
		midirep.SetLogger(zl)
	}

	f, err := os.Open(*listFlag)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	paths := readList(f)
	s, err := collectStats(context.Background(), paths, *maxFlag)

	if err != nil {
		log.Fatal(err)
	}

	spew.Dump(s)
}
