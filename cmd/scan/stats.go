package main

import (
	"context"
	"math"

	"go.uber.org/zap"

	"midifilter/pkg/midirep"
)

type stats struct {
	Files       int
	Notes       int
	MinBPM      float64
	MaxBPM      float64
	Instruments map[uint8]int // program -> note count
	// How often notes land on each quarter of a 4/4 bar.
	QuarterPositions [4]int
}

// quarterPosition buckets a beat into its quarter of a 4/4 bar.
func quarterPosition(beat float64) int {
	return int(math.Mod(math.Floor(beat), 4))
}

func (s *stats) add(rep *midirep.Representation) {
	log := statsLog.Named("stats")

	s.Files++

	for _, tc := range rep.BPMChanges {
		if s.MinBPM == 0 || tc.BPM < s.MinBPM {
			s.MinBPM = tc.BPM
		}
		if tc.BPM > s.MaxBPM {
			s.MaxBPM = tc.BPM
		}
	}

	for _, track := range rep.Tracks {
		for _, n := range track.Notes {
			log.Debug("note",
				zap.Uint8("key", n.Key),
				zap.Float64("beat", n.Beat),
				zap.Int("position", quarterPosition(n.Beat)))

			s.Notes++
			s.QuarterPositions[quarterPosition(n.Beat)]++
			s.Instruments[rep.ChannelInstruments[n.Channel]]++
		}
	}
}

func collectStats(parent context.Context, paths <-chan string, cntRoutines int) (*stats, error) {
	log := statsLog.Named("collectStats")
	ctx, cancel := context.WithCancel(parent)
	results, done := decodeWorker(ctx, paths, cntRoutines)

	defer func() {
		log.Debug("cancel")
		cancel()
		<-done // wait decodeWorker closed
	}()

	s := &stats{Instruments: make(map[uint8]int)}

	for result := range results {
		if result.err != nil {
			return nil, result.err
		}

		log.Debug("result", zap.String("name", result.name), zap.Int("tracks", len(result.rep.Tracks)))
		s.add(result.rep)
	}

	return s, nil
}
