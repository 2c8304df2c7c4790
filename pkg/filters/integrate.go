package filters

import (
	"math"

	"midifilter/pkg/midirep"
)

// IntegrateTempo removes all tempo variation, forcing a constant 60 BPM,
// while preserving the wall-clock position and length of every note. At
// 60 BPM one beat lasts exactly one second, so a note's new beat is the
// real time its original beat mapped to under the old tempo map. The
// mapping uses the map's exact piecewise-constant integral, which keeps
// the result deterministic.
//
// Time signatures are left at their original beats; they are readable
// only and not rescaled here.
func IntegrateTempo(rep *midirep.Representation) error {
	tm := midirep.NewTempoMap(rep.BPMChanges)

	for _, track := range rep.Tracks {
		for i := range track.Notes {
			n := &track.Notes[i]
			start, err := tm.ElapsedSeconds(0, n.Beat)
			if err != nil {
				return err
			}
			end, err := tm.ElapsedSeconds(0, n.Beat+n.Duration)
			if err != nil {
				return err
			}
			n.Beat = start
			n.Duration = end - start
		}
		trimOverlaps(track)
	}

	rep.BPMChanges = []midirep.TempoChange{{Beat: 0, BPM: 60}}
	return nil
}

// trimOverlaps shortens every note so it releases just before the next
// strike of the same pitch on the same channel.
func trimOverlaps(t *midirep.Track) {
	t.SortNotes()
	for i := range t.Notes {
		cur := &t.Notes[i]
		for j := i + 1; j < len(t.Notes); j++ {
			next := t.Notes[j]
			if next.Key == cur.Key && next.Channel == cur.Channel {
				cur.Duration = math.Min(cur.Duration, next.Beat-cur.Beat-1e-5)
				break
			}
		}
	}
}
