package filters

import (
	"math"

	"midifilter/pkg/midirep"
)

const strikeTolerance = 1e-7

// NoChords reduces every chord to its highest pitch. Notes count as a
// chord when they strike at the same beat on the same channel within
// the same track.
func NoChords(rep *midirep.Representation) error {
	for _, track := range rep.Tracks {
		var kept []midirep.Note
		for _, group := range groupStrikes(track.Notes) {
			top := group[0]
			for _, n := range group[1:] {
				if n.Key > top.Key {
					top = n
				}
			}
			kept = append(kept, top)
		}
		track.Notes = kept
	}
	return nil
}

func sameStrike(a, b midirep.Note) bool {
	return a.Channel == b.Channel && math.Abs(a.Beat-b.Beat) <= strikeTolerance
}

func groupStrikes(notes []midirep.Note) [][]midirep.Note {
	var groups [][]midirep.Note
next:
	for _, n := range notes {
		for i := range groups {
			if sameStrike(n, groups[i][0]) {
				groups[i] = append(groups[i], n)
				continue next
			}
		}
		groups = append(groups, []midirep.Note{n})
	}
	return groups
}
