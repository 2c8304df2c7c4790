package filters

import (
	"math"

	"midifilter/pkg/midirep"
)

// Swing warps a straight beat grid into a swung one: the first half of
// each beat stretches to two thirds, the second half compresses into
// the last third. mult rescales what counts as a beat for the warp; at
// 2 a beat is half as long, same effect as an eighth-note denominator.
// Assumes a quarter-note time signature denominator.
func Swing(mult float64) midirep.Transform {
	return warpBeats(func(beat float64) float64 {
		return toSwing(beat, mult)
	})
}

// Unswing is the inverse of Swing with the same factor.
func Unswing(mult float64) midirep.Transform {
	return warpBeats(func(beat float64) float64 {
		return fromSwing(beat, mult)
	})
}

func warpBeats(warp func(float64) float64) midirep.Transform {
	return func(rep *midirep.Representation) error {
		for _, track := range rep.Tracks {
			for i := range track.Notes {
				track.Notes[i].Beat = warp(track.Notes[i].Beat)
			}
			track.ClampNotes()
		}
		return nil
	}
}

func toSwing(beat, mult float64) float64 {
	beat *= mult
	whole := math.Floor(beat)
	frac := beat - whole

	var swung float64
	if frac <= 0.500000001 { // guards the exact half against rounding error
		swung = frac * (4.0 / 3.0)
	} else {
		swung = (2*frac + 1) / 3
	}
	return (whole + swung) / mult
}

func fromSwing(beat, mult float64) float64 {
	beat *= mult
	whole := math.Floor(beat)
	frac := beat - whole

	var straight float64
	if frac <= 0.667 {
		straight = frac * (3.0 / 4.0)
	} else {
		straight = (3*frac - 1) / 2
	}
	return (whole + straight) / mult
}
