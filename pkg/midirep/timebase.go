package midirep

import "math"

// TicksToBeats converts a cumulative tick count to a beat position.
func TicksToBeats(ticks int64, ticksPerBeat uint16) float64 {
	return float64(ticks) / float64(ticksPerBeat)
}

// BeatsToTicks converts a beat position to the nearest tick, rounding
// half to even. The rounding direction is the same for every caller so
// repeated build/serialize round-trips are idempotent.
func BeatsToTicks(beats float64, ticksPerBeat uint16) int64 {
	return int64(math.RoundToEven(beats * float64(ticksPerBeat)))
}

// SecondsPerBeat returns the real-time length of one beat at bpm.
func SecondsPerBeat(bpm float64) (float64, error) {
	if bpm <= 0 {
		return 0, ErrInvalidTempo
	}
	return 60.0 / bpm, nil
}
