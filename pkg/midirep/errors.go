package midirep

import "errors"

var (
	// ErrInvalidMidi reports source data the builder cannot make sense of,
	// such as a SMPTE time-code file or broken note pairing.
	ErrInvalidMidi = errors.New("invalid midi data")
	// ErrInvalidTempo reports a non-positive BPM, from source data or from a filter.
	ErrInvalidTempo = errors.New("invalid tempo")
	// ErrInvalidResolution reports a zero ticks-per-beat resolution.
	ErrInvalidResolution = errors.New("invalid resolution")
	// ErrNoTempoDefined reports a tempo query on an empty tempo map.
	ErrNoTempoDefined = errors.New("no tempo defined")
	// ErrNegativeDuration reports a negative time budget in integration math.
	ErrNegativeDuration = errors.New("negative duration")
)
