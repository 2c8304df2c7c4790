// Package midirep converts between standard MIDI files and a flattened,
// beat-addressed representation of their musical content. Tick-and-delta
// timing under a mutable tempo map is folded into absolute beat positions
// on the way in and reconstructed on the way out, so transformation code
// only ever reasons in beats.
package midirep

import (
	"math"
	"sort"
)

const (
	// DefaultBPM is the standard MIDI tempo assumed when a file carries
	// no tempo meta-event.
	DefaultBPM = 120.0
	// DefaultTicksPerBeat is the serialization resolution used when the
	// caller does not pick one.
	DefaultTicksPerBeat uint16 = 96

	epsilon = 1e-7
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

// beatLT is a strict less-than with tolerance, so positions a rounding
// error apart compare equal.
func beatLT(a, b float64) bool {
	return a < b && !almostEqual(a, b)
}

func beatLTE(a, b float64) bool {
	return a <= b || almostEqual(a, b)
}

// Note is a single played note addressed in beats. Velocity is clamped
// to the 0-100 domain at build time. 60 is middle C.
type Note struct {
	Channel  uint8
	Key      uint8
	Velocity uint8
	Beat     float64
	Duration float64
}

// TempoChange sets a new tempo from Beat onward.
type TempoChange struct {
	Beat float64
	BPM  float64
}

// TimeSignature sets a Numerator/2^DenomLog2 meter from Beat onward.
type TimeSignature struct {
	Numerator int
	DenomLog2 int
	Beat      float64
}

// BarLength returns how many unit beats (assuming 4/4) one bar spans.
func (ts TimeSignature) BarLength() float64 {
	return float64(ts.Numerator) * (4.0 / float64(int(1)<<ts.DenomLog2))
}

// BeatScale returns the factor a tempo must be multiplied by when the
// denominator note gets the beat instead of the quarter. An eighth-note
// beat lasts half as long, so the factor is 2.
func (ts TimeSignature) BeatScale() float64 {
	return float64(int(1)<<ts.DenomLog2) / 4.0
}

// FourFour returns the default 4/4 signature at beat 0.
func FourFour() TimeSignature {
	return TimeSignature{Numerator: 4, DenomLog2: 2}
}

// Track is a bag of notes plus an optional name. Order carries no
// meaning; tempo, meter and instruments are global to the piece.
type Track struct {
	Notes []Note
	Name  string
}

// SortNotes orders the notes ascending by beat, in place.
func (t *Track) SortNotes() {
	sort.SliceStable(t.Notes, func(i, j int) bool {
		return t.Notes[i].Beat < t.Notes[j].Beat
	})
}

// ClampNotes trims every note so it releases before the next note of the
// same pitch starts. Notes are sorted as a side effect.
func (t *Track) ClampNotes() {
	t.SortNotes()
	prev := make(map[uint8]int)
	for i := range t.Notes {
		cur := t.Notes[i]
		if j, ok := prev[cur.Key]; ok {
			p := &t.Notes[j]
			p.Duration = math.Min(p.Duration, math.Max(cur.Beat-p.Beat-0.1, 0))
		}
		prev[cur.Key] = i
	}
}

// Slice returns a copy of the track keeping only notes that start in
// [b, e), with their beats rebased to b.
func (t *Track) Slice(b, e float64) *Track {
	out := &Track{Name: t.Name}
	for _, n := range t.Notes {
		if beatLTE(b, n.Beat) && beatLT(n.Beat, e) {
			n.Beat = math.Max(0, n.Beat-b)
			out.Notes = append(out.Notes, n)
		}
	}
	return out
}

// Offset shifts every note by the given beat count.
func (t *Track) Offset(beats float64) {
	for i := range t.Notes {
		t.Notes[i].Beat += beats
	}
}

// Scale multiplies every note's start beat by factor.
func (t *Track) Scale(factor float64) {
	for i := range t.Notes {
		t.Notes[i].Beat *= factor
	}
}

// MostUsedChannel returns the channel the most notes play on, or -1 for
// an empty track.
func (t *Track) MostUsedChannel() int {
	if len(t.Notes) == 0 {
		return -1
	}
	counts := make(map[uint8]int)
	for _, n := range t.Notes {
		counts[n.Channel]++
	}
	best, bestCount := -1, 0
	for ch, c := range counts {
		if c > bestCount || (c == bestCount && int(ch) < best) {
			best, bestCount = int(ch), c
		}
	}
	return best
}

// Representation is the flattened form of a MIDI file. Track keys are
// opaque: they may be sparse or offset and carry no musical meaning.
type Representation struct {
	Tracks             map[int]*Track
	ChannelInstruments map[uint8]uint8
	BPMChanges         []TempoChange
	TimeSignatures     []TimeSignature
}

// ClearEmptyTracks removes tracks without notes.
func (r *Representation) ClearEmptyTracks() {
	for k, t := range r.Tracks {
		if len(t.Notes) == 0 {
			delete(r.Tracks, k)
		}
	}
}

// SongLength returns the length of the piece in beats, rounded up.
func (r *Representation) SongLength() int {
	highest := 0
	for _, t := range r.Tracks {
		for _, n := range t.Notes {
			if end := int(math.Ceil(n.Beat + n.Duration)); end > highest {
				highest = end
			}
		}
	}
	return highest
}

// StartingBPM returns the first recorded tempo, or the MIDI default.
func (r *Representation) StartingBPM() float64 {
	if len(r.BPMChanges) == 0 {
		return DefaultBPM
	}
	return r.BPMChanges[0].BPM
}

// StartingTimeSignature returns the signature in effect at beat 0,
// defaulting to 4/4.
func (r *Representation) StartingTimeSignature() TimeSignature {
	for _, ts := range r.TimeSignatures {
		if ts.Beat == 0 {
			return ts
		}
	}
	return FourFour()
}
