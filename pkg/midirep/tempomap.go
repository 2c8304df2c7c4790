package midirep

import (
	"fmt"
	"sort"
)

// TempoMap answers which tempo is in effect at a beat and how much real
// time elapses between two beats. Tempo is stepwise constant between
// changes, so elapsed time is an exact piecewise sum, never a numerical
// approximation.
type TempoMap struct {
	changes []TempoChange
}

// NewTempoMap builds a map from an arbitrary change list. Changes are
// sorted ascending by beat; of two changes at the same beat the later
// one wins, and consecutive changes to the same BPM collapse into the
// first. A default change is synthesized at beat 0 when absent, so the
// map always covers the whole piece.
func NewTempoMap(changes []TempoChange) TempoMap {
	sorted := make([]TempoChange, len(changes))
	copy(sorted, changes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Beat < sorted[j].Beat
	})

	deduped := make([]TempoChange, 0, len(sorted)+1)
	for _, tc := range sorted {
		if n := len(deduped); n > 0 {
			if deduped[n-1].Beat == tc.Beat {
				deduped[n-1].BPM = tc.BPM
				continue
			}
			if deduped[n-1].BPM == tc.BPM {
				continue
			}
		}
		deduped = append(deduped, tc)
	}

	if len(deduped) == 0 || deduped[0].Beat > 0 {
		deduped = append([]TempoChange{{Beat: 0, BPM: DefaultBPM}}, deduped...)
	}

	return TempoMap{changes: deduped}
}

// Changes returns a copy of the normalized change list.
func (m TempoMap) Changes() []TempoChange {
	out := make([]TempoChange, len(m.changes))
	copy(out, m.changes)
	return out
}

// TempoAt returns the BPM in effect at the given beat: the tempo of the
// last change at or before it.
func (m TempoMap) TempoAt(beat float64) (float64, error) {
	idx := sort.Search(len(m.changes), func(i int) bool {
		return m.changes[i].Beat > beat
	})
	if idx == 0 {
		return 0, fmt.Errorf("%w at beat %v", ErrNoTempoDefined, beat)
	}
	return m.changes[idx-1].BPM, nil
}

// ElapsedSeconds returns the real time between beat a and beat b, a <= b.
// The interval is partitioned at every tempo change inside it; a change
// at exactly a governs the first segment, a change past b is ignored.
func (m TempoMap) ElapsedSeconds(a, b float64) (float64, error) {
	if b < a {
		return 0, fmt.Errorf("%w: beat %v before beat %v", ErrNegativeDuration, b, a)
	}

	tempo, err := m.TempoAt(a)
	if err != nil {
		return 0, err
	}

	total := 0.0
	cursor := a
	for _, tc := range m.changes {
		if tc.Beat <= a {
			continue
		}
		if tc.Beat >= b {
			break
		}
		spb, err := SecondsPerBeat(tempo)
		if err != nil {
			return 0, err
		}
		total += (tc.Beat - cursor) * spb
		cursor = tc.Beat
		tempo = tc.BPM
	}

	spb, err := SecondsPerBeat(tempo)
	if err != nil {
		return 0, err
	}
	return total + (b-cursor)*spb, nil
}

// BeatsForSeconds walks forward from beat a until the given real-time
// budget is spent and returns the beat it lands on. The inverse of
// ElapsedSeconds.
func (m TempoMap) BeatsForSeconds(a, seconds float64) (float64, error) {
	if seconds < 0 {
		return 0, fmt.Errorf("%w: %v seconds", ErrNegativeDuration, seconds)
	}

	tempo, err := m.TempoAt(a)
	if err != nil {
		return 0, err
	}

	cursor := a
	remaining := seconds
	for _, tc := range m.changes {
		if tc.Beat <= a {
			continue
		}
		spb, err := SecondsPerBeat(tempo)
		if err != nil {
			return 0, err
		}
		segment := (tc.Beat - cursor) * spb
		if segment >= remaining {
			return cursor + remaining/spb, nil
		}
		remaining -= segment
		cursor = tc.Beat
		tempo = tc.BPM
	}

	spb, err := SecondsPerBeat(tempo)
	if err != nil {
		return 0, err
	}
	return cursor + remaining/spb, nil
}
