package midirep

import (
	"fmt"
	"math/bits"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
	"go.uber.org/zap"
)

type pitchChannel struct {
	key     uint8
	channel uint8
}

// FromSMF flattens a parsed MIDI file into a Representation. The input
// is not mutated. Files in SMPTE time-code format are rejected: beats
// only exist under a metric division.
//
// Pairing policy: a note-on retriggering a still-sounding pitch closes
// the previous note at the retrigger point, a note-on never closed by
// the end of its track is dropped with a warning, and a stray note-off
// is ignored.
func FromSMF(s *smf.SMF) (*Representation, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported time format %v", ErrInvalidMidi, s.TimeFormat)
	}
	ticksPerBeat := mt.Resolution()

	rep := &Representation{
		Tracks:             make(map[int]*Track),
		ChannelInstruments: make(map[uint8]uint8),
	}

	var tempoChanges []TempoChange

	// Tempo, meter and program changes live wherever the authoring tool
	// put them, so every track is scanned. Track 0 gets no special role.
	for i, track := range s.Tracks {
		var absTicks int64
		name := ""

		for _, ev := range track {
			absTicks += int64(ev.Delta)
			beat := TicksToBeats(absTicks, ticksPerBeat)

			var (
				bpm                     float64
				num, denom, clocks, dsq uint8
				channel, program        uint8
				text                    string
			)
			switch {
			case ev.Message.GetMetaTempo(&bpm):
				tempoChanges = append(tempoChanges, TempoChange{Beat: beat, BPM: bpm})
			case ev.Message.GetMetaTimeSig(&num, &denom, &clocks, &dsq):
				rep.TimeSignatures = append(rep.TimeSignatures, TimeSignature{
					Numerator: int(num),
					DenomLog2: bits.TrailingZeros8(denom),
					Beat:      beat,
				})
			case ev.Message.GetMetaTrackName(&text):
				name = text
			case ev.Message.GetProgramChange(&channel, &program):
				log.Debug("program change",
					zap.Int("track", i),
					zap.Uint8("channel", channel),
					zap.Uint8("program", program))
				rep.ChannelInstruments[channel] = program
			}
		}

		rep.Tracks[i] = &Track{Notes: collectNotes(track, ticksPerBeat, i), Name: name}
	}

	rep.BPMChanges = NewTempoMap(tempoChanges).Changes()
	sort.SliceStable(rep.TimeSignatures, func(i, j int) bool {
		return rep.TimeSignatures[i].Beat < rep.TimeSignatures[j].Beat
	})

	for _, t := range rep.Tracks {
		for _, n := range t.Notes {
			if _, ok := rep.ChannelInstruments[n.Channel]; !ok {
				// 0 is acoustic grand piano, the MIDI default.
				rep.ChannelInstruments[n.Channel] = 0
			}
		}
	}

	rep.ClearEmptyTracks()
	return rep, nil
}

func collectNotes(track smf.Track, ticksPerBeat uint16, trackNo int) []Note {
	var (
		absTicks int64
		notes    []Note
		pending  = make(map[pitchChannel]int)
		dropped  = make(map[int]bool)
	)

	for _, ev := range track {
		absTicks += int64(ev.Delta)
		beat := TicksToBeats(absTicks, ticksPerBeat)

		var channel, key, velocity uint8
		switch {
		case ev.Message.GetNoteStart(&channel, &key, &velocity):
			if velocity > 100 {
				velocity = 100
			}
			pc := pitchChannel{key: key, channel: channel}
			if j, open := pending[pc]; open {
				// Retrigger: the previous note of this pitch ends here.
				if dur := beat - notes[j].Beat; dur > 0 {
					notes[j].Duration = dur
				} else {
					log.Warn("zero-length retriggered note dropped",
						zap.Int("track", trackNo), zap.Uint8("key", key))
					dropped[j] = true
				}
			}
			notes = append(notes, Note{
				Channel:  channel,
				Key:      key,
				Velocity: velocity,
				Beat:     beat,
			})
			pending[pc] = len(notes) - 1

		case ev.Message.GetNoteEnd(&channel, &key):
			pc := pitchChannel{key: key, channel: channel}
			j, open := pending[pc]
			if !open {
				log.Debug("note off without a matching note on",
					zap.Int("track", trackNo), zap.Uint8("key", key))
				continue
			}
			delete(pending, pc)
			if dur := beat - notes[j].Beat; dur > 0 {
				notes[j].Duration = dur
			}
		}
	}

	for pc, j := range pending {
		log.Warn("unterminated note dropped",
			zap.Int("track", trackNo),
			zap.Uint8("key", pc.key),
			zap.Uint8("channel", pc.channel),
			zap.Float64("beat", notes[j].Beat))
		dropped[j] = true
	}

	if len(dropped) == 0 {
		return notes
	}
	kept := notes[:0]
	for j, n := range notes {
		if !dropped[j] {
			kept = append(kept, n)
		}
	}
	return kept
}
