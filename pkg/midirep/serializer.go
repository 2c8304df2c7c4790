package midirep

import (
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type tickedMessage struct {
	tick int64
	msg  smf.Message
}

// ToSMF serializes a representation back into a format 1 MIDI file at
// the given resolution. Nothing in rep needs to be sorted beforehand.
//
// Track 0 is a conductor track carrying every tempo and time-signature
// change plus one program change per mapped channel at tick 0. Note
// events within a track are emitted ascending by tick; at equal ticks a
// note-off precedes a note-on, so a repeated pitch never doubles up.
// Either a complete file is produced or an error, never partial output.
func ToSMF(rep *Representation, ticksPerBeat uint16) (*smf.SMF, error) {
	if ticksPerBeat == 0 {
		return nil, fmt.Errorf("%w: ticks per beat must be positive", ErrInvalidResolution)
	}
	for _, tc := range rep.BPMChanges {
		if tc.BPM <= 0 {
			return nil, fmt.Errorf("%w: %v bpm at beat %v", ErrInvalidTempo, tc.BPM, tc.Beat)
		}
	}

	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(ticksPerBeat)
	s.Add(conductorTrack(rep, ticksPerBeat))

	trackNos := make([]int, 0, len(rep.Tracks))
	for no := range rep.Tracks {
		trackNos = append(trackNos, no)
	}
	sort.Ints(trackNos)

	for _, no := range trackNos {
		s.Add(noteTrack(rep.Tracks[no], no, ticksPerBeat))
	}

	return s, nil
}

func conductorTrack(rep *Representation, ticksPerBeat uint16) smf.Track {
	events := make([]tickedMessage, 0, len(rep.BPMChanges)+len(rep.TimeSignatures))

	for _, tc := range rep.BPMChanges {
		events = append(events, tickedMessage{
			tick: BeatsToTicks(tc.Beat, ticksPerBeat),
			msg:  smf.MetaTempo(tc.BPM),
		})
	}
	for _, ts := range rep.TimeSignatures {
		events = append(events, tickedMessage{
			tick: BeatsToTicks(ts.Beat, ticksPerBeat),
			msg:  smf.MetaTimeSig(uint8(ts.Numerator), uint8(int(1)<<ts.DenomLog2), 24, 8),
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].tick < events[j].tick
	})

	channels := make([]int, 0, len(rep.ChannelInstruments))
	for ch := range rep.ChannelInstruments {
		channels = append(channels, int(ch))
	}
	sort.Ints(channels)

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("Tempo changes"))
	for _, ch := range channels {
		track.Add(0, midi.ProgramChange(uint8(ch), rep.ChannelInstruments[uint8(ch)]))
	}

	var prev int64
	for _, ev := range events {
		track.Add(uint32(ev.tick-prev), ev.msg)
		prev = ev.tick
	}
	track.Close(0)
	return track
}

type noteEvent struct {
	tick int64
	on   bool
	note Note
}

func noteTrack(t *Track, no int, ticksPerBeat uint16) smf.Track {
	name := t.Name
	if name == "" {
		name = fmt.Sprintf("Unknown Track %d", no)
	}

	events := make([]noteEvent, 0, 2*len(t.Notes))
	for _, n := range t.Notes {
		events = append(events, noteEvent{
			tick: BeatsToTicks(n.Beat, ticksPerBeat),
			on:   true,
			note: n,
		})
		events = append(events, noteEvent{
			tick: BeatsToTicks(n.Beat+n.Duration, ticksPerBeat),
			on:   false,
			note: n,
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].on && events[j].on
	})

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(name))

	var prev int64
	for _, ev := range events {
		delta := uint32(ev.tick - prev)
		prev = ev.tick
		if ev.on {
			track.Add(delta, midi.NoteOn(ev.note.Channel, ev.note.Key, ev.note.Velocity))
		} else {
			track.Add(delta, midi.NoteOff(ev.note.Channel, ev.note.Key))
		}
	}
	track.Close(0)
	return track
}
