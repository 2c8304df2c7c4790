package midirep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func singleNoteSMF() *smf.SMF {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(480)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(480, midi.NoteOff(0, 60))
	tr.Close(0)
	s.Add(tr)

	return s
}

func allNotes(rep *Representation) []Note {
	var notes []Note
	for _, t := range rep.Tracks {
		notes = append(notes, t.Notes...)
	}
	return notes
}

func TestFromSMFSingleNote(t *testing.T) {
	rep, err := FromSMF(singleNoteSMF())
	require.NoError(t, err)

	notes := allNotes(rep)
	require.Len(t, notes, 1)
	assert.Equal(t, Note{Channel: 0, Key: 60, Velocity: 100, Beat: 0, Duration: 1}, notes[0])

	assert.Equal(t, []TempoChange{{Beat: 0, BPM: 120}}, rep.BPMChanges)
}

func TestFromSMFChannelDefaultInstrument(t *testing.T) {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(96)

	var tr smf.Track
	tr.Add(0, midi.NoteOn(5, 72, 80))
	tr.Add(96, midi.NoteOff(5, 72))
	tr.Close(0)
	s.Add(tr)

	rep, err := FromSMF(s)
	require.NoError(t, err)

	program, ok := rep.ChannelInstruments[5]
	require.True(t, ok)
	assert.Equal(t, uint8(0), program)
}

func TestFromSMFProgramChange(t *testing.T) {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(96)

	var tr smf.Track
	tr.Add(0, midi.ProgramChange(3, 42))
	tr.Add(0, midi.NoteOn(3, 60, 90))
	tr.Add(96, midi.NoteOff(3, 60))
	tr.Close(0)
	s.Add(tr)

	rep, err := FromSMF(s)
	require.NoError(t, err)
	assert.Equal(t, uint8(42), rep.ChannelInstruments[3])
}

func TestFromSMFMetaScanAllTracks(t *testing.T) {
	// Tempo and meter live on a non-conductor track: the builder must
	// still find them.
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(96)

	var first smf.Track
	first.Add(0, midi.NoteOn(0, 60, 90))
	first.Add(96, midi.NoteOff(0, 60))
	first.Close(0)
	s.Add(first)

	var second smf.Track
	second.Add(0, smf.MetaTrackSequenceName("melody"))
	second.Add(96, smf.MetaTempo(90))
	second.Add(0, smf.MetaTimeSig(3, 4, 24, 8))
	second.Add(0, midi.NoteOn(1, 64, 90))
	second.Add(48, midi.NoteOff(1, 64))
	second.Close(0)
	s.Add(second)

	rep, err := FromSMF(s)
	require.NoError(t, err)

	// Tempo meta stores whole microseconds per quarter, so 90 BPM is
	// quantized on the way through.
	require.Len(t, rep.BPMChanges, 2)
	assert.Equal(t, TempoChange{Beat: 0, BPM: 120}, rep.BPMChanges[0])
	assert.Equal(t, 1.0, rep.BPMChanges[1].Beat)
	assert.InDelta(t, 90, rep.BPMChanges[1].BPM, 0.001)
	require.Len(t, rep.TimeSignatures, 1)
	assert.Equal(t, TimeSignature{Numerator: 3, DenomLog2: 2, Beat: 1}, rep.TimeSignatures[0])

	tr, ok := rep.Tracks[1]
	require.True(t, ok)
	assert.Equal(t, "melody", tr.Name)
}

func TestFromSMFVelocityClamped(t *testing.T) {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(96)

	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 127))
	tr.Add(96, midi.NoteOff(0, 60))
	tr.Close(0)
	s.Add(tr)

	rep, err := FromSMF(s)
	require.NoError(t, err)

	notes := allNotes(rep)
	require.Len(t, notes, 1)
	assert.Equal(t, uint8(100), notes[0].Velocity)
}

func TestFromSMFUnterminatedNoteDropped(t *testing.T) {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(96)

	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 90))
	tr.Add(96, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOn(0, 62, 90)) // never released
	tr.Close(0)
	s.Add(tr)

	rep, err := FromSMF(s)
	require.NoError(t, err)

	notes := allNotes(rep)
	require.Len(t, notes, 1)
	assert.Equal(t, uint8(60), notes[0].Key)
}

func TestFromSMFRetrigger(t *testing.T) {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(96)

	// Second strike of the same pitch before the first is released:
	// the first note ends at the retrigger. Deltas are relative, so the
	// strikes land at ticks 0 and 48 and the release at tick 96.
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 90))
	tr.Add(48, midi.NoteOn(0, 60, 90))
	tr.Add(48, midi.NoteOff(0, 60))
	tr.Close(0)
	s.Add(tr)

	rep, err := FromSMF(s)
	require.NoError(t, err)

	notes := allNotes(rep)
	require.Len(t, notes, 2)
	assert.Equal(t, 0.5, notes[0].Duration)
	assert.Equal(t, 0.5, notes[1].Beat)
	assert.Equal(t, 1.0, notes[1].Beat+notes[1].Duration)
}

func TestFromSMFStrayNoteOffIgnored(t *testing.T) {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(96)

	var tr smf.Track
	tr.Add(0, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOn(0, 62, 90))
	tr.Add(96, midi.NoteOff(0, 62))
	tr.Close(0)
	s.Add(tr)

	rep, err := FromSMF(s)
	require.NoError(t, err)
	require.Len(t, allNotes(rep), 1)
}

func TestFromSMFEmptyTracksCleared(t *testing.T) {
	rep, err := FromSMF(singleNoteSMF())
	require.NoError(t, err)

	for no, tr := range rep.Tracks {
		assert.NotEmpty(t, tr.Notes, "track %d", no)
	}
}
