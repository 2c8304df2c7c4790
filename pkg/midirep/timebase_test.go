package midirep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicksToBeats(t *testing.T) {
	assert.Equal(t, 1.0, TicksToBeats(480, 480))
	assert.Equal(t, 0.5, TicksToBeats(240, 480))
	assert.Equal(t, 0.0, TicksToBeats(0, 96))
	assert.Equal(t, 2.5, TicksToBeats(240, 96))
}

func TestBeatsToTicks(t *testing.T) {
	assert.Equal(t, int64(480), BeatsToTicks(1.0, 480))
	assert.Equal(t, int64(240), BeatsToTicks(0.5, 480))

	// round half to even
	assert.Equal(t, int64(48), BeatsToTicks(0.5, 96)) // exact
	assert.Equal(t, int64(0), BeatsToTicks(0.5, 1))
	assert.Equal(t, int64(2), BeatsToTicks(1.5, 1))
}

func TestBeatsToTicksRoundTripIdempotent(t *testing.T) {
	const res uint16 = 96
	for _, beat := range []float64{0, 0.25, 1.0 / 3.0, 1.5, 7.124} {
		ticks := BeatsToTicks(beat, res)
		again := BeatsToTicks(TicksToBeats(ticks, res), res)
		assert.Equal(t, ticks, again, "beat %v", beat)
	}
}

func TestSecondsPerBeat(t *testing.T) {
	spb, err := SecondsPerBeat(120)
	require.NoError(t, err)
	assert.Equal(t, 0.5, spb)

	spb, err = SecondsPerBeat(60)
	require.NoError(t, err)
	assert.Equal(t, 1.0, spb)

	_, err = SecondsPerBeat(0)
	assert.ErrorIs(t, err, ErrInvalidTempo)

	_, err = SecondsPerBeat(-10)
	assert.ErrorIs(t, err, ErrInvalidTempo)
}
