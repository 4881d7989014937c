package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeGrid(t *testing.T) {
	g, err := NewTimeGrid(4, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Steps())
	assert.Equal(t, 0.25, g.DTHours())

	_, err = NewTimeGrid(0, 1.0)
	assert.Error(t, err)

	_, err = NewTimeGrid(4, 0)
	assert.Error(t, err)
}

func TestSeriesGridInfersStep(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := UniformSeries(start, 0.25, []float64{1, 2, 3, 4})

	g, err := s.Grid()
	require.NoError(t, err)
	assert.Equal(t, 4, g.Steps())
	assert.InDelta(t, 0.25, g.DTHours(), 1e-12)
}

func TestSeriesGridSingleRowDefaultsHourly(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := UniformSeries(start, 0.25, []float64{42})

	g, err := s.Grid()
	require.NoError(t, err)
	assert.Equal(t, 1, g.Steps())
	assert.Equal(t, 1.0, g.DTHours())
}

func TestSeriesGridRejectsUnevenSpacing(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := Series{
		Timestamps: []time.Time{
			start,
			start.Add(time.Hour),
			start.Add(3 * time.Hour),
		},
		Values: []float64{1, 2, 3},
	}

	_, err := s.Grid()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uneven step")
}

func TestSeriesGridRejectsNonIncreasingTimestamps(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := Series{
		Timestamps: []time.Time{start, start},
		Values:     []float64{1, 2},
	}

	_, err := s.Grid()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly increasing")
}

func TestSeriesGridRejectsLengthMismatch(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := Series{
		Timestamps: []time.Time{start, start.Add(time.Hour)},
		Values:     []float64{1},
	}

	_, err := s.Grid()
	assert.Error(t, err)
}

func TestSeriesAlignedTo(t *testing.T) {
	g, err := NewTimeGrid(3, 1.0)
	require.NoError(t, err)

	ok := Series{Values: []float64{1, 2, 3}}
	assert.NoError(t, ok.AlignedTo(g))

	short := Series{Values: []float64{1, 2}}
	err = short.AlignedTo(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time grid")
}

func TestSeriesAt(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	s := UniformSeries(start, 1.0, []float64{1, 2})

	assert.Equal(t, start.Add(time.Hour), s.At(1))
	assert.True(t, s.At(-1).IsZero())
	assert.True(t, s.At(2).IsZero())
}

func TestActionFromNetPowerMW(t *testing.T) {
	assert.Equal(t, ActionCharging, ActionFromNetPowerMW(0.5))
	assert.Equal(t, ActionDischarging, ActionFromNetPowerMW(-0.5))
	assert.Equal(t, ActionIdle, ActionFromNetPowerMW(0))
}
