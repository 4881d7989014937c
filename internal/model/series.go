package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// TimeGrid is the discrete horizon every profile and variable sequence in a
// model is indexed against: Steps() contiguous steps of DTHours() each.
// Immutable once built.
type TimeGrid struct {
	steps   int
	dtHours float64
}

func NewTimeGrid(steps int, dtHours float64) (TimeGrid, error) {
	if steps < 1 {
		return TimeGrid{}, errors.New("time grid needs at least one step")
	}
	if dtHours <= 0 {
		return TimeGrid{}, errors.New("step duration must be > 0 hours")
	}
	return TimeGrid{steps: steps, dtHours: dtHours}, nil
}

func (g TimeGrid) Steps() int       { return g.steps }
func (g TimeGrid) DTHours() float64 { return g.dtHours }

// Series is an ordered per-timestep scalar profile (prices in $/MWh or load
// in MW) with its timestamps. Timestamps must be strictly increasing and
// equally spaced.
type Series struct {
	Timestamps []time.Time
	Values     []float64
}

// spacing tolerance when inferring dt from timestamps
const gridSpacingTol = time.Second

// Grid derives the TimeGrid from the series timestamps: dt is the first gap,
// and every subsequent gap must match it.
func (s Series) Grid() (TimeGrid, error) {
	if len(s.Timestamps) != len(s.Values) {
		return TimeGrid{}, fmt.Errorf("series has %d timestamps but %d values", len(s.Timestamps), len(s.Values))
	}
	if len(s.Timestamps) < 1 {
		return TimeGrid{}, errors.New("series is empty")
	}
	if len(s.Timestamps) == 1 {
		// Single row: no gap to infer from, default to hourly.
		return NewTimeGrid(1, 1.0)
	}
	dt := s.Timestamps[1].Sub(s.Timestamps[0])
	if dt <= 0 {
		return TimeGrid{}, errors.New("timestamps must be strictly increasing")
	}
	for i := 2; i < len(s.Timestamps); i++ {
		gap := s.Timestamps[i].Sub(s.Timestamps[i-1])
		if diff := gap - dt; diff > gridSpacingTol || diff < -gridSpacingTol {
			return TimeGrid{}, fmt.Errorf("uneven step at row %d: %v vs %v", i, gap, dt)
		}
	}
	return NewTimeGrid(len(s.Timestamps), dt.Hours())
}

// AlignedTo checks the 1:1 index alignment between a profile and a grid.
func (s Series) AlignedTo(g TimeGrid) error {
	if len(s.Values) != g.Steps() {
		return fmt.Errorf("profile has %d values but the time grid has %d steps", len(s.Values), g.Steps())
	}
	return nil
}

// At returns the timestamp for a step, or the zero time if the series carries
// no timestamps (synthetic profiles).
func (s Series) At(i int) time.Time {
	if i < 0 || i >= len(s.Timestamps) {
		return time.Time{}
	}
	return s.Timestamps[i]
}

// UniformSeries builds a synthetic profile on a uniform grid starting at start.
// Used by tests and the demo, where there is no CSV to load.
func UniformSeries(start time.Time, dtHours float64, values []float64) Series {
	ts := make([]time.Time, len(values))
	step := time.Duration(math.Round(dtHours * float64(time.Hour)))
	for i := range values {
		ts[i] = start.Add(time.Duration(i) * step)
	}
	return Series{Timestamps: ts, Values: append([]float64(nil), values...)}
}
