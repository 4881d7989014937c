package bess

import (
	"fmt"
	"math"

	"bess-lab/internal/lp"
)

// Record is one time-aligned row read back from a solved model.
type Record struct {
	Index       int
	ChargeMW    float64
	DischargeMW float64
	NetPowerMW  float64 // charge minus discharge, positive while charging
	EnergyMWh   float64
	SOC         float64
	GridMW      float64 // peak-shaving and sizing models only
}

// Result is the solved model read back into reporting form.
type Result struct {
	Records   []Record
	Objective float64

	CapacityMWh   float64 // solved value for sizing models, spec value otherwise
	PowerRatingMW float64
	PeakMW        float64 // peak-shaving and sizing models only
}

// StatusError reports a solve that ended without an optimal solution.
// Infeasibility is a modeling signal, not a transient fault: callers should
// revisit the inputs, not retry.
type StatusError struct {
	Status lp.Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("no optimal solution: model is %s", e.Status)
}

// Extract reads solved variable values back into per-timestep records. It
// refuses anything but an optimal solution: an infeasible or unbounded solve
// must surface as an error, never as a table of silent zeros.
func Extract(m Model, sol lp.Solution) (Result, error) {
	if sol.Status != lp.StatusOptimal {
		return Result{}, &StatusError{Status: sol.Status}
	}

	capacity := m.Spec.CapacityMWh
	rating := math.Max(m.Spec.MaxChargePowerMW(), m.Spec.MaxDischargePowerMW())
	if m.Vars.Sized {
		capacity = sol.Value(m.Vars.Capacity)
		rating = sol.Value(m.Vars.Rating)
	}

	res := Result{
		Objective:     sol.Objective,
		CapacityMWh:   capacity,
		PowerRatingMW: rating,
	}
	if m.Vars.HasGrid {
		res.PeakMW = sol.Value(m.Vars.Peak)
	}

	res.Records = make([]Record, m.TimeGrid.Steps())
	for t := range res.Records {
		ch := sol.Value(m.Vars.Charge[t])
		dch := sol.Value(m.Vars.Discharge[t])
		e := sol.Value(m.Vars.Energy[t])
		r := Record{
			Index:       t,
			ChargeMW:    ch,
			DischargeMW: dch,
			NetPowerMW:  ch - dch,
			EnergyMWh:   e,
		}
		if capacity > 0 {
			r.SOC = e / capacity
		}
		if m.Vars.HasGrid {
			r.GridMW = sol.Value(m.Vars.Grid[t])
		}
		res.Records[t] = r
	}
	return res, nil
}
