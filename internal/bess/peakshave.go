package bess

import (
	"fmt"

	"bess-lab/internal/lp"
	"bess-lab/internal/model"
)

// BuildPeakShaving composes the storage physics with a load profile and a
// tariff into an LP minimizing energy cost plus one demand charge for the
// highest grid draw in the horizon.
//
// Grid power supplies the load net of storage activity and is non-negative
// (no export under a demand-charge tariff). The peak is handled with the
// epigraph trick: a single scalar variable bounded below by every step's grid
// draw, with the demand charge pushing it down onto max_t grid[t].
func BuildPeakShaving(spec model.StorageSpec, grid model.TimeGrid, load model.Series, tariff model.Tariff) (Model, error) {
	if err := spec.Validate(); err != nil {
		return Model{}, fmt.Errorf("storage spec: %w", err)
	}
	if err := tariff.Validate(); err != nil {
		return Model{}, fmt.Errorf("tariff: %w", err)
	}
	if err := load.AlignedTo(grid); err != nil {
		return Model{}, fmt.Errorf("load profile: %w", err)
	}

	b := lp.NewBuilder()
	v := newGridVars(b, grid.Steps())
	addStorageConstraints(b, spec, grid, v, sizingMode{})
	addGridConstraints(b, grid, load, v)
	b.Minimize(gridObjective(grid, tariff, v))

	return Model{LP: b.Build(), TimeGrid: grid, Vars: v, Spec: spec}, nil
}

func newGridVars(b *lp.Builder, n int) Vars {
	return Vars{
		Charge:    b.Vars("power_ch", n),
		Discharge: b.Vars("power_dch", n),
		Energy:    b.Vars("energy", n),
		Grid:      b.Vars("power_grid", n),
		Peak:      b.Var("power_peak"),
		HasGrid:   true,
	}
}

// addGridConstraints ties grid power to the load balance and the peak
// variable: grid[t] = load[t] + charge[t] - discharge[t], peak >= grid[t].
func addGridConstraints(b *lp.Builder, grid model.TimeGrid, load model.Series, v Vars) {
	for t := 0; t < grid.Steps(); t++ {
		b.Constrain(FamGridBalance, t, lp.Sum(
			lp.T(v.Grid[t], 1),
			lp.T(v.Charge[t], -1),
			lp.T(v.Discharge[t], 1),
		), lp.Equal, load.Values[t])

		b.Constrain(FamPeakEnvelope, t, lp.Sum(
			lp.T(v.Grid[t], 1),
			lp.T(v.Peak, -1),
		), lp.LessEq, 0)
	}
}

func gridObjective(grid model.TimeGrid, tariff model.Tariff, v Vars) lp.Expr {
	dt := grid.DTHours()
	obj := make([]lp.Term, 0, grid.Steps()+1)
	for t := 0; t < grid.Steps(); t++ {
		obj = append(obj, lp.T(v.Grid[t], tariff.EnergyPricePerMWh*dt))
	}
	obj = append(obj, lp.T(v.Peak, tariff.PeakPricePerMW))
	return lp.Sum(obj...)
}
