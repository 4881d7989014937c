package bess

import (
	"fmt"

	"bess-lab/internal/lp"
	"bess-lab/internal/model"
)

// BuildArbitrage composes the storage physics with a spot price profile into
// a cost-minimization LP: the objective is the net energy purchased valued at
// the spot price, so charging at low prices and discharging at high prices
// drives it negative (profit).
func BuildArbitrage(spec model.StorageSpec, grid model.TimeGrid, prices model.Series) (Model, error) {
	if err := spec.Validate(); err != nil {
		return Model{}, fmt.Errorf("storage spec: %w", err)
	}
	if err := prices.AlignedTo(grid); err != nil {
		return Model{}, fmt.Errorf("price profile: %w", err)
	}

	n := grid.Steps()
	dt := grid.DTHours()

	b := lp.NewBuilder()
	v := Vars{
		Charge:    b.Vars("power_ch", n),
		Discharge: b.Vars("power_dch", n),
		Energy:    b.Vars("energy", n),
	}
	addStorageConstraints(b, spec, grid, v, sizingMode{})

	obj := make([]lp.Term, 0, 2*n)
	for t := 0; t < n; t++ {
		p := prices.Values[t]
		obj = append(obj,
			lp.T(v.Charge[t], dt*p),
			lp.T(v.Discharge[t], -dt*p),
		)
	}
	b.Minimize(lp.Sum(obj...))

	return Model{LP: b.Build(), TimeGrid: grid, Vars: v, Spec: spec}, nil
}
