package bess

import (
	"fmt"

	"bess-lab/internal/lp"
	"bess-lab/internal/model"
)

// BuildSizing extends the peak-shaving model by making storage capacity and
// power rating decision variables with per-unit investment costs. Every
// constraint that referenced the fixed dimensions stays linear, since they
// only ever multiply fixed ratios (SOC bounds, initial SOC).
//
// base supplies the parameters that remain fixed: efficiencies and the SOC
// band; its capacity and rate fields are ignored. A solved capacity and
// rating of zero is the valid no-storage baseline, not an error.
func BuildSizing(base model.StorageSpec, costs model.SizingCosts, grid model.TimeGrid, load model.Series, tariff model.Tariff) (Model, error) {
	if err := base.ValidateForSizing(); err != nil {
		return Model{}, fmt.Errorf("storage spec: %w", err)
	}
	if err := costs.Validate(); err != nil {
		return Model{}, fmt.Errorf("sizing costs: %w", err)
	}
	if err := tariff.Validate(); err != nil {
		return Model{}, fmt.Errorf("tariff: %w", err)
	}
	if err := load.AlignedTo(grid); err != nil {
		return Model{}, fmt.Errorf("load profile: %w", err)
	}

	b := lp.NewBuilder()
	v := newGridVars(b, grid.Steps())
	v.Capacity = b.Var("capacity")
	v.Rating = b.Var("power_rating")
	v.Sized = true

	addStorageConstraints(b, base, grid, v, sizingMode{
		sized:    true,
		capacity: v.Capacity,
		rating:   v.Rating,
	})
	addGridConstraints(b, grid, load, v)

	obj := gridObjective(grid, tariff, v).Add(
		lp.T(v.Capacity, costs.CapacityCostPerMWh),
		lp.T(v.Rating, costs.PowerCostPerMW),
	)
	b.Minimize(obj)

	return Model{LP: b.Build(), TimeGrid: grid, Vars: v, Spec: base}, nil
}
