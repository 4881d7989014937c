// Package bess builds the battery storage optimization models: price
// arbitrage, peak shaving, and storage sizing. Each builder is a pure
// function of (parameters, profiles) returning an immutable LP; solving and
// result extraction happen separately.
package bess

import (
	"bess-lab/internal/lp"
	"bess-lab/internal/model"
)

// Constraint family names. These show up in diagnostics when a model turns
// out infeasible, so keep them stable and descriptive.
const (
	FamChargeBound    = "charge_power_bound"
	FamDischargeBound = "discharge_power_bound"
	FamEnergyFloor    = "energy_floor"
	FamEnergyCeiling  = "energy_ceiling"
	FamSOCBalance     = "soc_balance"
	FamTerminalSOC    = "terminal_soc"
	FamGridBalance    = "grid_balance"
	FamPeakEnvelope   = "peak_envelope"
)

// Vars holds the handles of the decision variables of a built model. Index i
// of each slice aligns with timestep i of the model's TimeGrid.
type Vars struct {
	Charge    []lp.Var // charging power drawn from the grid, MW
	Discharge []lp.Var // discharging power delivered, MW
	Energy    []lp.Var // stored energy at end of step, MWh

	// Peak-shaving and sizing models only.
	Grid []lp.Var // power drawn from the grid, MW
	Peak lp.Var   // highest grid draw over the horizon, MW

	// Sizing models only.
	Capacity lp.Var // storage capacity, MWh
	Rating   lp.Var // charge/discharge power rating, MW

	HasGrid bool
	Sized   bool
}

// Model bundles the LP with everything needed to read a solution back.
type Model struct {
	LP       lp.Model
	TimeGrid model.TimeGrid
	Vars     Vars
	Spec     model.StorageSpec
}

// sizingMode selects between fixed storage dimensions and dimensions that are
// themselves decision variables. The templates branch on it once per
// constraint family; the recurrence itself is identical either way.
type sizingMode struct {
	sized    bool
	capacity lp.Var
	rating   lp.Var
}

// addStorageConstraints emits the shared storage physics for every timestep:
// power bounds, the SOC energy box, the energy-conservation recurrence, and
// the terminal condition tying the end of the horizon back to the initial
// state. All variables are non-negative by construction of the LP.
func addStorageConstraints(b *lp.Builder, spec model.StorageSpec, g model.TimeGrid, v Vars, mode sizingMode) {
	dt := g.DTHours()
	chGain := spec.ChargeEfficiency * dt
	dchLoss := dt / spec.DischargeEfficiency

	for t := 0; t < g.Steps(); t++ {
		// Power bounds.
		if mode.sized {
			b.Constrain(FamChargeBound, t,
				lp.Sum(lp.T(v.Charge[t], 1), lp.T(mode.rating, -1)), lp.LessEq, 0)
			b.Constrain(FamDischargeBound, t,
				lp.Sum(lp.T(v.Discharge[t], 1), lp.T(mode.rating, -1)), lp.LessEq, 0)
		} else {
			b.Constrain(FamChargeBound, t,
				lp.Sum(lp.T(v.Charge[t], 1)), lp.LessEq, spec.MaxChargePowerMW())
			b.Constrain(FamDischargeBound, t,
				lp.Sum(lp.T(v.Discharge[t], 1)), lp.LessEq, spec.MaxDischargePowerMW())
		}

		// SOC energy box: capacity*soc_min <= energy <= capacity*soc_max.
		if mode.sized {
			b.Constrain(FamEnergyFloor, t,
				lp.Sum(lp.T(v.Energy[t], 1), lp.T(mode.capacity, -spec.MinSOC)), lp.GreaterEq, 0)
			b.Constrain(FamEnergyCeiling, t,
				lp.Sum(lp.T(v.Energy[t], 1), lp.T(mode.capacity, -spec.MaxSOC)), lp.LessEq, 0)
		} else {
			b.Constrain(FamEnergyFloor, t,
				lp.Sum(lp.T(v.Energy[t], 1)), lp.GreaterEq, spec.CapacityMWh*spec.MinSOC)
			b.Constrain(FamEnergyCeiling, t,
				lp.Sum(lp.T(v.Energy[t], 1)), lp.LessEq, spec.CapacityMWh*spec.MaxSOC)
		}

		// Energy conservation: charging adds energy scaled down by charge
		// efficiency, discharging removes more than is delivered. The first
		// step starts from the initial SOC instead of a previous energy.
		balance := lp.Sum(
			lp.T(v.Energy[t], 1),
			lp.T(v.Charge[t], -chGain),
			lp.T(v.Discharge[t], dchLoss),
		)
		if t == 0 {
			if mode.sized {
				b.Constrain(FamSOCBalance, t,
					balance.Add(lp.T(mode.capacity, -spec.InitialSOC)), lp.Equal, 0)
			} else {
				b.Constrain(FamSOCBalance, t,
					balance, lp.Equal, spec.CapacityMWh*spec.InitialSOC)
			}
		} else {
			b.Constrain(FamSOCBalance, t,
				balance.Add(lp.T(v.Energy[t-1], -1)), lp.Equal, 0)
		}
	}

	// End-of-horizon energy must restore at least the initial state, so the
	// optimizer cannot profit by simply draining the battery.
	last := v.Energy[g.Steps()-1]
	if mode.sized {
		b.Constrain(FamTerminalSOC, lp.ScalarStep,
			lp.Sum(lp.T(last, 1), lp.T(mode.capacity, -spec.InitialSOC)), lp.GreaterEq, 0)
	} else {
		b.Constrain(FamTerminalSOC, lp.ScalarStep,
			lp.Sum(lp.T(last, 1)), lp.GreaterEq, spec.CapacityMWh*spec.InitialSOC)
	}
}
