package bess

import (
	"testing"
	"time"

	"bess-lab/internal/lp"
	"bess-lab/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const solTol = 1e-6

func testStart() time.Time {
	return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
}

func testSpec() model.StorageSpec {
	return model.StorageSpec{
		CapacityMWh:         1,
		ChargeRate:          1,
		DischargeRate:       1,
		ChargeEfficiency:    0.95,
		DischargeEfficiency: 0.95,
		MinSOC:              0.10,
		MaxSOC:              0.90,
		InitialSOC:          0.50,
	}
}

func mustGrid(t *testing.T, n int, dt float64) model.TimeGrid {
	t.Helper()
	g, err := model.NewTimeGrid(n, dt)
	require.NoError(t, err)
	return g
}

func mustSolve(t *testing.T, m Model) lp.Solution {
	t.Helper()
	sol, err := lp.Solve(m.LP)
	require.NoError(t, err)
	require.Equal(t, lp.StatusOptimal, sol.Status, "expected an optimal solution")
	return sol
}

// checkStoragePhysics asserts the invariants every feasible solution must
// satisfy: the energy box, the SOC recurrence, and the terminal condition.
func checkStoragePhysics(t *testing.T, m Model, sol lp.Solution) {
	t.Helper()
	spec := m.Spec
	dt := m.TimeGrid.DTHours()

	prev := spec.CapacityMWh * spec.InitialSOC
	for i := 0; i < m.TimeGrid.Steps(); i++ {
		ch := sol.Value(m.Vars.Charge[i])
		dch := sol.Value(m.Vars.Discharge[i])
		e := sol.Value(m.Vars.Energy[i])

		assert.GreaterOrEqual(t, ch, -solTol, "charge power must be non-negative at step %d", i)
		assert.GreaterOrEqual(t, dch, -solTol, "discharge power must be non-negative at step %d", i)
		assert.GreaterOrEqual(t, e, spec.CapacityMWh*spec.MinSOC-solTol, "energy below SOC floor at step %d", i)
		assert.LessOrEqual(t, e, spec.CapacityMWh*spec.MaxSOC+solTol, "energy above SOC ceiling at step %d", i)

		want := prev + ch*spec.ChargeEfficiency*dt - dch/spec.DischargeEfficiency*dt
		assert.InDelta(t, want, e, solTol, "SOC recurrence violated at step %d", i)
		prev = e
	}
	assert.GreaterOrEqual(t, prev, spec.CapacityMWh*spec.InitialSOC-solTol,
		"terminal energy must restore the initial state")
}

func TestArbitrageConcreteScenario(t *testing.T) {
	// Four quarter-hour steps with alternating cheap/expensive prices. The
	// optimum buys at full power in the cheap steps and sells everything
	// above the terminal requirement in the expensive ones:
	//   purchased grid energy = 2 * 1MW * 0.25h = 0.5 MWh, cost $5
	//   stored = 0.5 * 0.95 = 0.475 MWh, all withdrawn again by the end
	//   delivered = 0.475 * 0.95 = 0.45125 MWh, revenue $22.5625
	//   objective = 5 - 22.5625 = -17.5625
	grid := mustGrid(t, 4, 0.25)
	prices := model.UniformSeries(testStart(), 0.25, []float64{10, 50, 10, 50})

	m, err := BuildArbitrage(testSpec(), grid, prices)
	require.NoError(t, err)
	sol := mustSolve(t, m)
	checkStoragePhysics(t, m, sol)

	assert.InDelta(t, -17.5625, sol.Objective, solTol)

	// Charges at full power in both cheap steps, never in the expensive ones.
	assert.InDelta(t, 1.0, sol.Value(m.Vars.Charge[0]), solTol)
	assert.InDelta(t, 1.0, sol.Value(m.Vars.Charge[2]), solTol)
	assert.InDelta(t, 0.0, sol.Value(m.Vars.Charge[1]), solTol)
	assert.InDelta(t, 0.0, sol.Value(m.Vars.Charge[3]), solTol)

	// Discharges only in the expensive steps. The split between them is
	// degenerate (same price), so only the total is pinned down.
	assert.InDelta(t, 0.0, sol.Value(m.Vars.Discharge[0]), solTol)
	assert.InDelta(t, 0.0, sol.Value(m.Vars.Discharge[2]), solTol)
	total := sol.Value(m.Vars.Discharge[1]) + sol.Value(m.Vars.Discharge[3])
	assert.InDelta(t, 1.805, total, solTol)

	// Terminal state binds exactly: selling any retained surplus pays.
	assert.InDelta(t, 0.5, sol.Value(m.Vars.Energy[3]), solTol)
}

func TestArbitrageFlatPricesNoCycling(t *testing.T) {
	// A flat price offers no spread, and the round-trip loss makes any
	// cycling a strict cost. The optimum is to do nothing.
	spec := testSpec()
	spec.ChargeEfficiency = 0.9
	spec.DischargeEfficiency = 0.9
	grid := mustGrid(t, 6, 1.0)
	prices := model.UniformSeries(testStart(), 1.0, []float64{30, 30, 30, 30, 30, 30})

	m, err := BuildArbitrage(spec, grid, prices)
	require.NoError(t, err)
	sol := mustSolve(t, m)
	checkStoragePhysics(t, m, sol)

	assert.InDelta(t, 0.0, sol.Objective, solTol)
	for i := 0; i < grid.Steps(); i++ {
		assert.InDelta(t, 0.0, sol.Value(m.Vars.Charge[i]), solTol)
		assert.InDelta(t, 0.0, sol.Value(m.Vars.Discharge[i]), solTol)
		assert.InDelta(t, spec.CapacityMWh*spec.InitialSOC, sol.Value(m.Vars.Energy[i]), solTol)
	}
}

func TestArbitrageRejectsInvalidSpec(t *testing.T) {
	spec := testSpec()
	spec.MinSOC = 0.9
	spec.MaxSOC = 0.1
	grid := mustGrid(t, 4, 0.25)
	prices := model.UniformSeries(testStart(), 0.25, []float64{10, 50, 10, 50})

	_, err := BuildArbitrage(spec, grid, prices)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MinSOC/MaxSOC")
}

func TestArbitrageRejectsMisalignedProfile(t *testing.T) {
	grid := mustGrid(t, 4, 0.25)
	prices := model.UniformSeries(testStart(), 0.25, []float64{10, 50, 10})

	_, err := BuildArbitrage(testSpec(), grid, prices)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time grid")
}

func TestArbitrageBeatsIdleOnSpread(t *testing.T) {
	// Sanity: with a real spread the objective is strictly negative, i.e.
	// strictly better than the forced-idle schedule whose cost is zero.
	grid := mustGrid(t, 4, 0.25)
	prices := model.UniformSeries(testStart(), 0.25, []float64{10, 50, 10, 50})

	m, err := BuildArbitrage(testSpec(), grid, prices)
	require.NoError(t, err)
	sol := mustSolve(t, m)
	assert.Less(t, sol.Objective, -solTol)
}
