package bess

import (
	"testing"

	"bess-lab/internal/lp"
	"bess-lab/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shavingSpec() model.StorageSpec {
	return model.StorageSpec{
		CapacityMWh:         4,
		ChargeRate:          1,
		DischargeRate:       1,
		ChargeEfficiency:    0.9,
		DischargeEfficiency: 0.9,
		MinSOC:              0,
		MaxSOC:              1,
		InitialSOC:          0.5,
	}
}

func shavingTariff() model.Tariff {
	return model.Tariff{EnergyPricePerMWh: 50, PeakPricePerMW: 1000}
}

func TestPeakShavingConcreteScenario(t *testing.T) {
	// Load [2,2,8,2] MW over four 1h steps. The battery starts at 2 MWh,
	// pre-charges to its 4 MWh ceiling, dumps everything into the 8 MW peak
	// (withdrawing 4 MWh delivers 3.6 MW for one hour) and refills 2 MWh
	// afterwards for the terminal condition:
	//   peak      = 8 - 3.6 = 4.4 MW
	//   grid sum  = 14 + 4/0.9 - 3.6 = 14.84444 MWh
	//   objective = 50*14.84444 + 1000*4.4 = 5142.22222
	grid := mustGrid(t, 4, 1.0)
	load := model.UniformSeries(testStart(), 1.0, []float64{2, 2, 8, 2})

	m, err := BuildPeakShaving(shavingSpec(), grid, load, shavingTariff())
	require.NoError(t, err)
	sol := mustSolve(t, m)
	checkStoragePhysics(t, m, sol)

	assert.InDelta(t, 4.4, sol.Value(m.Vars.Peak), 1e-5)
	assert.InDelta(t, 5142.22222, sol.Objective, 1e-4)

	// The demand charge prices the peak, so the epigraph variable is tight:
	// it equals the largest grid draw exactly.
	maxGrid := 0.0
	for i := 0; i < grid.Steps(); i++ {
		g := sol.Value(m.Vars.Grid[i])
		assert.GreaterOrEqual(t, g, -solTol, "grid draw must be non-negative at step %d", i)
		if g > maxGrid {
			maxGrid = g
		}
	}
	assert.InDelta(t, maxGrid, sol.Value(m.Vars.Peak), solTol)
}

func TestPeakShavingGridBalance(t *testing.T) {
	grid := mustGrid(t, 4, 1.0)
	load := model.UniformSeries(testStart(), 1.0, []float64{2, 2, 8, 2})

	m, err := BuildPeakShaving(shavingSpec(), grid, load, shavingTariff())
	require.NoError(t, err)
	sol := mustSolve(t, m)

	for i := 0; i < grid.Steps(); i++ {
		want := load.Values[i] + sol.Value(m.Vars.Charge[i]) - sol.Value(m.Vars.Discharge[i])
		assert.InDelta(t, want, sol.Value(m.Vars.Grid[i]), solTol, "grid balance violated at step %d", i)
	}
}

func TestPeakShavingBeatsNoStorageBaseline(t *testing.T) {
	// Without storage the bill is 50*14 + 1000*8 = 8700.
	grid := mustGrid(t, 4, 1.0)
	load := model.UniformSeries(testStart(), 1.0, []float64{2, 2, 8, 2})

	m, err := BuildPeakShaving(shavingSpec(), grid, load, shavingTariff())
	require.NoError(t, err)
	sol := mustSolve(t, m)
	assert.Less(t, sol.Objective, 8700.0)
}

func TestPeakShavingInfeasibleLoad(t *testing.T) {
	// A negative load step forces grid < 0 unless the battery can absorb
	// 5 MW, which a 1 MW charger cannot. The solver must report
	// infeasibility, not crash or fabricate a schedule.
	grid := mustGrid(t, 2, 1.0)
	load := model.UniformSeries(testStart(), 1.0, []float64{-5, 2})

	m, err := BuildPeakShaving(testSpec(), grid, load, shavingTariff())
	require.NoError(t, err)

	sol, err := lp.Solve(m.LP)
	require.NoError(t, err)
	assert.Equal(t, lp.StatusInfeasible, sol.Status)
}

func TestPeakShavingRejectsNegativeTariff(t *testing.T) {
	grid := mustGrid(t, 2, 1.0)
	load := model.UniformSeries(testStart(), 1.0, []float64{2, 2})

	_, err := BuildPeakShaving(shavingSpec(), grid, load, model.Tariff{EnergyPricePerMWh: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EnergyPricePerMWh")
}
