package main

import (
	"flag"
	"fmt"
	"time"

	"bess-lab/internal/model"
	"bess-lab/internal/study"
)

// Demo:
// - Build a tiny four-step price series with an obvious buy-low/sell-high pattern
// - Run the arbitrage study on a 1 MWh battery
// - Print the solved schedule to show how the models fit together
func main() {
	dt := flag.Float64("dt", 0.25, "Step duration in hours")
	flag.Parse()

	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	prices := model.UniformSeries(start, *dt, []float64{10, 50, 10, 50})

	spec := model.StorageSpec{
		CapacityMWh:         1,
		ChargeRate:          1,
		DischargeRate:       1,
		ChargeEfficiency:    0.95,
		DischargeEfficiency: 0.95,
		MinSOC:              0.10,
		MaxSOC:              0.90,
		InitialSOC:          0.50,
	}

	outcome, err := study.RunArbitrage(prices, spec)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%-4s %-22s %-10s %-12s %-10s %-10s %-8s\n",
		"t", "timestamp", "price", "action", "charge", "discharge", "soc")
	for _, r := range outcome.Rows {
		fmt.Printf("%-4d %-22s %-10.2f %-12s %-10.3f %-10.3f %-8.3f\n",
			r.Index,
			r.Timestamp.Format(time.RFC3339),
			r.Input,
			r.Action,
			r.ChargeMW,
			r.DischargeMW,
			r.SOC,
		)
	}
	fmt.Printf("\nObjective (net energy cost)=$%.4f (negative means the schedule turns a profit)\n", outcome.Objective)
}
