// Package study runs one complete optimization study: derive the time grid
// from the input series, build the LP, solve it, and join the solved schedule
// back onto the input rows for reporting.
package study

import (
	"fmt"
	"time"

	"bess-lab/internal/bess"
	"bess-lab/internal/lp"
	"bess-lab/internal/model"
)

// Row is one row of per-timestep output.
// This is the primary artifact for "what the optimizer decided".
type Row struct {
	Index     int
	Timestamp time.Time

	Input float64 // price ($/MWh) for arbitrage, load (MW) otherwise

	Action model.Action

	ChargeMW    float64
	DischargeMW float64
	NetPowerMW  float64
	EnergyMWh   float64
	SOC         float64
	GridMW      float64

	CumCost float64 // running energy cost, excludes the one-off demand charge
}

type Outcome struct {
	Rows      []Row
	Objective float64

	CapacityMWh   float64
	PowerRatingMW float64
	PeakMW        float64
}

// RunArbitrage solves the price-arbitrage study over a spot price series.
func RunArbitrage(prices model.Series, spec model.StorageSpec) (*Outcome, error) {
	grid, err := prices.Grid()
	if err != nil {
		return nil, fmt.Errorf("price series: %w", err)
	}
	m, err := bess.BuildArbitrage(spec, grid, prices)
	if err != nil {
		return nil, err
	}
	res, err := solve(m)
	if err != nil {
		return nil, err
	}
	return assemble(m, res, prices, func(r bess.Record, price float64) float64 {
		return r.NetPowerMW * grid.DTHours() * price
	}), nil
}

// RunPeakShaving solves the peak-shaving study over a load series.
func RunPeakShaving(load model.Series, spec model.StorageSpec, tariff model.Tariff) (*Outcome, error) {
	grid, err := load.Grid()
	if err != nil {
		return nil, fmt.Errorf("load series: %w", err)
	}
	m, err := bess.BuildPeakShaving(spec, grid, load, tariff)
	if err != nil {
		return nil, err
	}
	res, err := solve(m)
	if err != nil {
		return nil, err
	}
	return assemble(m, res, load, func(r bess.Record, _ float64) float64 {
		return r.GridMW * grid.DTHours() * tariff.EnergyPricePerMWh
	}), nil
}

// RunSizing solves the storage-sizing study: peak shaving with capacity and
// power rating as decision variables plus their investment cost.
func RunSizing(load model.Series, base model.StorageSpec, costs model.SizingCosts, tariff model.Tariff) (*Outcome, error) {
	grid, err := load.Grid()
	if err != nil {
		return nil, fmt.Errorf("load series: %w", err)
	}
	m, err := bess.BuildSizing(base, costs, grid, load, tariff)
	if err != nil {
		return nil, err
	}
	res, err := solve(m)
	if err != nil {
		return nil, err
	}
	return assemble(m, res, load, func(r bess.Record, _ float64) float64 {
		return r.GridMW * grid.DTHours() * tariff.EnergyPricePerMWh
	}), nil
}

func solve(m bess.Model) (bess.Result, error) {
	sol, err := lp.Solve(m.LP)
	if err != nil {
		return bess.Result{}, fmt.Errorf("solve: %w", err)
	}
	res, err := bess.Extract(m, sol)
	if err != nil {
		return bess.Result{}, err
	}
	return res, nil
}

func assemble(m bess.Model, res bess.Result, input model.Series, stepCost func(bess.Record, float64) float64) *Outcome {
	out := &Outcome{
		Rows:          make([]Row, len(res.Records)),
		Objective:     res.Objective,
		CapacityMWh:   res.CapacityMWh,
		PowerRatingMW: res.PowerRatingMW,
		PeakMW:        res.PeakMW,
	}
	cum := 0.0
	for i, r := range res.Records {
		cum += stepCost(r, input.Values[i])
		out.Rows[i] = Row{
			Index:       r.Index,
			Timestamp:   input.At(i),
			Input:       input.Values[i],
			Action:      model.ActionFromNetPowerMW(r.NetPowerMW),
			ChargeMW:    r.ChargeMW,
			DischargeMW: r.DischargeMW,
			NetPowerMW:  r.NetPowerMW,
			EnergyMWh:   r.EnergyMWh,
			SOC:         r.SOC,
			GridMW:      r.GridMW,
			CumCost:     cum,
		}
	}
	return out
}
