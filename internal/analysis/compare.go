package analysis

import (
	"fmt"
	"sort"

	"bess-lab/internal/model"
	"bess-lab/internal/study"
)

// Technology is one candidate storage technology for the sizing comparison:
// its efficiencies, the SOC band it can operate in, and its specific
// investment costs.
type Technology struct {
	Name                string
	ChargeEfficiency    float64
	DischargeEfficiency float64
	MinSOC              float64
	MaxSOC              float64
	InitialSOC          float64
	CapacityCostPerMWh  float64
	PowerCostPerMW      float64
}

func (t Technology) spec() model.StorageSpec {
	return model.StorageSpec{
		ChargeEfficiency:    t.ChargeEfficiency,
		DischargeEfficiency: t.DischargeEfficiency,
		MinSOC:              t.MinSOC,
		MaxSOC:              t.MaxSOC,
		InitialSOC:          t.InitialSOC,
	}
}

func (t Technology) costs() model.SizingCosts {
	return model.SizingCosts{
		CapacityCostPerMWh: t.CapacityCostPerMWh,
		PowerCostPerMW:     t.PowerCostPerMW,
	}
}

// TechnologyResult is a per-technology summary for ranking.
type TechnologyResult struct {
	Name string

	CapacityMWh   float64
	PowerRatingMW float64
	PeakMW        float64

	// TotalCost is the sizing objective: energy cost + demand charge +
	// investment over the horizon.
	TotalCost float64
}

// CompareTechnologies runs the sizing study once per candidate technology
// against the same load and tariff and returns the results sorted ascending
// by total cost of ownership.
func CompareTechnologies(load model.Series, tariff model.Tariff, techs []Technology) ([]TechnologyResult, error) {
	if len(techs) == 0 {
		return nil, fmt.Errorf("no technologies to compare")
	}
	out := make([]TechnologyResult, 0, len(techs))
	for _, tech := range techs {
		outcome, err := study.RunSizing(load, tech.spec(), tech.costs(), tariff)
		if err != nil {
			return nil, fmt.Errorf("technology %q: %w", tech.Name, err)
		}
		out = append(out, TechnologyResult{
			Name:          tech.Name,
			CapacityMWh:   outcome.CapacityMWh,
			PowerRatingMW: outcome.PowerRatingMW,
			PeakMW:        outcome.PeakMW,
			TotalCost:     outcome.Objective,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TotalCost < out[j].TotalCost
	})
	return out, nil
}
