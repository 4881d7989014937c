package models

import (
	"time"

	"bess-lab/internal/config"
	"bess-lab/internal/model"
)

// SeriesPoint is one timestep of an input profile sent inline with a request.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp" binding:"required"`
	Value     float64   `json:"value"`
}

// StorageConfig mirrors the YAML storage shape for JSON requests.
type StorageConfig struct {
	Name                string  `json:"name,omitempty"`
	CapacityMWh         float64 `json:"capacity_mwh,omitempty"`
	ChargeRate          float64 `json:"charge_rate,omitempty"`
	DischargeRate       float64 `json:"discharge_rate,omitempty"`
	ChargeEfficiency    float64 `json:"charge_efficiency,omitempty"`
	DischargeEfficiency float64 `json:"discharge_efficiency,omitempty"`
	MinSOC              float64 `json:"min_soc,omitempty"`
	MaxSOC              float64 `json:"max_soc,omitempty"`
	InitialSOC          float64 `json:"initial_soc,omitempty"`
}

type TariffConfig struct {
	EnergyPricePerMWh float64 `json:"energy_price_per_mwh"`
	PeakPricePerMW    float64 `json:"peak_price_per_mw"`
}

type SizingConfig struct {
	CapacityCostPerMWh float64 `json:"capacity_cost_per_mwh"`
	PowerCostPerMW     float64 `json:"power_cost_per_mw"`
}

// TechnologyConfig is one candidate technology for the sizing comparison.
type TechnologyConfig struct {
	Name                string  `json:"name" binding:"required"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	MinSOC              float64 `json:"min_soc"`
	MaxSOC              float64 `json:"max_soc"`
	InitialSOC          float64 `json:"initial_soc"`
	CapacityCostPerMWh  float64 `json:"capacity_cost_per_mwh"`
	PowerCostPerMW      float64 `json:"power_cost_per_mw"`
}

// StudyOptions contains optional study parameters.
type StudyOptions struct {
	LimitSteps  int  `json:"limit_steps,omitempty"`  // 0 = all
	IncludeRows bool `json:"include_rows,omitempty"` // default: false
}

// ArbitrageRequest runs the price-arbitrage study on an inline price series.
type ArbitrageRequest struct {
	Series      []SeriesPoint `json:"series" binding:"required"`
	StorageFile string        `json:"storage_file,omitempty"`
	Storage     StorageConfig `json:"storage,omitempty"`
	Options     StudyOptions  `json:"options,omitempty"`
}

// PeakShavingRequest runs the peak-shaving study on an inline load series.
type PeakShavingRequest struct {
	Series      []SeriesPoint `json:"series" binding:"required"`
	StorageFile string        `json:"storage_file,omitempty"`
	Storage     StorageConfig `json:"storage,omitempty"`
	Tariff      TariffConfig  `json:"tariff" binding:"required"`
	Options     StudyOptions  `json:"options,omitempty"`
}

// SizingRequest runs the storage-sizing study. Storage supplies only the
// fields that stay fixed (efficiencies, SOC band); capacity and rating are
// decided by the optimizer.
type SizingRequest struct {
	Series      []SeriesPoint `json:"series" binding:"required"`
	StorageFile string        `json:"storage_file,omitempty"`
	Storage     StorageConfig `json:"storage,omitempty"`
	Tariff      TariffConfig  `json:"tariff" binding:"required"`
	Sizing      SizingConfig  `json:"sizing" binding:"required"`
	Options     StudyOptions  `json:"options,omitempty"`
}

// CompareRequest ranks candidate technologies on the same load and tariff.
type CompareRequest struct {
	Series       []SeriesPoint      `json:"series" binding:"required"`
	Tariff       TariffConfig       `json:"tariff" binding:"required"`
	Technologies []TechnologyConfig `json:"technologies" binding:"required"`
}

// ToSeries converts inline points to a model series.
func ToSeries(points []SeriesPoint, limit int) model.Series {
	if limit > 0 && limit < len(points) {
		points = points[:limit]
	}
	s := model.Series{
		Timestamps: make([]time.Time, len(points)),
		Values:     make([]float64, len(points)),
	}
	for i, p := range points {
		s.Timestamps[i] = p.Timestamp
		s.Values[i] = p.Value
	}
	return s
}

// ToConfigStorage maps the JSON storage shape onto the config shape so the
// same storage-file merge rules apply to API requests and YAML configs.
func (s StorageConfig) ToConfigStorage() config.StorageConfig {
	return config.StorageConfig{
		Name:                s.Name,
		CapacityMWh:         s.CapacityMWh,
		ChargeRate:          s.ChargeRate,
		DischargeRate:       s.DischargeRate,
		ChargeEfficiency:    s.ChargeEfficiency,
		DischargeEfficiency: s.DischargeEfficiency,
		MinSOC:              s.MinSOC,
		MaxSOC:              s.MaxSOC,
		InitialSOC:          s.InitialSOC,
	}
}

func (t TariffConfig) ToModelTariff() model.Tariff {
	return model.Tariff{
		EnergyPricePerMWh: t.EnergyPricePerMWh,
		PeakPricePerMW:    t.PeakPricePerMW,
	}
}

func (s SizingConfig) ToModelCosts() model.SizingCosts {
	return model.SizingCosts{
		CapacityCostPerMWh: s.CapacityCostPerMWh,
		PowerCostPerMW:     s.PowerCostPerMW,
	}
}
