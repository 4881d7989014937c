package models

import "time"

// StudyResponse represents the response from one study run.
type StudyResponse struct {
	ID      string       `json:"id,omitempty"`
	Status  string       `json:"status"`
	Summary StudySummary `json:"summary"`
	Rows    []Row        `json:"rows,omitempty"`
}

// StudySummary contains aggregated study results.
type StudySummary struct {
	Objective           float64    `json:"objective"`
	Steps               int        `json:"steps"`
	Window              TimeWindow `json:"window"`
	EnergyChargedMWh    float64    `json:"energy_charged_mwh"`
	EnergyDischargedMWh float64    `json:"energy_discharged_mwh"`

	CapacityMWh   float64 `json:"capacity_mwh,omitempty"`
	PowerRatingMW float64 `json:"power_rating_mw,omitempty"`
	PeakMW        float64 `json:"peak_mw,omitempty"`
}

// TimeWindow represents a time range.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Row represents one timestep of the solved schedule.
type Row struct {
	Index       int       `json:"index"`
	Timestamp   time.Time `json:"timestamp"`
	Input       float64   `json:"input"`
	Action      string    `json:"action"` // "CHARGING", "DISCHARGING", "IDLE"
	ChargeMW    float64   `json:"charge_mw"`
	DischargeMW float64   `json:"discharge_mw"`
	PowerMW     float64   `json:"power_mw"`
	EnergyMWh   float64   `json:"energy_mwh"`
	SOC         float64   `json:"soc"`
	GridMW      float64   `json:"grid_mw,omitempty"`
	CumCost     float64   `json:"cum_cost"`
}

// CompareResponse represents the response from a technology comparison.
type CompareResponse struct {
	ID      string             `json:"id,omitempty"`
	Status  string             `json:"status"`
	Ranking []TechnologyResult `json:"ranking"`
}

// TechnologyResult contains sizing results for one technology.
type TechnologyResult struct {
	Name          string  `json:"name"`
	CapacityMWh   float64 `json:"capacity_mwh"`
	PowerRatingMW float64 `json:"power_rating_mw"`
	PeakMW        float64 `json:"peak_mw"`
	TotalCost     float64 `json:"total_cost"`
}

// StorageInfo describes one storage preset file.
type StorageInfo struct {
	Name                string  `json:"name"`
	File                string  `json:"file"`
	CapacityMWh         float64 `json:"capacity_mwh"`
	ChargeRate          float64 `json:"charge_rate"`
	DischargeRate       float64 `json:"discharge_rate"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	MinSOC              float64 `json:"min_soc"`
	MaxSOC              float64 `json:"max_soc"`
	InitialSOC          float64 `json:"initial_soc"`
}
