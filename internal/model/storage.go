package model

import "errors"

// StorageSpec defines the physical parameters of a battery energy storage system.
// Units:
// - CapacityMWh: MWh
// - ChargeRate/DischargeRate: 1/h (E-rate; power bound = CapacityMWh * rate)
// - Efficiencies: 0..1
// - SOC: fraction 0..1
type StorageSpec struct {
	CapacityMWh         float64
	ChargeRate          float64
	DischargeRate       float64
	ChargeEfficiency    float64
	DischargeEfficiency float64
	MinSOC              float64
	MaxSOC              float64
	InitialSOC          float64
}

// MaxChargePowerMW is the charge power bound implied by capacity and E-rate.
func (s StorageSpec) MaxChargePowerMW() float64 {
	return s.CapacityMWh * s.ChargeRate
}

// MaxDischargePowerMW is the discharge power bound implied by capacity and E-rate.
func (s StorageSpec) MaxDischargePowerMW() float64 {
	return s.CapacityMWh * s.DischargeRate
}

func (s StorageSpec) Validate() error {
	if s.CapacityMWh <= 0 {
		return errors.New("CapacityMWh must be > 0")
	}
	if s.ChargeRate <= 0 || s.DischargeRate <= 0 {
		return errors.New("ChargeRate and DischargeRate must be > 0")
	}
	return s.validateShared()
}

// ValidateForSizing checks only the fields that stay parameters when capacity
// and power rating become decision variables.
func (s StorageSpec) ValidateForSizing() error {
	return s.validateShared()
}

func (s StorageSpec) validateShared() error {
	if s.ChargeEfficiency <= 0 || s.ChargeEfficiency > 1 {
		return errors.New("ChargeEfficiency must be in (0, 1]")
	}
	if s.DischargeEfficiency <= 0 || s.DischargeEfficiency > 1 {
		return errors.New("DischargeEfficiency must be in (0, 1]")
	}
	if s.MinSOC < 0 || s.MinSOC > 1 || s.MaxSOC < 0 || s.MaxSOC > 1 || s.MinSOC > s.MaxSOC {
		return errors.New("MinSOC/MaxSOC must satisfy 0<=MinSOC<=MaxSOC<=1")
	}
	if s.InitialSOC < s.MinSOC || s.InitialSOC > s.MaxSOC {
		return errors.New("InitialSOC must be within [MinSOC, MaxSOC]")
	}
	return nil
}

// Tariff defines the commercial terms for peak-shaving studies.
// EnergyPricePerMWh is applied to every MWh drawn from the grid;
// PeakPricePerMW is applied once to the highest grid draw in the horizon.
type Tariff struct {
	EnergyPricePerMWh float64
	PeakPricePerMW    float64
}

func (t Tariff) Validate() error {
	if t.EnergyPricePerMWh < 0 {
		return errors.New("EnergyPricePerMWh must be >= 0")
	}
	if t.PeakPricePerMW < 0 {
		return errors.New("PeakPricePerMW must be >= 0")
	}
	return nil
}

// SizingCosts holds specific investment costs for the sizing study, where
// capacity and power rating are decision variables instead of fixed parameters.
type SizingCosts struct {
	CapacityCostPerMWh float64
	PowerCostPerMW     float64
}

func (c SizingCosts) Validate() error {
	if c.CapacityCostPerMWh < 0 {
		return errors.New("CapacityCostPerMWh must be >= 0")
	}
	if c.PowerCostPerMW < 0 {
		return errors.New("PowerCostPerMW must be >= 0")
	}
	return nil
}
