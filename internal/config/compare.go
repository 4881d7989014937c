package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CompareConfig is the YAML shape for technology comparisons: one tariff and
// a list of candidate technologies to size against the same load.
type CompareConfig struct {
	Tariff       TariffConfig       `yaml:"tariff"`
	Technologies []TechnologyConfig `yaml:"technologies"`
}

type TechnologyConfig struct {
	Name                string  `yaml:"name"`
	ChargeEfficiency    float64 `yaml:"charge_efficiency"`
	DischargeEfficiency float64 `yaml:"discharge_efficiency"`
	MinSOC              float64 `yaml:"min_soc"`
	MaxSOC              float64 `yaml:"max_soc"`
	InitialSOC          float64 `yaml:"initial_soc"`
	CapacityCostPerMWh  float64 `yaml:"capacity_cost_per_mwh"`
	PowerCostPerMW      float64 `yaml:"power_cost_per_mw"`
}

func LoadCompare(path string) (*CompareConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c CompareConfig
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if len(c.Technologies) == 0 {
		return nil, errors.New("technologies list is empty")
	}
	for i, t := range c.Technologies {
		if t.Name == "" {
			return nil, fmt.Errorf("technologies[%d]: name is required", i)
		}
	}
	return &c, nil
}
