package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bess-lab/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load storage parameters from a separate YAML
	// (e.g. examples/storages/*.yaml). Fields set inline under Storage
	// override the file.
	StorageFile string        `yaml:"storage_file"`
	Storage     StorageConfig `yaml:"storage"`
	Tariff      TariffConfig  `yaml:"tariff"`
	Sizing      SizingConfig  `yaml:"sizing"`
	Study       StudyConfig   `yaml:"study"`
}

type StorageConfig struct {
	Name                string  `yaml:"name"`
	CapacityMWh         float64 `yaml:"capacity_mwh"`
	ChargeRate          float64 `yaml:"charge_rate"`
	DischargeRate       float64 `yaml:"discharge_rate"`
	ChargeEfficiency    float64 `yaml:"charge_efficiency"`
	DischargeEfficiency float64 `yaml:"discharge_efficiency"`
	MinSOC              float64 `yaml:"min_soc"`
	MaxSOC              float64 `yaml:"max_soc"`
	InitialSOC          float64 `yaml:"initial_soc"`
}

type TariffConfig struct {
	EnergyPricePerMWh float64 `yaml:"energy_price_per_mwh"`
	PeakPricePerMW    float64 `yaml:"peak_price_per_mw"`
}

type SizingConfig struct {
	CapacityCostPerMWh float64 `yaml:"capacity_cost_per_mwh"`
	PowerCostPerMW     float64 `yaml:"power_cost_per_mw"`
}

type StudyConfig struct {
	Name   string         `yaml:"name"` // arbitrage | peakshave | sizing
	Params map[string]any `yaml:"params"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	// If initial_soc is not provided, default it to min_soc. This keeps
	// configs concise: an unconfigured battery starts empty-but-feasible.
	if c.Storage.InitialSOC == 0 {
		c.Storage.InitialSOC = c.Storage.MinSOC
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.StorageFile != "" {
		storagePath := c.StorageFile
		if !filepath.IsAbs(storagePath) {
			// Prefer interpreting relative paths as relative to the config file
			// directory, but fall back to the provided path (relative to cwd)
			// if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), storagePath)
			if _, err := os.Stat(cand); err == nil {
				storagePath = cand
			}
		}
		loaded, err := LoadStorageFile(storagePath)
		if err != nil {
			return nil, err
		}
		c.Storage = MergeStorage(loaded, c.Storage)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch c.Study.Name {
	case "arbitrage":
		if err := c.Storage.ToModelSpec().Validate(); err != nil {
			return fmt.Errorf("storage config invalid: %w", err)
		}
	case "peakshave":
		if err := c.Storage.ToModelSpec().Validate(); err != nil {
			return fmt.Errorf("storage config invalid: %w", err)
		}
		if err := c.Tariff.ToModelTariff().Validate(); err != nil {
			return fmt.Errorf("tariff config invalid: %w", err)
		}
	case "sizing":
		if err := c.Storage.ToModelSpec().ValidateForSizing(); err != nil {
			return fmt.Errorf("storage config invalid: %w", err)
		}
		if err := c.Tariff.ToModelTariff().Validate(); err != nil {
			return fmt.Errorf("tariff config invalid: %w", err)
		}
		if err := c.Sizing.ToModelCosts().Validate(); err != nil {
			return fmt.Errorf("sizing config invalid: %w", err)
		}
	case "":
		return errors.New("study.name is required")
	default:
		return fmt.Errorf("unsupported study: %q", c.Study.Name)
	}
	return nil
}

func (s StorageConfig) ToModelSpec() model.StorageSpec {
	return model.StorageSpec{
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

type storageFileWrapper struct {
	Storage StorageConfig `yaml:"storage"`
}

// LoadStorageFile reads a standalone storage preset (examples/storages/*.yaml).
func LoadStorageFile(path string) (StorageConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return StorageConfig{}, err
	}
	var w storageFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return StorageConfig{}, err
	}
	return w.Storage, nil
}

// MergeStorage overlays non-zero fields from override onto base.
// This is used when loading a storage file and then applying overrides from
// the config or an API request.
func MergeStorage(base, override StorageConfig) StorageConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityMWh != 0 {
		out.CapacityMWh = override.CapacityMWh
	}
	if override.ChargeRate != 0 {
		out.ChargeRate = override.ChargeRate
	}
	if override.DischargeRate != 0 {
		out.DischargeRate = override.DischargeRate
	}
	if override.ChargeEfficiency != 0 {
		out.ChargeEfficiency = override.ChargeEfficiency
	}
	if override.DischargeEfficiency != 0 {
		out.DischargeEfficiency = override.DischargeEfficiency
	}
	// Note: these are allowed to be 0 in theory, but our presets use non-zero values.
	if override.MinSOC != 0 {
		out.MinSOC = override.MinSOC
	}
	if override.MaxSOC != 0 {
		out.MaxSOC = override.MaxSOC
	}
	if override.InitialSOC != 0 {
		out.InitialSOC = override.InitialSOC
	}
	return out
}
