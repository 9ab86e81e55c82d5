package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
	"gopkg.in/yaml.v3"
)

// thermalEnv maps each thermal override variable to its field.
var thermalEnv = []struct {
	key   string
	field func(*domain.ThermalConfig) *float64
}{
	{"STORAGE_TEMP_F", func(c *domain.ThermalConfig) *float64 { return &c.StorageTempF }},
	{"ROOM_TEMP_F", func(c *domain.ThermalConfig) *float64 { return &c.RoomTempF }},
	{"STANDBY_LOSS_PCT", func(c *domain.ThermalConfig) *float64 { return &c.StandbyLossPct }},
	{"AUX_EFFICIENCY_PCT", func(c *domain.ThermalConfig) *float64 { return &c.AuxEfficiencyPct }},
	{"SPECIFIC_HEAT_KJ_KG_K", func(c *domain.ThermalConfig) *float64 { return &c.SpecificHeatKJPerKgK }},
	{"STORAGE_INTERVAL_HOURS", func(c *domain.ThermalConfig) *float64 { return &c.StorageIntervalHours }},
	{"KWH_TO_KBTU", func(c *domain.ThermalConfig) *float64 { return &c.KWhToKBTU }},
}

// loadThermal layers the reference parameters, an optional YAML file named by
// THERMAL_CONFIG_FILE, and per-field environment overrides, then validates.
func loadThermal() (domain.ThermalConfig, error) {
	cfg := domain.DefaultThermalConfig()

	if path := os.Getenv("THERMAL_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.ThermalConfig{}, fmt.Errorf("read THERMAL_CONFIG_FILE: %w", err)
		}
		// Keys absent from the file keep their defaults.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.ThermalConfig{}, fmt.Errorf("decode THERMAL_CONFIG_FILE: %w", err)
		}
	}

	for _, e := range thermalEnv {
		s := os.Getenv(e.key)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.ThermalConfig{}, fmt.Errorf("invalid %s: %w", e.key, err)
		}
		*e.field(&cfg) = v
	}

	if err := cfg.Validate(); err != nil {
		return domain.ThermalConfig{}, err
	}
	return cfg, nil
}
