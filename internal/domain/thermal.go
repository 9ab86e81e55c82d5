package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidThermalConfig is the sentinel every DomainError matches with errors.Is.
var ErrInvalidThermalConfig = errors.New("invalid thermal configuration")

// DomainError reports a thermal configuration under which no sized volume
// would have physical meaning.
type DomainError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s=%g: %s", ErrInvalidThermalConfig, e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidThermalConfig) match any DomainError.
func (e *DomainError) Is(target error) bool {
	return target == ErrInvalidThermalConfig
}

// ThermalConfig holds the process-wide sizing parameters. It is set once at
// startup and never mutated during a run.
type ThermalConfig struct {
	StorageTempF         float64 `yaml:"storage_temp_f"`
	RoomTempF            float64 `yaml:"room_temp_f"`
	StandbyLossPct       float64 `yaml:"standby_loss_pct"`   // per storage interval
	AuxEfficiencyPct     float64 `yaml:"aux_efficiency_pct"` // e.g. a 90% efficient furnace
	SpecificHeatKJPerKgK float64 `yaml:"specific_heat_kj_kg_k"`
	StorageIntervalHours float64 `yaml:"storage_interval_hours"`
	KWhToKBTU            float64 `yaml:"kwh_to_kbtu"`
}

// DefaultThermalConfig returns the reference parameters: 150°F storage in a
// 70°F room, 5% daily standby loss, 90% auxiliary efficiency, over 24 hours.
func DefaultThermalConfig() ThermalConfig {
	return ThermalConfig{
		StorageTempF:         150,
		RoomTempF:            70,
		StandbyLossPct:       5,
		AuxEfficiencyPct:     90,
		SpecificHeatKJPerKgK: 4.186,
		StorageIntervalHours: 24,
		KWhToKBTU:            3.41214,
	}
}

// Validate returns a *DomainError for the first parameter that breaks the
// sizing model, or nil.
func (c ThermalConfig) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"storage_temp_f", c.StorageTempF},
		{"room_temp_f", c.RoomTempF},
		{"standby_loss_pct", c.StandbyLossPct},
		{"aux_efficiency_pct", c.AuxEfficiencyPct},
		{"specific_heat_kj_kg_k", c.SpecificHeatKJPerKgK},
		{"storage_interval_hours", c.StorageIntervalHours},
		{"kwh_to_kbtu", c.KWhToKBTU},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &DomainError{Field: f.name, Value: f.value, Reason: "must be finite"}
		}
	}

	if c.StorageTempF <= c.RoomTempF {
		return &DomainError{
			Field:  "storage_temp_f",
			Value:  c.StorageTempF,
			Reason: fmt.Sprintf("must exceed room temperature %g°F", c.RoomTempF),
		}
	}
	if err := checkPercent("standby_loss_pct", c.StandbyLossPct); err != nil {
		return err
	}
	if err := checkPercent("aux_efficiency_pct", c.AuxEfficiencyPct); err != nil {
		return err
	}
	if c.SpecificHeatKJPerKgK <= 0 {
		return &DomainError{Field: "specific_heat_kj_kg_k", Value: c.SpecificHeatKJPerKgK, Reason: "must be positive"}
	}
	if c.StorageIntervalHours <= 0 {
		return &DomainError{Field: "storage_interval_hours", Value: c.StorageIntervalHours, Reason: "must be positive"}
	}
	if c.KWhToKBTU <= 0 {
		return &DomainError{Field: "kwh_to_kbtu", Value: c.KWhToKBTU, Reason: "must be positive"}
	}
	return nil
}

// checkPercent enforces the (0, 100] range.
func checkPercent(name string, v float64) error {
	if v <= 0 || v > 100 {
		return &DomainError{Field: name, Value: v, Reason: "must be in (0, 100]"}
	}
	return nil
}
