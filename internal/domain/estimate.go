package domain

// Estimator sizes storage tanks under one validated ThermalConfig. Build it
// with NewEstimator; the per-row methods cannot fail.
type Estimator struct {
	cfg    ThermalConfig
	deltaT float64 // °C between storage and room
}

// NewEstimator validates cfg and returns an Estimator, or a *DomainError.
func NewEstimator(cfg ThermalConfig) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{
		cfg:    cfg,
		deltaT: FahrenheitToCelsius(cfg.StorageTempF) - FahrenheitToCelsius(cfg.RoomTempF),
	}, nil
}

// Config returns the configuration the estimator was built with.
func (e *Estimator) Config() ThermalConfig {
	return e.cfg
}

// DeltaT returns the storage-to-room temperature differential in °C.
func (e *Estimator) DeltaT() float64 {
	return e.deltaT
}

// Volume returns the water volume in m³ needed to buffer energyKWh over one
// storage interval. The result is linear in energyKWh; zero or negative
// demand gives a zero or negative volume.
func (e *Estimator) Volume(energyKWh float64) float64 {
	mass := KWhToKJ(energyKWh) / (e.cfg.SpecificHeatKJPerKgK * e.deltaT)
	mass *= (100 - e.cfg.StandbyLossPct) / e.cfg.AuxEfficiencyPct
	return KgWaterToCubicMeters(mass)
}

// AverageLoad spreads demandKWh evenly over the storage interval, in kW.
func (e *Estimator) AverageLoad(demandKWh float64) float64 {
	return demandKWh / e.cfg.StorageIntervalHours
}

// EstimateVolume is the one-shot form of Estimator.Volume. Callers sizing
// many rows should build an Estimator once instead.
func EstimateVolume(energyKWh float64, cfg ThermalConfig) (float64, error) {
	e, err := NewEstimator(cfg)
	if err != nil {
		return 0, err
	}
	return e.Volume(energyKWh), nil
}
