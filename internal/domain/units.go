package domain

// Unit conversions used by the sizing model.

const (
	secondsPerHour  = 3600.0
	kgPerCubicMeter = 1000.0 // unit density of water, not corrected for temperature
)

// GallonsPerCubicMeter is the display factor for storage volumes.
const GallonsPerCubicMeter = 264.0

// LitersPerGallon is the US liquid gallon.
const LitersPerGallon = 3.785411784

// FahrenheitToCelsius converts a temperature in °F to °C.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * (5.0 / 9.0)
}

// KWhToKJ converts energy in kWh to kJ.
func KWhToKJ(kwh float64) float64 {
	return kwh * secondsPerHour
}

// KgWaterToCubicMeters converts a mass of water to volume at unit density.
func KgWaterToCubicMeters(kg float64) float64 {
	return kg / kgPerCubicMeter
}

// CubicMetersToGallons converts m³ to gallons.
func CubicMetersToGallons(m3 float64) float64 {
	return m3 * GallonsPerCubicMeter
}

// GallonsToLiters converts US gallons to liters.
func GallonsToLiters(gal float64) float64 {
	return gal * LitersPerGallon
}

// KWToKBTU converts a load in kW to kBTU using the configured factor.
func KWToKBTU(kw, factor float64) float64 {
	return kw * factor
}
