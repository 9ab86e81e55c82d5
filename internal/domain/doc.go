// Package domain models per-site heating load data and the sizing of
// sensible-heat hot-water storage tanks.
//
// # Data Source
//
// Loads originate from the OpenEI "Commercial and Residential Hourly Load
// Profiles for all TMY3 Locations in the United States" dataset. Only the
// residential profiles are used, which come in two building variants, LOW
// and HIGH load. Hourly heating and domestic hot water loads were summed over
// 24 hour windows and the coldest day retained, so each row describes the
// worst design day of one TMY3 site.
//
// # Column Conventions
//
//	city                 TMY3 site name, e.g. "Boston-Logan"
//	Latitude, Longitude  WGS-84 decimal degrees
//	heat_Need_LOW[kWh]   heat demand of the LOW load home over one storage interval
//	heat_Need_HIGH[kWh]  heat demand of the HIGH load home over one storage interval
//	peakLoad_LOW[kW]     peak hourly load, display only
//	peakLoad_HIGH[kW]    peak hourly load, display only
//
// Site names use "-" to join the city and the weather station ("Boston-Logan"),
// which is replaced with a space before forward geocoding.
//
// # Sizing Model
//
// A tank of water held between the storage temperature and the room
// temperature stores c_p·m·ΔT of sensible heat. Solving for m and correcting
// for standby losses and auxiliary heater efficiency gives
//
//	m [kg]  = E[kWh]·3600 / (c_p·ΔT) · (100 − loss%) / efficiency%
//	V [m³]  = m / 1000
//
// Water is taken at unit density (1 kg ≈ 1 L) regardless of temperature.
// Volumes are reported in gallons at 264 gal/m³ for display.
//
// # ID Generation
//
// Record IDs are the slugged site name followed by a short SHA-256 of
// site|lat|lon, so replays of the same row land on the same key downstream.
// See [generateID].
package domain
