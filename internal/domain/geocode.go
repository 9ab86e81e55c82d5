package domain

import (
	"context"
	"log/slog"
	"strings"
)

// SiteQuery turns a TMY3 site name into a geocoding query,
// e.g. "Boston-Logan" -> "Boston Logan".
func SiteQuery(site string) string {
	return strings.Join(strings.FieldsFunc(site, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	}), " ")
}

// EnrichWithGeocoding fills missing coordinates by forward geocoding the site
// name, or attaches place details by reverse geocoding known coordinates.
// A nil geocoder leaves the load untouched; failures only mark GeoSource.
func EnrichWithGeocoding(ctx context.Context, load LocationLoad, geocoder Geocoder, logger *slog.Logger) LocationLoad {
	if geocoder == nil {
		return load
	}

	if load.Geo.IsZero() {
		query := SiteQuery(load.Site)
		if query == "" {
			load.GeoSource = GeoSourceOriginal
			return load
		}
		result, err := geocoder.ForwardGeocode(ctx, query)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"load_id", load.ID,
				"site", load.Site,
				"error", err,
			)
			load.GeoSource = GeoSourceFailed
			return load
		}
		if result.Lat == 0 && result.Lon == 0 {
			load.GeoSource = GeoSourceOriginal
			return load
		}
		load.Geo = Geo{Lat: result.Lat, Lon: result.Lon}
		applyPlace(&load, result)
		load.GeoSource = GeoSourceForward
		return load
	}

	result, err := geocoder.ReverseGeocode(ctx, load.Geo.Lat, load.Geo.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"load_id", load.ID,
			"lat", load.Geo.Lat,
			"lon", load.Geo.Lon,
			"error", err,
		)
		load.GeoSource = GeoSourceFailed
		return load
	}
	if result.FormattedAddress == "" {
		load.GeoSource = GeoSourceOriginal
		return load
	}
	applyPlace(&load, result)
	load.GeoSource = GeoSourceReverse
	return load
}

func applyPlace(load *LocationLoad, r GeocodingResult) {
	load.FormattedAddress = r.FormattedAddress
	load.PlaceName = r.PlaceName
	load.GeoConfidence = r.Confidence
}
