// Package report turns the enriched location table into chart
// specifications and fleet summary statistics, and writes them to a sink.
package report

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Chart titles and series names.
const (
	StorageTitle      = "VOLUME NEEDED TO FULLY SHIFT 24 HOUR LOAD"
	MapTitle          = "THERMAL STORAGE VOLUME MAP"
	CapacityTitle     = "HEAT PUMP CAPACITY WITH AND WITHOUT STORAGE"
	SeriesLowStorage  = "LOW LOAD storage"
	SeriesHighStorage = "HIGH LOAD storage"
	SeriesPeakLoad    = "Peak Load (Capacity Required)"
	SeriesAvgLoad     = "Avg Load"
)

// Map framing for the contiguous US.
var mapCenter = domain.Geo{Lat: 40.4, Lon: -101.8}

const (
	mapZoom       = 3
	minMarkerSize = 6.0
	maxMarkerSize = 30.0
)

// ErrUnknownSite is returned when a chart asks for a site not in the table.
var ErrUnknownSite = errors.New("unknown site")

// Series is one named bar series; Values align with the chart's Categories.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// BarChart is a grouped bar chart.
type BarChart struct {
	Title      string   `json:"title"`
	YAxis      string   `json:"y_axis"`
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
}

// MapPoint is one scatter marker.
type MapPoint struct {
	Label      string  `json:"label"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Magnitude  float64 `json:"magnitude"`
	MarkerSize float64 `json:"marker_size"`
}

// MapChart is a geographic scatter of per-site magnitudes.
type MapChart struct {
	Title  string     `json:"title"`
	Center domain.Geo `json:"center"`
	Zoom   float64    `json:"zoom"`
	Points []MapPoint `json:"points"`
}

// BuildStorageBars charts low and high load storage per site in gallons.
func BuildStorageBars(loads []domain.LocationLoad) BarChart {
	sites := make([]string, len(loads))
	low := make([]float64, len(loads))
	high := make([]float64, len(loads))
	for i, l := range loads {
		sites[i] = l.Site
		low[i] = l.Low.StorageGal
		high[i] = l.High.StorageGal
	}
	return BarChart{
		Title:      StorageTitle,
		YAxis:      "gallons",
		Categories: sites,
		Series: []Series{
			{Name: SeriesLowStorage, Values: low},
			{Name: SeriesHighStorage, Values: high},
		},
	}
}

// BuildStorageMap places each site's low load storage (gallons) on a map.
// Marker sizes scale linearly with magnitude up to maxMarkerSize for the
// largest site. Sites without coordinates are left off the map.
func BuildStorageMap(loads []domain.LocationLoad) MapChart {
	var largest float64
	for _, l := range loads {
		largest = max(largest, l.Low.StorageGal)
	}

	points := make([]MapPoint, 0, len(loads))
	for _, l := range loads {
		if l.Geo.IsZero() {
			continue
		}
		points = append(points, MapPoint{
			Label:      l.Site,
			Lat:        l.Geo.Lat,
			Lon:        l.Geo.Lon,
			Magnitude:  l.Low.StorageGal,
			MarkerSize: markerSize(l.Low.StorageGal, largest),
		})
	}
	return MapChart{Title: MapTitle, Center: mapCenter, Zoom: mapZoom, Points: points}
}

func markerSize(magnitude, largest float64) float64 {
	if largest <= 0 || magnitude <= 0 {
		return minMarkerSize
	}
	return minMarkerSize + (maxMarkerSize-minMarkerSize)*magnitude/largest
}

// BuildCapacityComparison compares peak load (heat pump capacity required
// without storage) to average load (capacity required with a full day of
// storage) for one site, in kBTU.
func BuildCapacityComparison(loads []domain.LocationLoad, site string, kbtuFactor float64) (BarChart, error) {
	for _, l := range loads {
		if l.Site != site {
			continue
		}
		return BarChart{
			Title:      CapacityTitle,
			YAxis:      "kBTU",
			Categories: []string{site + " Low Load", site + " High Load"},
			Series: []Series{
				{Name: SeriesPeakLoad, Values: []float64{
					domain.KWToKBTU(l.Low.PeakLoadKW, kbtuFactor),
					domain.KWToKBTU(l.High.PeakLoadKW, kbtuFactor),
				}},
				{Name: SeriesAvgLoad, Values: []float64{
					domain.KWToKBTU(l.Low.AverageLoadKW, kbtuFactor),
					domain.KWToKBTU(l.High.AverageLoadKW, kbtuFactor),
				}},
			},
		}, nil
	}
	return BarChart{}, fmt.Errorf("capacity comparison for %q: %w", site, ErrUnknownSite)
}

// FeatureCollection renders the map points as GeoJSON.
func (m MapChart) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range m.Points {
		f := geojson.NewFeature(orb.Point{p.Lon, p.Lat})
		f.Properties["site"] = p.Label
		f.Properties["storage_gal"] = p.Magnitude
		f.Properties["marker_size"] = p.MarkerSize
		fc.Append(f)
	}
	if len(m.Points) > 0 {
		fc.BBox = geojson.NewBBox(m.Bound())
	}
	return fc
}

// Bound returns the bounding box of the plotted sites.
func (m MapChart) Bound() orb.Bound {
	mp := make(orb.MultiPoint, len(m.Points))
	for i, p := range m.Points {
		mp[i] = orb.Point{p.Lon, p.Lat}
	}
	return mp.Bound()
}
