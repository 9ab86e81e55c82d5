package report

import (
	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats is a mean/min/max triple.
type Stats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Summary describes the sized fleet as a whole.
type Summary struct {
	Sites       int   `json:"sites"`
	StorageLow  Stats `json:"storage_low_m3"`
	StorageHigh Stats `json:"storage_high_m3"`
	// CapacityRatio is the mean of average load over peak load across both
	// levels: the fraction of peak capacity a heat pump needs when a full
	// interval of storage is available. Sites with no peak are skipped.
	CapacityRatio float64 `json:"capacity_ratio"`
}

// Summarize computes fleet statistics. An empty table yields a zero Summary.
func Summarize(loads []domain.LocationLoad) Summary {
	if len(loads) == 0 {
		return Summary{}
	}
	low := make([]float64, len(loads))
	high := make([]float64, len(loads))
	var ratios []float64
	for i, l := range loads {
		low[i] = l.Low.StorageM3
		high[i] = l.High.StorageM3
		for _, d := range []domain.Demand{l.Low, l.High} {
			if d.PeakLoadKW > 0 {
				ratios = append(ratios, d.AverageLoadKW/d.PeakLoadKW)
			}
		}
	}

	s := Summary{
		Sites:       len(loads),
		StorageLow:  describe(low),
		StorageHigh: describe(high),
	}
	if len(ratios) > 0 {
		s.CapacityRatio = stat.Mean(ratios, nil)
	}
	return s
}

func describe(xs []float64) Stats {
	return Stats{
		Mean: stat.Mean(xs, nil),
		Min:  floats.Min(xs),
		Max:  floats.Max(xs),
	}
}
