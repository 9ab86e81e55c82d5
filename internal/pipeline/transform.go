package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
)

// LoadTransformer implements Transformer: parse, size, then optionally geocode.
type LoadTransformer struct {
	estimator *domain.Estimator
	geocoder  domain.Geocoder
	logger    *slog.Logger
}

// NewTransformer creates a LoadTransformer around a validated estimator.
// Pass a nil geocoder to disable geocoding enrichment.
func NewTransformer(estimator *domain.Estimator, geocoder domain.Geocoder, logger *slog.Logger) (*LoadTransformer, error) {
	if estimator == nil {
		return nil, errors.New("pipeline: nil estimator")
	}
	return &LoadTransformer{
		estimator: estimator,
		geocoder:  geocoder,
		logger:    logger,
	}, nil
}

func (t *LoadTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.LocationLoad, error) {
	load, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.LocationLoad{}, err
	}

	load = domain.EnrichLocationLoad(load, t.estimator)
	load = domain.EnrichWithGeocoding(ctx, load, t.geocoder, t.logger)

	return load, nil
}
