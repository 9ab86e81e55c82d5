package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
)

// FanOut delivers each batch to every loader in order, stopping at the
// first failure. Loaders must tolerate a retried batch.
type FanOut []BatchLoader

func (f FanOut) LoadBatch(ctx context.Context, loads []domain.LocationLoad) error {
	for i, l := range f {
		if err := l.LoadBatch(ctx, loads); err != nil {
			return fmt.Errorf("loader %d: %w", i, err)
		}
	}
	return nil
}
