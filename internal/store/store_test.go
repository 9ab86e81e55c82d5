package store

import (
	"context"
	"sync"
	"testing"

	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(id, site string, lowKWh float64) domain.LocationLoad {
	return domain.LocationLoad{ID: id, Site: site, Low: domain.Demand{HeatNeedKWh: lowKWh}}
}

func TestTable_PreservesLoadOrder(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.LoadBatch(context.Background(), []domain.LocationLoad{
		load("z", "Zed", 1),
		load("a", "Alpha", 2),
	}))
	require.NoError(t, tbl.LoadBatch(context.Background(), []domain.LocationLoad{
		load("m", "Mid", 3),
	}))

	all := tbl.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"z", "a", "m"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestTable_ReplayOverwrites(t *testing.T) {
	tbl := NewTable()
	ctx := context.Background()
	require.NoError(t, tbl.LoadBatch(ctx, []domain.LocationLoad{load("a", "Alpha", 1), load("b", "Beta", 2)}))
	require.NoError(t, tbl.LoadBatch(ctx, []domain.LocationLoad{load("a", "Alpha", 10)}))

	assert.Equal(t, 2, tbl.Len())
	all := tbl.All()
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, 10.0, all[0].Low.HeatNeedKWh)
}

func TestTable_BySite(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.LoadBatch(context.Background(), []domain.LocationLoad{load("b", "Boston-Logan", 112.4)}))

	got, ok := tbl.BySite("Boston-Logan")
	require.True(t, ok)
	assert.Equal(t, 112.4, got.Low.HeatNeedKWh)

	_, ok = tbl.BySite("Nowhere")
	assert.False(t, ok)
}

func TestTable_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tbl := NewTable()
	require.ErrorIs(t, tbl.LoadBatch(ctx, []domain.LocationLoad{load("a", "A", 1)}), context.Canceled)
	assert.Equal(t, 0, tbl.Len())
}

func TestTable_ConcurrentReaders(t *testing.T) {
	tbl := NewTable()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tbl.All()
		}()
	}
	require.NoError(t, tbl.LoadBatch(context.Background(), []domain.LocationLoad{load("a", "A", 1)}))
	wg.Wait()
	assert.Equal(t, 1, tbl.Len())
}
