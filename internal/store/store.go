// Package store holds the enriched location table in memory. The pipeline
// writes it once per run; the HTTP and report layers read sorted snapshots.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/couchcryptid/thermal-storage-etl/internal/domain"
)

// Table is a concurrency-safe set of location loads keyed by ID.
// It implements pipeline.BatchLoader.
type Table struct {
	mu    sync.RWMutex
	rows  map[string]domain.LocationLoad
	order map[string]int
	next  int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		rows:  make(map[string]domain.LocationLoad),
		order: make(map[string]int),
	}
}

// LoadBatch upserts loads by ID. A replayed ID overwrites the earlier row but
// keeps its first position.
func (t *Table) LoadBatch(ctx context.Context, loads []domain.LocationLoad) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range loads {
		id := loads[i].ID
		if _, ok := t.order[id]; !ok {
			t.order[id] = t.next
			t.next++
		}
		t.rows[id] = loads[i]
	}
	return nil
}

// All returns a copy of every row in first-load order, which for the CSV
// source is the file's row order.
func (t *Table) All() []domain.LocationLoad {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.LocationLoad, 0, len(t.rows))
	for _, l := range t.rows {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return t.order[out[i].ID] < t.order[out[j].ID]
	})
	return out
}

// BySite returns the first row whose site name matches.
func (t *Table) BySite(site string) (domain.LocationLoad, bool) {
	for _, l := range t.All() {
		if l.Site == site {
			return l, true
		}
	}
	return domain.LocationLoad{}, false
}

// Len reports the number of distinct rows.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
