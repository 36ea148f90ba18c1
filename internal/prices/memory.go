package prices

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/selivandex/stock-insight/pkg/models"
)

// MemoryStore is an in-memory Store for tests and callers that already
// hold a materialized series.
type MemoryStore struct {
	mu     sync.RWMutex
	series map[string][]models.PriceBar
}

// NewMemoryStore creates an empty in-memory price store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{series: make(map[string][]models.PriceBar)}
}

// Load returns a copy of the stored series for the symbol
func (s *MemoryStore) Load(ctx context.Context, symbol string) (*models.PriceSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bars, ok := s.series[symbol]
	if !ok || len(bars) == 0 {
		return nil, fmt.Errorf("load %s: %w", symbol, ErrSymbolNotFound)
	}

	out := make([]models.PriceBar, len(bars))
	copy(out, bars)

	return &models.PriceSeries{Symbol: symbol, Bars: out}, nil
}

// Save appends bars for the symbol, keeping date order and replacing
// duplicates by date.
func (s *MemoryStore) Save(ctx context.Context, symbol string, bars []models.PriceBar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDate := make(map[string]models.PriceBar, len(s.series[symbol])+len(bars))
	for _, bar := range s.series[symbol] {
		byDate[bar.Date.Format("2006-01-02")] = bar
	}
	for _, bar := range bars {
		byDate[bar.Date.Format("2006-01-02")] = bar
	}

	merged := make([]models.PriceBar, 0, len(byDate))
	for _, bar := range byDate {
		merged = append(merged, bar)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})

	s.series[symbol] = merged
	return nil
}
