package prices

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/selivandex/stock-insight/pkg/models"
)

func dayBar(day int, close float64) models.PriceBar {
	return models.PriceBar{
		Date:  time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Open:  models.NewDecimal(close),
		High:  models.NewDecimal(close),
		Low:   models.NewDecimal(close),
		Close: models.NewDecimal(close),
	}
}

func TestMemoryStore_LoadUnknownSymbol(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Load(context.Background(), "MISSING")
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestMemoryStore_SaveAndLoad(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, "AAPL", []models.PriceBar{dayBar(3, 101), dayBar(2, 100)}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// Overwrite day 3 and extend
	if err := store.Save(ctx, "AAPL", []models.PriceBar{dayBar(3, 105), dayBar(4, 110)}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	series, err := store.Load(ctx, "AAPL")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := series.Validate(); err != nil {
		t.Fatalf("loaded series violates invariants: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("expected 3 bars, got %d", series.Len())
	}
	if got := series.Bars[1].Close.InexactFloat64(); got != 105 {
		t.Errorf("duplicate date should be replaced, got close %.2f", got)
	}
}
