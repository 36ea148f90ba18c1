package prices

import (
	"context"
	"errors"

	"github.com/selivandex/stock-insight/pkg/models"
)

// ErrSymbolNotFound is returned when no price history exists for a symbol
var ErrSymbolNotFound = errors.New("symbol not found")

// Store provides persisted daily price history. Load returns the full
// series in ascending date order, or ErrSymbolNotFound when no bars exist
// for the symbol.
type Store interface {
	Load(ctx context.Context, symbol string) (*models.PriceSeries, error)
	Save(ctx context.Context, symbol string, bars []models.PriceBar) error
}
