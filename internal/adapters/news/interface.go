package news

import (
	"context"
	"fmt"
	"time"

	"github.com/selivandex/stock-insight/pkg/models"
)

// Gateway fetches raw news articles for a symbol on a calendar date.
// A day with no coverage returns an empty slice, not an error.
type Gateway interface {
	Fetch(ctx context.Context, symbol string, date time.Time) ([]models.Article, error)
}

// GatewayError wraps transport and HTTP failures from a news provider,
// keeping them distinguishable from an empty result set.
type GatewayError struct {
	Symbol string
	Date   time.Time
	Err    error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("news gateway failed for %s on %s: %v",
		e.Symbol, e.Date.Format("2006-01-02"), e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
