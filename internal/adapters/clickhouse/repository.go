package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/selivandex/stock-insight/internal/prices"
	"github.com/selivandex/stock-insight/pkg/logger"
	"github.com/selivandex/stock-insight/pkg/models"
)

// Repository stores daily price bars in ClickHouse. It implements
// prices.Store.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new ClickHouse price repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the price-bar table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS price_bars (
			symbol String,
			date   Date,
			open   Float64,
			high   Float64,
			low    Float64,
			close  Float64
		) ENGINE = ReplacingMergeTree
		ORDER BY (symbol, date)
	`)
	if err != nil {
		return fmt.Errorf("failed to create price_bars table: %w", err)
	}
	return nil
}

// Save writes daily bars for the symbol. Re-saving a date replaces the
// previous row on merge.
func (r *Repository) Save(ctx context.Context, symbol string, bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	stmt, err := tx.Preparex(`
		INSERT INTO price_bars (symbol, date, open, high, low, close)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, bar := range bars {
		_, err = stmt.ExecContext(ctx,
			symbol,
			bar.Date,
			bar.Open.InexactFloat64(),
			bar.High.InexactFloat64(),
			bar.Low.InexactFloat64(),
			bar.Close.InexactFloat64(),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert bar: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Debug("saved price bars",
		zap.String("symbol", symbol),
		zap.Int("count", len(bars)),
	)

	return nil
}

// Load reads the full daily history for the symbol in ascending date
// order. An unknown symbol returns prices.ErrSymbolNotFound.
func (r *Repository) Load(ctx context.Context, symbol string) (*models.PriceSeries, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT date, open, high, low, close
		FROM price_bars FINAL
		WHERE symbol = ?
		ORDER BY date ASC
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query price bars: %w", err)
	}
	defer rows.Close()

	bars := []models.PriceBar{}
	for rows.Next() {
		var date time.Time
		var open, high, low, close float64

		if err := rows.Scan(&date, &open, &high, &low, &close); err != nil {
			return nil, fmt.Errorf("failed to scan price bar: %w", err)
		}

		bars = append(bars, models.PriceBar{
			Date:  date,
			Open:  models.NewDecimal(open),
			High:  models.NewDecimal(high),
			Low:   models.NewDecimal(low),
			Close: models.NewDecimal(close),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read price bars: %w", err)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("load %s: %w", symbol, prices.ErrSymbolNotFound)
	}

	return &models.PriceSeries{Symbol: symbol, Bars: bars}, nil
}
