package sentimentstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/selivandex/stock-insight/pkg/logger"
	"github.com/selivandex/stock-insight/pkg/models"
)

// Repository persists aggregation results to Postgres
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new sentiment record repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts the records of one aggregation run, preserving their order
// via an explicit row position. Returns the number of rows written.
func (r *Repository) Save(ctx context.Context, symbol string, records []models.SentimentRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sentiment_records (
			symbol, event_date, row_position, title, link,
			compound, positive, negative, neutral, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i, record := range records {
		_, err := stmt.ExecContext(ctx,
			symbol,
			record.Date,
			i,
			record.Title,
			record.Link,
			record.Compound,
			record.Positive,
			record.Negative,
			record.Neutral,
			now,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Debug("saved sentiment records",
		zap.String("symbol", symbol),
		zap.Int("count", len(records)),
	)

	return len(records), nil
}

// ListBySymbol returns previously saved records for the symbol in their
// original run order (date ascending, then row position).
func (r *Repository) ListBySymbol(ctx context.Context, symbol string) ([]models.SentimentRecord, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT event_date, title, link, compound, positive, negative, neutral
		FROM sentiment_records
		WHERE symbol = $1
		ORDER BY event_date ASC, row_position ASC
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentiment records: %w", err)
	}
	defer rows.Close()

	records := []models.SentimentRecord{}
	for rows.Next() {
		var record models.SentimentRecord
		if err := rows.Scan(
			&record.Date,
			&record.Title,
			&record.Link,
			&record.Compound,
			&record.Positive,
			&record.Negative,
			&record.Neutral,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sentiment record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
