package clickhouse

import (
	"fmt"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/selivandex/stock-insight/pkg/logger"
)

// Connect opens a ClickHouse connection for the price-bar store
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("clickhouse", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	logger.Info("clickhouse connection established",
		zap.String("dsn", dsn),
	)

	return db, nil
}
