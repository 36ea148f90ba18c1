package sentiment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/stock-insight/internal/adapters/news"
	"github.com/selivandex/stock-insight/internal/events"
	"github.com/selivandex/stock-insight/internal/prices"
	"github.com/selivandex/stock-insight/pkg/logger"
	"github.com/selivandex/stock-insight/pkg/models"
)

// Aggregator runs the event-to-sentiment pipeline: detect price-movement
// days, fetch their news coverage, score each matching article.
type Aggregator struct {
	store       prices.Store
	detector    *events.Detector
	gateway     news.Gateway
	scorer      Scorer
	concurrency int
}

// Result is the output of one aggregation call. Records are ordered by
// event date ascending, then by gateway return order within a date,
// regardless of how fetches were scheduled.
type Result struct {
	Records          []models.SentimentRecord
	DegradedDates    int  // dates whose news fetch failed and degraded to empty
	MalformedSkipped int  // articles skipped for missing fields or scoring failure
	Truncated        bool // context was cancelled before all dates finished
}

// NewAggregator creates new sentiment aggregator. Concurrency bounds the
// number of in-flight per-date news fetches.
func NewAggregator(store prices.Store, detector *events.Detector, gateway news.Gateway, scorer Scorer, concurrency int) *Aggregator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Aggregator{
		store:       store,
		detector:    detector,
		gateway:     gateway,
		scorer:      scorer,
		concurrency: concurrency,
	}
}

// dateOutcome is the pipeline result for a single event date
type dateOutcome struct {
	records   []models.SentimentRecord
	degraded  bool
	malformed int
	completed bool
}

// Aggregate builds the per-article sentiment table for every event date of
// the symbol. A missing symbol is fatal; gateway failures degrade single
// dates and malformed articles are skipped, both reflected in the Result
// counters. On cancellation the partial result is returned with Truncated
// set instead of an error.
func (a *Aggregator) Aggregate(ctx context.Context, symbol string, threshold float64) (*Result, error) {
	series, err := a.store.Load(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("load price history for %s: %w", symbol, err)
	}

	dates := a.detector.FindEvents(series, threshold)

	result := &Result{Records: make([]models.SentimentRecord, 0)}
	if len(dates) == 0 {
		logger.Debug("no qualifying price-movement days",
			zap.String("symbol", symbol),
			zap.Float64("threshold", threshold),
		)
		return result, nil
	}

	// Fetches for different dates are independent; run them on a bounded
	// pool and keep outcomes indexed by date so the canonical order
	// survives the scheduling.
	outcomes := make([]dateOutcome, len(dates))
	sem := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup

	launched := len(dates)
	for i, date := range dates {
		stop := false
		select {
		case <-ctx.Done():
			launched = i
			stop = true
		case sem <- struct{}{}:
			wg.Add(1)
			go func(i int, date time.Time) {
				defer wg.Done()
				defer func() { <-sem }()
				outcomes[i] = a.processDate(ctx, symbol, date)
			}(i, date)
		}
		if stop {
			break
		}
	}
	wg.Wait()

	if launched < len(dates) {
		result.Truncated = true
	}

	for i := 0; i < launched; i++ {
		outcome := outcomes[i]
		if !outcome.completed {
			result.Truncated = true
			continue
		}
		if outcome.degraded {
			result.DegradedDates++
		}
		result.MalformedSkipped += outcome.malformed
		result.Records = append(result.Records, outcome.records...)
	}

	logger.Info("sentiment aggregation finished",
		zap.String("symbol", symbol),
		zap.Int("event_dates", len(dates)),
		zap.Int("records", len(result.Records)),
		zap.Int("degraded_dates", result.DegradedDates),
		zap.Int("malformed_skipped", result.MalformedSkipped),
		zap.Bool("truncated", result.Truncated),
	)

	return result, nil
}

// processDate fetches and scores one event date's coverage. Gateway
// failure degrades the date to an empty article list; a malformed article
// or a scoring failure skips that single article.
func (a *Aggregator) processDate(ctx context.Context, symbol string, date time.Time) dateOutcome {
	articles, err := a.gateway.Fetch(ctx, symbol, date)
	if err != nil {
		if ctx.Err() != nil {
			return dateOutcome{}
		}
		logger.Warn("news fetch failed, continuing without this date",
			zap.String("symbol", symbol),
			zap.Time("date", date),
			zap.Error(err),
		)
		return dateOutcome{degraded: true, completed: true}
	}

	outcome := dateOutcome{completed: true}

	for _, article := range articles {
		if !containsSymbol(article.Symbols, symbol) {
			continue
		}

		if article.Title == "" || article.Content == "" || article.Link == "" {
			outcome.malformed++
			logger.Warn("skipping article with missing fields",
				zap.String("symbol", symbol),
				zap.Time("date", date),
				zap.String("title", article.Title),
			)
			continue
		}

		score, err := a.scorer.Score(ctx, article.Content)
		if err != nil {
			if ctx.Err() != nil {
				return dateOutcome{}
			}
			outcome.malformed++
			logger.Warn("scoring failed, skipping article",
				zap.String("title", article.Title),
				zap.Error(err),
			)
			continue
		}

		outcome.records = append(outcome.records, models.SentimentRecord{
			Date:          date,
			Title:         article.Title,
			Link:          article.Link,
			PolarityScore: score,
		})
	}

	return outcome
}

// containsSymbol checks case-sensitive substring containment, so a plain
// ticker matches its exchange-suffixed form ("AAPL" in "AAPL.US"). The
// gateway's format is passed through, never re-normalized.
func containsSymbol(symbols []string, symbol string) bool {
	for _, s := range symbols {
		if strings.Contains(s, symbol) {
			return true
		}
	}
	return false
}
