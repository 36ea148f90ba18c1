package sentiment

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/selivandex/stock-insight/internal/adapters/news"
	"github.com/selivandex/stock-insight/internal/events"
	"github.com/selivandex/stock-insight/internal/prices"
	"github.com/selivandex/stock-insight/pkg/models"
)

// stubGateway serves canned articles (or errors) keyed by date
type stubGateway struct {
	articles map[string][]models.Article
	failures map[string]error
}

func (g *stubGateway) Fetch(ctx context.Context, symbol string, date time.Time) ([]models.Article, error) {
	key := date.Format("2006-01-02")
	if err, ok := g.failures[key]; ok {
		return nil, err
	}
	return g.articles[key], nil
}

// blockingGateway waits for cancellation before answering
type blockingGateway struct{}

func (g *blockingGateway) Fetch(ctx context.Context, symbol string, date time.Time) ([]models.Article, error) {
	<-ctx.Done()
	return nil, &news.GatewayError{Symbol: symbol, Date: date, Err: ctx.Err()}
}

// stubScorer returns a fixed score for any text
type stubScorer struct {
	score models.PolarityScore
}

func (s *stubScorer) Score(ctx context.Context, text string) (models.PolarityScore, error) {
	if err := ctx.Err(); err != nil {
		return models.PolarityScore{}, err
	}
	return s.score, nil
}

// seedSeries stores a series whose bars have the given open/close pairs,
// one bar per day starting 2024-01-02.
func seedSeries(t *testing.T, store *prices.MemoryStore, symbol string, opens, closes []float64) []time.Time {
	t.Helper()

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, len(opens))
	dates := make([]time.Time, len(opens))
	for i := range opens {
		dates[i] = start.AddDate(0, 0, i)
		bars[i] = models.PriceBar{
			Date:  dates[i],
			Open:  models.NewDecimal(opens[i]),
			High:  models.NewDecimal(closes[i]),
			Low:   models.NewDecimal(opens[i]),
			Close: models.NewDecimal(closes[i]),
		}
	}
	if err := store.Save(context.Background(), symbol, bars); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}
	return dates
}

func newTestAggregator(store *prices.MemoryStore, gateway news.Gateway, scorer Scorer) *Aggregator {
	return NewAggregator(store, events.NewDetector(), gateway, scorer, 2)
}

func TestAggregate_SingleMatchingArticle(t *testing.T) {
	store := prices.NewMemoryStore()
	dates := seedSeries(t, store, "AAPL", []float64{100}, []float64{112})

	gateway := &stubGateway{articles: map[string][]models.Article{
		dates[0].Format("2006-01-02"): {
			{Title: "Apple climbs", Content: "great day", Link: "https://example.com/a", Symbols: []string{"AAPL"}},
		},
	}}
	scorer := &stubScorer{score: models.PolarityScore{Compound: 0.66, Positive: 0.59, Negative: 0, Neutral: 0.41}}

	result, err := newTestAggregator(store, gateway, scorer).Aggregate(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	record := result.Records[0]
	if !record.Date.Equal(dates[0]) {
		t.Errorf("record carries wrong date: %v", record.Date)
	}
	if record.Title != "Apple climbs" || record.Link != "https://example.com/a" {
		t.Errorf("record should carry the article's title and link: %+v", record)
	}
	want := models.PolarityScore{Compound: 0.66, Positive: 0.59, Negative: 0, Neutral: 0.41}
	if record.PolarityScore != want {
		t.Errorf("scores must be re-exposed untouched: %+v", record.PolarityScore)
	}
	if result.Truncated || result.DegradedDates != 0 || result.MalformedSkipped != 0 {
		t.Errorf("clean run should have clean diagnostics: %+v", result)
	}
}

func TestAggregate_SymbolFilter(t *testing.T) {
	store := prices.NewMemoryStore()
	dates := seedSeries(t, store, "AAPL", []float64{100}, []float64{112})

	gateway := &stubGateway{articles: map[string][]models.Article{
		dates[0].Format("2006-01-02"): {
			{Title: "Other company", Content: "irrelevant", Link: "https://example.com/x", Symbols: []string{"XYZ"}},
			{Title: "Suffixed ticker", Content: "relevant", Link: "https://example.com/y", Symbols: []string{"AAPL.US"}},
		},
	}}

	result, err := newTestAggregator(store, gateway, &stubScorer{}).Aggregate(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(result.Records) != 1 {
		t.Fatalf("expected only the suffixed-ticker article, got %d records", len(result.Records))
	}
	if result.Records[0].Title != "Suffixed ticker" {
		t.Errorf("wrong article survived the filter: %q", result.Records[0].Title)
	}
}

func TestAggregate_UnknownSymbolIsFatal(t *testing.T) {
	store := prices.NewMemoryStore()

	_, err := newTestAggregator(store, &stubGateway{}, &stubScorer{}).Aggregate(context.Background(), "NOPE", 5)
	if !errors.Is(err, prices.ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestAggregate_NoEventsYieldsEmptyResult(t *testing.T) {
	store := prices.NewMemoryStore()
	seedSeries(t, store, "AAPL", []float64{100, 100}, []float64{101, 102})

	result, err := newTestAggregator(store, &stubGateway{}, &stubScorer{}).Aggregate(context.Background(), "AAPL", 50)
	if err != nil {
		t.Fatalf("no qualifying days is not an error: %v", err)
	}
	if result.Records == nil || len(result.Records) != 0 {
		t.Errorf("expected a well-formed empty result, got %+v", result.Records)
	}
}

func TestAggregate_GatewayFailureDegradesSingleDate(t *testing.T) {
	store := prices.NewMemoryStore()
	dates := seedSeries(t, store, "AAPL", []float64{100, 100}, []float64{112, 115})

	gateway := &stubGateway{
		failures: map[string]error{
			dates[0].Format("2006-01-02"): &news.GatewayError{Symbol: "AAPL", Date: dates[0], Err: errors.New("connection refused")},
		},
		articles: map[string][]models.Article{
			dates[1].Format("2006-01-02"): {
				{Title: "Still up", Content: "strong rally", Link: "https://example.com/b", Symbols: []string{"AAPL"}},
			},
		},
	}

	result, err := newTestAggregator(store, gateway, &stubScorer{}).Aggregate(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("one failing date must not abort the run: %v", err)
	}

	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record from the healthy date, got %d", len(result.Records))
	}
	if !result.Records[0].Date.Equal(dates[1]) {
		t.Errorf("record should come from the second date")
	}
	if result.DegradedDates != 1 {
		t.Errorf("expected 1 degraded date, got %d", result.DegradedDates)
	}
}

func TestAggregate_MalformedArticleSkipped(t *testing.T) {
	store := prices.NewMemoryStore()
	dates := seedSeries(t, store, "AAPL", []float64{100}, []float64{112})

	gateway := &stubGateway{articles: map[string][]models.Article{
		dates[0].Format("2006-01-02"): {
			{Title: "No link", Content: "some text", Symbols: []string{"AAPL"}},
			{Title: "Complete", Content: "some text", Link: "https://example.com/c", Symbols: []string{"AAPL"}},
		},
	}}

	result, err := newTestAggregator(store, gateway, &stubScorer{}).Aggregate(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("a malformed article must not abort the run: %v", err)
	}

	if len(result.Records) != 1 || result.Records[0].Title != "Complete" {
		t.Fatalf("expected only the complete article, got %+v", result.Records)
	}
	if result.MalformedSkipped != 1 {
		t.Errorf("expected 1 skipped article, got %d", result.MalformedSkipped)
	}
}

func TestAggregate_CanonicalOrdering(t *testing.T) {
	store := prices.NewMemoryStore()
	dates := seedSeries(t, store, "AAPL", []float64{100, 100, 100}, []float64{112, 101, 115})

	gateway := &stubGateway{articles: map[string][]models.Article{
		dates[0].Format("2006-01-02"): {
			{Title: "d1-first", Content: "x", Link: "https://example.com/1", Symbols: []string{"AAPL"}},
			{Title: "d1-second", Content: "x", Link: "https://example.com/2", Symbols: []string{"AAPL"}},
		},
		dates[2].Format("2006-01-02"): {
			{Title: "d2-first", Content: "x", Link: "https://example.com/3", Symbols: []string{"AAPL"}},
		},
	}}

	result, err := newTestAggregator(store, gateway, &stubScorer{}).Aggregate(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	var titles []string
	for _, record := range result.Records {
		titles = append(titles, record.Title)
	}
	want := []string{"d1-first", "d1-second", "d2-first"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("records out of canonical order: %v", titles)
	}
}

func TestAggregate_DuplicateTitlesPreserved(t *testing.T) {
	store := prices.NewMemoryStore()
	dates := seedSeries(t, store, "AAPL", []float64{100}, []float64{112})

	gateway := &stubGateway{articles: map[string][]models.Article{
		dates[0].Format("2006-01-02"): {
			{Title: "Same headline", Content: "first copy", Link: "https://example.com/a", Symbols: []string{"AAPL"}},
			{Title: "Same headline", Content: "second copy", Link: "https://example.com/b", Symbols: []string{"AAPL"}},
		},
	}}

	result, err := newTestAggregator(store, gateway, &stubScorer{}).Aggregate(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(result.Records) != 2 {
		t.Fatalf("same-day duplicate headlines must stay distinct rows, got %d", len(result.Records))
	}
	if result.Records[0].Link == result.Records[1].Link {
		t.Errorf("both copies should survive with their own links")
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	store := prices.NewMemoryStore()
	dates := seedSeries(t, store, "AAPL", []float64{100, 100}, []float64{112, 115})

	gateway := &stubGateway{articles: map[string][]models.Article{
		dates[0].Format("2006-01-02"): {
			{Title: "A", Content: "x", Link: "https://example.com/a", Symbols: []string{"AAPL"}},
		},
		dates[1].Format("2006-01-02"): {
			{Title: "B", Content: "y", Link: "https://example.com/b", Symbols: []string{"AAPL"}},
		},
	}}

	agg := newTestAggregator(store, gateway, &stubScorer{})

	first, err := agg.Aggregate(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := agg.Aggregate(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs should yield identical results")
	}
}

func TestAggregate_CancellationTruncates(t *testing.T) {
	store := prices.NewMemoryStore()
	seedSeries(t, store, "AAPL", []float64{100, 100}, []float64{112, 115})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result, err := newTestAggregator(store, &blockingGateway{}, &stubScorer{}).Aggregate(ctx, "AAPL", 10)
	if err != nil {
		t.Fatalf("cancellation returns a partial result, not an error: %v", err)
	}

	if !result.Truncated {
		t.Error("result should be flagged as truncated")
	}
	if len(result.Records) != 0 {
		t.Errorf("blocked fetches cannot produce records, got %d", len(result.Records))
	}
}
