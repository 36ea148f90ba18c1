package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/selivandex/stock-insight/internal/adapters/clickhouse"
	"github.com/selivandex/stock-insight/internal/adapters/config"
	"github.com/selivandex/stock-insight/internal/adapters/database"
	"github.com/selivandex/stock-insight/internal/adapters/news"
	"github.com/selivandex/stock-insight/internal/adapters/sentimentstore"
	"github.com/selivandex/stock-insight/internal/events"
	"github.com/selivandex/stock-insight/internal/indicators"
	"github.com/selivandex/stock-insight/internal/notifier"
	"github.com/selivandex/stock-insight/internal/sentiment"
	"github.com/selivandex/stock-insight/pkg/logger"
)

func main() {
	symbol := flag.String("symbol", "", "ticker symbol to analyze (required)")
	threshold := flag.Float64("threshold", 0, "intraday percent-change event threshold (0 = config default)")
	kind := flag.String("indicator", "", "compute an indicator instead of sentiment: MA, RSI, ROC or BBP")
	length := flag.Int("length", 0, "indicator window length (0 = config default)")
	migrationsPath := flag.String("migrations", "migrations", "path to Postgres migrations")
	flag.Parse()

	if *symbol == "" {
		fmt.Fprintln(os.Stderr, "usage: insight -symbol AAPL [-threshold 5] [-indicator RSI] [-length 14]")
		os.Exit(2)
	}

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := run(ctx, *symbol, *threshold, *kind, *length, *migrationsPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, symbol string, threshold float64, kind string, length int, migrationsPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	chDB, err := clickhouse.Connect(cfg.ClickHouse.DSN)
	if err != nil {
		return err
	}
	defer chDB.Close()

	priceRepo := clickhouse.NewRepository(chDB)
	if err := priceRepo.EnsureSchema(ctx); err != nil {
		return err
	}

	if kind != "" {
		return runIndicator(ctx, cfg, priceRepo, symbol, kind, length)
	}

	if threshold == 0 {
		threshold = cfg.Analytics.EventThreshold
	}
	return runSentiment(ctx, cfg, priceRepo, symbol, threshold, migrationsPath)
}

func runIndicator(ctx context.Context, cfg *config.Config, priceRepo *clickhouse.Repository, symbol, kind string, length int) error {
	series, err := priceRepo.Load(ctx, symbol)
	if err != nil {
		return err
	}

	if length == 0 {
		length = defaultLength(cfg, indicators.Kind(kind))
	}

	calc := indicators.NewCalculatorWithBandWidth(cfg.Analytics.BBPBandWidth)
	points, err := calc.Compute(series, length, indicators.Kind(kind))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "DATE\t%s(%d)\n", kind, length)
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%.4f\n", p.Date.Format("2006-01-02"), p.Value)
	}
	return w.Flush()
}

func runSentiment(ctx context.Context, cfg *config.Config, priceRepo *clickhouse.Repository, symbol string, threshold float64, migrationsPath string) error {
	gateway := news.NewEODHDClient(cfg.News.BaseURL, cfg.News.APIToken, cfg.News.Timeout)
	scorer := sentiment.NewLexiconScorer()
	aggregator := sentiment.NewAggregator(priceRepo, events.NewDetector(), gateway, scorer, cfg.News.Concurrency)

	result, err := aggregator.Aggregate(ctx, symbol, threshold)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tCOMPOUND\tPOS\tNEG\tNEU\tTITLE")
	for _, record := range result.Records {
		fmt.Fprintf(w, "%s\t%+.3f\t%.2f\t%.2f\t%.2f\t%s\n",
			record.Date.Format("2006-01-02"),
			record.Compound, record.Positive, record.Negative, record.Neutral,
			record.Title,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if result.Truncated {
		fmt.Println("(partial result: run was cancelled before all dates finished)")
	}

	persistResult(ctx, cfg, symbol, result, migrationsPath)
	notifyResult(ctx, cfg, priceRepo, symbol, threshold, result)

	return nil
}

// persistResult saves records when Postgres is configured; persistence
// failures are reported but never fail the run.
func persistResult(ctx context.Context, cfg *config.Config, symbol string, result *sentiment.Result, migrationsPath string) {
	if !cfg.Database.Enabled() || len(result.Records) == 0 {
		return
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Warn("postgres not available, skipping persistence", zap.Error(err))
		return
	}
	defer db.Close()

	if err := database.RunMigrations(db.Conn(), migrationsPath); err != nil {
		logger.Warn("migrations failed, skipping persistence", zap.Error(err))
		return
	}

	saved, err := sentimentstore.NewRepository(db.DB()).Save(ctx, symbol, result.Records)
	if err != nil {
		logger.Warn("failed to persist sentiment records", zap.Error(err))
		return
	}

	logger.Info("persisted sentiment records",
		zap.String("symbol", symbol),
		zap.Int("saved", saved),
	)
}

// notifyResult sends the Telegram summary when a bot token is configured
func notifyResult(ctx context.Context, cfg *config.Config, priceRepo *clickhouse.Repository, symbol string, threshold float64, result *sentiment.Result) {
	alerts, err := notifier.NewNotifier(&cfg.Telegram)
	if err != nil {
		logger.Warn("telegram notifier unavailable", zap.Error(err))
		return
	}

	trend := ""
	if series, err := priceRepo.Load(ctx, symbol); err == nil {
		if detected, err := indicators.NewCalculator().DetectTrend(series); err == nil {
			trend = detected
		}
	}

	if err := alerts.SendRunSummary(symbol, threshold, result, trend); err != nil {
		logger.Warn("failed to send run summary", zap.Error(err))
	}
}

func defaultLength(cfg *config.Config, kind indicators.Kind) int {
	switch kind {
	case indicators.KindRSI:
		return cfg.Analytics.RSILength
	case indicators.KindROC:
		return cfg.Analytics.ROCLength
	case indicators.KindBBP:
		return cfg.Analytics.BBPLength
	default:
		return cfg.Analytics.MALength
	}
}
