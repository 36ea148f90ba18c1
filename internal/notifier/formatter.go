package notifier

import (
	"fmt"
	"strings"

	"github.com/selivandex/stock-insight/internal/sentiment"
)

// FormatRunSummary renders one aggregation run as a Telegram HTML message
func FormatRunSummary(symbol string, threshold float64, result *sentiment.Result, trend string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>%s</b> — %d scored article(s) at ±%.1f%% threshold\n", symbol, len(result.Records), threshold)

	if len(result.Records) > 0 {
		var sum float64
		for _, record := range result.Records {
			sum += record.Compound
		}
		avg := sum / float64(len(result.Records))
		fmt.Fprintf(&b, "Average compound: %+.3f (%s)\n", avg, toneLabel(avg))
	}

	if trend != "" {
		fmt.Fprintf(&b, "Price trend: %s\n", trend)
	}

	if result.DegradedDates > 0 {
		fmt.Fprintf(&b, "⚠️ %d date(s) had no reachable news feed\n", result.DegradedDates)
	}
	if result.MalformedSkipped > 0 {
		fmt.Fprintf(&b, "⚠️ %d article(s) skipped as malformed\n", result.MalformedSkipped)
	}
	if result.Truncated {
		b.WriteString("⚠️ run was cancelled before all dates finished\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func toneLabel(compound float64) string {
	switch {
	case compound > 0.2:
		return "positive"
	case compound < -0.2:
		return "negative"
	default:
		return "neutral"
	}
}
