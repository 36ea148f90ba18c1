package events

import (
	"time"

	"github.com/selivandex/stock-insight/pkg/models"
)

// Detector scans a price series for days whose intraday percent change
// crosses a threshold. It is stateless and safe for concurrent use.
type Detector struct{}

// NewDetector creates new event detector
func NewDetector() *Detector {
	return &Detector{}
}

// FindEvents returns the dates of bars whose (close-open)/open percent
// change crosses the threshold. The comparison is non-strict: a
// non-negative threshold selects pct >= threshold, a negative threshold
// selects pct <= threshold. Bars with a zero open have no defined percent
// change and are skipped. The result preserves series order and may be
// empty.
func (d *Detector) FindEvents(series *models.PriceSeries, threshold float64) []time.Time {
	dates := make([]time.Time, 0)
	if series == nil {
		return dates
	}

	for _, bar := range series.Bars {
		open := bar.Open.InexactFloat64()
		if open == 0 {
			continue
		}

		pct := (bar.Close.InexactFloat64() - open) / open * 100

		if threshold >= 0 {
			if pct >= threshold {
				dates = append(dates, bar.Date)
			}
		} else if pct <= threshold {
			dates = append(dates, bar.Date)
		}
	}

	return dates
}
