package indicators

import (
	"fmt"

	"github.com/cinar/indicator"

	"github.com/selivandex/stock-insight/pkg/models"
)

// Trend labels returned by DetectTrend
const (
	TrendUp       = "uptrend"
	TrendDown     = "downtrend"
	TrendSideways = "sideways"
	TrendUnknown  = "unknown"
)

// DetectTrend classifies the series trend from EMA-20/EMA-50 positioning
func (c *Calculator) DetectTrend(series *models.PriceSeries) (string, error) {
	if series == nil || len(series.Bars) < 50 {
		return TrendUnknown, fmt.Errorf("insufficient bars for trend detection (need at least 50)")
	}

	closes := make([]float64, len(series.Bars))
	for i, bar := range series.Bars {
		closes[i] = bar.Close.InexactFloat64()
	}

	ema20 := indicator.Ema(20, closes)
	ema50 := indicator.Ema(50, closes)

	currentPrice := closes[len(closes)-1]
	fast := ema20[len(ema20)-1]
	slow := ema50[len(ema50)-1]

	if currentPrice > fast && fast > slow {
		return TrendUp, nil
	} else if currentPrice < fast && fast < slow {
		return TrendDown, nil
	}

	return TrendSideways, nil
}
