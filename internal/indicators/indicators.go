package indicators

import (
	"errors"
	"fmt"
	"math"

	"github.com/selivandex/stock-insight/pkg/models"
)

// Kind identifies a supported technical indicator
type Kind string

const (
	KindMA  Kind = "MA"
	KindRSI Kind = "RSI"
	KindROC Kind = "ROC"
	KindBBP Kind = "BBP"
)

// ErrInvalidLength is returned when the rolling window length is not a
// positive integer.
var ErrInvalidLength = errors.New("indicator length must be a positive integer")

// UnsupportedKindError is returned for an unrecognized indicator kind
type UnsupportedKindError struct {
	Kind Kind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported indicator %q, accepted kinds: MA, RSI, ROC, BBP", string(e.Kind))
}

// Calculator computes rolling technical indicators over a daily price series.
// It is stateless and safe for concurrent use.
type Calculator struct {
	bandWidth float64 // std-dev multiplier for Bollinger bands
}

// NewCalculator creates a calculator with the default band width of 2
func NewCalculator() *Calculator {
	return &Calculator{bandWidth: 2.0}
}

// NewCalculatorWithBandWidth creates a calculator with a custom Bollinger
// std-dev multiplier.
func NewCalculatorWithBandWidth(bandWidth float64) *Calculator {
	return &Calculator{bandWidth: bandWidth}
}

// Compute calculates the requested indicator over the trailing window of
// the given length. Points where the value is mathematically undefined
// (window not yet full, zero divisor, zero-volatility window) are omitted
// from the result, so every returned point carries a computable value.
func (c *Calculator) Compute(series *models.PriceSeries, length int, kind Kind) ([]models.IndicatorPoint, error) {
	if series == nil {
		return nil, fmt.Errorf("price series is nil")
	}
	if length < 1 {
		return nil, fmt.Errorf("length %d: %w", length, ErrInvalidLength)
	}

	closes := make([]float64, len(series.Bars))
	for i, bar := range series.Bars {
		closes[i] = bar.Close.InexactFloat64()
	}

	switch kind {
	case KindMA:
		return c.movingAverage(series.Bars, closes, length), nil
	case KindRSI:
		return c.relativeStrength(series.Bars, closes, length), nil
	case KindROC:
		return c.rateOfChange(series.Bars, closes, length), nil
	case KindBBP:
		return c.bollingerPercent(series.Bars, closes, length), nil
	default:
		return nil, &UnsupportedKindError{Kind: kind}
	}
}

// movingAverage computes the simple arithmetic mean of close over the
// trailing window, inclusive of the current bar.
func (c *Calculator) movingAverage(bars []models.PriceBar, closes []float64, length int) []models.IndicatorPoint {
	points := make([]models.IndicatorPoint, 0, max(0, len(closes)-length+1))

	var sum float64
	for i, close := range closes {
		sum += close
		if i >= length {
			sum -= closes[i-length]
		}
		if i >= length-1 {
			points = append(points, models.IndicatorPoint{
				Date:  bars[i].Date,
				Value: sum / float64(length),
			})
		}
	}

	return points
}

// relativeStrength computes RSI from rolling means of gains and losses.
// A window with losses but no gains reads 0, a window with gains but no
// losses saturates to 100, and a completely flat window has no defined
// value and is omitted.
func (c *Calculator) relativeStrength(bars []models.PriceBar, closes []float64, length int) []models.IndicatorPoint {
	points := make([]models.IndicatorPoint, 0, max(0, len(closes)-length))

	// The first delta exists at index 1, so the first full window of
	// deltas ends at index length.
	for i := length; i < len(closes); i++ {
		var gainSum, lossSum float64
		for j := i - length + 1; j <= i; j++ {
			delta := closes[j] - closes[j-1]
			if delta > 0 {
				gainSum += delta
			} else {
				lossSum += -delta
			}
		}

		gain := gainSum / float64(length)
		loss := lossSum / float64(length)

		var rsi float64
		switch {
		case loss == 0 && gain == 0:
			continue
		case loss == 0:
			rsi = 100
		default:
			rs := gain / loss
			rsi = 100 - 100/(1+rs)
		}

		points = append(points, models.IndicatorPoint{Date: bars[i].Date, Value: rsi})
	}

	return points
}

// rateOfChange computes the percent change of close against the close
// `length` bars earlier.
func (c *Calculator) rateOfChange(bars []models.PriceBar, closes []float64, length int) []models.IndicatorPoint {
	points := make([]models.IndicatorPoint, 0, max(0, len(closes)-length))

	for i := length; i < len(closes); i++ {
		base := closes[i-length]
		if base == 0 {
			continue
		}
		points = append(points, models.IndicatorPoint{
			Date:  bars[i].Date,
			Value: (closes[i] - base) / base * 100,
		})
	}

	return points
}

// bollingerPercent computes %B against bands built from the trailing SMA
// and sample standard deviation. A zero-volatility window collapses the
// bands and the point is omitted; with length 1 the sample deviation is
// undefined everywhere, so no points are produced.
func (c *Calculator) bollingerPercent(bars []models.PriceBar, closes []float64, length int) []models.IndicatorPoint {
	points := make([]models.IndicatorPoint, 0, max(0, len(closes)-length+1))
	if length < 2 {
		return points
	}

	for i := length - 1; i < len(closes); i++ {
		window := closes[i-length+1 : i+1]

		var sum float64
		for _, v := range window {
			sum += v
		}
		mean := sum / float64(length)

		var sqDiff float64
		for _, v := range window {
			sqDiff += (v - mean) * (v - mean)
		}
		std := math.Sqrt(sqDiff / float64(length-1))

		upper := mean + c.bandWidth*std
		lower := mean - c.bandWidth*std
		if upper == lower {
			continue
		}

		points = append(points, models.IndicatorPoint{
			Date:  bars[i].Date,
			Value: (closes[i] - lower) / (upper - lower),
		})
	}

	return points
}
