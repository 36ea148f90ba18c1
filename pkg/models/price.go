package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NewDecimal creates decimal from float64
func NewDecimal(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// PriceBar represents one trading day of OHLC data for a symbol
type PriceBar struct {
	Date  time.Time       `json:"date" db:"date"`
	Open  decimal.Decimal `json:"open" db:"open"`
	High  decimal.Decimal `json:"high" db:"high"`
	Low   decimal.Decimal `json:"low" db:"low"`
	Close decimal.Decimal `json:"close" db:"close"`
}

// PriceSeries is the ordered daily price history for one symbol.
// Components treat it as read-only; it is safe to share across goroutines.
type PriceSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
}

// Validate checks series invariants: dates strictly ascending with no
// duplicates, prices non-negative. Gaps between trading days are allowed.
func (s *PriceSeries) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("price series has no symbol")
	}

	for i, bar := range s.Bars {
		if i > 0 && !s.Bars[i-1].Date.Before(bar.Date) {
			return fmt.Errorf("bars out of order at index %d (%s not after %s)",
				i, bar.Date.Format("2006-01-02"), s.Bars[i-1].Date.Format("2006-01-02"))
		}

		for _, price := range []decimal.Decimal{bar.Open, bar.High, bar.Low, bar.Close} {
			if price.IsNegative() {
				return fmt.Errorf("negative price at %s", bar.Date.Format("2006-01-02"))
			}
		}
	}

	return nil
}

// Len returns the number of bars in the series
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}

// IndicatorPoint pairs a computed indicator value with the date of the bar
// it was computed for. Points with an undefined value are never emitted.
type IndicatorPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
