package models

import "time"

// Article represents a single raw news article as returned by the gateway
type Article struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Link    string   `json:"link"`
	Symbols []string `json:"symbols"`
}

// PolarityScore is the 4-valued sentiment score of one piece of text.
// Compound is in [-1, 1]; Positive, Negative and Neutral are non-negative
// and sum to 1 for a single scored text. The values are re-exposed from the
// scorer as-is, never re-normalized.
type PolarityScore struct {
	Compound float64 `json:"compound" db:"compound"`
	Positive float64 `json:"positive" db:"positive"`
	Negative float64 `json:"negative" db:"negative"`
	Neutral  float64 `json:"neutral" db:"neutral"`
}

// SentimentRecord is one row of the aggregation output: a scored article
// attached to the event date it was fetched for. Records are immutable once
// constructed.
type SentimentRecord struct {
	Date  time.Time `json:"date" db:"event_date"`
	Title string    `json:"title" db:"title"`
	Link  string    `json:"link" db:"link"`
	PolarityScore
}
