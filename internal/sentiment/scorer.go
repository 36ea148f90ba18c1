package sentiment

import (
	"context"
	"math"
	"strings"

	"github.com/selivandex/stock-insight/pkg/models"
)

// Scorer assigns a 4-valued polarity score to a piece of text. The
// contract: Compound in [-1,1], Positive/Negative/Neutral non-negative and
// summing to 1. Implementations may block on I/O and must honor ctx.
type Scorer interface {
	Score(ctx context.Context, text string) (models.PolarityScore, error)
}

// compoundAlpha dampens the raw score sum when normalizing to [-1, 1]
const compoundAlpha = 15.0

// LexiconScorer performs weighted keyword-based sentiment scoring
type LexiconScorer struct {
	positiveWords map[string]float64
	negativeWords map[string]float64
}

// NewLexiconScorer creates new lexicon scorer
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{
		positiveWords: buildPositiveWords(),
		negativeWords: buildNegativeWords(),
	}
}

// Score tokenizes the text and scores it against the lexicon. Positive,
// Negative and Neutral are the weighted shares of matched and unmatched
// tokens, so they always sum to 1; Compound is the damped net score.
func (s *LexiconScorer) Score(ctx context.Context, text string) (models.PolarityScore, error) {
	if err := ctx.Err(); err != nil {
		return models.PolarityScore{}, err
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return models.PolarityScore{Neutral: 1}, nil
	}

	var posMass, negMass, neutralMass float64

	for _, word := range words {
		word = strings.Trim(word, ".,!?;:'\"()")

		if weight, ok := s.positiveWords[word]; ok {
			posMass += weight
			continue
		}
		if weight, ok := s.negativeWords[word]; ok {
			negMass += weight
			continue
		}
		neutralMass++
	}

	total := posMass + negMass + neutralMass
	if total == 0 {
		return models.PolarityScore{Neutral: 1}, nil
	}

	raw := posMass - negMass

	return models.PolarityScore{
		Compound: raw / math.Sqrt(raw*raw+compoundAlpha),
		Positive: posMass / total,
		Negative: negMass / total,
		Neutral:  neutralMass / total,
	}, nil
}

// buildPositiveWords returns positive keywords for equity news
func buildPositiveWords() map[string]float64 {
	return map[string]float64{
		"beat":        0.8,
		"beats":       0.8,
		"rally":       0.9,
		"surge":       0.8,
		"surges":      0.8,
		"soar":        0.8,
		"soars":       0.8,
		"jump":        0.6,
		"jumps":       0.6,
		"gain":        0.6,
		"gains":       0.6,
		"profit":      0.6,
		"record":      0.6,
		"upgrade":     0.7,
		"upgraded":    0.7,
		"outperform":  0.7,
		"growth":      0.5,
		"strong":      0.5,
		"great":       0.5,
		"bullish":     1.0,
		"buyback":     0.5,
		"dividend":    0.4,
		"approval":    0.6,
		"approved":    0.6,
		"expansion":   0.5,
		"partnership": 0.5,
		"innovation":  0.5,
		"momentum":    0.5,
		"optimistic":  0.5,
		"rebound":     0.6,
		"recovery":    0.5,
		"highs":       0.6,
	}
}

// buildNegativeWords returns negative keywords for equity news
func buildNegativeWords() map[string]float64 {
	return map[string]float64{
		"miss":          0.8,
		"misses":        0.8,
		"missed":        0.8,
		"plunge":        0.9,
		"plunges":       0.9,
		"crash":         1.0,
		"slump":         0.8,
		"drop":          0.6,
		"drops":         0.6,
		"fall":          0.6,
		"falls":         0.6,
		"decline":       0.6,
		"loss":          0.7,
		"losses":        0.7,
		"downgrade":     0.7,
		"downgraded":    0.7,
		"underperform":  0.7,
		"weak":          0.5,
		"bearish":       1.0,
		"lawsuit":       0.7,
		"probe":         0.6,
		"investigation": 0.6,
		"recall":        0.7,
		"layoffs":       0.7,
		"bankruptcy":    1.0,
		"default":       0.8,
		"fraud":         1.0,
		"selloff":       0.7,
		"warning":       0.6,
		"cut":           0.5,
		"cuts":          0.5,
		"lows":          0.6,
		"pessimistic":   0.5,
	}
}
