// Package sentiment classifies and aggregates comment sentiment scores.
//
// Scores are plain real numbers, in practice roughly within [-1, 1]. Every
// function here is pure: nothing is stored and no input is mutated.
package sentiment

import (
	"errors"
	"fmt"
	"math"
)

// Label is the human readable classification of a score.
type Label string

const (
	Positive   Label = "Positive"
	Negative   Label = "Negative"
	Mixed      Label = "Mixed"
	NoComments Label = "No comments"
)

// ErrInvalidThresholds is returned by Validate.
var ErrInvalidThresholds = errors.New("positive threshold must not be lower than negative threshold")

// Thresholds bound the Mixed band. A score strictly above Positive is
// positive, strictly below Negative is negative, anything else is mixed.
type Thresholds struct {
	Positive float64
	Negative float64
}

// DefaultThresholds put the Mixed band at [-0.25, 0.25].
var DefaultThresholds = Thresholds{
	Positive: 0.25,
	Negative: -0.25,
}

// Validate checks that both bounds are finite and the band is not inverted.
func (t Thresholds) Validate() error {
	for _, v := range []float64{t.Positive, t.Negative} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: thresholds must be finite", ErrInvalidThresholds)
		}
	}
	if t.Positive < t.Negative {
		return fmt.Errorf("%w: positive(%g) < negative(%g)", ErrInvalidThresholds, t.Positive, t.Negative)
	}
	return nil
}

// Classify never fails; NaN and out of range values fall into Mixed or the
// matching outer label.
func (t Thresholds) Classify(score float64) Label {
	switch {
	case score > t.Positive:
		return Positive
	case score < t.Negative:
		return Negative
	default:
		return Mixed
	}
}

// Scored is anything that carries a sentiment score.
type Scored interface {
	GetScore() float64
}

// Summary is the presentation-ready result of aggregating a set of scores.
type Summary struct {
	Score float64 `json:"score"`
	Label Label   `json:"label"`
	Count int     `json:"count"`
}

// Summarize averages the scores of items and classifies the mean. An empty
// set short-circuits to a zero score labelled NoComments.
func Summarize[T Scored](t Thresholds, items []T) Summary {
	if len(items) == 0 {
		return Summary{Score: 0, Label: NoComments}
	}

	mean := Mean(items)
	return Summary{
		Score: mean,
		Label: t.Classify(mean),
		Count: len(items),
	}
}

// Breakdown counts items per label.
type Breakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Mixed    int `json:"mixed"`
}

// Count classifies every item; it does not filter.
func Count[T Scored](t Thresholds, items []T) Breakdown {
	var b Breakdown
	for _, item := range items {
		switch t.Classify(item.GetScore()) {
		case Positive:
			b.Positive++
		case Negative:
			b.Negative++
		default:
			b.Mixed++
		}
	}
	return b
}
