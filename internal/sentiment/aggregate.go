package sentiment

import "math"

// Mean is the arithmetic mean of the scores. Callers handle the empty case;
// for an empty slice the result is NaN. The running mean is rescaled on every
// step instead of summing, so finite scores always give a finite mean.
func Mean[T Scored](items []T) float64 {
	if len(items) == 0 {
		return math.NaN()
	}

	var mean float64
	for i, item := range items {
		n := float64(i + 1)
		mean = mean*(float64(i)/n) + item.GetScore()/n
	}
	return mean
}

// PostScore is the per-post input of the overall aggregate.
type PostScore struct {
	PostID int64   `json:"post_id"`
	Mean   float64 `json:"mean"`
	Count  int     `json:"count"`
}

// WeightedMean combines per-post means weighted by their comment counts.
// Posts without comments are skipped and never divided on their own. The
// second return value is the total comment count; when it is zero the mean
// is zero.
func WeightedMean(posts []PostScore) (float64, int) {
	var (
		mean  float64
		total int
	)
	for _, p := range posts {
		if p.Count <= 0 {
			continue
		}
		prev := float64(total)
		total += p.Count
		mean = mean*(prev/float64(total)) + p.Mean*(float64(p.Count)/float64(total))
	}

	if total == 0 {
		return 0, 0
	}
	return mean, total
}

// SummarizeOverall classifies the weighted mean across posts.
func SummarizeOverall(t Thresholds, posts []PostScore) Summary {
	mean, total := WeightedMean(posts)
	if total == 0 {
		return Summary{Score: 0, Label: NoComments}
	}

	return Summary{
		Score: mean,
		Label: t.Classify(mean),
		Count: total,
	}
}
