package sentiment

// Filter selects comments by the label of their score.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterPositive Filter = "positive"
	FilterNegative Filter = "negative"
	FilterMixed    Filter = "mixed"
)

// ParseFilter maps a user supplied token to a Filter. An empty token means
// FilterAll; unknown tokens are kept as is and behave like FilterAll.
func ParseFilter(token string) Filter {
	if token == "" {
		return FilterAll
	}
	return Filter(token)
}

// Apply returns the items matching f in their original order. For FilterAll
// and unknown filters the input slice itself is returned.
func Apply[T Scored](t Thresholds, items []T, f Filter) []T {
	var want Label
	switch f {
	case FilterPositive:
		want = Positive
	case FilterNegative:
		want = Negative
	case FilterMixed:
		want = Mixed
	default:
		return items
	}

	result := make([]T, 0, len(items))
	for _, item := range items {
		if t.Classify(item.GetScore()) == want {
			result = append(result, item)
		}
	}
	return result
}
