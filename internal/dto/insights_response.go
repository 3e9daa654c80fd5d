package dto

import (
	"github.com/BloggingApp/post-insights/internal/model"
	"github.com/BloggingApp/post-insights/internal/sentiment"
)

type PostDetail struct {
	Post                       model.FullPost       `json:"post"`
	Comments                   []*model.FullComment `json:"comments"`
	Filter                     string               `json:"filter"`
	AverageScore               float64              `json:"average_score"`
	AverageScoreClassification sentiment.Label      `json:"average_score_classification"`
	PositiveComments           int                  `json:"positive_comments"`
	NegativeComments           int                  `json:"negative_comments"`
	MixedComments              int                  `json:"mixed_comments"`
	Improvements               string               `json:"improvements"`
}

type AuthorSentiment struct {
	AuthorID       string                `json:"author_id"`
	Posts          []sentiment.PostScore `json:"posts"`
	OverallScore   float64               `json:"overall_score"`
	Classification sentiment.Label       `json:"classification"`
	TotalComments  int                   `json:"total_comments"`
}
