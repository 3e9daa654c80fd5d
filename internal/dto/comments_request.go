package dto

// Scores outside this range are rejected so that sums over a post's comments
// stay within float8 in postgres aggregates.
const MaxAbsScore = 1e9

type CreateCommentDto struct {
	PostID  int64    `json:"post_id" binding:"required"`
	Content string   `json:"content" binding:"required,min=1,max=5000"`
	Score   *float64 `json:"score" binding:"required,gte=-1000000000,lte=1000000000"`
}

type EditCommentDto struct {
	Content *string  `json:"content" binding:"omitempty,min=1,max=5000"`
	Score   *float64 `json:"score" binding:"omitempty,gte=-1000000000,lte=1000000000"`
}
