package dto

type CreatePostDto struct {
	Title   string `json:"title" binding:"required,min=2,max=255"`
	Content string `json:"content" binding:"required,min=1"`
}

type EditPostDto struct {
	Title   *string `json:"title" binding:"omitempty,min=2,max=255"`
	Content *string `json:"content" binding:"omitempty,min=1"`
}

type PaginationQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=0"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}
