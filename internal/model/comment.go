package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Comment) GetScore() float64 {
	return c.Score
}

type FullComment struct {
	Comment Comment    `json:"comment"`
	Author  UserAuthor `json:"author"`
}

func (c *FullComment) GetScore() float64 {
	return c.Comment.Score
}

func CommentContents(comments []*FullComment) []string {
	contents := make([]string, len(comments))
	for i, c := range comments {
		contents[i] = c.Comment.Content
	}
	return contents
}
