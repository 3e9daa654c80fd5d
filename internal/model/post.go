package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        int64     `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FullPost struct {
	Post        Post       `json:"post"`
	Author      UserAuthor `json:"author"`
	ContentHTML string     `json:"content_html"`
}

// PostCommentStats is the per-post mean score and comment count used for
// author wide aggregates. Mean is zero when Count is zero.
type PostCommentStats struct {
	PostID int64   `json:"post_id"`
	Mean   float64 `json:"mean"`
	Count  int     `json:"count"`
}
