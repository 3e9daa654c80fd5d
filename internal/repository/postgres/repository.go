package postgres

import (
	"context"
	"errors"

	"github.com/BloggingApp/post-insights/internal/config"
	"github.com/BloggingApp/post-insights/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const MAX_LIMIT = 50

var ErrFieldsNotAllowedToUpdate = errors.New("fields not allowed to update")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func maxLimit(limit *int) {
	if *limit <= 0 || *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

func checkAllowedFields(updates map[string]interface{}, allowedFields ...string) error {
	allowedFieldsSet := make(map[string]struct{}, len(allowedFields))
	for _, field := range allowedFields {
		allowedFieldsSet[field] = struct{}{}
	}

	for field := range updates {
		if _, ok := allowedFieldsSet[field]; !ok {
			return ErrFieldsNotAllowedToUpdate
		}
	}

	return nil
}

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, cfg.URL())
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id int64) (*model.FullPost, error)
	FindAll(ctx context.Context, limit int, offset int) ([]*model.FullPost, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error)
	FindAuthorPostIDs(ctx context.Context, authorID uuid.UUID) ([]int64, error)
	Update(ctx context.Context, id int64, authorID uuid.UUID, updates map[string]interface{}) (*model.Post, error)
	Delete(ctx context.Context, id int64, authorID uuid.UUID) error
	AuthorCommentStats(ctx context.Context, authorID uuid.UUID) ([]*model.PostCommentStats, error)
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64) ([]*model.FullComment, error)
	Update(ctx context.Context, id int64, authorID uuid.UUID, updates map[string]interface{}) (*model.Comment, error)
	Delete(ctx context.Context, id int64, authorID uuid.UUID) error
}

type UserCache interface {
	Create(ctx context.Context, cachedUser model.CachedUser) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
}

type PostgresRepository struct {
	Post
	Comment
	UserCache
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Post:      newPostRepo(db),
		Comment:   newCommentRepo(db),
		UserCache: newUserCacheRepo(db),
	}
}
