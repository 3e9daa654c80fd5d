package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/post-insights/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type commentRepo struct {
	db *pgxpool.Pool
}

func newCommentRepo(db *pgxpool.Pool) Comment {
	return &commentRepo{
		db: db,
	}
}

const commentReturning = "RETURNING id, post_id, author_id, content, score, created_at, updated_at"

func scanComment(row pgx.Row) (*model.Comment, error) {
	var comment model.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.Score,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	now := time.Now()
	query, args, err := psql.
		Insert("comments").
		Columns("post_id", "author_id", "content", "score", "created_at", "updated_at").
		Values(comment.PostID, comment.AuthorID, comment.Content, comment.Score, now, now).
		Suffix(commentReturning).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanComment(r.db.QueryRow(ctx, query, args...))
}

func (r *commentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	query, args, err := psql.
		Select("id", "post_id", "author_id", "content", "score", "created_at", "updated_at").
		From("comments").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanComment(r.db.QueryRow(ctx, query, args...))
}

// FindPostComments returns every comment of the post, oldest first.
func (r *commentRepo) FindPostComments(ctx context.Context, postID int64) ([]*model.FullComment, error) {
	query, args, err := psql.
		Select(
			"c.id", "c.post_id", "c.author_id", "c.content", "c.score", "c.created_at", "c.updated_at",
			"u.username", "u.display_name", "u.avatar_url",
		).
		From("comments c").
		Join("cached_users u ON c.author_id = u.id").
		Where(sq.Eq{"c.post_id": postID}).
		OrderBy("c.created_at ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*model.FullComment{}
	for rows.Next() {
		var comment model.FullComment
		if err := rows.Scan(
			&comment.Comment.ID,
			&comment.Comment.PostID,
			&comment.Comment.AuthorID,
			&comment.Comment.Content,
			&comment.Comment.Score,
			&comment.Comment.CreatedAt,
			&comment.Comment.UpdatedAt,
			&comment.Author.Username,
			&comment.Author.DisplayName,
			&comment.Author.AvatarURL,
		); err != nil {
			return nil, err
		}

		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

// Update returns pgx.ErrNoRows when no comment with id is owned by authorID.
func (r *commentRepo) Update(ctx context.Context, id int64, authorID uuid.UUID, updates map[string]interface{}) (*model.Comment, error) {
	if err := checkAllowedFields(updates, "content", "score"); err != nil {
		return nil, err
	}

	query, args, err := psql.
		Update("comments").
		SetMap(updates).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "author_id": authorID.String()}).
		Suffix(commentReturning).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanComment(r.db.QueryRow(ctx, query, args...))
}

// Delete returns pgx.ErrNoRows when no comment with id is owned by authorID.
func (r *commentRepo) Delete(ctx context.Context, id int64, authorID uuid.UUID) error {
	query, args, err := psql.
		Delete("comments").
		Where(sq.Eq{"id": id, "author_id": authorID.String()}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
