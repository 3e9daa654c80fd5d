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

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

const postReturning = "RETURNING id, author_id, title, content, created_at, updated_at"

func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	if err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

func scanFullPost(row pgx.Row) (*model.FullPost, error) {
	var post model.FullPost
	if err := row.Scan(
		&post.Post.ID,
		&post.Post.AuthorID,
		&post.Post.Title,
		&post.Post.Content,
		&post.Post.CreatedAt,
		&post.Post.UpdatedAt,
		&post.Author.Username,
		&post.Author.DisplayName,
		&post.Author.AvatarURL,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

func selectFullPosts() sq.SelectBuilder {
	return psql.
		Select(
			"p.id", "p.author_id", "p.title", "p.content", "p.created_at", "p.updated_at",
			"u.username", "u.display_name", "u.avatar_url",
		).
		From("posts p").
		Join("cached_users u ON p.author_id = u.id")
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	now := time.Now()
	query, args, err := psql.
		Insert("posts").
		Columns("author_id", "title", "content", "created_at", "updated_at").
		Values(post.AuthorID, post.Title, post.Content, now, now).
		Suffix(postReturning).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanPost(r.db.QueryRow(ctx, query, args...))
}

func (r *postRepo) FindByID(ctx context.Context, id int64) (*model.FullPost, error) {
	query, args, err := selectFullPosts().Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	return scanFullPost(r.db.QueryRow(ctx, query, args...))
}

func (r *postRepo) FindAll(ctx context.Context, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	query, args, err := selectFullPosts().
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.FullPost
	for rows.Next() {
		post, err := scanFullPost(rows)
		if err != nil {
			return nil, err
		}

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error) {
	maxLimit(&limit)

	query, args, err := psql.
		Select("id", "author_id", "title", "content", "created_at", "updated_at").
		From("posts").
		Where(sq.Eq{"author_id": authorID.String()}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) FindAuthorPostIDs(ctx context.Context, authorID uuid.UUID) ([]int64, error) {
	query, args, err := psql.
		Select("id").
		From("posts").
		Where(sq.Eq{"author_id": authorID.String()}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

// Update returns pgx.ErrNoRows when no post with id is owned by authorID.
func (r *postRepo) Update(ctx context.Context, id int64, authorID uuid.UUID, updates map[string]interface{}) (*model.Post, error) {
	if err := checkAllowedFields(updates, "title", "content"); err != nil {
		return nil, err
	}

	query, args, err := psql.
		Update("posts").
		SetMap(updates).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "author_id": authorID.String()}).
		Suffix(postReturning).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanPost(r.db.QueryRow(ctx, query, args...))
}

// Delete returns pgx.ErrNoRows when no post with id is owned by authorID.
// Comments are removed by the foreign key cascade.
func (r *postRepo) Delete(ctx context.Context, id int64, authorID uuid.UUID) error {
	query, args, err := psql.
		Delete("posts").
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

func (r *postRepo) AuthorCommentStats(ctx context.Context, authorID uuid.UUID) ([]*model.PostCommentStats, error) {
	query, args, err := psql.
		Select("p.id", "COALESCE(AVG(c.score), 0)", "COUNT(c.id)").
		From("posts p").
		LeftJoin("comments c ON c.post_id = p.id").
		Where(sq.Eq{"p.author_id": authorID.String()}).
		GroupBy("p.id").
		OrderBy("p.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*model.PostCommentStats
	for rows.Next() {
		var s model.PostCommentStats
		if err := rows.Scan(&s.PostID, &s.Mean, &s.Count); err != nil {
			return nil, err
		}

		stats = append(stats, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
