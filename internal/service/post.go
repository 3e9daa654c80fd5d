package service

import (
	"context"
	"errors"
	"time"

	"github.com/BloggingApp/post-insights/internal/dto"
	"github.com/BloggingApp/post-insights/internal/model"
	"github.com/BloggingApp/post-insights/internal/rabbitmq"
	"github.com/BloggingApp/post-insights/internal/repository"
	"github.com/BloggingApp/post-insights/internal/repository/redisrepo"
	"github.com/BloggingApp/post-insights/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
	mq     MQ
	ttl    time.Duration
}

func newPostService(logger *zap.Logger, repo *repository.Repository, mq MQ, ttl time.Duration) *postService {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &postService{
		logger: logger,
		repo:   repo,
		mq:     mq,
		ttl:    ttl,
	}
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, dto dto.CreatePostDto) (*model.Post, error) {
	post := model.Post{
		AuthorID: authorID,
		Title:    utils.StripHTML(dto.Title),
		Content:  dto.Content,
	}

	createdPost, err := s.repo.Postgres.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	s.publishPostCreated(ctx, createdPost)

	return createdPost, nil
}

func (s *postService) publishPostCreated(ctx context.Context, post *model.Post) {
	if s.mq == nil {
		return
	}

	msg := dto.MQPostCreatedMsg{
		PostID:    post.ID,
		UserID:    post.AuthorID,
		PostTitle: post.Title,
		CreatedAt: post.CreatedAt,
	}
	if err := s.mq.PublishJSON(ctx, rabbitmq.POST_CREATED_QUEUE, msg); err != nil {
		s.logger.Sugar().Errorf("failed to publish post(%d) created message: %s", post.ID, err.Error())
	}
}

func (s *postService) FindAll(ctx context.Context, limit int, offset int) ([]*model.FullPost, error) {
	posts, err := s.repo.Postgres.Post.FindAll(ctx, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find posts(limit=%d, offset=%d) from postgres: %s", limit, offset, err.Error())
		return nil, ErrInternal
	}

	if posts == nil {
		posts = []*model.FullPost{}
	}

	for _, post := range posts {
		post.ContentHTML = utils.RenderMarkdown(post.Post.Content)
	}

	return posts, nil
}

func (s *postService) FindByID(ctx context.Context, id int64) (*model.FullPost, error) {
	cachedPost, err := redisrepo.Get[model.FullPost](s.repo.Redis.Default, ctx, redisrepo.PostKey(id))
	if err == nil && cachedPost != nil {
		return cachedPost, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%d) from redis: %s", id, err.Error())
	}

	post, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%d) from postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	post.ContentHTML = utils.RenderMarkdown(post.Post.Content)

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PostKey(id), post, s.ttl); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%d) in redis: %s", id, err.Error())
	}

	return post, nil
}

func (s *postService) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error) {
	posts, err := s.repo.Postgres.Post.FindAuthorPosts(ctx, authorID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find author(%s) posts from postgres: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	if posts == nil {
		posts = []*model.Post{}
	}

	return posts, nil
}

// checkOwner loads the post straight from postgres so that a stale cache
// entry can not grant access.
func (s *postService) checkOwner(ctx context.Context, id int64, authorID uuid.UUID) error {
	post, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%d) from postgres: %s", id, err.Error())
		return ErrInternal
	}

	if post.Post.AuthorID != authorID {
		return ErrForbidden
	}

	return nil
}

func (s *postService) Edit(ctx context.Context, id int64, authorID uuid.UUID, dto dto.EditPostDto) (*model.Post, error) {
	updates := make(map[string]interface{})
	if dto.Title != nil {
		updates["title"] = utils.StripHTML(*dto.Title)
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	if err := s.checkOwner(ctx, id, authorID); err != nil {
		return nil, err
	}

	post, err := s.repo.Postgres.Post.Update(ctx, id, authorID, updates)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to update post(%d): %s", id, err.Error())
		return nil, ErrInternal
	}

	s.invalidate(ctx, id)

	return post, nil
}

func (s *postService) Delete(ctx context.Context, id int64, authorID uuid.UUID) error {
	if err := s.checkOwner(ctx, id, authorID); err != nil {
		return err
	}

	if err := s.repo.Postgres.Post.Delete(ctx, id, authorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to delete post(%d): %s", id, err.Error())
		return ErrInternal
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *postService) invalidate(ctx context.Context, id int64) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(id)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d) from redis: %s", id, err.Error())
	}
}
