package service

import (
	"context"
	"time"

	"github.com/BloggingApp/post-insights/internal/dto"
	"github.com/BloggingApp/post-insights/internal/model"
	"github.com/BloggingApp/post-insights/internal/repository"
	"github.com/BloggingApp/post-insights/internal/sentiment"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Post interface {
	Create(ctx context.Context, authorID uuid.UUID, dto dto.CreatePostDto) (*model.Post, error)
	FindAll(ctx context.Context, limit int, offset int) ([]*model.FullPost, error)
	FindByID(ctx context.Context, id int64) (*model.FullPost, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error)
	Edit(ctx context.Context, id int64, authorID uuid.UUID, dto dto.EditPostDto) (*model.Post, error)
	Delete(ctx context.Context, id int64, authorID uuid.UUID) error
}

type Comment interface {
	Create(ctx context.Context, authorID uuid.UUID, dto dto.CreateCommentDto) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64, filter string) ([]*model.FullComment, error)
	Edit(ctx context.Context, id int64, authorID uuid.UUID, dto dto.EditCommentDto) (*model.Comment, error)
	Delete(ctx context.Context, id int64, authorID uuid.UUID) error
}

type Insights interface {
	PostDetail(ctx context.Context, postID int64, filter string) (*dto.PostDetail, error)
	AuthorSentiment(ctx context.Context, authorID uuid.UUID) (*dto.AuthorSentiment, error)
}

type UserCache interface {
	CreateOrGet(ctx context.Context, id uuid.UUID, accessToken string) (*model.CachedUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	StartConsumeUpdates(ctx context.Context)
}

// Summarizer produces improvement suggestions and never fails.
type Summarizer interface {
	Summarize(ctx context.Context, commentsText string) string
}

type MQ interface {
	PublishJSON(ctx context.Context, queue string, body interface{}) error
	Consume(queue string) (<-chan amqp.Delivery, error)
}

type Options struct {
	Thresholds      sentiment.Thresholds
	LLMTimeout      time.Duration
	PostTTL         time.Duration
	ImprovementsTTL time.Duration
	UserServiceAPI  string
}

type Service struct {
	Post
	Comment
	Insights
	UserCache
}

func New(logger *zap.Logger, repo *repository.Repository, mq MQ, summarizer Summarizer, opts Options) *Service {
	posts := newPostService(logger, repo, mq, opts.PostTTL)
	return &Service{
		Post:      posts,
		Comment:   newCommentService(logger, repo, mq, posts, opts.Thresholds),
		Insights:  newInsightsService(logger, repo, posts, summarizer, opts),
		UserCache: newUserCacheService(logger, repo, mq, opts.UserServiceAPI),
	}
}

func (s *Service) StartConsumeAll(ctx context.Context) {
	go s.UserCache.StartConsumeUpdates(ctx)
}
