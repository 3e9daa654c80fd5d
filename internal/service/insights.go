package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/BloggingApp/post-insights/internal/dto"
	"github.com/BloggingApp/post-insights/internal/improvement"
	"github.com/BloggingApp/post-insights/internal/model"
	"github.com/BloggingApp/post-insights/internal/repository"
	"github.com/BloggingApp/post-insights/internal/repository/redisrepo"
	"github.com/BloggingApp/post-insights/internal/sentiment"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type insightsService struct {
	logger          *zap.Logger
	repo            *repository.Repository
	posts           Post
	summarizer      Summarizer
	thresholds      sentiment.Thresholds
	llmTimeout      time.Duration
	improvementsTTL time.Duration
}

func newInsightsService(logger *zap.Logger, repo *repository.Repository, posts Post, summarizer Summarizer, opts Options) Insights {
	return &insightsService{
		logger:          logger,
		repo:            repo,
		posts:           posts,
		summarizer:      summarizer,
		thresholds:      opts.Thresholds,
		llmTimeout:      opts.LLMTimeout,
		improvementsTTL: opts.ImprovementsTTL,
	}
}

func (s *insightsService) PostDetail(ctx context.Context, postID int64, filter string) (*dto.PostDetail, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.Postgres.Comment.FindPostComments(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d) comments from postgres: %s", postID, err.Error())
		return nil, ErrInternal
	}

	f := sentiment.ParseFilter(filter)
	filtered := sentiment.Apply(s.thresholds, comments, f)
	summary := sentiment.Summarize(s.thresholds, filtered)
	counts := sentiment.Count(s.thresholds, filtered)

	return &dto.PostDetail{
		Post:                       *post,
		Comments:                   filtered,
		Filter:                     string(f),
		AverageScore:               summary.Score,
		AverageScoreClassification: summary.Label,
		PositiveComments:           counts.Positive,
		NegativeComments:           counts.Negative,
		MixedComments:              counts.Mixed,
		Improvements:               s.improvements(ctx, postID, model.CommentContents(filtered)),
	}, nil
}

// improvements never fails. Generated text is cached per post and comment
// set; the fallback message is not cached so the next request tries again.
func (s *insightsService) improvements(ctx context.Context, postID int64, contents []string) string {
	commentsText := improvement.JoinComments(contents)
	digest := sha256.Sum256([]byte(commentsText))
	key := redisrepo.ImprovementsKey(postID, hex.EncodeToString(digest[:]))

	cached, err := s.repo.Redis.Default.Get(ctx, key).Result()
	if err == nil {
		return cached
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%d) improvements from redis: %s", postID, err.Error())
	}

	genCtx := ctx
	if s.llmTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.llmTimeout)
		defer cancel()
	}

	text := s.summarizer.Summarize(genCtx, commentsText)
	if text == improvement.Fallback {
		return text
	}

	if err := s.repo.Redis.Default.Set(ctx, key, text, s.improvementsTTL); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%d) improvements in redis: %s", postID, err.Error())
	}

	return text
}

func (s *insightsService) AuthorSentiment(ctx context.Context, authorID uuid.UUID) (*dto.AuthorSentiment, error) {
	stats, err := s.repo.Postgres.Post.AuthorCommentStats(ctx, authorID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get author(%s) comment stats from postgres: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	posts := make([]sentiment.PostScore, len(stats))
	for i, st := range stats {
		posts[i] = sentiment.PostScore{
			PostID: st.PostID,
			Mean:   st.Mean,
			Count:  st.Count,
		}
	}

	overall := sentiment.SummarizeOverall(s.thresholds, posts)

	return &dto.AuthorSentiment{
		AuthorID:       authorID.String(),
		Posts:          posts,
		OverallScore:   overall.Score,
		Classification: overall.Label,
		TotalComments:  overall.Count,
	}, nil
}
