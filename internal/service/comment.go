package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/post-insights/internal/dto"
	"github.com/BloggingApp/post-insights/internal/model"
	"github.com/BloggingApp/post-insights/internal/rabbitmq"
	"github.com/BloggingApp/post-insights/internal/repository"
	"github.com/BloggingApp/post-insights/internal/sentiment"
	"github.com/BloggingApp/post-insights/pkg/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type commentService struct {
	logger     *zap.Logger
	repo       *repository.Repository
	mq         MQ
	posts      Post
	thresholds sentiment.Thresholds
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, mq MQ, posts Post, thresholds sentiment.Thresholds) Comment {
	return &commentService{
		logger:     logger,
		repo:       repo,
		mq:         mq,
		posts:      posts,
		thresholds: thresholds,
	}
}

func cleanContent(content string) (string, error) {
	cleaned := strings.TrimSpace(utils.StripHTML(content))
	if cleaned == "" {
		return "", ErrEmptyContent
	}
	return cleaned, nil
}

func (s *commentService) Create(ctx context.Context, authorID uuid.UUID, dto dto.CreateCommentDto) (*model.Comment, error) {
	content, err := cleanContent(dto.Content)
	if err != nil {
		return nil, err
	}

	if _, err := s.posts.FindByID(ctx, dto.PostID); err != nil {
		return nil, err
	}

	comment := model.Comment{
		PostID:   dto.PostID,
		AuthorID: authorID,
		Content:  content,
	}
	if dto.Score != nil {
		comment.Score = *dto.Score
	}

	createdComment, err := s.repo.Postgres.Comment.Create(ctx, comment)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) comment on post(%d): %s", authorID.String(), dto.PostID, err.Error())
		return nil, ErrInternal
	}

	s.publishCommentCreated(ctx, createdComment)

	return createdComment, nil
}

func (s *commentService) publishCommentCreated(ctx context.Context, comment *model.Comment) {
	if s.mq == nil {
		return
	}

	msg := dto.MQCommentCreatedMsg{
		CommentID: comment.ID,
		PostID:    comment.PostID,
		UserID:    comment.AuthorID,
		Score:     comment.Score,
		CreatedAt: comment.CreatedAt,
	}
	if err := s.mq.PublishJSON(ctx, rabbitmq.COMMENT_CREATED_QUEUE, msg); err != nil {
		s.logger.Sugar().Errorf("failed to publish comment(%d) created message: %s", comment.ID, err.Error())
	}
}

func (s *commentService) FindPostComments(ctx context.Context, postID int64, filter string) ([]*model.FullComment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.repo.Postgres.Comment.FindPostComments(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d) comments from postgres: %s", postID, err.Error())
		return nil, ErrInternal
	}

	return sentiment.Apply(s.thresholds, comments, sentiment.ParseFilter(filter)), nil
}

func (s *commentService) checkOwner(ctx context.Context, id int64, authorID uuid.UUID) error {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCommentNotFound
		}

		s.logger.Sugar().Errorf("failed to find comment(%d) from postgres: %s", id, err.Error())
		return ErrInternal
	}

	if comment.AuthorID != authorID {
		return ErrForbidden
	}

	return nil
}

func (s *commentService) Edit(ctx context.Context, id int64, authorID uuid.UUID, dto dto.EditCommentDto) (*model.Comment, error) {
	updates := make(map[string]interface{})
	if dto.Content != nil {
		content, err := cleanContent(*dto.Content)
		if err != nil {
			return nil, err
		}
		updates["content"] = content
	}
	if dto.Score != nil {
		updates["score"] = *dto.Score
	}
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	if err := s.checkOwner(ctx, id, authorID); err != nil {
		return nil, err
	}

	comment, err := s.repo.Postgres.Comment.Update(ctx, id, authorID, updates)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}

		s.logger.Sugar().Errorf("failed to update comment(%d): %s", id, err.Error())
		return nil, ErrInternal
	}

	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, id int64, authorID uuid.UUID) error {
	if err := s.checkOwner(ctx, id, authorID); err != nil {
		return err
	}

	if err := s.repo.Postgres.Comment.Delete(ctx, id, authorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCommentNotFound
		}

		s.logger.Sugar().Errorf("failed to delete comment(%d): %s", id, err.Error())
		return ErrInternal
	}

	return nil
}
