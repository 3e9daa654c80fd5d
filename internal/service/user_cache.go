package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BloggingApp/post-insights/internal/model"
	"github.com/BloggingApp/post-insights/internal/rabbitmq"
	"github.com/BloggingApp/post-insights/internal/repository"
	"github.com/BloggingApp/post-insights/internal/repository/postgres"
	"github.com/BloggingApp/post-insights/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type userCacheService struct {
	logger         *zap.Logger
	repo           *repository.Repository
	mq             MQ
	httpClient     *http.Client
	userServiceAPI string
}

func newUserCacheService(logger *zap.Logger, repo *repository.Repository, mq MQ, userServiceAPI string) UserCache {
	return &userCacheService{
		logger:         logger,
		repo:           repo,
		mq:             mq,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		userServiceAPI: userServiceAPI,
	}
}

func (s *userCacheService) CreateOrGet(ctx context.Context, id uuid.UUID, accessToken string) (*model.CachedUser, error) {
	cachedUser, err := s.FindByID(ctx, id)
	if err == nil {
		return cachedUser, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	fetchedUser, err := s.fetchUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if fetchedUser.ID != id {
		s.logger.Sugar().Errorf("user-service returned user(%s) for token of user(%s)", fetchedUser.ID.String(), id.String())
		return nil, ErrFailedToFetchUser
	}

	if err := s.repo.Postgres.UserCache.Create(ctx, *fetchedUser); err != nil {
		s.logger.Sugar().Errorf("failed to create cached user(%s): %s", fetchedUser.ID.String(), err.Error())
		return nil, ErrInternal
	}

	return fetchedUser, nil
}

func (s *userCacheService) fetchUser(ctx context.Context, accessToken string) (*model.CachedUser, error) {
	endpoint := "/users/@me"
	url := s.userServiceAPI + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create request to user-service: %s", err.Error())
		return nil, ErrInternal
	}

	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Sugar().Errorf("failed to send request to user-service: %s", err.Error())
		return nil, ErrInternal
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Sugar().Errorf("failed to read response body from user-service: %s", err.Error())
		return nil, ErrInternal
	}

	if resp.StatusCode != http.StatusOK {
		var bodyJSON map[string]interface{}
		if err := json.Unmarshal(body, &bodyJSON); err != nil {
			s.logger.Sugar().Errorf("failed to decode error response from user-service: %s", err.Error())
		} else {
			s.logger.Sugar().Errorf("ERROR from user-service endpoint(%s), details: %s", endpoint, bodyJSON["details"])
		}
		return nil, ErrFailedToFetchUser
	}

	var user model.CachedUser
	if err := json.Unmarshal(body, &user); err != nil {
		s.logger.Sugar().Errorf("failed to decode user response body from user-service: %s", err.Error())
		return nil, ErrInternal
	}

	return &user, nil
}

func (s *userCacheService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if err := s.repo.Postgres.UserCache.Update(ctx, id, updates); err != nil {
		if errors.Is(err, postgres.ErrFieldsNotAllowedToUpdate) {
			return err
		}
		if isPermanentPgError(err) {
			s.logger.Sugar().Errorf("rejected update of cached user(%s): %s", id.String(), err.Error())
			return ErrInvalidUserUpdate
		}

		s.logger.Sugar().Errorf("failed to update cached user(%s): %s", id.String(), err.Error())
		return ErrInternal
	}

	// cached posts embed the author's display data
	keys := []string{redisrepo.UserCacheKey(id.String())}
	postIDs, err := s.repo.Postgres.Post.FindAuthorPostIDs(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) post ids from postgres: %s", id.String(), err.Error())
	}
	for _, postID := range postIDs {
		keys = append(keys, redisrepo.PostKey(postID))
	}

	if err := s.repo.Redis.Default.Del(ctx, keys...).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete cached user(%s) from redis: %s", id.String(), err.Error())
	}

	return nil
}

// isPermanentPgError reports data exceptions (class 22) and integrity
// violations (class 23), which fail the same way on every retry.
func isPermanentPgError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23")
}

// validateUserUpdates accepts string values, and null only for the nullable
// display_name and avatar_url columns.
func validateUserUpdates(updates map[string]interface{}) error {
	for field, value := range updates {
		switch v := value.(type) {
		case string:
			if field == "username" && strings.TrimSpace(v) == "" {
				return ErrInvalidUserUpdate
			}
		case nil:
			if field != "display_name" && field != "avatar_url" {
				return ErrInvalidUserUpdate
			}
		default:
			return ErrInvalidUserUpdate
		}
	}
	return nil
}

// FindByID returns pgx.ErrNoRows when the user has never been cached.
func (s *userCacheService) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	cachedUser, err := redisrepo.Get[model.CachedUser](s.repo.Redis.Default, ctx, redisrepo.UserCacheKey(id.String()))
	if err == nil && cachedUser != nil {
		return cachedUser, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get cached user(%s) from redis: %s", id.String(), err.Error())
	}

	user, err := s.repo.Postgres.UserCache.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		s.logger.Sugar().Errorf("failed to get cached user(%s) from postgres: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserCacheKey(id.String()), user, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", id.String(), err.Error())
	}

	return user, nil
}

func (s *userCacheService) StartConsumeUpdates(ctx context.Context) {
	if s.mq == nil {
		return
	}

	queue := rabbitmq.USER_INFO_UPDATED_QUEUE
	msgs, err := s.mq.Consume(queue)
	if err != nil {
		s.logger.Sugar().Errorf("failed to start consume updates from queue(%s): %s", queue, err.Error())
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			s.handleUserUpdate(ctx, queue, msg.Body, msg.Ack, msg.Nack)
		}
	}
}

func (s *userCacheService) handleUserUpdate(ctx context.Context, queue string, body []byte, ack func(bool) error, nack func(bool, bool) error) {
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		s.logger.Sugar().Errorf("failed to unmarshal json in queue(%s): %s", queue, err.Error())
		nack(false, false)
		return
	}

	userIDString, exists := data["user_id"].(string)
	if !exists {
		s.logger.Sugar().Errorf("'user_id' field is not provided")
		nack(false, false)
		return
	}
	userID, err := uuid.Parse(userIDString)
	if err != nil {
		s.logger.Sugar().Errorf("provided an invalid user_id")
		nack(false, false)
		return
	}

	delete(data, "user_id")

	if err := validateUserUpdates(data); err != nil {
		s.logger.Sugar().Errorf("dropping update of user(%s) from queue(%s): %s", userID.String(), queue, err.Error())
		nack(false, false)
		return
	}

	if err := s.Update(ctx, userID, data); err != nil {
		requeue := !errors.Is(err, postgres.ErrFieldsNotAllowedToUpdate) && !errors.Is(err, ErrInvalidUserUpdate)
		nack(false, requeue)
		return
	}

	ack(false)
}
