package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BloggingApp/post-insights/internal/model"
	"github.com/BloggingApp/post-insights/internal/repository"
	"github.com/BloggingApp/post-insights/internal/repository/postgres"
	"github.com/BloggingApp/post-insights/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type fakePostRepo struct {
	mu     sync.Mutex
	posts  map[int64]*model.Post
	nextID int64
	users  *fakeUserCacheRepo
	stats  []*model.PostCommentStats
	err    error
}

func newFakePostRepo(users *fakeUserCacheRepo) *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*model.Post), nextID: 1, users: users}
}

func (r *fakePostRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}

	post.ID = r.nextID
	r.nextID++
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	r.posts[post.ID] = &post

	created := post
	return &created, nil
}

func (r *fakePostRepo) full(p *model.Post) *model.FullPost {
	full := &model.FullPost{Post: *p}
	if u, ok := r.users.users[p.AuthorID]; ok {
		full.Author = model.UserAuthor{Username: u.Username, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
	}
	return full
}

func (r *fakePostRepo) FindByID(ctx context.Context, id int64) (*model.FullPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}

	p, ok := r.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.full(p), nil
}

func (r *fakePostRepo) FindAll(ctx context.Context, limit int, offset int) ([]*model.FullPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var posts []*model.FullPost
	for _, p := range r.posts {
		posts = append(posts, r.full(p))
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Post.ID > posts[j].Post.ID })
	return posts, r.err
}

func (r *fakePostRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var posts []*model.Post
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			post := *p
			posts = append(posts, &post)
		}
	}
	return posts, r.err
}

func (r *fakePostRepo) FindAuthorPostIDs(ctx context.Context, authorID uuid.UUID) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []int64
	for id, p := range r.posts {
		if p.AuthorID == authorID {
			ids = append(ids, id)
		}
	}
	return ids, r.err
}

func (r *fakePostRepo) Update(ctx context.Context, id int64, authorID uuid.UUID, updates map[string]interface{}) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok || p.AuthorID != authorID {
		return nil, pgx.ErrNoRows
	}
	if v, ok := updates["title"]; ok {
		p.Title = v.(string)
	}
	if v, ok := updates["content"]; ok {
		p.Content = v.(string)
	}

	updated := *p
	return &updated, nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id int64, authorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok || p.AuthorID != authorID {
		return pgx.ErrNoRows
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) AuthorCommentStats(ctx context.Context, authorID uuid.UUID) ([]*model.PostCommentStats, error) {
	return r.stats, r.err
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []*model.Comment
	nextID   int64
	err      error
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}

	comment.ID = r.nextID
	r.nextID++
	comment.CreatedAt = time.Now()
	stored := comment
	r.comments = append(r.comments, &stored)
	return &comment, nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.comments {
		if c.ID == id {
			found := *c
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCommentRepo) FindPostComments(ctx context.Context, postID int64) ([]*model.FullComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}

	comments := []*model.FullComment{}
	for _, c := range r.comments {
		if c.PostID == postID {
			comments = append(comments, &model.FullComment{Comment: *c})
		}
	}
	return comments, nil
}

func (r *fakeCommentRepo) Update(ctx context.Context, id int64, authorID uuid.UUID, updates map[string]interface{}) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.comments {
		if c.ID == id && c.AuthorID == authorID {
			if v, ok := updates["content"]; ok {
				c.Content = v.(string)
			}
			if v, ok := updates["score"]; ok {
				c.Score = v.(float64)
			}
			updated := *c
			return &updated, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id int64, authorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.comments {
		if c.ID == id && c.AuthorID == authorID {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeUserCacheRepo struct {
	users     map[uuid.UUID]*model.CachedUser
	updateErr error
}

func newFakeUserCacheRepo() *fakeUserCacheRepo {
	return &fakeUserCacheRepo{users: make(map[uuid.UUID]*model.CachedUser)}
}

func (r *fakeUserCacheRepo) Create(ctx context.Context, cachedUser model.CachedUser) error {
	r.users[cachedUser.ID] = &cachedUser
	return nil
}

func (r *fakeUserCacheRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if r.updateErr != nil {
		return r.updateErr
	}

	for field := range updates {
		if field != "username" && field != "display_name" && field != "avatar_url" {
			return postgres.ErrFieldsNotAllowedToUpdate
		}
	}

	u, ok := r.users[id]
	if !ok {
		return nil
	}
	if v, ok := updates["username"].(string); ok {
		u.Username = v
	}
	return nil
}

func (r *fakeUserCacheRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *u
	return &found, nil
}

type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]string)}
}

func (r *fakeRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := value.(string)
	if !ok {
		return errors.New("fake redis stores strings only")
	}
	r.values[key] = s
	return nil
}

func (r *fakeRedis) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Set(ctx, key, string(b), ttl)
}

func (r *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return redis.NewStringResult("", r.getErr)
	}
	v, ok := r.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (r *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, k := range keys {
		if _, ok := r.values[k]; ok {
			delete(r.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (r *fakeRedis) keys(prefix string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var keys []string
	for k := range r.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (r *fakeRedis) has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.values[key]
	return ok
}

type publishedMsg struct {
	queue string
	body  interface{}
}

type fakeMQ struct {
	mu         sync.Mutex
	published  []publishedMsg
	err        error
	deliveries chan amqp.Delivery
}

func (m *fakeMQ) PublishJSON(ctx context.Context, queue string, body interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, publishedMsg{queue: queue, body: body})
	return nil
}

func (m *fakeMQ) Consume(queue string) (<-chan amqp.Delivery, error) {
	if m.deliveries == nil {
		return nil, errors.New("no deliveries")
	}
	return m.deliveries, nil
}

type fakeSummarizer struct {
	mu          sync.Mutex
	text        string
	calls       int
	lastText    string
	hadDeadline bool
}

func (f *fakeSummarizer) Summarize(ctx context.Context, commentsText string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.lastText = commentsText
	_, f.hadDeadline = ctx.Deadline()
	return f.text
}

type testEnv struct {
	posts      *fakePostRepo
	comments   *fakeCommentRepo
	users      *fakeUserCacheRepo
	redis      *fakeRedis
	mq         *fakeMQ
	summarizer *fakeSummarizer
	repo       *repository.Repository
}

func newTestEnv() *testEnv {
	users := newFakeUserCacheRepo()
	env := &testEnv{
		posts:      newFakePostRepo(users),
		comments:   newFakeCommentRepo(),
		users:      users,
		redis:      newFakeRedis(),
		mq:         &fakeMQ{},
		summarizer: &fakeSummarizer{text: "Improve X"},
	}
	env.repo = &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			Post:      env.posts,
			Comment:   env.comments,
			UserCache: env.users,
		},
		Redis: &redisrepo.RedisRepository{
			Default: env.redis,
		},
	}
	return env
}
