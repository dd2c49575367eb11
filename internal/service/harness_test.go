package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/repository/repotest"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

var errStoreDown = errors.New("store unavailable")

type harness struct {
	store      *repotest.Store
	likes      repository.LikeStore
	redis      *miniredis.Miniredis
	dispatcher events.Dispatcher
	published  *[]events.Event
	metrics    *observability.Metrics

	auth       *AuthService
	posts      *PostService
	comments   *CommentService
	users      *UserService
	engagement *EngagementService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := repotest.NewStore()
	likes, mr := repotest.NewLikeStore(t)
	return buildHarness(store, likes, mr)
}

func buildHarness(store *repotest.Store, likes repository.LikeStore, mr *miniredis.Miniredis) *harness {
	dispatcher := events.NewInMemoryDispatcher()
	published := &[]events.Event{}
	record := func(_ context.Context, e events.Event) error {
		*published = append(*published, e)
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventPostCreated,
		events.EventPostDeleted,
		events.EventPostLiked,
		events.EventPostUnliked,
		events.EventCommentAdded,
	} {
		dispatcher.Subscribe(eventType, record)
	}

	metrics := observability.NewMetrics("test")
	logger := zap.NewNop()
	posts := NewPostService(PostDependencies{
		PostRepo:   store.Posts(),
		LikeStore:  likes,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	return &harness{
		store:      store,
		likes:      likes,
		redis:      mr,
		dispatcher: dispatcher,
		published:  published,
		metrics:    metrics,
		auth: NewAuthService(config.AuthConfig{
			JWTSecret:       "service-test-secret",
			TokenTTLMinutes: 60,
			BcryptCost:      4,
		}, store.Users()),
		posts: posts,
		comments: NewCommentService(CommentDependencies{
			CommentRepo: store.Comments(),
			PostRepo:    store.Posts(),
			Dispatcher:  dispatcher,
			Logger:      logger,
		}),
		users: NewUserService(UserDependencies{
			UserRepo:    store.Users(),
			PostService: posts,
			Logger:      logger,
		}),
		engagement: NewEngagementService(EngagementDependencies{
			PostRepo:   store.Posts(),
			LikeStore:  likes,
			Dispatcher: dispatcher,
			Metrics:    metrics,
			Logger:     logger,
		}),
	}
}

func (h *harness) register(t *testing.T) (*domain.User, domain.Identity) {
	t.Helper()
	user, err := h.auth.Register(context.Background(), RegisterInput{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: "secret-pass",
	})
	require.NoError(t, err)
	return user, domain.Identity{SubjectID: user.ID}
}

func (h *harness) createPost(t *testing.T, owner domain.Identity) *domain.Post {
	t.Helper()
	post, err := h.posts.CreatePost(context.Background(), owner, PostInput{
		Title:       "A post about Go",
		Description: "Some description long enough",
		Tags:        []string{"go"},
	})
	require.NoError(t, err)
	return post
}

func (h *harness) eventTypes() []events.EventType {
	types := make([]events.EventType, 0, len(*h.published))
	for _, e := range *h.published {
		types = append(types, e.Type)
	}
	return types
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.HasCode(err, code), "expected %s, got %v", code, err)
}

// stubLikeStore lets individual tests script LikeStore results.
type stubLikeStore struct {
	toggleFn  func(ctx context.Context, postID, subjectID string) (domain.LikeOutcome, error)
	membersFn func(ctx context.Context, postIDs ...string) (map[string][]string, error)
	clearFn   func(ctx context.Context, postID string) error
	toggles   int
}

func (s *stubLikeStore) Toggle(ctx context.Context, postID, subjectID string) (domain.LikeOutcome, error) {
	s.toggles++
	if s.toggleFn != nil {
		return s.toggleFn(ctx, postID, subjectID)
	}
	return domain.LikeOutcome{PostID: postID, SubjectID: subjectID, Liked: true, LikeCount: 1}, nil
}

func (s *stubLikeStore) Members(ctx context.Context, postIDs ...string) (map[string][]string, error) {
	if s.membersFn != nil {
		return s.membersFn(ctx, postIDs...)
	}
	return map[string][]string{}, nil
}

func (s *stubLikeStore) Clear(ctx context.Context, postID string) error {
	if s.clearFn != nil {
		return s.clearFn(ctx, postID)
	}
	return nil
}

// stubPostRepo wraps a real repository and overrides Exists.
type stubPostRepo struct {
	repository.PostRepository
	existsFn func(ctx context.Context, id string) (bool, error)
}

func (s stubPostRepo) Exists(ctx context.Context, id string) (bool, error) {
	if s.existsFn != nil {
		return s.existsFn(ctx, id)
	}
	return s.PostRepository.Exists(ctx, id)
}

// stubUserRepo wraps a real repository and overrides Delete.
type stubUserRepo struct {
	repository.UserRepository
	deleteFn func(ctx context.Context, id string) error
}

func (s stubUserRepo) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return s.UserRepository.Delete(ctx, id)
}
