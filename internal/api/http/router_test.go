package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/repository/repotest"
	"github.com/spec-kit/blog-service/internal/service"
)

const routerTestSecret = "router-test-secret"

type testServer struct {
	app   *fiber.App
	redis *miniredis.Miniredis
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestServer(t *testing.T, checks ...handlers.DependencyCheck) *testServer {
	t.Helper()
	store := repotest.NewStore()
	likes, mr := repotest.NewLikeStore(t)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics("blog")
	logger := zap.NewNop()

	authService := service.NewAuthService(config.AuthConfig{
		JWTSecret:       routerTestSecret,
		TokenTTLMinutes: 120,
		BcryptCost:      4,
	}, store.Users())
	postService := service.NewPostService(service.PostDependencies{
		PostRepo:   store.Posts(),
		LikeStore:  likes,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	engagement := service.NewEngagementService(service.EngagementDependencies{
		PostRepo:   store.Posts(),
		LikeStore:  likes,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	comments := service.NewCommentService(service.CommentDependencies{
		CommentRepo: store.Comments(),
		PostRepo:    store.Posts(),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	users := service.NewUserService(service.UserDependencies{
		UserRepo:    store.Users(),
		PostService: postService,
		Logger:      logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, MiddlewareConfig{Timeout: 5 * time.Second})
	RegisterRoutes(app, RouteConfig{
		Health:        handlers.NewHealthHandler("blog-service", "test", checks...),
		Metrics:       metrics.Handler(),
		Auth:          handlers.NewAuthHandler(authService),
		Posts:         handlers.NewPostsHandler(postService, engagement),
		Comments:      handlers.NewCommentsHandler(comments),
		Users:         handlers.NewUsersHandler(users),
		Authenticator: auth.NewAuthenticator(authService.TokenManager()),
	})
	return &testServer{app: app, redis: mr}
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env, raw
}

// signup registers and logs in, returning the user id and token.
func (s *testServer) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	status, _, _ := s.do(t, nethttp.MethodPost, "/auth/register", "", map[string]string{
		"name": "Test User", "email": email, "password": "secret-pass",
	})
	require.Equal(t, nethttp.StatusCreated, status)

	status, _, raw := s.do(t, nethttp.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "secret-pass",
	})
	require.Equal(t, nethttp.StatusOK, status)
	var login struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &login))
	require.NotEmpty(t, login.Token)
	return login.User.ID, login.Token
}

func (s *testServer) createPost(t *testing.T, token string) string {
	t.Helper()
	status, env, _ := s.do(t, nethttp.MethodPost, "/posts/add", token, map[string]any{
		"title": "Hello there", "description": "A description of the post", "tags": []string{"go"},
	})
	require.Equal(t, nethttp.StatusCreated, status)
	var post struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))
	return post.ID
}

type likeData struct {
	PostID     string `json:"post_id"`
	Liked      bool   `json:"liked"`
	LikesCount int    `json:"likes_count"`
}

func decodeLike(t *testing.T, env envelope) likeData {
	t.Helper()
	var data likeData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestLikeToggleRoundTrip(t *testing.T) {
	s := newTestServer(t)
	_, authorToken := s.signup(t, "author@example.com")
	aliceID, aliceToken := s.signup(t, "alice@example.com")
	postID := s.createPost(t, authorToken)

	status, env, _ := s.do(t, nethttp.MethodPut, "/posts/like/"+postID, aliceToken, nil)
	require.Equal(t, nethttp.StatusCreated, status)
	assert.Equal(t, "post liked", env.Message)
	assert.Equal(t, likeData{PostID: postID, Liked: true, LikesCount: 1}, decodeLike(t, env))

	status, env, _ = s.do(t, nethttp.MethodGet, "/posts/"+postID, aliceToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	var post struct {
		Likes      []string `json:"likes"`
		LikesCount int      `json:"likes_count"`
		Liked      bool     `json:"liked"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))
	assert.Equal(t, []string{aliceID}, post.Likes)
	assert.True(t, post.Liked)

	status, env, _ = s.do(t, nethttp.MethodPut, "/posts/like/"+postID, aliceToken, nil)
	require.Equal(t, nethttp.StatusCreated, status)
	assert.Equal(t, "post unliked", env.Message)
	assert.Equal(t, likeData{PostID: postID, Liked: false, LikesCount: 0}, decodeLike(t, env))

	status, _, raw := s.do(t, nethttp.MethodGet, "/metrics", "", nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Contains(t, string(raw), `blog_like_toggles_total{outcome="added"} 1`)
}

func TestUpdatePostReportsLikes(t *testing.T) {
	s := newTestServer(t)
	_, authorToken := s.signup(t, "author@example.com")
	aliceID, aliceToken := s.signup(t, "alice@example.com")
	postID := s.createPost(t, authorToken)

	status, _, _ := s.do(t, nethttp.MethodPut, "/posts/like/"+postID, aliceToken, nil)
	require.Equal(t, nethttp.StatusCreated, status)

	status, env, _ := s.do(t, nethttp.MethodPut, "/posts/change/"+postID, authorToken, map[string]string{
		"title": "A better title",
	})
	require.Equal(t, nethttp.StatusOK, status)
	var post struct {
		Title      string   `json:"title"`
		Likes      []string `json:"likes"`
		LikesCount int      `json:"likes_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))
	assert.Equal(t, "A better title", post.Title)
	assert.Equal(t, []string{aliceID}, post.Likes)
	assert.Equal(t, 1, post.LikesCount)
}

func TestLikeRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)
	userID, token := s.signup(t, "author@example.com")
	postID := s.createPost(t, token)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"iat": time.Now().Add(-3 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte(routerTestSecret))
	require.NoError(t, err)
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("someone-else"))
	require.NoError(t, err)

	headers := []string{
		"",
		"Bearer",
		"Bearer " + expired,
		"Bearer " + forged,
		"Basic " + token,
		"Bearer " + token + " extra",
		token,
	}
	for _, header := range headers {
		req := httptest.NewRequest(nethttp.MethodPut, "/posts/like/"+postID, nil)
		if header != "" {
			req.Header.Set(fiber.HeaderAuthorization, header)
		}
		resp, err := s.app.Test(req, -1)
		require.NoError(t, err)
		var env envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		resp.Body.Close()

		assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode, header)
		require.NotNil(t, env.Error, header)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
		assert.Equal(t, "Authentication failed.", env.Error.Message)
	}
	assert.Empty(t, s.redis.Keys())
}

func TestLikeMissingPost(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "alice@example.com")

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		status, env, _ := s.do(t, nethttp.MethodPut, "/posts/like/"+id, token, nil)
		assert.Equal(t, nethttp.StatusNotFound, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	}
	assert.Empty(t, s.redis.Keys())
}

func TestPreflightSkipsAuthentication(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodOptions, "/posts/like/"+uuid.NewString(), nil)
	req.Header.Set(fiber.HeaderOrigin, "https://blog.example.com")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, nethttp.MethodPut)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(nethttp.MethodOptions, "/posts/like/"+uuid.NewString(), nil)
	resp, err = s.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, s.redis.Keys())
}

func TestOwnerOnlyMutations(t *testing.T) {
	s := newTestServer(t)
	_, authorToken := s.signup(t, "author@example.com")
	bobID, bobToken := s.signup(t, "bob@example.com")
	postID := s.createPost(t, authorToken)

	status, env, _ := s.do(t, nethttp.MethodDelete, "/posts/delete/"+postID, bobToken, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	status, _, _ = s.do(t, nethttp.MethodPut, "/users/change/"+bobID, authorToken, map[string]string{"city": "Porto"})
	assert.Equal(t, nethttp.StatusForbidden, status)

	status, _, _ = s.do(t, nethttp.MethodDelete, "/posts/delete/"+postID, authorToken, nil)
	assert.Equal(t, nethttp.StatusOK, status)
	status, _, _ = s.do(t, nethttp.MethodGet, "/posts/"+postID, bobToken, nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestCommentFlow(t *testing.T) {
	s := newTestServer(t)
	_, authorToken := s.signup(t, "author@example.com")
	_, bobToken := s.signup(t, "bob@example.com")
	postID := s.createPost(t, authorToken)

	status, env, _ := s.do(t, nethttp.MethodPost, "/comments/add/"+postID, bobToken, map[string]string{"text": "short"})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Contains(t, env.Error.Details, "text")

	status, _, _ = s.do(t, nethttp.MethodPost, "/comments/add/"+postID, bobToken, map[string]string{"text": "Great post, thanks"})
	assert.Equal(t, nethttp.StatusCreated, status)

	status, env, _ = s.do(t, nethttp.MethodGet, "/comments/post/"+postID, authorToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	var comments []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &comments))
	assert.Len(t, comments, 1)
}

func TestRegisterValidationAndConflict(t *testing.T) {
	s := newTestServer(t)

	status, env, _ := s.do(t, nethttp.MethodPost, "/auth/register", "", map[string]string{"name": "A", "email": "bad", "password": "1"})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Len(t, env.Error.Details, 3)

	s.signup(t, "alice@example.com")
	status, env, _ = s.do(t, nethttp.MethodPost, "/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret-pass",
	})
	assert.Equal(t, nethttp.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	status, env, _ = s.do(t, nethttp.MethodPost, "/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	s := newTestServer(t)
	status, env, _ := s.do(t, nethttp.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestReadiness(t *testing.T) {
	healthy := newTestServer(t, handlers.DependencyCheck{Name: "postgres", Pinger: pingFunc(func(context.Context) error { return nil })})
	status, _, raw := healthy.do(t, nethttp.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.True(t, strings.Contains(string(raw), `"postgres":"ok"`))

	down := newTestServer(t, handlers.DependencyCheck{Name: "redis", Pinger: pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })})
	status, env, _ := down.do(t, nethttp.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, nethttp.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", env.Error.Code)

	status, _, _ = down.do(t, nethttp.MethodGet, "/health/live", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)
}
