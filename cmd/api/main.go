package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blog-service/internal/api/http"
	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/persistence"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/service"
	"github.com/spec-kit/blog-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	var likeStore repository.LikeStore
	readiness := []handlers.DependencyCheck{{Name: "postgres", Pinger: pg}}
	switch cfg.Engagement.Store {
	case config.EngagementStoreRedis:
		likeStore = repository.NewRedisLikeStore(redis.Client, cfg.Engagement.RedisPrefix)
		readiness = append(readiness, handlers.DependencyCheck{Name: "redis", Pinger: redis})
	default:
		likeStore = repository.NewPostgresLikeStore(pool)
	}
	logger.Info("like-set store selected", zap.String("store", cfg.Engagement.Store))

	metrics := observability.NewMetrics("blog")
	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(logger, cfg.Notification)
	notificationWorker := worker.StartNotificationWorker(dispatcher, notifications, logger)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	postService := service.NewPostService(service.PostDependencies{
		PostRepo:   postRepo,
		LikeStore:  likeStore,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	engagementService := service.NewEngagementService(service.EngagementDependencies{
		PostRepo:   postRepo,
		LikeStore:  likeStore,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: commentRepo,
		PostRepo:    postRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:    userRepo,
		PostService: postService,
		Logger:      logger,
	})
	authenticator := auth.NewAuthenticator(authService.TokenManager())

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness...),
		Metrics:       metrics.Handler(),
		Auth:          handlers.NewAuthHandler(authService),
		Posts:         handlers.NewPostsHandler(postService, engagementService),
		Comments:      handlers.NewCommentsHandler(commentService),
		Users:         handlers.NewUsersHandler(userService),
		Authenticator: authenticator,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	if err := notificationWorker.Stop(stopCtx); err != nil {
		logger.Warn("notification worker did not drain", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
