package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Metrics       fiber.Handler
	Auth          *handlers.AuthHandler
	Posts         *handlers.PostsHandler
	Comments      *handlers.CommentsHandler
	Users         *handlers.UsersHandler
	Authenticator *auth.Authenticator
}

// RegisterRoutes wires HTTP routes. Static segments are registered before
// their :id siblings.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	posts := app.Group("/posts", cfg.Authenticator.Handle)
	posts.Post("/add", cfg.Posts.Create)
	posts.Put("/change/:id", cfg.Posts.Update)
	posts.Delete("/delete/:id", cfg.Posts.Delete)
	posts.Put("/like/:id", cfg.Posts.Like)
	posts.Get("/owner/:id", cfg.Posts.ListByOwner)
	posts.Get("/", cfg.Posts.List)
	posts.Get("/:id", cfg.Posts.Get)

	comments := app.Group("/comments", cfg.Authenticator.Handle)
	comments.Post("/add/:id", cfg.Comments.Add)
	comments.Put("/change/:id", cfg.Comments.Update)
	comments.Delete("/delete/:id", cfg.Comments.Delete)
	comments.Get("/post/:id", cfg.Comments.ListByPost)
	comments.Get("/", cfg.Comments.List)
	comments.Get("/:id", cfg.Comments.Get)

	users := app.Group("/users", cfg.Authenticator.Handle)
	users.Put("/change/:id", cfg.Users.Update)
	users.Delete("/delete/:id", cfg.Users.Delete)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
}
