package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/service"
)

// PostsHandler manages post endpoints, including the like toggle.
type PostsHandler struct {
	posts      *service.PostService
	engagement *service.EngagementService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(posts *service.PostService, engagement *service.EngagementService) *PostsHandler {
	return &PostsHandler{posts: posts, engagement: engagement}
}

// Create handles POST /posts/add.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.PostRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	post, err := h.posts.CreatePost(c.UserContext(), identity, postInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "post created",
		"data":    dto.NewPostResponse(post, identity.SubjectID),
	})
}

// Update handles PUT /posts/change/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if err := req.ValidateChange(); err != nil {
		return err
	}

	post, err := h.posts.UpdatePost(c.UserContext(), identity, c.Params("id"), postInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "post updated",
		"data":    dto.NewPostResponse(post, identity.SubjectID),
	})
}

// Delete handles DELETE /posts/delete/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "post deleted"})
}

// List handles GET /posts.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	limit, offset := paging(c)
	posts, err := h.posts.ListPosts(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponses(posts, callerID(c))})
}

// Get handles GET /posts/:id.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	post, err := h.posts.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponse(post, callerID(c))})
}

// ListByOwner handles GET /posts/owner/:id.
func (h *PostsHandler) ListByOwner(c *fiber.Ctx) error {
	limit, offset := paging(c)
	posts, err := h.posts.ListPostsByOwner(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponses(posts, callerID(c))})
}

// Like handles PUT /posts/like/:id. The same call likes and unlikes; the
// response says which happened.
func (h *PostsHandler) Like(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	outcome, err := h.engagement.ToggleLike(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}

	message := "post unliked"
	if outcome.Liked {
		message = "post liked"
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    dto.NewLikeResponse(outcome),
	})
}

func postInput(req dto.PostRequest) service.PostInput {
	return service.PostInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		CoverPhoto:  req.CoverPhoto,
		Photos:      req.Photos,
	}
}
