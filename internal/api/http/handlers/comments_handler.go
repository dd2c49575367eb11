package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/service"
)

// CommentsHandler manages comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// Add handles POST /comments/add/:id where id is the post.
func (h *CommentsHandler) Add(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.AddComment(c.UserContext(), identity, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "comment added",
		"data":    dto.NewCommentResponse(comment),
	})
}

// Update handles PUT /comments/change/:id.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.UpdateComment(c.UserContext(), identity, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "comment updated",
		"data":    dto.NewCommentResponse(comment),
	})
}

// Delete handles DELETE /comments/delete/:id.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.comments.DeleteComment(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "comment deleted"})
}

// List handles GET /comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	limit, offset := paging(c)
	comments, err := h.comments.ListComments(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponses(comments)})
}

// Get handles GET /comments/:id.
func (h *CommentsHandler) Get(c *fiber.Ctx) error {
	comment, err := h.comments.GetComment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

// ListByPost handles GET /comments/post/:id.
func (h *CommentsHandler) ListByPost(c *fiber.Ctx) error {
	comments, err := h.comments.ListPostComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponses(comments)})
}
