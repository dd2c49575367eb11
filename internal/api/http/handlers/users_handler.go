package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/service"
)

// UsersHandler exposes profile endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	limit, offset := paging(c)
	users, err := h.users.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update handles PUT /users/change/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.UserUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(c.UserContext(), identity, c.Params("id"), service.UserProfileInput{
		Name:   req.Name,
		Email:  req.Email,
		City:   req.City,
		Bio:    req.Bio,
		Work:   req.Work,
		Skills: req.Skills,
		Avatar: req.Avatar,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "user updated",
		"data":    dto.NewUserResponse(user),
	})
}

// Delete handles DELETE /users/delete/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteAccount(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}
