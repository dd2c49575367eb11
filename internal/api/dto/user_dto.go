package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	City     string `json:"city"`
	Bio      string `json:"bio"`
	Work     string `json:"work"`
	Skills   string `json:"skills"`
}

// Validate checks registration rules.
func (r UserRegisterRequest) Validate() error {
	errs := fieldErrors{}
	errs.minLen("name", r.Name, 2)
	errs.email("email", r.Email)
	errs.minLen("password", r.Password, 6)
	return errs.err()
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (r UserLoginRequest) Validate() error {
	errs := fieldErrors{}
	errs.required("email", r.Email)
	errs.required("password", r.Password)
	return errs.err()
}

// UserUpdateRequest carries profile changes; omitted fields are left alone.
type UserUpdateRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	City   string `json:"city"`
	Bio    string `json:"bio"`
	Work   string `json:"work"`
	Skills string `json:"skills"`
	Avatar string `json:"avatar"`
}

// Validate checks each provided field.
func (r UserUpdateRequest) Validate() error {
	errs := fieldErrors{}
	errs.optionalMinLen("name", r.Name, 2)
	if r.Email != "" {
		errs.email("email", r.Email)
	}
	errs.optionalMinLen("city", r.City, 2)
	errs.optionalMinLen("bio", r.Bio, 10)
	errs.optionalMinLen("work", r.Work, 2)
	errs.optionalMinLen("skills", r.Skills, 2)
	return errs.err()
}

// UserResponse is the public view of a user. The password hash never leaves the service.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	City      string    `json:"city"`
	Bio       string    `json:"bio"`
	Work      string    `json:"work"`
	Skills    string    `json:"skills"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		City:      u.City,
		Bio:       u.Bio,
		Work:      u.Work,
		Skills:    u.Skills,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserResponses maps a slice of users.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// AuthResponse standard response for login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
