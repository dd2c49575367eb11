package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// ownedPostsBatch bounds each page read while collecting a user's posts.
const ownedPostsBatch = 100

// UserProfileInput carries editable profile fields. Empty fields keep their
// current value.
type UserProfileInput struct {
	Name   string
	Email  string
	City   string
	Bio    string
	Work   string
	Skills string
	Avatar string
}

// UserService manages user profiles.
type UserService struct {
	users  repository.UserRepository
	posts  *PostService
	logger *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo    repository.UserRepository
	PostService *PostService
	Logger      *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:  deps.UserRepo,
		posts:  deps.PostService,
		logger: logger,
	}
}

// ListUsers returns a page of users.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, storeError("user", err)
	}
	return users, nil
}

// GetUser returns one user.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if err := requireID("user", userID); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError("user", err)
	}
	return user, nil
}

// UpdateProfile changes the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, caller domain.Identity, userID string, input UserProfileInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureOwner(caller, user.ID, "user"); err != nil {
		return nil, err
	}

	if email := normalizeEmail(input.Email); email != "" && email != user.Email {
		existing, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != user.ID:
			return nil, apperrors.NewConflict("user with this email already exists", nil)
		case err != nil && !apperrors.IsNoRows(err):
			return nil, apperrors.NewPersistenceFailure(err)
		}
		user.Email = email
	}
	setIfPresent(&user.Name, input.Name)
	setIfPresent(&user.City, input.City)
	setIfPresent(&user.Bio, input.Bio)
	setIfPresent(&user.Work, input.Work)
	setIfPresent(&user.Skills, input.Skills)
	setIfPresent(&user.Avatar, input.Avatar)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeError("user", err)
	}
	return user, nil
}

// DeleteAccount removes the caller's account. Owned posts and comments go with
// the user row through the schema's cascades; like-sets of the owned posts are
// cleared only after that delete succeeds.
func (s *UserService) DeleteAccount(ctx context.Context, caller domain.Identity, userID string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.EnsureOwner(caller, user.ID, "user"); err != nil {
		return err
	}

	var owned []string
	if s.posts != nil {
		owned, err = s.posts.ownedPostIDs(ctx, user.ID)
		if err != nil {
			return err
		}
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return storeError("user", err)
	}
	for _, postID := range owned {
		s.posts.postRemoved(ctx, caller, postID)
	}
	s.logger.Info("user account deleted", zap.String("user_id", user.ID), zap.Int("posts", len(owned)))
	return nil
}

func setIfPresent(field *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*field = v
	}
}
