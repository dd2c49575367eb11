package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
)

// PostInput carries editable post fields. On update, empty fields keep their
// current value.
type PostInput struct {
	Title       string
	Description string
	Tags        []string
	CoverPhoto  string
	Photos      []string
}

// PostService coordinates post workflows. Like-sets are always read from the
// LikeStore so either backend reports the same view.
type PostService struct {
	posts      repository.PostRepository
	likes      repository.LikeStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PostDependencies bundles collaborators for the post service.
type PostDependencies struct {
	PostRepo   repository.PostRepository
	LikeStore  repository.LikeStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewPostService constructs the service.
func NewPostService(deps PostDependencies) *PostService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{
		posts:      deps.PostRepo,
		likes:      deps.LikeStore,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreatePost publishes a post owned by the caller with an empty like-set.
func (s *PostService) CreatePost(ctx context.Context, caller domain.Identity, input PostInput) (*domain.Post, error) {
	post := &domain.Post{
		OwnerID:     caller.SubjectID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Tags:        cleanTags(input.Tags),
		CoverPhoto:  strings.TrimSpace(input.CoverPhoto),
		Photos:      input.Photos,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storeError("post", err)
	}
	post.Likes = []string{}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:    events.EventPostCreated,
		PostID:  post.ID,
		ActorID: caller.SubjectID,
		Payload: events.PostCreatedPayload{Title: post.Title, Tags: post.Tags},
	})
	return post, nil
}

// UpdatePost changes a post owned by the caller and returns it with its
// like-set.
func (s *PostService) UpdatePost(ctx context.Context, caller domain.Identity, postID string, input PostInput) (*domain.Post, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureOwner(caller, post.OwnerID, "post"); err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		post.Title = title
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		post.Description = desc
	}
	if tags := cleanTags(input.Tags); len(tags) > 0 {
		post.Tags = tags
	}
	if cover := strings.TrimSpace(input.CoverPhoto); cover != "" {
		post.CoverPhoto = cover
	}
	if len(input.Photos) > 0 {
		post.Photos = input.Photos
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, storeError("post", err)
	}
	if err := s.attachLikes(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post owned by the caller together with its like-set.
func (s *PostService) DeletePost(ctx context.Context, caller domain.Identity, postID string) error {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if err := auth.EnsureOwner(caller, post.OwnerID, "post"); err != nil {
		return err
	}
	return s.removePost(ctx, caller, post.ID)
}

func (s *PostService) removePost(ctx context.Context, caller domain.Identity, postID string) error {
	if err := s.posts.Delete(ctx, postID); err != nil {
		return storeError("post", err)
	}
	s.postRemoved(ctx, caller, postID)
	return nil
}

// postRemoved runs once a post row is gone.
func (s *PostService) postRemoved(ctx context.Context, caller domain.Identity, postID string) {
	if err := s.likes.Clear(ctx, postID); err != nil {
		s.logger.Warn("failed to clear like-set", zap.String("post_id", postID), zap.Error(err))
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{Type: events.EventPostDeleted, PostID: postID, ActorID: caller.SubjectID})
}

func (s *PostService) ownedPostIDs(ctx context.Context, ownerID string) ([]string, error) {
	var ids []string
	for offset := 0; ; offset += ownedPostsBatch {
		page, err := s.posts.ListByOwner(ctx, ownerID, ownedPostsBatch, offset)
		if err != nil {
			return nil, storeError("post", err)
		}
		for _, post := range page {
			ids = append(ids, post.ID)
		}
		if len(page) < ownedPostsBatch {
			return ids, nil
		}
	}
}

// GetPost returns a single post with its like-set.
func (s *PostService) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.attachLikes(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns the newest posts first.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	posts, err := s.posts.List(ctx, limit, offset)
	if err != nil {
		return nil, storeError("post", err)
	}
	return s.withLikes(ctx, posts)
}

// ListPostsByOwner returns posts authored by ownerID.
func (s *PostService) ListPostsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Post, error) {
	if err := requireID("user", ownerID); err != nil {
		return []domain.Post{}, nil
	}
	posts, err := s.posts.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, storeError("post", err)
	}
	return s.withLikes(ctx, posts)
}

func (s *PostService) loadPost(ctx context.Context, postID string) (*domain.Post, error) {
	if err := requireID("post", postID); err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, storeError("post", err)
	}
	return post, nil
}

func (s *PostService) attachLikes(ctx context.Context, post *domain.Post) error {
	sets, err := s.likes.Members(ctx, post.ID)
	if err != nil {
		return storeError("post", err)
	}
	post.Likes = sets[post.ID]
	if post.Likes == nil {
		post.Likes = []string{}
	}
	return nil
}

func (s *PostService) withLikes(ctx context.Context, posts []domain.Post) ([]domain.Post, error) {
	if len(posts) == 0 {
		return []domain.Post{}, nil
	}
	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	sets, err := s.likes.Members(ctx, ids...)
	if err != nil {
		return nil, storeError("post", err)
	}
	for i := range posts {
		posts[i].Likes = sets[posts[i].ID]
		if posts[i].Likes == nil {
			posts[i].Likes = []string{}
		}
	}
	return posts, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
