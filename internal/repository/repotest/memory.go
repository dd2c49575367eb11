// Package repotest provides map-backed repositories for service and handler
// tests. Missing rows are reported with pgx.ErrNoRows like the Postgres
// implementations, and deletes cascade the way the schema does.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
)

// Store holds the shared tables.
type Store struct {
	mu       sync.Mutex
	users    map[string]domain.User
	posts    map[string]domain.Post
	comments map[string]domain.Comment
	seq      time.Duration
	now      time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		posts:    make(map[string]domain.Post),
		comments: make(map[string]domain.Comment),
		now:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Users returns a UserRepository over the store.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Posts returns a PostRepository over the store.
func (s *Store) Posts() repository.PostRepository { return postRepo{s} }

// Comments returns a CommentRepository over the store.
func (s *Store) Comments() repository.CommentRepository { return commentRepo{s} }

// PostCount reports how many posts exist.
func (s *Store) PostCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

// tick hands out strictly increasing timestamps so ordering is deterministic.
func (s *Store) tick() time.Time {
	s.seq += time.Second
	return s.now.Add(s.seq)
}

func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = r.s.tick()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = r.s.tick()
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.users, id)
	for postID, post := range r.s.posts {
		if post.OwnerID == id {
			r.s.deletePostLocked(postID)
		}
	}
	for commentID, comment := range r.s.comments {
		if comment.OwnerID == id {
			delete(r.s.comments, commentID)
		}
	}
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r userRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]domain.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return page(users, limit, offset), nil
}

type postRepo struct{ s *Store }

func (r postRepo) Create(_ context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[post.OwnerID]; !ok {
		return pgx.ErrNoRows
	}
	post.ID = uuid.NewString()
	post.Likes = []string{}
	post.CreatedAt = r.s.tick()
	post.UpdatedAt = post.CreatedAt
	r.s.posts[post.ID] = *post
	return nil
}

func (r postRepo) Update(_ context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.posts[post.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	post.UpdatedAt = r.s.tick()
	updated := *post
	updated.Likes = current.Likes
	r.s.posts[post.ID] = updated
	return nil
}

func (r postRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	r.s.deletePostLocked(id)
	return nil
}

func (s *Store) deletePostLocked(id string) {
	delete(s.posts, id)
	for commentID, comment := range s.comments {
		if comment.PostID == id {
			delete(s.comments, commentID)
		}
	}
}

func (r postRepo) GetByID(_ context.Context, id string) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post, ok := r.s.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &post, nil
}

func (r postRepo) Exists(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.posts[id]
	return ok, nil
}

func (r postRepo) List(_ context.Context, limit, offset int) ([]domain.Post, error) {
	return r.filter(func(domain.Post) bool { return true }, limit, offset), nil
}

func (r postRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]domain.Post, error) {
	return r.filter(func(p domain.Post) bool { return p.OwnerID == ownerID }, limit, offset), nil
}

func (r postRepo) filter(keep func(domain.Post) bool, limit, offset int) []domain.Post {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	posts := make([]domain.Post, 0, len(r.s.posts))
	for _, post := range r.s.posts {
		if keep(post) {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return page(posts, limit, offset)
}

type commentRepo struct{ s *Store }

func (r commentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[comment.PostID]; !ok {
		return pgx.ErrNoRows
	}
	comment.ID = uuid.NewString()
	comment.CreatedAt = r.s.tick()
	comment.UpdatedAt = comment.CreatedAt
	r.s.comments[comment.ID] = *comment
	return nil
}

func (r commentRepo) Update(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[comment.ID]; !ok {
		return pgx.ErrNoRows
	}
	comment.UpdatedAt = r.s.tick()
	r.s.comments[comment.ID] = *comment
	return nil
}

func (r commentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.comments, id)
	return nil
}

func (r commentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment, ok := r.s.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &comment, nil
}

func (r commentRepo) List(_ context.Context, limit, offset int) ([]domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comments := make([]domain.Comment, 0, len(r.s.comments))
	for _, comment := range r.s.comments {
		comments = append(comments, comment)
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.After(comments[j].CreatedAt) })
	return page(comments, limit, offset), nil
}

func (r commentRepo) ListByPost(_ context.Context, postID string) ([]domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comments := make([]domain.Comment, 0)
	for _, comment := range r.s.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}
