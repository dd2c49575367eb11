package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PostRepository encapsulates post persistence. The likes column is read here
// but only ever written by a LikeStore.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]domain.Post, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Post, error)
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository instantiates repository.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

const postColumns = `id::text, owner_id::text, title, description, tags, cover_photo, photos, likes, created_at, updated_at`

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (owner_id, title, description, tags, cover_photo, photos)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id::text, likes, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		post.OwnerID,
		post.Title,
		post.Description,
		nonNil(post.Tags),
		post.CoverPhoto,
		nonNil(post.Photos),
	).Scan(&post.ID, &post.Likes, &post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	const query = `
        UPDATE posts SET title=$1, description=$2, tags=$3, cover_photo=$4, photos=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		post.Title,
		post.Description,
		nonNil(post.Tags),
		post.CoverPhoto,
		nonNil(post.Photos),
		post.ID,
	).Scan(&post.UpdatedAt)
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id=$1`, id))
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	limit, offset = pageBounds(limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (r *postRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Post, error) {
	limit, offset = pageBounds(limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts WHERE owner_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.OwnerID,
		&post.Title,
		&post.Description,
		&post.Tags,
		&post.CoverPhoto,
		&post.Photos,
		&post.Likes,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	post.Likes = domain.NormalizeLikes(post.Likes)
	return &post, nil
}

func scanPosts(rows pgx.Rows) ([]domain.Post, error) {
	var result []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *post)
	}
	return result, rows.Err()
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
