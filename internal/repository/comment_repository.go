package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CommentRepository manages post comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	List(ctx context.Context, limit, offset int) ([]domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentColumns = `id::text, post_id::text, owner_id::text, text, created_at, updated_at`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (post_id, owner_id, text)
        VALUES ($1,$2,$3)
        RETURNING id::text, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		comment.PostID,
		comment.OwnerID,
		comment.Text,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	const query = `UPDATE comments SET text=$1, updated_at=NOW() WHERE id=$2 RETURNING updated_at`
	return r.pool.QueryRow(ctx, query, comment.Text, comment.ID).Scan(&comment.UpdatedAt)
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id=$1`, id))
}

func (r *commentRepository) List(ctx context.Context, limit, offset int) ([]domain.Comment, error) {
	limit, offset = pageBounds(limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+commentColumns+` FROM comments ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE post_id=$1 ORDER BY created_at ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var comment domain.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.OwnerID,
		&comment.Text,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func scanComments(rows pgx.Rows) ([]domain.Comment, error) {
	var result []domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *comment)
	}
	return result, rows.Err()
}
