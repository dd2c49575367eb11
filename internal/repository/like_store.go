package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// LikeStore owns post like-sets. Toggle must flip membership in a single
// indivisible store operation; implementations never read the set into
// process memory and write it back.
type LikeStore interface {
	// Toggle removes subjectID from the post's like-set when present and adds
	// it otherwise. It returns pgx.ErrNoRows when the post does not exist.
	Toggle(ctx context.Context, postID, subjectID string) (domain.LikeOutcome, error)
	// Members returns the like-set of each requested post. Unknown posts map to
	// an empty set.
	Members(ctx context.Context, postIDs ...string) (map[string][]string, error)
	// Clear drops the like-set of a deleted post. Later toggles on it return
	// pgx.ErrNoRows.
	Clear(ctx context.Context, postID string) error
}

type postgresLikeStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLikeStore keeps like-sets in the posts.likes array column.
func NewPostgresLikeStore(pool *pgxpool.Pool) LikeStore {
	return &postgresLikeStore{pool: pool}
}

// The row lock taken by UPDATE serializes concurrent toggles on one post and
// the CASE is re-evaluated against the latest row version.
const toggleLikeQuery = `
    UPDATE posts
    SET likes = CASE
            WHEN $2 = ANY(likes) THEN array_remove(likes, $2)
            ELSE array_append(likes, $2)
        END
    WHERE id = $1
    RETURNING $2 = ANY(likes), cardinality(likes)`

func (s *postgresLikeStore) Toggle(ctx context.Context, postID, subjectID string) (domain.LikeOutcome, error) {
	outcome := domain.LikeOutcome{PostID: postID, SubjectID: subjectID}
	if err := s.pool.QueryRow(ctx, toggleLikeQuery, postID, subjectID).
		Scan(&outcome.Liked, &outcome.LikeCount); err != nil {
		return domain.LikeOutcome{}, err
	}
	return outcome, nil
}

func (s *postgresLikeStore) Members(ctx context.Context, postIDs ...string) (map[string][]string, error) {
	result := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}
	for _, id := range postIDs {
		result[id] = []string{}
	}

	rows, err := s.pool.Query(ctx, `SELECT id::text, likes FROM posts WHERE id = ANY($1::uuid[])`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    string
			likes []string
		)
		if err := rows.Scan(&id, &likes); err != nil {
			return nil, err
		}
		result[id] = domain.NormalizeLikes(likes)
	}
	return result, rows.Err()
}

func (s *postgresLikeStore) Clear(ctx context.Context, postID string) error {
	_, err := s.pool.Exec(ctx, `UPDATE posts SET likes = '{}' WHERE id = $1`, postID)
	return err
}
