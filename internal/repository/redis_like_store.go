package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/blog-service/internal/domain"
)

// removedPostTTL bounds how long a cleared post keeps rejecting toggles.
const removedPostTTL = 24 * time.Hour

// toggleLikeScript runs atomically inside Redis. It returns {liked, cardinality},
// or {-1, 0} when the post was cleared.
var toggleLikeScript = redis.NewScript(`
local key = KEYS[1]
local member = ARGV[1]
if redis.call('EXISTS', KEYS[2]) == 1 then
  return {-1, 0}
end
if redis.call('SISMEMBER', key, member) == 1 then
  redis.call('SREM', key, member)
  return {0, redis.call('SCARD', key)}
end
redis.call('SADD', key, member)
return {1, redis.call('SCARD', key)}
`)

type redisLikeStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisLikeStore keeps each post's like-set in a Redis set. Redis does not
// know which posts exist, so callers check the post before toggling. Clear
// marks the post as removed and later toggles on it fail with pgx.ErrNoRows.
func NewRedisLikeStore(client redis.UniversalClient, prefix string) LikeStore {
	if prefix == "" {
		prefix = "blog:post"
	}
	return &redisLikeStore{client: client, prefix: prefix}
}

func (s *redisLikeStore) key(postID string) string {
	return fmt.Sprintf("%s:%s:likes", s.prefix, postID)
}

func (s *redisLikeStore) removedKey(postID string) string {
	return fmt.Sprintf("%s:%s:removed", s.prefix, postID)
}

func (s *redisLikeStore) Toggle(ctx context.Context, postID, subjectID string) (domain.LikeOutcome, error) {
	keys := []string{s.key(postID), s.removedKey(postID)}
	res, err := toggleLikeScript.Run(ctx, s.client, keys, subjectID).Int64Slice()
	if err != nil {
		return domain.LikeOutcome{}, err
	}
	if len(res) != 2 {
		return domain.LikeOutcome{}, errors.New("unexpected toggle script reply")
	}
	if res[0] < 0 {
		return domain.LikeOutcome{}, fmt.Errorf("post %s removed: %w", postID, pgx.ErrNoRows)
	}
	return domain.LikeOutcome{
		PostID:    postID,
		SubjectID: subjectID,
		Liked:     res[0] == 1,
		LikeCount: int(res[1]),
	}, nil
}

func (s *redisLikeStore) Members(ctx context.Context, postIDs ...string) (map[string][]string, error) {
	result := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	cmds := make(map[string]*redis.StringSliceCmd, len(postIDs))
	pipe := s.client.Pipeline()
	for _, id := range postIDs {
		cmds[id] = pipe.SMembers(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	for id, cmd := range cmds {
		members, err := cmd.Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, err
		}
		result[id] = domain.NormalizeLikes(members)
	}
	return result, nil
}

func (s *redisLikeStore) Clear(ctx context.Context, postID string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(postID))
		pipe.Set(ctx, s.removedKey(postID), 1, removedPostTTL)
		return nil
	})
	return err
}
