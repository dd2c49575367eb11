package repotest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/blog-service/internal/repository"
)

// LikeKeyPrefix is the key prefix used by NewLikeStore.
const LikeKeyPrefix = "test:post"

// NewLikeStore starts a miniredis server and returns a Redis-backed LikeStore
// bound to it. Both are closed when the test ends.
func NewLikeStore(tb testing.TB) (repository.LikeStore, *miniredis.Miniredis) {
	tb.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		tb.Fatalf("start miniredis: %v", err)
	}
	tb.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tb.Cleanup(func() { _ = rdb.Close() })

	return repository.NewRedisLikeStore(rdb, LikeKeyPrefix), mr
}

// LikeKey is the Redis key holding postID's like-set.
func LikeKey(postID string) string {
	return LikeKeyPrefix + ":" + postID + ":likes"
}

// RemovedKey is the Redis key marking postID as removed.
func RemovedKey(postID string) string {
	return LikeKeyPrefix + ":" + postID + ":removed"
}
