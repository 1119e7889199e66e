package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// LikeRepository is the per-post liker set. Membership is unique by
// construction; add and remove are atomic on the redis side, so
// concurrent toggles by different users never lose updates.
type LikeRepository interface {
	// Toggle flips actor membership and reports whether the post is
	// liked after the call.
	Toggle(ctx context.Context, postID, userID string) (bool, error)
	Members(ctx context.Context, postID string) ([]string, error)
	DeleteSet(ctx context.Context, postID string) error
}

type redisLikeRepository struct {
	rdb *redis.Client
}

func NewRedisLikeRepository(rdb *redis.Client) LikeRepository {
	return &redisLikeRepository{rdb: rdb}
}

func likeKey(postID string) string {
	return "post:likes:" + postID
}

func (r *redisLikeRepository) Toggle(ctx context.Context, postID, userID string) (bool, error) {
	added, err := r.rdb.SAdd(ctx, likeKey(postID), userID).Result()
	if err != nil {
		return false, fmt.Errorf("redisLikeRepository.Toggle add: %w", err)
	}
	if added > 0 {
		return true, nil
	}
	// Already a member, so this toggle removes the like.
	if err := r.rdb.SRem(ctx, likeKey(postID), userID).Err(); err != nil {
		return true, fmt.Errorf("redisLikeRepository.Toggle remove: %w", err)
	}
	return false, nil
}

func (r *redisLikeRepository) Members(ctx context.Context, postID string) ([]string, error) {
	members, err := r.rdb.SMembers(ctx, likeKey(postID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisLikeRepository.Members: %w", err)
	}
	return members, nil
}

func (r *redisLikeRepository) DeleteSet(ctx context.Context, postID string) error {
	if err := r.rdb.Del(ctx, likeKey(postID)).Err(); err != nil {
		return fmt.Errorf("redisLikeRepository.DeleteSet: %w", err)
	}
	return nil
}
