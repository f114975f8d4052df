package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jansta/common/database"
	"jansta/common/log"
	"jansta/core/domain/repository"

	"github.com/redis/go-redis/v9"
)

const matchSnapshotKey = "match:snapshot" // sessionID -> MatchSnapshot(JSON)

// RedisSnapshotRepository Redis 实现的进行中半庄快照
type RedisSnapshotRepository struct {
	redis *database.RedisManager
}

func NewRedisSnapshotRepository(redis *database.RedisManager) repository.SnapshotRepository {
	return &RedisSnapshotRepository{
		redis: redis,
	}
}

func (r *RedisSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot *repository.MatchSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("序列化快照失败: %w", err)
	}
	if err := r.redis.Set(ctx, matchSnapshotKey+":"+snapshot.SessionID, string(data), ttl); err != nil {
		log.Error("保存快照失败: session=%s err=%v", snapshot.SessionID, err)
		return fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return nil
}

func (r *RedisSnapshotRepository) GetSnapshot(ctx context.Context, sessionID string) (*repository.MatchSnapshot, error) {
	data, err := r.redis.Get(ctx, matchSnapshotKey+":"+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSnapshotNotFound
		}
		log.Error("读取快照失败: session=%s err=%v", sessionID, err)
		return nil, fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	var snapshot repository.MatchSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("解析快照失败: %w", err)
	}
	return &snapshot, nil
}

func (r *RedisSnapshotRepository) DeleteSnapshot(ctx context.Context, sessionID string) error {
	if err := r.redis.Del(ctx, matchSnapshotKey+":"+sessionID); err != nil {
		log.Error("删除快照失败: session=%s err=%v", sessionID, err)
		return fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return nil
}
