package repository

import (
	"context"
	"time"

	"jansta/core/domain/entity"
)

// MatchSnapshot 进行中半庄的快照，用于“继续上一局”
type MatchSnapshot struct {
	SessionID string        `json:"sessionId"`
	Match     *entity.Match `json:"match"`
}

// SnapshotRepository 快照仓储接口
type SnapshotRepository interface {
	// SaveSnapshot 保存快照
	// ttl: 过期时间（会话结束后自动清理）
	SaveSnapshot(ctx context.Context, snapshot *MatchSnapshot, ttl time.Duration) error

	// GetSnapshot 获取会话的快照，不存在返回 ErrSnapshotNotFound
	GetSnapshot(ctx context.Context, sessionID string) (*MatchSnapshot, error)

	// DeleteSnapshot 删除快照（半庄结束、会话删除时调用）
	DeleteSnapshot(ctx context.Context, sessionID string) error
}
