package repository

import (
	"context"

	"jansta/core/domain/entity"
)

// SessionRepository 会话仓储接口
// 会话整体作为一个文档保存（半庄、局记录都内嵌）
type SessionRepository interface {
	// SaveSession 保存会话（不存在则插入）
	SaveSession(ctx context.Context, session *entity.Session) error

	// FindSession 根据ID查找会话
	FindSession(ctx context.Context, sessionID string) (*entity.Session, error)

	// ListSessions 会话列表（按创建时间倒序，分页）
	ListSessions(ctx context.Context, limit, offset int) ([]*entity.SessionSummary, error)

	// DeleteSession 删除会话
	DeleteSession(ctx context.Context, sessionID string) error
}
