package persistence

import (
	"context"
	"sort"
	"sync"

	"jansta/core/domain/entity"
	"jansta/core/domain/repository"
)

// MemorySessionRepository 进程内实现，单机离线使用和测试
// 读写都做深拷贝，调用方拿到的会话与存储互不影响
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*entity.Session),
	}
}

func (r *MemorySessionRepository) SaveSession(ctx context.Context, session *entity.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *MemorySessionRepository) FindSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (r *MemorySessionRepository) ListSessions(ctx context.Context, limit, offset int) ([]*entity.SessionSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	all := make([]*entity.SessionSummary, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, &entity.SessionSummary{
			ID:         s.ID,
			DateKey:    s.DateKey,
			CreatedAt:  s.CreatedAt,
			UpdatedAt:  s.UpdatedAt,
			MatchCount: len(s.Matches),
			Ended:      s.Ended,
		})
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []*entity.SessionSummary{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *MemorySessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}
