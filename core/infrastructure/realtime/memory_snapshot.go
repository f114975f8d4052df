package realtime

import (
	"context"
	"sync"
	"time"

	"jansta/core/domain/repository"
)

type memorySnapshot struct {
	snapshot  *repository.MatchSnapshot
	expiresAt time.Time
}

// MemorySnapshotRepository 未配置 Redis 时使用
type MemorySnapshotRepository struct {
	mu        sync.Mutex
	snapshots map[string]memorySnapshot
	now       func() time.Time
}

func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{
		snapshots: make(map[string]memorySnapshot),
		now:       time.Now,
	}
}

func (r *MemorySnapshotRepository) SaveSnapshot(_ context.Context, snapshot *repository.MatchSnapshot, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := memorySnapshot{
		snapshot: &repository.MatchSnapshot{SessionID: snapshot.SessionID, Match: snapshot.Match.Clone()},
	}
	if ttl > 0 {
		entry.expiresAt = r.now().Add(ttl)
	}
	r.snapshots[snapshot.SessionID] = entry
	return nil
}

func (r *MemorySnapshotRepository) GetSnapshot(_ context.Context, sessionID string) (*repository.MatchSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.snapshots[sessionID]
	if !ok {
		return nil, repository.ErrSnapshotNotFound
	}
	if !entry.expiresAt.IsZero() && r.now().After(entry.expiresAt) {
		delete(r.snapshots, sessionID)
		return nil, repository.ErrSnapshotNotFound
	}
	return &repository.MatchSnapshot{SessionID: entry.snapshot.SessionID, Match: entry.snapshot.Match.Clone()}, nil
}

func (r *MemorySnapshotRepository) DeleteSnapshot(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.snapshots, sessionID)
	return nil
}
