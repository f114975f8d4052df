package impl

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"jansta/common/cache"
	"jansta/common/log"
	"jansta/common/utils"
	"jansta/core/domain/entity"
	"jansta/core/domain/repository"
	"jansta/core/domain/vo"
	"jansta/core/infrastructure/message"
	"jansta/runtime/game/application/service"
	"jansta/runtime/game/engines"
	"jansta/runtime/game/engines/mahjong"

	"github.com/google/uuid"
)

// 会话列表单页上限
const maxListLimit = 100

type SessionServiceImpl struct {
	// mu 串行化所有写操作（单个操作者录入）
	mu sync.Mutex

	repo      repository.SessionRepository
	snapshots repository.SnapshotRepository
	totals    *cache.LocalCache[[]entity.PlayerTotal]
	publisher message.Publisher
	engine    engines.Engine

	defaultRules func() *entity.RuleConfig
	snapshotTTL  time.Duration
	now          func() time.Time
	newID        func() string
}

type Option func(*SessionServiceImpl)

// WithDefaultRules 新建会话未指定规则时使用
func WithDefaultRules(fn func() *entity.RuleConfig) Option {
	return func(s *SessionServiceImpl) {
		s.defaultRules = fn
	}
}

// WithSnapshotTTL 进行中半庄快照的过期时间
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(s *SessionServiceImpl) {
		s.snapshotTTL = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *SessionServiceImpl) {
		s.now = now
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *SessionServiceImpl) {
		s.newID = gen
	}
}

// NewSessionService 创建 SessionService 实例
// snapshots、totals、publisher 可为 nil
func NewSessionService(
	repo repository.SessionRepository,
	snapshots repository.SnapshotRepository,
	totals *cache.LocalCache[[]entity.PlayerTotal],
	publisher message.Publisher,
	engine engines.Engine,
	opts ...Option,
) *SessionServiceImpl {
	s := &SessionServiceImpl{
		repo:         repo,
		snapshots:    snapshots,
		totals:       totals,
		publisher:    publisher,
		engine:       engine,
		defaultRules: func() *entity.RuleConfig { return nil },
		snapshotTTL:  24 * time.Hour,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher == nil {
		s.publisher = message.NopPublisher{}
	}
	return s
}

var _ service.SessionService = (*SessionServiceImpl)(nil)

// CreateSession 创建会话，参加人数必须与规则的对局种类一致
func (s *SessionServiceImpl) CreateSession(ctx context.Context, req *service.CreateSessionReq) (*entity.Session, error) {
	if req == nil {
		return nil, repository.ErrParticipants
	}
	rules := req.Rules.Clone()
	if rules == nil {
		rules = s.defaultRules().Clone()
	}
	mode := mahjong.ResolveRules(rules).GameMode
	if len(req.ParticipantIDs) != mode.Participants() || utils.HasDuplicate(req.ParticipantIDs) || utils.Contains(req.ParticipantIDs, "") {
		return nil, fmt.Errorf("%w: %s needs %d distinct players, got %v", repository.ErrParticipants, mode, mode.Participants(), req.ParticipantIDs)
	}

	names := make([]string, len(req.ParticipantIDs))
	for i, id := range req.ParticipantIDs {
		names[i] = id
		if i < len(req.ParticipantNames) && req.ParticipantNames[i] != "" {
			names[i] = req.ParticipantNames[i]
		}
	}

	now := s.now()
	session := &entity.Session{
		ID:               s.newID(),
		CreatedAt:        now,
		UpdatedAt:        now,
		DateKey:          utils.DateKey(now),
		Rules:            rules,
		ParticipantIDs:   slices.Clone(req.ParticipantIDs),
		ParticipantNames: names,
		Matches:          []entity.Match{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	log.Info("SessionService 创建会话: %s, 种类: %s, 参加者: %v", session.ID, mode, session.ParticipantIDs)
	return session, nil
}

func (s *SessionServiceImpl) ListSessions(ctx context.Context, limit, offset int) ([]*entity.SessionSummary, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListSessions(ctx, limit, offset)
}

func (s *SessionServiceImpl) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	return s.repo.FindSession(ctx, sessionID)
}

func (s *SessionServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	s.dropSnapshot(ctx, sessionID)
	s.invalidateTotals(sessionID)
	log.Info("SessionService 删除会话: %s", sessionID)
	return nil
}

// EndSession 结束会话，进行中的半庄保持原样
func (s *SessionServiceImpl) EndSession(ctx context.Context, sessionID string, reason string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.repo.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Ended {
		return nil, repository.ErrSessionEnded
	}
	session.Ended = true
	session.EndReason = reason
	session.UpdatedAt = s.now()
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	s.dropSnapshot(ctx, sessionID)
	log.Info("SessionService 结束会话: %s, 半庄数: %d", sessionID, len(session.Matches))
	return session, nil
}

// SessionTotals 已结束半庄的 pt 合计，结果缓存到下一次写操作
// 未命中时持有写锁计算并写入缓存
func (s *SessionServiceImpl) SessionTotals(ctx context.Context, sessionID string) ([]entity.PlayerTotal, error) {
	if s.totals != nil {
		if totals, ok := s.totals.Get(sessionID); ok {
			return slices.Clone(totals), nil
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.repo.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	totals := mahjong.SessionTotals(session)
	if s.totals != nil {
		s.totals.Set(sessionID, slices.Clone(totals))
	}
	return totals, nil
}

// ResumeMatch 快照不可用时退回到会话文档
func (s *SessionServiceImpl) ResumeMatch(ctx context.Context, sessionID string) (*entity.Match, error) {
	if s.snapshots != nil {
		snap, err := s.snapshots.GetSnapshot(ctx, sessionID)
		switch {
		case err == nil && snap.Match != nil && !snap.Match.Ended:
			return snap.Match, nil
		case err != nil && !errors.Is(err, repository.ErrSnapshotNotFound):
			log.Warn("SessionService 读取快照失败，回退到会话: %s, err: %v", sessionID, err)
		}
	}
	session, err := s.repo.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	last := session.LastMatch()
	if last == nil || last.Ended {
		return nil, repository.ErrMatchNotFound
	}
	return last, nil
}

// StartMatch 开始新半庄，上一个半庄必须已结束
func (s *SessionServiceImpl) StartMatch(ctx context.Context, sessionID string, req *service.StartMatchReq) (*entity.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.openSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if last := session.LastMatch(); last != nil && !last.Ended {
		return nil, repository.ErrMatchInProgress
	}
	if req == nil {
		req = &service.StartMatchReq{}
	}

	mode := mahjong.ResolveRules(session.Rules).GameMode
	order := req.Seats
	if len(order) == 0 {
		order = session.ParticipantIDs
	}
	if len(order) != mode.Participants() || utils.HasDuplicate(order) {
		return nil, fmt.Errorf("%w: seats %v", repository.ErrParticipants, order)
	}

	var seats, names [vo.SeatCount]string
	for i, id := range order {
		idx := slices.Index(session.ParticipantIDs, id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s is not a participant", repository.ErrParticipants, id)
		}
		seats[i] = id
		names[i] = id
		if idx < len(session.ParticipantNames) {
			names[i] = session.ParticipantNames[idx]
		}
	}
	if !req.FirstDealer.Valid() || (mode == vo.GameModeSanma && req.FirstDealer == vo.SeatNorth) {
		return nil, fmt.Errorf("%w: first dealer %d", repository.ErrInvalidSeat, req.FirstDealer)
	}

	m := s.engine.NewMatch(session.Rules, seats, names, req.FirstDealer)
	session.Matches = append(session.Matches, *m)
	if err := s.commit(ctx, session, m, false); err != nil {
		return nil, err
	}
	log.Info("SessionService 开始半庄: session=%s match=%s 起家=%s", sessionID, m.ID, m.FirstDealer)
	return m, nil
}

func (s *SessionServiceImpl) MatchSummary(ctx context.Context, sessionID, matchID string) (*service.MatchSummaryResp, error) {
	session, err := s.repo.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	idx := session.MatchIndex(matchID)
	if idx < 0 {
		return nil, repository.ErrMatchNotFound
	}
	m := &session.Matches[idx]
	rules := mahjong.MatchRules(m)
	scores := mahjong.AdjustedScores(m)
	ranking := mahjong.RankSeats(scores, m.FirstDealer, mahjong.RankingSeats(rules.GameMode))
	return &service.MatchSummaryResp{
		MatchID:      m.ID,
		SeatNames:    m.SeatNames,
		Summary:      mahjong.BuildEndSummary(m),
		TopRawPoints: mahjong.TopRawPoints(rules, scores, ranking),
		HandCount:    m.HandCount(),
	}, nil
}

// RecordHand 记录一局，已结束的半庄不能再记录
func (s *SessionServiceImpl) RecordHand(ctx context.Context, sessionID, matchID string, req *service.HandReq) (*entity.Match, error) {
	return s.mutateMatch(ctx, sessionID, matchID, func(m *entity.Match) (*entity.Match, error) {
		if m.Ended {
			return nil, repository.ErrMatchEnded
		}
		outcome, err := decodeHand(req, mahjong.NewTopology(mahjong.MatchRules(m).GameMode, m.CurrentDealer))
		if err != nil {
			return nil, err
		}
		return s.engine.ApplyHand(m, req.Action, outcome), nil
	})
}

// EditHand 修改历史局并重放，已结束的半庄也可以修改
func (s *SessionServiceImpl) EditHand(ctx context.Context, sessionID, matchID string, index int, req *service.HandReq) (*entity.Match, error) {
	return s.mutateMatch(ctx, sessionID, matchID, func(m *entity.Match) (*entity.Match, error) {
		if index < 0 || index >= len(m.Logs) {
			return nil, fmt.Errorf("%w: %d of %d", repository.ErrHandOutOfRange, index, len(m.Logs))
		}
		outcome, err := decodeHand(req, mahjong.NewTopology(mahjong.MatchRules(m).GameMode, m.Logs[index].Dealer))
		if err != nil {
			return nil, err
		}
		return s.engine.EditHand(m, index, req.Action, outcome), nil
	})
}

func (s *SessionServiceImpl) UndoLastHand(ctx context.Context, sessionID, matchID string) (*entity.Match, error) {
	return s.mutateMatch(ctx, sessionID, matchID, func(m *entity.Match) (*entity.Match, error) {
		if len(m.Logs) == 0 {
			return nil, repository.ErrNoHands
		}
		return s.engine.UndoLastHand(m), nil
	})
}

func (s *SessionServiceImpl) AddAdjustment(ctx context.Context, sessionID, matchID string, req *service.AdjustmentReq) (*entity.Match, error) {
	return s.mutateMatch(ctx, sessionID, matchID, func(m *entity.Match) (*entity.Match, error) {
		if req == nil || req.Delta == 0 {
			return nil, repository.ErrInvalidAdjustment
		}
		if !slices.Contains(mahjong.RankingSeats(mahjong.MatchRules(m).GameMode), req.Seat) {
			return nil, fmt.Errorf("%w: %d", repository.ErrInvalidSeat, req.Seat)
		}
		return s.engine.AddAdjustment(m, req.Seat, req.Delta, req.Reason), nil
	})
}

func (s *SessionServiceImpl) RemoveAdjustment(ctx context.Context, sessionID, matchID, adjustmentID string) (*entity.Match, error) {
	return s.mutateMatch(ctx, sessionID, matchID, func(m *entity.Match) (*entity.Match, error) {
		if !slices.ContainsFunc(m.Adjustments, func(a entity.AdjustmentRecord) bool { return a.ID == adjustmentID }) {
			return nil, repository.ErrAdjustmentNotFound
		}
		return s.engine.RemoveAdjustment(m, adjustmentID), nil
	})
}

// mutateMatch 读取会话 -> 引擎计算 -> 保存，整个过程持有写锁
func (s *SessionServiceImpl) mutateMatch(ctx context.Context, sessionID, matchID string, fn func(*entity.Match) (*entity.Match, error)) (*entity.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, err := s.openSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	idx := session.MatchIndex(matchID)
	if idx < 0 {
		return nil, repository.ErrMatchNotFound
	}
	before := &session.Matches[idx]
	wasEnded := before.Ended

	next, err := fn(before)
	if err != nil {
		return nil, err
	}
	// 只有最后一个半庄可以处于进行中
	if wasEnded && !next.Ended && idx != len(session.Matches)-1 {
		return nil, fmt.Errorf("%w: %s would reopen behind %s", repository.ErrMatchInProgress, next.ID, session.LastMatch().ID)
	}
	session.Matches[idx] = *next
	if err := s.commit(ctx, session, next, !wasEnded && next.Ended); err != nil {
		return nil, err
	}
	log.Debug("SessionService 半庄更新: match=%s 局数=%d 局面=%s 点数=%v", next.ID, len(next.Logs), next.CurrentRound, next.CurrentScores)
	return next, nil
}

func (s *SessionServiceImpl) openSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := s.repo.FindSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Ended {
		return nil, repository.ErrSessionEnded
	}
	return session, nil
}

// commit 保存会话并同步快照、合计缓存；半庄刚结束时发布事件
// 快照和事件失败只记日志，会话文档是唯一的真实来源
func (s *SessionServiceImpl) commit(ctx context.Context, session *entity.Session, m *entity.Match, justEnded bool) error {
	session.UpdatedAt = s.now()
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return err
	}
	s.invalidateTotals(session.ID)

	// 快照只对应最后一个半庄
	last := session.LastMatch()
	switch {
	case last == nil || last.ID != m.ID:
	case m.Ended:
		s.dropSnapshot(ctx, session.ID)
	case s.snapshots != nil:
		snap := &repository.MatchSnapshot{SessionID: session.ID, Match: m}
		if err := s.snapshots.SaveSnapshot(ctx, snap, s.snapshotTTL); err != nil {
			log.Warn("SessionService 保存快照失败: session=%s err=%v", session.ID, err)
		}
	}

	if justEnded {
		log.Info("SessionService 半庄结束: match=%s 原因=%s", m.ID, m.EndReason)
		if err := s.publisher.PublishMatchEnded(ctx, matchEndedEvent(session.ID, m)); err != nil {
			log.Warn("SessionService 发布结束事件失败: match=%s err=%v", m.ID, err)
		}
	}
	return nil
}

func (s *SessionServiceImpl) dropSnapshot(ctx context.Context, sessionID string) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.DeleteSnapshot(ctx, sessionID); err != nil {
		log.Warn("SessionService 删除快照失败: session=%s err=%v", sessionID, err)
	}
}

func (s *SessionServiceImpl) invalidateTotals(sessionID string) {
	if s.totals != nil {
		s.totals.Delete(sessionID)
	}
}

// decodeHand 还原结果并检查和了者/放铳者是本局参与者
func decodeHand(req *service.HandReq, topo mahjong.Topology) (entity.Outcome, error) {
	if req == nil {
		return nil, entity.ErrUnknownOutcome
	}
	outcome, err := req.Result.Outcome()
	if err != nil {
		return nil, err
	}
	switch o := outcome.(type) {
	case entity.TsumoOutcome:
		if !topo.IsActive(o.Winner) {
			return nil, fmt.Errorf("%w: winner %d", repository.ErrInvalidSeat, o.Winner)
		}
	case entity.RonOutcome:
		if !topo.IsActive(o.Winner) || !topo.IsActive(o.Loser) || o.Winner == o.Loser {
			return nil, fmt.Errorf("%w: winner %d loser %d", repository.ErrInvalidSeat, o.Winner, o.Loser)
		}
	}
	return outcome, nil
}

func matchEndedEvent(sessionID string, m *entity.Match) *message.MatchEndedEvent {
	summary := mahjong.BuildEndSummary(m)
	return &message.MatchEndedEvent{
		SessionID:   sessionID,
		MatchID:     m.ID,
		GameMode:    string(mahjong.MatchRules(m).GameMode),
		Seats:       m.Seats,
		SeatNames:   m.SeatNames,
		FinalScores: summary.FinalScores,
		Ranks:       summary.RankBySeat,
		Points:      summary.Points,
		HandCount:   m.HandCount(),
		EndReason:   m.EndReason,
		EndedAt:     m.UpdatedAt,
	}
}
