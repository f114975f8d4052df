package impl

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"jansta/common/cache"
	"jansta/core/domain/entity"
	"jansta/core/domain/repository"
	"jansta/core/domain/vo"
	"jansta/core/infrastructure/message"
	"jansta/core/infrastructure/persistence"
	"jansta/core/infrastructure/realtime"
	"jansta/runtime/game/application/service"
	"jansta/runtime/game/engines/mahjong"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*message.MatchEndedEvent
}

func (p *recordingPublisher) PublishMatchEnded(_ context.Context, e *message.MatchEndedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	svc       *SessionServiceImpl
	repo      *persistence.MemorySessionRepository
	snapshots *realtime.MemorySnapshotRepository
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2024, 5, 1, 20, 0, 0, 0, time.Local)
	clock := func() time.Time { return now }
	n := 0
	engine := mahjong.NewEngine(mahjong.WithClock(clock), mahjong.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("m-%03d", n)
	}))
	totals, err := cache.NewLocalCache[[]entity.PlayerTotal](100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(totals.Close)

	f := &fixture{
		repo:      persistence.NewMemorySessionRepository(),
		snapshots: realtime.NewMemorySnapshotRepository(),
		publisher: &recordingPublisher{},
	}
	s := 0
	f.svc = NewSessionService(f.repo, f.snapshots, totals, f.publisher, engine,
		WithClock(clock),
		WithIDGenerator(func() string {
			s++
			return fmt.Sprintf("s-%03d", s)
		}),
	)
	return f
}

func ronReq(winner, loser vo.Seat, amount int) *service.HandReq {
	return &service.HandReq{
		Result: entity.RecordOf(entity.RonOutcome{Winner: winner, Loser: loser, Amount: amount}),
	}
}

func yonmaSession(t *testing.T, f *fixture) *entity.Session {
	t.Helper()
	session, err := f.svc.CreateSession(context.Background(), &service.CreateSessionReq{
		ParticipantIDs:   []string{"a", "b", "c", "d"},
		ParticipantNames: []string{"Aki", "Ben", "", "Dan"},
	})
	require.NoError(t, err)
	return session
}

func TestCreateSession_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session := yonmaSession(t, f)
	assert.Equal(t, "2024-05-01", session.DateKey)
	assert.Equal(t, []string{"Aki", "Ben", "c", "Dan"}, session.ParticipantNames)

	_, err := f.svc.CreateSession(ctx, &service.CreateSessionReq{ParticipantIDs: []string{"a", "b", "c"}})
	assert.ErrorIs(t, err, repository.ErrParticipants)

	_, err = f.svc.CreateSession(ctx, &service.CreateSessionReq{ParticipantIDs: []string{"a", "b", "c", "a"}})
	assert.ErrorIs(t, err, repository.ErrParticipants)

	sanma := vo.GameModeSanma
	_, err = f.svc.CreateSession(ctx, &service.CreateSessionReq{
		ParticipantIDs: []string{"a", "b", "c"},
		Rules:          &entity.RuleConfig{GameMode: &sanma},
	})
	assert.NoError(t, err)
}

func TestCreateSession_DefaultRules(t *testing.T) {
	f := newFixture(t)
	sanma := vo.GameModeSanma
	f.svc.defaultRules = func() *entity.RuleConfig { return &entity.RuleConfig{GameMode: &sanma} }

	session, err := f.svc.CreateSession(context.Background(), &service.CreateSessionReq{ParticipantIDs: []string{"a", "b", "c"}})
	require.NoError(t, err)
	require.NotNil(t, session.Rules)
	assert.Equal(t, vo.GameModeSanma, *session.Rules.GameMode)
}

func TestStartMatch_SeatsAndInProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := yonmaSession(t, f)

	m, err := f.svc.StartMatch(ctx, session.ID, &service.StartMatchReq{Seats: []string{"d", "c", "b", "a"}, FirstDealer: vo.SeatSouth})
	require.NoError(t, err)
	assert.Equal(t, [4]string{"d", "c", "b", "a"}, m.Seats)
	assert.Equal(t, [4]string{"Dan", "c", "Ben", "Aki"}, m.SeatNames)
	assert.Equal(t, vo.SeatSouth, m.CurrentDealer)
	assert.Equal(t, [4]int{25000, 25000, 25000, 25000}, m.CurrentScores)

	_, err = f.svc.StartMatch(ctx, session.ID, nil)
	assert.ErrorIs(t, err, repository.ErrMatchInProgress)

	resumed, err := f.svc.ResumeMatch(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, resumed.ID)
}

func TestStartMatch_RejectsStranger(t *testing.T) {
	f := newFixture(t)
	session := yonmaSession(t, f)
	_, err := f.svc.StartMatch(context.Background(), session.ID, &service.StartMatchReq{Seats: []string{"a", "b", "c", "x"}})
	assert.ErrorIs(t, err, repository.ErrParticipants)
}

func TestRecordHand_BustEndsMatchAndPublishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := yonmaSession(t, f)
	m, err := f.svc.StartMatch(ctx, session.ID, nil)
	require.NoError(t, err)

	m, err = f.svc.RecordHand(ctx, session.ID, m.ID, ronReq(vo.SeatEast, vo.SeatSouth, 8000))
	require.NoError(t, err)
	assert.Equal(t, [4]int{33000, 17000, 25000, 25000}, m.CurrentScores)
	assert.Equal(t, 1, m.CurrentRound.Honba)

	m, err = f.svc.RecordHand(ctx, session.ID, m.ID, ronReq(vo.SeatEast, vo.SeatSouth, 18000))
	require.NoError(t, err)
	require.True(t, m.Ended)
	assert.Contains(t, m.EndReason, "bust")
	assert.Equal(t, [4]int{51300, -1300, 25000, 25000}, m.CurrentScores)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, m.ID, event.MatchID)
	assert.Equal(t, [4]int{1, 4, 2, 3}, event.Ranks)
	assert.Zero(t, event.Points[0]+event.Points[1]+event.Points[2]+event.Points[3])

	_, err = f.svc.RecordHand(ctx, session.ID, m.ID, ronReq(vo.SeatEast, vo.SeatSouth, 1000))
	assert.ErrorIs(t, err, repository.ErrMatchEnded)

	_, err = f.svc.ResumeMatch(ctx, session.ID)
	assert.ErrorIs(t, err, repository.ErrMatchNotFound)
}

func TestRecordHand_InvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := yonmaSession(t, f)
	m, err := f.svc.StartMatch(ctx, session.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.RecordHand(ctx, session.ID, m.ID, ronReq(vo.SeatEast, vo.SeatEast, 8000))
	assert.ErrorIs(t, err, repository.ErrInvalidSeat)

	_, err = f.svc.RecordHand(ctx, session.ID, m.ID, &service.HandReq{Result: entity.OutcomeRecord{Type: "chombo"}})
	assert.ErrorIs(t, err, entity.ErrUnknownOutcome)

	_, err = f.svc.RecordHand(ctx, session.ID, "missing", ronReq(vo.SeatEast, vo.SeatSouth, 8000))
	assert.ErrorIs(t, err, repository.ErrMatchNotFound)
}

func TestEditHand_ReopensEndedMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := yonmaSession(t, f)
	m, err := f.svc.StartMatch(ctx, session.ID, nil)
	require.NoError(t, err)

	m, err = f.svc.RecordHand(ctx, session.ID, m.ID, ronReq(vo.SeatEast, vo.SeatSouth, 32000))
	require.NoError(t, err)
	require.True(t, m.Ended)

	totals, err := f.svc.SessionTotals(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 77, totals[0].Points)
	assert.Equal(t, -67, totals[1].Points)
	assert.Equal(t, 5, totals[2].Points)
	assert.Equal(t, -15, totals[3].Points)

	m, err = f.svc.EditHand(ctx, session.ID, m.ID, 0, ronReq(vo.SeatEast, vo.SeatSouth, 8000))
	require.NoError(t, err)
	assert.False(t, m.Ended)
	assert.Equal(t, [4]int{33000, 17000, 25000, 25000}, m.CurrentScores)

	totals, err = f.svc.SessionTotals(ctx, session.ID)
	require.NoError(t, err)
	assert.Zero(t, totals[0].Matches)

	resumed, err := f.svc.ResumeMatch(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, m.CurrentScores, resumed.CurrentScores)

	_, err = f.svc.EditHand(ctx, session.ID, m.ID, 5, ronReq(vo.SeatEast, vo.SeatSouth, 8000))
	assert.ErrorIs(t, err, repository.ErrHandOutOfRange)
}

func TestUndoLastHand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := yonmaSession(t, f)
	m, err := f.svc.StartMatch(ctx, session.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.UndoLastHand(ctx, session.ID, m.ID)
	assert.ErrorIs(t, err, repository.ErrNoHands)

	_, err = f.svc.RecordHand(ctx, session.ID, m.ID, ronReq(vo.SeatEast, vo.SeatSouth, 8000))
	require.NoError(t, err)
	m, err = f.svc.UndoLastHand(ctx, session.ID, m.ID)
	require.NoError(t, err)
	assert.Empty(t, m.Logs)
	assert.Equal(t, [4]int{25000, 25000, 25000, 25000}, m.CurrentScores)
	assert.Equal(t, vo.InitialRound(), m.CurrentRound)
}

func TestAdjustments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := yonmaSession(t, f)
	m, err := f.svc.StartMatch(ctx, session.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.AddAdjustment(ctx, session.ID, m.ID, &service.AdjustmentReq{Seat: vo.SeatEast, Delta: 0})
	assert.ErrorIs(t, err, repository.ErrInvalidAdjustment)
	_, err = f.svc.AddAdjustment(ctx, session.ID, m.ID, &service.AdjustmentReq{Seat: vo.Seat(7), Delta: 1000})
	assert.ErrorIs(t, err, repository.ErrInvalidSeat)

	m, err = f.svc.AddAdjustment(ctx, session.ID, m.ID, &service.AdjustmentReq{Seat: vo.SeatWest, Delta: -25000, Reason: "chombo"})
	require.NoError(t, err)
	require.Len(t, m.Adjustments, 1)
	assert.True(t, m.Ended)
	assert.Equal(t, mahjong.ReasonBustByAdjustment, m.EndReason)
	require.Len(t, f.publisher.events, 1)

	summary, err := f.svc.MatchSummary(ctx, session.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Summary.FinalScores[vo.SeatWest])
	assert.Equal(t, 4, summary.Summary.RankBySeat[vo.SeatWest])

	_, err = f.svc.RemoveAdjustment(ctx, session.ID, m.ID, "nope")
	assert.ErrorIs(t, err, repository.ErrAdjustmentNotFound)

	m, err = f.svc.RemoveAdjustment(ctx, session.ID, m.ID, m.Adjustments[0].ID)
	require.NoError(t, err)
	assert.Empty(t, m.Adjustments)
	assert.False(t, m.Ended)
}

func TestEndAndDeleteSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := yonmaSession(t, f)
	m, err := f.svc.StartMatch(ctx, session.ID, nil)
	require.NoError(t, err)

	ended, err := f.svc.EndSession(ctx, session.ID, "closing time")
	require.NoError(t, err)
	assert.True(t, ended.Ended)

	_, err = f.svc.RecordHand(ctx, session.ID, m.ID, ronReq(vo.SeatEast, vo.SeatSouth, 8000))
	assert.ErrorIs(t, err, repository.ErrSessionEnded)
	_, err = f.svc.EndSession(ctx, session.ID, "")
	assert.ErrorIs(t, err, repository.ErrSessionEnded)

	list, err := f.svc.ListSessions(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].MatchCount)

	require.NoError(t, f.svc.DeleteSession(ctx, session.ID))
	_, err = f.svc.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	_, err = f.snapshots.GetSnapshot(ctx, session.ID)
	assert.ErrorIs(t, err, repository.ErrSnapshotNotFound)
}

func TestEditHand_EarlierMatchCannotReopen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := yonmaSession(t, f)
	m1, err := f.svc.StartMatch(ctx, session.ID, nil)
	require.NoError(t, err)
	m1, err = f.svc.RecordHand(ctx, session.ID, m1.ID, ronReq(vo.SeatEast, vo.SeatSouth, 32000))
	require.NoError(t, err)
	require.True(t, m1.Ended)

	m2, err := f.svc.StartMatch(ctx, session.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.RecordHand(ctx, session.ID, m2.ID, ronReq(vo.SeatSouth, vo.SeatWest, 8000))
	require.NoError(t, err)

	_, err = f.svc.EditHand(ctx, session.ID, m1.ID, 0, &service.HandReq{Result: entity.RecordOf(entity.DrawOutcome{})})
	assert.ErrorIs(t, err, repository.ErrMatchInProgress)

	// 修改后仍然终局的旧半庄不影响进行中的半庄
	edited, err := f.svc.EditHand(ctx, session.ID, m1.ID, 0, ronReq(vo.SeatEast, vo.SeatSouth, 40000))
	require.NoError(t, err)
	assert.True(t, edited.Ended)

	snap, err := f.snapshots.GetSnapshot(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, m2.ID, snap.Match.ID)

	resumed, err := f.svc.ResumeMatch(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, m2.ID, resumed.ID)
	assert.Len(t, resumed.Logs, 1)
}

type hookedRepo struct {
	repository.SessionRepository
	onFind func()
}

func (r *hookedRepo) FindSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := r.SessionRepository.FindSession(ctx, sessionID)
	if hook := r.onFind; hook != nil {
		r.onFind = nil
		hook()
	}
	return session, err
}

func TestSessionTotals_WriteDuringReadInvalidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := yonmaSession(t, f)
	m, err := f.svc.StartMatch(ctx, session.ID, nil)
	require.NoError(t, err)
	m, err = f.svc.RecordHand(ctx, session.ID, m.ID, ronReq(vo.SeatEast, vo.SeatSouth, 32000))
	require.NoError(t, err)
	require.True(t, m.Ended)

	repo := &hookedRepo{SessionRepository: f.svc.repo}
	f.svc.repo = repo
	done := make(chan error, 1)
	repo.onFind = func() {
		go func() {
			_, err := f.svc.EditHand(ctx, session.ID, m.ID, 0, ronReq(vo.SeatEast, vo.SeatSouth, 8000))
			done <- err
		}()
		// 给写操作完成的机会，读取持有锁时写操作会等待
		select {
		case err := <-done:
			done <- err
		case <-time.After(100 * time.Millisecond):
		}
	}

	totals, err := f.svc.SessionTotals(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, totals[0].Matches)
	require.NoError(t, <-done)

	totals, err = f.svc.SessionTotals(ctx, session.ID)
	require.NoError(t, err)
	assert.Zero(t, totals[0].Matches)
}
