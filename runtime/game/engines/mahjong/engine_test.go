package mahjong

import (
	"reflect"
	"strings"
	"testing"

	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

func TestNewMatch(t *testing.T) {
	e := newTestEngine()

	m := newTestMatch(e, vo.GameModeYonma, vo.SeatWest)
	if m.InitialScores != [vo.SeatCount]int{25000, 25000, 25000, 25000} || m.CurrentScores != m.InitialScores {
		t.Fatalf("yonma initial scores = %v", m.InitialScores)
	}
	if m.CurrentDealer != vo.SeatWest || m.CurrentRound != vo.InitialRound() {
		t.Fatalf("first dealer should deal E1-0, got dealer %d round %s", m.CurrentDealer, m.CurrentRound)
	}

	s := newTestMatch(e, vo.GameModeSanma, vo.SeatNorth)
	if s.InitialScores != [vo.SeatCount]int{35000, 35000, 35000, 0} {
		t.Fatalf("sanma initial scores = %v", s.InitialScores)
	}
	if s.Seats[vo.SeatNorth] != "" || s.SeatNames[vo.SeatNorth] != entity.AbsentName {
		t.Fatalf("sanma north seat should be absent, got %q/%q", s.Seats[3], s.SeatNames[3])
	}
	if s.FirstDealer != vo.SeatEast {
		t.Fatalf("sanma first dealer cannot be north, got %d", s.FirstDealer)
	}
}

// 四麻庄家荣和 8000，连庄
func TestApplyHand_DealerRonRepeats(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeYonma, vo.SeatEast)

	next := e.ApplyHand(m, entity.HandAction{}, ron(0, 1, 8000))

	if next.CurrentScores != [vo.SeatCount]int{33000, 17000, 25000, 25000} {
		t.Fatalf("scores = %v", next.CurrentScores)
	}
	want := vo.RoundPosition{Stage: vo.StageEast, Number: 1, Honba: 1}
	if next.CurrentRound != want || next.CurrentDealer != vo.SeatEast {
		t.Fatalf("round = %s dealer %d, want %s dealer 0", next.CurrentRound, next.CurrentDealer, want)
	}
	if len(m.Logs) != 0 || m.CurrentScores != m.InitialScores {
		t.Fatalf("input match was mutated")
	}
	rec := next.Logs[0]
	if rec.ID == "" || rec.Delta != [vo.SeatCount]int{8000, -8000, 0, 0} || rec.Ended {
		t.Fatalf("unexpected record %+v", rec)
	}
}

// 四人三麻庄家 2 流局，只有庄家听牌
func TestApplyHand_Sanma4DealerReadyDraw(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeSanma4, vo.SeatWest)

	next := e.ApplyHand(m, entity.HandAction{}, draw(vo.SeatWest))

	want := [vo.SeatCount]int{34000, 35000, 37000, 34000}
	if next.CurrentScores != want {
		t.Fatalf("scores = %v, want %v", next.CurrentScores, want)
	}
	if next.CurrentDealer != vo.SeatWest || next.CurrentRound.Honba != 1 || next.CurrentRound.Number != 1 {
		t.Fatalf("ready dealer should repeat, got dealer %d round %s", next.CurrentDealer, next.CurrentRound)
	}
}

func TestApplyHand_RiichiPotCarriesOnDrawAndGoesToWinner(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeYonma, vo.SeatEast)

	m = e.ApplyHand(m, riichi(1, 2), draw(1, 2))
	if m.CurrentDeposit != 2000 {
		t.Fatalf("pot should carry 2000, got %d", m.CurrentDeposit)
	}
	if m.CurrentScores != [vo.SeatCount]int{23500, 25500, 25500, 23500} {
		t.Fatalf("scores after draw = %v", m.CurrentScores)
	}
	if m.CurrentDealer != vo.SeatSouth || m.CurrentRound.Honba != 0 {
		t.Fatalf("not-ready dealer rotates and honba resets, got dealer %d round %s", m.CurrentDealer, m.CurrentRound)
	}

	m = e.ApplyHand(m, entity.HandAction{}, ron(3, 0, 2000))
	if m.CurrentDeposit != 0 {
		t.Fatalf("winner should take the pot, left %d", m.CurrentDeposit)
	}
	if m.CurrentScores != [vo.SeatCount]int{21500, 25500, 25500, 27500} {
		t.Fatalf("scores after ron = %v", m.CurrentScores)
	}
}

func TestApplyHand_Sanma4NonDeclaringWinnerLeavesPot(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeSanma4, vo.SeatEast)
	m.CurrentRound = vo.RoundPosition{Stage: vo.StageSouth, Number: 2}
	m.CurrentScores = [vo.SeatCount]int{37000, 34000, 35000, 32000}
	m.CurrentDeposit = 2000

	next := e.ApplyHand(m, entity.HandAction{}, ron(0, 1, 3900))
	if next.Ended {
		t.Fatalf("S2 should not end the match")
	}
	if next.CurrentDeposit != 2000 || next.CurrentScores[0] != 40900 {
		t.Fatalf("pot should carry over, got deposit %d scores %v", next.CurrentDeposit, next.CurrentScores)
	}

	declared := e.ApplyHand(m, riichi(0), ron(0, 1, 3900))
	if declared.CurrentDeposit != 0 || declared.CurrentScores[0] != 42900 {
		t.Fatalf("declaring winner takes the pot, got deposit %d scores %v", declared.CurrentDeposit, declared.CurrentScores)
	}
}

// 四人三麻未立直的和了者在终局的局和了，供托全部归和了者
func TestApplyHand_Sanma4WinnerTakeAllOnEnd(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeSanma4, vo.SeatEast)
	m.CurrentRound = vo.RoundPosition{Stage: vo.StageSouth, Number: 4}
	m.CurrentDealer = vo.SeatNorth
	m.CurrentScores = [vo.SeatCount]int{37000, 34000, 35000, 32000}
	m.CurrentDeposit = 2000

	next := e.ApplyHand(m, entity.HandAction{}, ron(0, 1, 3900))
	if !next.Ended {
		t.Fatalf("seat 0 reached 40000 at S4, match should end")
	}
	if next.CurrentDeposit != 0 || next.CurrentScores != [vo.SeatCount]int{42900, 30100, 35000, 32000} {
		t.Fatalf("winner should take all, got deposit %d scores %v", next.CurrentDeposit, next.CurrentScores)
	}
	meta := next.Logs[0].EndMeta
	if meta == nil || !meta.WinnerTakeAll || meta.DepositSettledTo == nil || *meta.DepositSettledTo != vo.SeatEast {
		t.Fatalf("end meta = %+v", meta)
	}
}

// 飞人与规定终局同时满足时以飞人为终局原因
func TestApplyHand_BustTakesPrecedence(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeYonma, vo.SeatEast)
	m.CurrentRound = vo.RoundPosition{Stage: vo.StageSouth, Number: 4}
	m.CurrentDealer = vo.SeatNorth
	m.CurrentScores = [vo.SeatCount]int{25000, 25000, 42000, 8000}

	next := e.ApplyHand(m, entity.HandAction{}, ron(2, 3, 8000))
	if !next.Ended {
		t.Fatalf("match should end")
	}
	if !strings.HasSuffix(next.EndReason, ReasonBust) {
		t.Fatalf("end reason = %q, want bust", next.EndReason)
	}
	if next.Logs[0].EndReason != next.EndReason {
		t.Fatalf("record reason %q != match reason %q", next.Logs[0].EndReason, next.EndReason)
	}
}

func TestApplyHand_BustRules(t *testing.T) {
	cases := []struct {
		rule  vo.BustRule
		ended bool
	}{
		{vo.BustLeq0, true},
		{vo.BustLt0, false},
		{vo.BustNone, false},
	}
	for _, c := range cases {
		e := newTestEngine()
		mode := vo.GameModeYonma
		rule := c.rule
		m := e.NewMatch(&entity.RuleConfig{GameMode: &mode, BustRule: &rule}, [vo.SeatCount]string{"a", "b", "c", "d"}, [vo.SeatCount]string{}, vo.SeatEast)
		next := e.ApplyHand(m, entity.HandAction{}, ron(1, 0, 25000))
		if next.Ended != c.ended {
			t.Fatalf("%s: ended = %v, want %v", c.rule, next.Ended, c.ended)
		}
	}
}

func TestApplyHand_ScheduledEnd(t *testing.T) {
	e := newTestEngine()

	yonma := newTestMatch(e, vo.GameModeYonma, vo.SeatEast)
	yonma.CurrentRound = vo.RoundPosition{Stage: vo.StageSouth, Number: 4}
	yonma.CurrentDealer = vo.SeatNorth
	if next := e.ApplyHand(yonma, entity.HandAction{}, ron(1, 0, 5000)); !next.Ended {
		t.Fatalf("yonma S4 with a seat at 30000 should end")
	}
	if next := e.ApplyHand(yonma, entity.HandAction{}, ron(1, 0, 4000)); next.Ended {
		t.Fatalf("yonma S4 below 30000 should go west")
	} else if next.CurrentRound.Stage != vo.StageWest {
		t.Fatalf("expected west round, got %s", next.CurrentRound)
	}

	early := newTestMatch(e, vo.GameModeYonma, vo.SeatEast)
	early.CurrentRound = vo.RoundPosition{Stage: vo.StageSouth, Number: 3}
	early.CurrentDealer = vo.SeatWest
	if next := e.ApplyHand(early, entity.HandAction{}, ron(1, 0, 12000)); next.Ended {
		t.Fatalf("S3 should not end a yonma match")
	}

	sanma := newTestMatch(e, vo.GameModeSanma, vo.SeatEast)
	sanma.CurrentRound = vo.RoundPosition{Stage: vo.StageSouth, Number: 3}
	sanma.CurrentDealer = vo.SeatWest
	if next := e.ApplyHand(sanma, entity.HandAction{}, ron(1, 0, 5000)); !next.Ended {
		t.Fatalf("sanma S3 with leader at 40000 should end")
	}
	if next := e.ApplyHand(sanma, entity.HandAction{}, ron(1, 0, 4000)); next.Ended {
		t.Fatalf("sanma S3 below 40000 should go west")
	}

	west := newTestMatch(e, vo.GameModeSanma, vo.SeatEast)
	west.CurrentRound = vo.RoundPosition{Stage: vo.StageWest, Number: 2}
	west.CurrentDealer = vo.SeatSouth
	next := e.ApplyHand(west, entity.HandAction{}, ron(2, 0, 5000))
	if !next.Ended || !strings.Contains(next.EndReason, "west") {
		t.Fatalf("west round should end as soon as the leader reaches 40000, got %v %q", next.Ended, next.EndReason)
	}
}

func TestApplyHand_DrawEndGivesPotToTop(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeYonma, vo.SeatEast)
	m.CurrentRound = vo.RoundPosition{Stage: vo.StageWest, Number: 1}
	m.CurrentScores = [vo.SeatCount]int{29000, 31000, 20000, 19000}
	m.CurrentDeposit = 1000

	next := e.ApplyHand(m, entity.HandAction{}, draw())
	if !next.Ended {
		t.Fatalf("west draw with leader at 31000 should end")
	}
	if next.CurrentDeposit != 0 || next.CurrentScores[1] != 32000 {
		t.Fatalf("pot should go to the leader, got deposit %d scores %v", next.CurrentDeposit, next.CurrentScores)
	}
	meta := next.Logs[0].EndMeta
	if meta == nil || meta.DepositSettledTo == nil || *meta.DepositSettledTo != vo.SeatSouth || meta.WinnerTakeAll {
		t.Fatalf("end meta = %+v", meta)
	}
}

func TestApplyHand_EndedMatchUnchanged(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeYonma, vo.SeatEast)
	m.Ended = true
	next := e.ApplyHand(m, entity.HandAction{}, ron(0, 1, 8000))
	if len(next.Logs) != 0 || next.CurrentScores != m.CurrentScores {
		t.Fatalf("ended match should not change")
	}
}

func TestApplyHand_Conservation(t *testing.T) {
	outcomes := []entity.Outcome{
		ron(0, 1, 8000), tsumoSplit(2, 1000, 2000), draw(1), tsumoAll(1, 4000),
		ron(3, 2, 3900), draw(0, 2), tsumoSplit(0, 300, 500), ron(1, 2, 1000),
	}
	actions := []entity.HandAction{{}, riichi(2), riichi(1, 3), {}, riichi(0), {}, riichi(0, 1, 2), {}}

	for _, mode := range []vo.GameMode{vo.GameModeYonma, vo.GameModeSanma, vo.GameModeSanma4} {
		e := newTestEngine()
		m := newTestMatch(e, mode, vo.SeatEast)
		total := sum4(m.CurrentScores)
		for i, o := range outcomes {
			m = e.ApplyHand(m, actions[i], o)
			if m.Ended {
				break
			}
		}
		for _, rec := range m.Logs {
			if sum4(rec.Delta)+rec.DepositAfter-rec.DepositStart != 0 {
				t.Fatalf("%s %s: delta %v with pot %d -> %d is not conserved", mode, rec.RoundStart, rec.Delta, rec.DepositStart, rec.DepositAfter)
			}
		}
		if sum4(m.CurrentScores)+m.CurrentDeposit != total {
			t.Fatalf("%s: total points changed: %v + pot %d", mode, m.CurrentScores, m.CurrentDeposit)
		}
	}
}

func TestApplyHand_NormalizesInput(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeSanma, vo.SeatEast)
	action := entity.HandAction{
		FuroCount:   [vo.SeatCount]int{-1, 7, 2, 1},
		RiichiOrder: [vo.SeatCount]int{2, 2, 9, 1},
	}
	next := e.ApplyHand(m, action, entity.RonOutcome{Winner: 0, Loser: 1, Amount: 2000, UraCount: intPtr(1)})
	rec := next.Logs[0]
	if rec.Action.FuroCount != [vo.SeatCount]int{0, 4, 2, 1} {
		t.Fatalf("furo = %v", rec.Action.FuroCount)
	}
	if rec.Action.RiichiOrder != [vo.SeatCount]int{2, 0, 0, 0} {
		t.Fatalf("riichi order = %v", rec.Action.RiichiOrder)
	}
	if rec.Result.UraCount == nil || *rec.Result.UraCount != 1 {
		t.Fatalf("ura count of a declared winner should be kept")
	}

	undeclared := e.ApplyHand(m, entity.HandAction{}, entity.RonOutcome{Winner: 0, Loser: 1, Amount: 2000, UraCount: intPtr(0)})
	if undeclared.Logs[0].Result.UraCount != nil {
		t.Fatalf("ura count must be omitted when the winner did not declare")
	}
}

func TestReplay_Idempotent(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeSanma4, vo.SeatSouth)
	inputs := []struct {
		a entity.HandAction
		o entity.Outcome
	}{
		{riichi(1), draw(1, 2)},
		{entity.HandAction{}, ron(2, 3, 5200)},
		{riichi(3), tsumoSplit(3, 1000, 2000)},
		{entity.HandAction{}, draw()},
	}
	for _, in := range inputs {
		m = e.ApplyHand(m, in.a, in.o)
	}

	first := e.Replay(m)
	second := e.Replay(first)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("replay is not idempotent")
	}
	if !reflect.DeepEqual(first.Logs, m.Logs) || first.CurrentScores != m.CurrentScores {
		t.Fatalf("replay changed an unedited log")
	}
}

// 10 局的记录中修改第 3 局后重放
func TestEditHand_RecomputesAndTruncates(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeYonma, vo.SeatEast)
	for i := 0; i < 10; i++ {
		o := draw()
		if i == 2 {
			o = draw(vo.SeatSouth)
		}
		m = e.ApplyHand(m, entity.HandAction{}, o)
	}
	if len(m.Logs) != 10 || m.Ended {
		t.Fatalf("setup: %d hands, ended %v", len(m.Logs), m.Ended)
	}
	if want := (vo.RoundPosition{Stage: vo.StageWest, Number: 3}); m.CurrentRound != want {
		t.Fatalf("setup: round %s", m.CurrentRound)
	}

	// 改为不影响终局的结果：后续全部重算
	flat := e.EditHand(m, 2, entity.HandAction{}, draw())
	if len(flat.Logs) != 10 {
		t.Fatalf("edit without termination should keep 10 hands, got %d", len(flat.Logs))
	}
	if !reflect.DeepEqual(flat.Logs[:2], m.Logs[:2]) {
		t.Fatalf("hands before the edit changed")
	}
	for i := 2; i < 10; i++ {
		if flat.Logs[i].ID != m.Logs[i].ID || !flat.Logs[i].CreatedAt.Equal(m.Logs[i].CreatedAt) {
			t.Fatalf("hand %d lost its identity", i)
		}
		if flat.Logs[i].ScoresAfter != [vo.SeatCount]int{25000, 25000, 25000, 25000} {
			t.Fatalf("hand %d not recomputed: %v", i, flat.Logs[i].ScoresAfter)
		}
	}

	// 改为飞人：第 3 局终局，之后的记录被截断
	busted := e.EditHand(m, 2, entity.HandAction{}, ron(1, 0, 32000))
	if !busted.Ended || len(busted.Logs) != 3 {
		t.Fatalf("edit to a bust should end at hand 3, got ended %v with %d hands", busted.Ended, len(busted.Logs))
	}
	if !reflect.DeepEqual(busted.Logs[:2], m.Logs[:2]) {
		t.Fatalf("hands before the edit changed")
	}
	if busted.Logs[2].ID != m.Logs[2].ID {
		t.Fatalf("edited hand should keep its ID")
	}
	if len(m.Logs) != 10 {
		t.Fatalf("input match was mutated")
	}
}

func TestEditHand_OutOfRange(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeYonma, vo.SeatEast)
	m = e.ApplyHand(m, entity.HandAction{}, draw())
	if got := e.EditHand(m, 5, entity.HandAction{}, draw(0)); !reflect.DeepEqual(got, m) {
		t.Fatalf("out of range edit should return the match unchanged")
	}
}

func TestUndoLastHand(t *testing.T) {
	e := newTestEngine()
	m := newTestMatch(e, vo.GameModeYonma, vo.SeatEast)
	m = e.ApplyHand(m, entity.HandAction{}, ron(0, 1, 8000))
	before := m
	m = e.ApplyHand(m, entity.HandAction{}, ron(2, 3, 1000))

	undone := e.UndoLastHand(m)
	if !reflect.DeepEqual(undone.Logs, before.Logs) || undone.CurrentScores != before.CurrentScores || undone.CurrentRound != before.CurrentRound {
		t.Fatalf("undo should restore the previous state")
	}
	empty := e.UndoLastHand(e.UndoLastHand(undone))
	if len(empty.Logs) != 0 || empty.CurrentScores != empty.InitialScores {
		t.Fatalf("undo on an empty log should be a no-op")
	}
}
