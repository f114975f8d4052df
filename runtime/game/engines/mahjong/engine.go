package mahjong

import (
	"time"

	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
	"jansta/runtime/game/engines"

	"github.com/google/uuid"
)

var _ engines.Engine = (*Engine)(nil)

// Engine 半庄计分引擎
// 纯计算：每个操作接收 Match 快照并返回新的 Match，不修改输入
type Engine struct {
	newID func() string
	now   func() time.Time
}

type Option func(*Engine)

// WithClock 指定时间来源（测试用）
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator 指定 ID 生成方式（测试用）
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		e.newID = gen
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewMatch 创建半庄
// 三麻北家为空席（ID 为空、名字为 AbsentName、点数 0），起家只能是 0..2
func (e *Engine) NewMatch(rules *entity.RuleConfig, seats, names [vo.SeatCount]string, firstDealer vo.Seat) *entity.Match {
	now := e.now()
	m := &entity.Match{
		ID:          e.newID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Seats:       seats,
		SeatNames:   names,
		FirstDealer: firstDealer,
		Logs:        []entity.HandRecord{},
		Adjustments: []entity.AdjustmentRecord{},
		Rules:       rules.Clone(),
	}
	rs := MatchRules(m)
	if !m.FirstDealer.Valid() {
		m.FirstDealer = vo.SeatEast
	}
	for i := 0; i < vo.SeatCount; i++ {
		m.InitialScores[i] = rs.StartPoints
	}
	if rs.GameMode == vo.GameModeSanma {
		m.Seats[vo.SeatNorth] = ""
		m.SeatNames[vo.SeatNorth] = entity.AbsentName
		m.InitialScores[vo.SeatNorth] = 0
		if m.FirstDealer == vo.SeatNorth {
			m.FirstDealer = vo.SeatEast
		}
	}
	resetProgress(m)
	return m
}

// ApplyHand 记录一局：立直供托 → 精算 → 供托处理 → 局进行 → 终局判定（含点数修正） → 追加记录
// 已终局的半庄原样返回
func (e *Engine) ApplyHand(m *entity.Match, action entity.HandAction, outcome entity.Outcome) *entity.Match {
	out := m.Clone()
	if out.Ended {
		return out
	}
	now := e.now()
	rec := settleHand(out, MatchRules(out), action, outcome)
	rec.ID = e.newID()
	rec.CreatedAt = now
	appendHand(out, rec)
	out.UpdatedAt = now
	return out
}

// settleHand 根据当前状态计算一局的全部派生字段，不修改 m
func settleHand(m *entity.Match, rules entity.RuleSet, rawAction entity.HandAction, rawOutcome entity.Outcome) entity.HandRecord {
	topo := NewTopology(rules.GameMode, m.CurrentDealer)
	action := NormalizeAction(rawAction, topo)
	outcome := NormalizeOutcome(rawOutcome, action, topo)

	rec := entity.HandRecord{
		RoundStart:   m.CurrentRound,
		Dealer:       m.CurrentDealer,
		DepositStart: m.CurrentDeposit,
		ScoresStart:  m.CurrentScores,
		Action:       action,
		Result:       entity.RecordOf(outcome),
	}

	// 1) 立直供托
	scores, pot := CollectRiichi(rules, topo, action, rec.ScoresStart, rec.DepositStart)

	// 2) 精算
	honba := rec.RoundStart.Honba
	winner := vo.NoSeat
	disposition := PotCarry
	switch o := outcome.(type) {
	case entity.TsumoOutcome:
		scores = SettleTsumo(rules, topo, honba, o).Apply(scores)
		winner = o.Winner
	case entity.RonOutcome:
		scores = SettleRon(rules, topo, honba, o).Apply(scores)
		if topo.IsActive(o.Loser) && o.Loser != o.Winner {
			winner = o.Winner
		}
	case entity.DrawOutcome:
		scores = SettleDraw(rules, topo, o).Apply(scores)
	}

	// 3) 供托：和了者回收，四人三麻未立直的和了者留到终局判定后
	if winner != vo.NoSeat {
		disposition = WinPotDisposition(rules, topo, action, winner)
	}
	if disposition == PotToWinner {
		scores[winner] += pot
		pot = 0
	}

	// 4) 局进行
	rec.RoundAfter, rec.DealerAfter = Advance(rules.GameMode, rec.RoundStart, rec.Dealer, Renchan(topo, outcome))

	// 5) 终局判定：点数修正计入本局结束时的点数
	adjusted := ApplyAdjustments(scores, m.Adjustments, len(m.Logs)+1)
	term := checkHandTermination(rules, topo, rec.RoundStart, scores, adjusted, len(m.Adjustments) > 0)
	if term.Ended {
		rec.Ended = true
		rec.EndReason = term.Reason
		rec.EndMeta = &entity.EndMeta{}
		switch {
		case disposition == PotPendingOnEnd:
			if pot > 0 {
				scores[winner] += pot
				pot = 0
				w := winner
				rec.EndMeta.DepositSettledTo = &w
				rec.EndMeta.WinnerTakeAll = true
			}
		case pot > 0 && outcome.Type() == entity.OutcomeDraw:
			ranking := RankSeats(adjusted, m.FirstDealer, topo.Active())
			top := ranking.Top()
			scores[top] += pot
			pot = 0
			rec.EndMeta.DepositSettledTo = &top
			rec.EndMeta.TieBreakApplied = ranking.TieBreakApplied
		}
	}

	rec.ScoresAfter = scores
	rec.DepositAfter = pot
	for i := range rec.Delta {
		rec.Delta[i] = scores[i] - rec.ScoresStart[i]
	}
	return rec
}

// checkHandTermination 用修正后的点数判定终局
// 飞人只由点数修正造成时记为 "bust by adjustment"；修正后四人三麻的非参与者也可能飞人
func checkHandTermination(rules entity.RuleSet, topo Topology, played vo.RoundPosition, raw, adjusted [vo.SeatCount]int, hasAdjustments bool) Termination {
	term := CheckTermination(rules, topo, played, adjusted)
	if term.Bust && !AnyBust(rules.BustRule, raw, topo.Active()) {
		term.Reason = ReasonBustByAdjustment
	}
	if !term.Ended && hasAdjustments && AnyBust(rules.BustRule, adjusted, RankingSeats(rules.GameMode)) {
		term = Termination{Ended: true, Bust: true, Reason: ReasonBustByAdjustment}
	}
	return term
}

// appendHand 追加局记录并把局后状态设为当前状态
func appendHand(m *entity.Match, rec entity.HandRecord) {
	m.Logs = append(m.Logs, rec)
	m.CurrentRound = rec.RoundAfter
	m.CurrentDealer = rec.DealerAfter
	m.CurrentDeposit = rec.DepositAfter
	m.CurrentScores = rec.ScoresAfter
	m.Ended = rec.Ended
	m.EndReason = rec.EndReason
}

// resetProgress 回到东一局零本场、起家坐庄、初始点数
func resetProgress(m *entity.Match) {
	m.Logs = []entity.HandRecord{}
	m.CurrentRound = vo.InitialRound()
	m.CurrentDealer = m.FirstDealer
	m.CurrentDeposit = 0
	m.CurrentScores = m.InitialScores
	m.Ended = false
	m.EndReason = ""
}
