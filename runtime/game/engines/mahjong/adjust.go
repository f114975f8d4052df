package mahjong

import (
	"slices"

	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

// ApplyAdjustments 把插入位置 <= afterIndex 的点数修正加到点数上
func ApplyAdjustments(scores [vo.SeatCount]int, adjustments []entity.AdjustmentRecord, afterIndex int) [vo.SeatCount]int {
	for _, a := range adjustments {
		if a.AfterHandIndex <= afterIndex && a.Seat.Valid() {
			scores[a.Seat] += a.Delta
		}
	}
	return scores
}

// AdjustedScores 当前点数加上全部点数修正
func AdjustedScores(m *entity.Match) [vo.SeatCount]int {
	return ApplyAdjustments(m.CurrentScores, m.Adjustments, len(m.Logs))
}

// AddAdjustment 在当前局数之后追加点数修正
// 修正值为 0 或座位不参与排名时原样返回；修正后有人飞人则以 "bust by adjustment" 终局
func (e *Engine) AddAdjustment(m *entity.Match, seat vo.Seat, delta int, reason string) *entity.Match {
	out := m.Clone()
	if delta == 0 || !slices.Contains(RankingSeats(MatchRules(m).GameMode), seat) {
		return out
	}
	now := e.now()
	out.Adjustments = append(out.Adjustments, entity.AdjustmentRecord{
		ID:             e.newID(),
		CreatedAt:      now,
		AfterHandIndex: len(out.Logs),
		Seat:           seat,
		Delta:          delta,
		Reason:         reason,
	})
	if !out.Ended {
		checkAdjustmentBust(out)
	}
	out.UpdatedAt = now
	return out
}

// RemoveAdjustment 删除点数修正后重放（修正导致的终局会被重新判定）
func (e *Engine) RemoveAdjustment(m *entity.Match, id string) *entity.Match {
	idx := slices.IndexFunc(m.Adjustments, func(a entity.AdjustmentRecord) bool { return a.ID == id })
	if idx < 0 {
		return m.Clone()
	}
	out := m.Clone()
	out.Adjustments = slices.Delete(out.Adjustments, idx, idx+1)
	replayInto(out, m.Logs)
	out.UpdatedAt = e.now()
	return out
}

// checkAdjustmentBust 修正后的点数满足飞人条件时终局
func checkAdjustmentBust(m *entity.Match) {
	if len(m.Adjustments) == 0 {
		return
	}
	rules := MatchRules(m)
	if AnyBust(rules.BustRule, AdjustedScores(m), RankingSeats(rules.GameMode)) {
		m.Ended = true
		m.EndReason = ReasonBustByAdjustment
	}
}
