package mahjong

import (
	"slices"

	"jansta/core/domain/entity"
)

// Replay 从初始状态重放全部局记录
// 保留每条记录的 ID 和创建时间，其余字段重新计算；
// 遇到终局的局即停止，之后的记录被截断；点数修正的插入位置截断到新的局数
func (e *Engine) Replay(m *entity.Match) *entity.Match {
	out := m.Clone()
	replayInto(out, m.Logs)
	out.UpdatedAt = e.now()
	return out
}

// EditHand 替换第 index 局的输入后重放，下标越界时原样返回
func (e *Engine) EditHand(m *entity.Match, index int, action entity.HandAction, outcome entity.Outcome) *entity.Match {
	if index < 0 || index >= len(m.Logs) {
		return m.Clone()
	}
	logs := slices.Clone(m.Logs)
	logs[index].Action = action
	logs[index].Result = entity.RecordOf(outcome)

	out := m.Clone()
	replayInto(out, logs)
	out.UpdatedAt = e.now()
	return out
}

// UndoLastHand 删除最后一局后重放
func (e *Engine) UndoLastHand(m *entity.Match) *entity.Match {
	if len(m.Logs) == 0 {
		return m.Clone()
	}
	out := m.Clone()
	replayInto(out, m.Logs[:len(m.Logs)-1])
	out.UpdatedAt = e.now()
	return out
}

// replayInto 在 m 上重放 logs（m 必须是副本）
func replayInto(m *entity.Match, logs []entity.HandRecord) {
	rules := MatchRules(m)
	resetProgress(m)
	for _, src := range logs {
		outcome, err := src.Result.Outcome()
		if err != nil {
			outcome = entity.DrawOutcome{}
		}
		rec := settleHand(m, rules, src.Action, outcome)
		rec.ID = src.ID
		rec.CreatedAt = src.CreatedAt
		appendHand(m, rec)
		if m.Ended {
			break
		}
	}
	clampAdjustments(m)
	if !m.Ended {
		checkAdjustmentBust(m)
	}
}

func clampAdjustments(m *entity.Match) {
	n := len(m.Logs)
	for i := range m.Adjustments {
		if m.Adjustments[i].AfterHandIndex > n {
			m.Adjustments[i].AfterHandIndex = n
		}
	}
}
