package engines

import (
	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

// Engine 计分引擎
// 服务层只通过该接口调用，所有操作都返回新的 Match，不修改输入
type Engine interface {
	// NewMatch 按规则快照创建半庄
	NewMatch(rules *entity.RuleConfig, seats, names [vo.SeatCount]string, firstDealer vo.Seat) *entity.Match

	// ApplyHand 记录一局
	ApplyHand(m *entity.Match, action entity.HandAction, outcome entity.Outcome) *entity.Match

	// EditHand 修改第 index 局后重放
	EditHand(m *entity.Match, index int, action entity.HandAction, outcome entity.Outcome) *entity.Match

	// UndoLastHand 撤销最后一局
	UndoLastHand(m *entity.Match) *entity.Match

	// Replay 从头重放
	Replay(m *entity.Match) *entity.Match

	// AddAdjustment 追加点数修正
	AddAdjustment(m *entity.Match, seat vo.Seat, delta int, reason string) *entity.Match

	// RemoveAdjustment 删除点数修正
	RemoveAdjustment(m *entity.Match, id string) *entity.Match
}
