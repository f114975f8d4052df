package entity

import (
	"slices"
	"time"

	"jansta/core/domain/vo"
)

// AbsentName 空席的显示名
const AbsentName = "欠け"

// Match 半庄
// 座位、名字、点数都固定四个元素，三麻的空席为 "" / 0
// 引擎不修改传入的 Match，总是返回新值
type Match struct {
	ID        string    `bson:"id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`

	Seats         [vo.SeatCount]string `bson:"seats" json:"seats"`
	SeatNames     [vo.SeatCount]string `bson:"seat_names" json:"seatNames"`
	FirstDealer   vo.Seat              `bson:"first_dealer" json:"kichyaSeat"`
	InitialScores [vo.SeatCount]int    `bson:"initial_scores" json:"initialScores"`

	Logs        []HandRecord       `bson:"logs" json:"logs"`
	Adjustments []AdjustmentRecord `bson:"adjustments" json:"adjustments"`

	CurrentRound   vo.RoundPosition  `bson:"current_round" json:"currentRound"`
	CurrentDealer  vo.Seat           `bson:"current_dealer" json:"currentDealer"`
	CurrentDeposit int               `bson:"current_deposit" json:"currentRiichiPot"`
	CurrentScores  [vo.SeatCount]int `bson:"current_scores" json:"currentScores"`
	Ended          bool              `bson:"ended" json:"ended"`
	EndReason      string            `bson:"end_reason,omitempty" json:"endReason,omitempty"`

	Rules    *RuleConfig `bson:"rules,omitempty" json:"rules,omitempty"`         // 创建时的规则快照，旧数据为 nil
	BustRule vo.BustRule `bson:"bust_rule,omitempty" json:"tobiRule,omitempty"` // 旧数据兼容
}

// Clone 深拷贝
func (m *Match) Clone() *Match {
	out := *m
	out.Logs = slices.Clone(m.Logs)
	for i := range out.Logs {
		out.Logs[i] = out.Logs[i].clone()
	}
	out.Adjustments = slices.Clone(m.Adjustments)
	out.Rules = m.Rules.Clone()
	return &out
}

// HandCount 已记录局数
func (m *Match) HandCount() int {
	return len(m.Logs)
}

// SeatOf 玩家所在座位
func (m *Match) SeatOf(playerID string) vo.Seat {
	if playerID == "" {
		return vo.NoSeat
	}
	for i, id := range m.Seats {
		if id == playerID {
			return vo.Seat(i)
		}
	}
	return vo.NoSeat
}

func (h HandRecord) clone() HandRecord {
	out := h
	out.Result = h.Result.clone()
	if h.EndMeta != nil {
		meta := *h.EndMeta
		meta.DepositSettledTo = clonePtr(h.EndMeta.DepositSettledTo)
		out.EndMeta = &meta
	}
	return out
}

func (r OutcomeRecord) clone() OutcomeRecord {
	out := r
	out.Winner = clonePtr(r.Winner)
	out.Loser = clonePtr(r.Loser)
	out.Points = clonePtr(r.Points)
	out.UraCount = clonePtr(r.UraCount)
	out.Tenpai = clonePtr(r.Tenpai)
	return out
}
