package entity

import (
	"time"

	"jansta/core/domain/vo"
)

// HandAction 一局的输入：副露数和立直顺序（按座位）
type HandAction struct {
	FuroCount   [vo.SeatCount]int `bson:"furo_count" json:"furoCount"`
	RiichiOrder [vo.SeatCount]int `bson:"riichi_order" json:"riichiOrder"` // 0=未立直，1..4=立直顺序
}

// Declared 该座位本局是否立直
func (a HandAction) Declared(seat vo.Seat) bool {
	return seat.Valid() && a.RiichiOrder[seat] > 0
}

// HandRecord 局记录（半庄内按顺序保存）
// 保存局前状态、输入、结果和局后状态，编辑时整条替换后重算
type HandRecord struct {
	ID           string            `bson:"id" json:"id"`
	CreatedAt    time.Time         `bson:"created_at" json:"createdAt"`
	RoundStart   vo.RoundPosition  `bson:"round_start" json:"roundStart"`
	Dealer       vo.Seat           `bson:"dealer" json:"dealer"`
	DepositStart int               `bson:"deposit_start" json:"riichiPotStart"`
	ScoresStart  [vo.SeatCount]int `bson:"scores_start" json:"scoresStart"` // 不含点数修正
	Action       HandAction        `bson:"action" json:"action"`
	Result       OutcomeRecord     `bson:"result" json:"result"`

	Delta        [vo.SeatCount]int `bson:"delta" json:"deltaScores"`
	ScoresAfter  [vo.SeatCount]int `bson:"scores_after" json:"scoresAfter"`
	DepositAfter int               `bson:"deposit_after" json:"riichiPotAfter"`
	RoundAfter   vo.RoundPosition  `bson:"round_after" json:"roundAfter"`
	DealerAfter  vo.Seat           `bson:"dealer_after" json:"dealerAfter"`
	Ended        bool              `bson:"ended" json:"ended"`
	EndReason    string            `bson:"end_reason,omitempty" json:"endReason,omitempty"`
	EndMeta      *EndMeta          `bson:"end_meta,omitempty" json:"endMeta,omitempty"`
}

// EndMeta 终局时供托的去向
type EndMeta struct {
	TieBreakApplied  bool     `bson:"tie_break_applied" json:"tieBreakApplied"`
	DepositSettledTo *vo.Seat `bson:"deposit_settled_to,omitempty" json:"riichiPotSettledToSeat,omitempty"`
	WinnerTakeAll    bool     `bson:"winner_take_all" json:"winnerTakeAll"`
}

// AdjustmentRecord 手动点数修正，在第 AfterHandIndex 局之后生效
type AdjustmentRecord struct {
	ID             string    `bson:"id" json:"id"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	AfterHandIndex int       `bson:"after_hand_index" json:"afterKyokuIndex"`
	Seat           vo.Seat   `bson:"seat" json:"seat"`
	Delta          int       `bson:"delta" json:"delta"`
	Reason         string    `bson:"reason,omitempty" json:"reason,omitempty"`
}
