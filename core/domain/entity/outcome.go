package entity

import (
	"errors"
	"fmt"

	"jansta/core/domain/vo"
)

// OutcomeType 和了/流局种类，持久化时的类型标签
type OutcomeType string

const (
	OutcomeTsumo OutcomeType = "tsumo"
	OutcomeRon   OutcomeType = "ron"
	OutcomeDraw  OutcomeType = "draw"
)

// PaymentKind 支付方式
type PaymentKind string

const (
	PaymentOyaAll  PaymentKind = "oya_all"  // 庄家自摸，每家同额
	PaymentKoSplit PaymentKind = "ko_split" // 闲家自摸，庄家付 oya，其他人付 ko
	PaymentRon     PaymentKind = "ron"
)

var ErrUnknownOutcome = errors.New("unknown outcome type")

// Outcome 一局的结果：TsumoOutcome / RonOutcome / DrawOutcome 三选一
type Outcome interface {
	Type() OutcomeType
}

// TsumoPayment 自摸支付额（不含本场）
type TsumoPayment struct {
	Kind PaymentKind
	All  int // oya_all
	Ko   int // ko_split: 闲家支付
	Oya  int // ko_split: 庄家支付
}

// TsumoOutcome 自摸和了
type TsumoOutcome struct {
	Winner   vo.Seat
	Payment  TsumoPayment
	UraCount *int // 里宝牌数，只有立直和了才记录
}

// RonOutcome 荣和
type RonOutcome struct {
	Winner   vo.Seat
	Loser    vo.Seat
	Amount   int // 不含本场
	UraCount *int
}

// DrawOutcome 流局，按座位记录是否听牌
type DrawOutcome struct {
	Tenpai [vo.SeatCount]bool
}

func (TsumoOutcome) Type() OutcomeType { return OutcomeTsumo }
func (RonOutcome) Type() OutcomeType   { return OutcomeRon }
func (DrawOutcome) Type() OutcomeType  { return OutcomeDraw }

// OutcomeRecord 结果的持久化形式（带 type 标签的信封）
type OutcomeRecord struct {
	Type     OutcomeType        `bson:"type" json:"type"`
	Winner   *vo.Seat           `bson:"winner,omitempty" json:"winner,omitempty"`
	Loser    *vo.Seat           `bson:"loser,omitempty" json:"loser,omitempty"`
	Points   *PointsRecord      `bson:"points,omitempty" json:"points,omitempty"`
	UraCount *int               `bson:"ura_count,omitempty" json:"uraCount,omitempty"`
	Tenpai   *[vo.SeatCount]bool `bson:"tenpai,omitempty" json:"tenpai,omitempty"`
}

// PointsRecord 支付额
type PointsRecord struct {
	Kind PaymentKind `bson:"kind" json:"kind"`
	All  int         `bson:"all,omitempty" json:"all,omitempty"`
	Ko   int         `bson:"ko,omitempty" json:"ko,omitempty"`
	Oya  int         `bson:"oya,omitempty" json:"oya,omitempty"`
	Ron  int         `bson:"ron,omitempty" json:"ron,omitempty"`
}

// RecordOf 把结果转换为持久化形式
func RecordOf(o Outcome) OutcomeRecord {
	switch v := o.(type) {
	case TsumoOutcome:
		w := v.Winner
		p := &PointsRecord{Kind: v.Payment.Kind}
		if v.Payment.Kind == PaymentOyaAll {
			p.All = v.Payment.All
		} else {
			p.Kind = PaymentKoSplit
			p.Ko = v.Payment.Ko
			p.Oya = v.Payment.Oya
		}
		return OutcomeRecord{Type: OutcomeTsumo, Winner: &w, Points: p, UraCount: clonePtr(v.UraCount)}
	case RonOutcome:
		w, l := v.Winner, v.Loser
		return OutcomeRecord{
			Type:     OutcomeRon,
			Winner:   &w,
			Loser:    &l,
			Points:   &PointsRecord{Kind: PaymentRon, Ron: v.Amount},
			UraCount: clonePtr(v.UraCount),
		}
	case DrawOutcome:
		t := v.Tenpai
		return OutcomeRecord{Type: OutcomeDraw, Tenpai: &t}
	default:
		return OutcomeRecord{Type: OutcomeDraw, Tenpai: &[vo.SeatCount]bool{}}
	}
}

// Outcome 从持久化形式还原结果
// 缺字段按零值处理，只有未知的类型标签会报错
func (r OutcomeRecord) Outcome() (Outcome, error) {
	switch r.Type {
	case OutcomeTsumo:
		out := TsumoOutcome{Winner: seatOr(r.Winner), UraCount: clonePtr(r.UraCount)}
		if r.Points != nil {
			out.Payment = TsumoPayment{Kind: r.Points.Kind, All: r.Points.All, Ko: r.Points.Ko, Oya: r.Points.Oya}
		}
		if out.Payment.Kind != PaymentOyaAll {
			out.Payment.Kind = PaymentKoSplit
		}
		return out, nil
	case OutcomeRon:
		out := RonOutcome{Winner: seatOr(r.Winner), Loser: seatOr(r.Loser), UraCount: clonePtr(r.UraCount)}
		if r.Points != nil {
			out.Amount = r.Points.Ron
		}
		return out, nil
	case OutcomeDraw:
		out := DrawOutcome{}
		if r.Tenpai != nil {
			out.Tenpai = *r.Tenpai
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutcome, r.Type)
	}
}

func seatOr(s *vo.Seat) vo.Seat {
	if s == nil {
		return vo.NoSeat
	}
	return *s
}
