package mahjong

import (
	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

// Advance 局进行
// 连庄时局数不变、本场 +1；否则局数前进（按每场局数换场，西场循环）、本场归零、庄家轮转
func Advance(mode vo.GameMode, round vo.RoundPosition, dealer vo.Seat, renchan bool) (vo.RoundPosition, vo.Seat) {
	if renchan {
		round.Honba++
		return round, dealer
	}
	next := vo.RoundPosition{Stage: round.Stage, Number: round.Number + 1}
	if next.Number > mode.StageLength() {
		next.Stage = round.Stage.Next()
		next.Number = 1
	}
	return next, RotateDealer(mode, dealer)
}

// RotateDealer 下一任庄家：三麻在 0..2 之间循环，其他四席循环
func RotateDealer(mode vo.GameMode, dealer vo.Seat) vo.Seat {
	if mode == vo.GameModeSanma {
		return vo.Seat((int(dealer) + 1) % 3)
	}
	return dealer.Next()
}

// Renchan 是否连庄：庄家和了，或流局时庄家（参与者）听牌
func Renchan(topo Topology, o entity.Outcome) bool {
	switch v := o.(type) {
	case entity.TsumoOutcome:
		return v.Winner == topo.Dealer
	case entity.RonOutcome:
		return v.Winner == topo.Dealer
	case entity.DrawOutcome:
		return topo.IsActive(topo.Dealer) && v.Tenpai[topo.Dealer]
	default:
		return false
	}
}
