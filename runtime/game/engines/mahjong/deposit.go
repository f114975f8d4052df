package mahjong

import (
	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

// CollectRiichi 立直供托：参与者每人支付 RiichiFee 到供托池，空席的立直忽略
func CollectRiichi(rules entity.RuleSet, topo Topology, action entity.HandAction, scores [vo.SeatCount]int, pot int) ([vo.SeatCount]int, int) {
	for i := 0; i < vo.SeatCount; i++ {
		seat := vo.Seat(i)
		if !action.Declared(seat) || !topo.IsActive(seat) {
			continue
		}
		scores[seat] -= rules.RiichiFee
		pot += rules.RiichiFee
	}
	return scores, pot
}

// PotDisposition 和了时供托的处理方式
type PotDisposition int

const (
	PotCarry        PotDisposition = iota // 留到下一局
	PotToWinner                           // 和了者立即获得
	PotPendingOnEnd                       // 四人三麻未立直的和了者：只有本局终局时才获得
)

// WinPotDisposition 和了时供托的去向
func WinPotDisposition(rules entity.RuleSet, topo Topology, action entity.HandAction, winner vo.Seat) PotDisposition {
	if !topo.IsActive(winner) {
		return PotCarry
	}
	if rules.GameMode == vo.GameModeSanma4 && !action.Declared(winner) {
		return PotPendingOnEnd
	}
	return PotToWinner
}
