package mahjong

import (
	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

const maxFuro = 4

// NormalizeAction 输入整形
// 副露数截断到 [0,4]；立直顺序超出 1..4 或重复的改为 0；空席的立直忽略
func NormalizeAction(a entity.HandAction, topo Topology) entity.HandAction {
	var out entity.HandAction
	used := make(map[int]bool, vo.SeatCount)
	for i := 0; i < vo.SeatCount; i++ {
		out.FuroCount[i] = min(max(a.FuroCount[i], 0), maxFuro)

		order := a.RiichiOrder[i]
		if !topo.IsActive(vo.Seat(i)) || order < 1 || order > vo.SeatCount || used[order] {
			continue
		}
		used[order] = true
		out.RiichiOrder[i] = order
	}
	return out
}

// NormalizeOutcome 结果整形
// 里宝牌数只在和了者立直且数值非负时保留；空席的听牌标记忽略
func NormalizeOutcome(o entity.Outcome, action entity.HandAction, topo Topology) entity.Outcome {
	switch v := o.(type) {
	case entity.TsumoOutcome:
		v.UraCount = keepUra(v.UraCount, v.Winner, action)
		return v
	case entity.RonOutcome:
		v.UraCount = keepUra(v.UraCount, v.Winner, action)
		return v
	case entity.DrawOutcome:
		for i := range v.Tenpai {
			if !topo.IsActive(vo.Seat(i)) {
				v.Tenpai[i] = false
			}
		}
		return v
	default:
		return entity.DrawOutcome{}
	}
}

func keepUra(ura *int, winner vo.Seat, action entity.HandAction) *int {
	if ura == nil || *ura < 0 || !action.Declared(winner) {
		return nil
	}
	n := *ura
	return &n
}
