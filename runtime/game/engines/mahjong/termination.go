package mahjong

import (
	"fmt"

	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

const (
	ReasonBust             = "bust"
	ReasonBustByAdjustment = "bust by adjustment"
)

// Termination 终局判定结果
type Termination struct {
	Ended  bool
	Bust   bool
	Reason string
}

// CheckTermination 终局判定，按顺序：
//  1. 飞人（只看参与者），优先于其他条件
//  2. 南场最后一局或西场：参与者最高点达到返点即终局，否则继续（进入西场）
//
// played 是刚打完的这一局
func CheckTermination(rules entity.RuleSet, topo Topology, played vo.RoundPosition, scores [vo.SeatCount]int) Termination {
	if AnyBust(rules.BustRule, scores, topo.Active()) {
		return Termination{Ended: true, Bust: true, Reason: fmt.Sprintf("%s %s", RoundLabel(played), ReasonBust)}
	}
	if !isFinalHand(rules.GameMode, played) {
		return Termination{}
	}
	top := 0
	for i, s := range topo.Active() {
		if i == 0 || scores[s] > top {
			top = scores[s]
		}
	}
	if top < rules.ReturnPoints {
		return Termination{}
	}
	if played.Stage == vo.StageWest {
		return Termination{Ended: true, Reason: fmt.Sprintf("%s west round, top reached %d", RoundLabel(played), rules.ReturnPoints)}
	}
	return Termination{Ended: true, Reason: fmt.Sprintf("%s top reached %d", RoundLabel(played), rules.ReturnPoints)}
}

// AnyBust 指定座位中是否有人满足飞人条件
func AnyBust(rule vo.BustRule, scores [vo.SeatCount]int, seats []vo.Seat) bool {
	for _, s := range seats {
		if rule.Busted(scores[s]) {
			return true
		}
	}
	return false
}

// isFinalHand 南场最后一局（三麻南 3，其他南 4）或西场任意一局
func isFinalHand(mode vo.GameMode, played vo.RoundPosition) bool {
	if played.Stage == vo.StageWest {
		return true
	}
	return played.Stage == vo.StageSouth && played.Number >= mode.StageLength()
}

// RoundLabel 局面标签，例如 "E1-0"
func RoundLabel(r vo.RoundPosition) string {
	return r.String()
}
