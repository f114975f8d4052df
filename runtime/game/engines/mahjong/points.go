package mahjong

import (
	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

const pointUnit = 1000

// ConvertPoints 终局点数换算为 pt
// 2 位以下：(点数 - 返点)/1000 + 马，向上取整；1 位取其余合计的相反数，保证合计为 0
// 1 位的 oka 已包含在其余人的负值中
func ConvertPoints(rules entity.RuleSet, scores [vo.SeatCount]int, ranking Ranking) [vo.SeatCount]int {
	var pts [vo.SeatCount]int
	n := len(ranking.Order)
	if n == 0 {
		return pts
	}
	sum := 0
	for i, seat := range ranking.Order[1:] {
		rank := i + 2
		raw := scores[seat] - rules.ReturnPoints + rules.Uma.ForRank(rank, n)*pointUnit
		pts[seat] = ceilDiv(raw, pointUnit)
		sum += pts[seat]
	}
	pts[ranking.Top()] = -sum
	return pts
}

// TopRawPoints 1 位按公式计算的 pt（含 oka，用于显示对照）
func TopRawPoints(rules entity.RuleSet, scores [vo.SeatCount]int, ranking Ranking) int {
	top := ranking.Top()
	if top == vo.NoSeat {
		return 0
	}
	raw := scores[top] - rules.ReturnPoints + rules.TopOkaPoints + rules.Uma.ForRank(1, len(ranking.Order))*pointUnit
	return ceilDiv(raw, pointUnit)
}

// ceilDiv 向上取整除法，b > 0
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}
