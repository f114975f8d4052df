package mahjong

import (
	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

// Delta 按座位的点数变化
type Delta [vo.SeatCount]int

// Sum 合计
func (d Delta) Sum() int {
	total := 0
	for _, v := range d {
		total += v
	}
	return total
}

// Apply 加到点数上，返回新数组
func (d Delta) Apply(scores [vo.SeatCount]int) [vo.SeatCount]int {
	for i := range scores {
		scores[i] += d[i]
	}
	return scores
}

// tsumoHonba 自摸每家支付的本场加算
func tsumoHonba(rules entity.RuleSet, honba int) int {
	if rules.GameMode.IsSanmaLike() {
		return rules.HonbaUnit * honba
	}
	return yonmaTsumoHonba * honba
}

// ronHonba 荣和放铳者支付的本场加算
func ronHonba(rules entity.RuleSet, honba int) int {
	if rules.GameMode.IsSanmaLike() {
		return rules.HonbaUnit * honba
	}
	return yonmaRonHonba * honba
}

// SettleTsumo 自摸精算
// 庄家和了每家同额；闲家和了庄家付 oya，其他参与者付 ko。空席不支付
func SettleTsumo(rules entity.RuleSet, topo Topology, honba int, o entity.TsumoOutcome) Delta {
	var d Delta
	if !topo.IsActive(o.Winner) {
		return d
	}
	bonus := tsumoHonba(rules, honba)
	for _, p := range topo.Active() {
		if p == o.Winner {
			continue
		}
		base := o.Payment.Ko
		switch {
		case o.Payment.Kind == entity.PaymentOyaAll:
			base = o.Payment.All
		case p == topo.Dealer:
			base = o.Payment.Oya
		}
		pay := base + bonus
		d[p] -= pay
		d[o.Winner] += pay
	}
	return d
}

// SettleRon 荣和精算，放铳者单独支付
func SettleRon(rules entity.RuleSet, topo Topology, honba int, o entity.RonOutcome) Delta {
	var d Delta
	if !topo.IsActive(o.Winner) || !topo.IsActive(o.Loser) || o.Winner == o.Loser {
		return d
	}
	pay := o.Amount + ronHonba(rules, honba)
	d[o.Loser] -= pay
	d[o.Winner] += pay
	return d
}

// SettleDraw 流局罚符
func SettleDraw(rules entity.RuleSet, topo Topology, o entity.DrawOutcome) Delta {
	if rules.GameMode.IsSanmaLike() {
		return reducedNotenPenalty(rules.NotenTotal, topo, o.Tenpai)
	}
	return yonmaNotenPenalty(topo, o.Tenpai)
}

// yonmaNotenPenalty 四麻固定 3000 点
// 1 人听牌 +3000/-1000，2 人 ±1500，3 人 +1000/-3000，全员或无人听牌不移动
func yonmaNotenPenalty(topo Topology, tenpai [vo.SeatCount]bool) Delta {
	var d Delta
	var ready, noten []vo.Seat
	for _, s := range topo.Active() {
		if tenpai[s] {
			ready = append(ready, s)
		} else {
			noten = append(noten, s)
		}
	}
	if len(ready) == 0 || len(noten) == 0 {
		return d
	}
	gain := yonmaNotenTotal / len(ready)
	loss := yonmaNotenTotal / len(noten)
	for _, s := range ready {
		d[s] += gain
	}
	for _, s := range noten {
		d[s] -= loss
	}
	return d
}

// reducedNotenPenalty 三麻系：总额在听牌者之间平分，由未听牌者平摊
// 移动额取总额中能被双方人数整除的部分，保证点数守恒且不出现小数
func reducedNotenPenalty(total int, topo Topology, tenpai [vo.SeatCount]bool) Delta {
	var d Delta
	var ready, noten []vo.Seat
	for _, s := range topo.Active() {
		if tenpai[s] {
			ready = append(ready, s)
		} else {
			noten = append(noten, s)
		}
	}
	if len(ready) == 0 || len(noten) == 0 {
		return d
	}
	unit := lcm(len(ready), len(noten))
	moved := total - total%unit
	for _, s := range ready {
		d[s] += moved / len(ready)
	}
	for _, s := range noten {
		d[s] -= moved / len(noten)
	}
	return d
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}
