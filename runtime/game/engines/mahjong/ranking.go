package mahjong

import (
	"sort"

	"jansta/core/domain/vo"
)

// Ranking 排名结果
type Ranking struct {
	RankBySeat      [vo.SeatCount]int // 1 起，空席为 vo.AbsentRank
	Order           []vo.Seat         // 按名次排列的座位
	TieBreakApplied bool              // 是否有同点按起家顺决定
}

// Top 一位的座位，没有参与者时返回 NoSeat
func (r Ranking) Top() vo.Seat {
	if len(r.Order) == 0 {
		return vo.NoSeat
	}
	return r.Order[0]
}

// RankSeats 按点数降序排名，同点时离起家近（起家顺靠前）的座位排在前面
// 不在 seats 中的座位不参与排名
func RankSeats(scores [vo.SeatCount]int, firstDealer vo.Seat, seats []vo.Seat) Ranking {
	order := make([]vo.Seat, 0, len(seats))
	for _, s := range seats {
		if s.Valid() {
			order = append(order, s)
		}
	}
	distance := func(s vo.Seat) int {
		return (int(s) - int(firstDealer) + vo.SeatCount) % vo.SeatCount
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		return distance(a) < distance(b)
	})

	r := Ranking{Order: order}
	for i := range r.RankBySeat {
		r.RankBySeat[i] = vo.AbsentRank
	}
	for i, s := range order {
		r.RankBySeat[s] = i + 1
		if i > 0 && scores[s] == scores[order[i-1]] {
			r.TieBreakApplied = true
		}
	}
	return r
}
