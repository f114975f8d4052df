package mahjong

import "jansta/core/domain/vo"

// Topology 某一局的参与座位
// 数组宽度固定为 4，参与人数通过 Active 获取，不要假设两者相等
type Topology struct {
	Mode   vo.GameMode
	Dealer vo.Seat
}

// NewTopology 由对局种类和当前庄家决定参与者
func NewTopology(mode vo.GameMode, dealer vo.Seat) Topology {
	return Topology{Mode: mode, Dealer: dealer}
}

// Active 参与本局的座位，按出牌顺序从庄家开始
func (t Topology) Active() []vo.Seat {
	switch t.Mode {
	case vo.GameModeSanma:
		return []vo.Seat{vo.SeatEast, vo.SeatSouth, vo.SeatWest}
	case vo.GameModeSanma4:
		return []vo.Seat{t.Dealer, t.Dealer.Offset(1), t.Dealer.Offset(2)}
	default:
		return vo.AllSeats()
	}
}

// Absent 本局空席，四麻返回 NoSeat
func (t Topology) Absent() vo.Seat {
	switch t.Mode {
	case vo.GameModeSanma:
		return vo.SeatNorth
	case vo.GameModeSanma4:
		return t.Dealer.Offset(3)
	default:
		return vo.NoSeat
	}
}

// IsActive 座位是否参与本局
func (t Topology) IsActive(seat vo.Seat) bool {
	return seat.Valid() && seat != t.Absent()
}

// ActiveSeats 参与座位
func ActiveSeats(mode vo.GameMode, dealer vo.Seat) []vo.Seat {
	return NewTopology(mode, dealer).Active()
}

// AbsentSeat 空席
func AbsentSeat(mode vo.GameMode, dealer vo.Seat) vo.Seat {
	return NewTopology(mode, dealer).Absent()
}

// RankingSeats 参与最终排名的座位（半庄的全部参加者）
// 三麻北家固定空席，四人三麻四人都参与排名
func RankingSeats(mode vo.GameMode) []vo.Seat {
	if mode == vo.GameModeSanma {
		return []vo.Seat{vo.SeatEast, vo.SeatSouth, vo.SeatWest}
	}
	return vo.AllSeats()
}
