package vo

import "fmt"

// Seat 座位（固定四席：0=东 1=南 2=西 3=北）
// 三麻也保持四元素数组，北家为空席
type Seat int

const (
	SeatEast Seat = iota
	SeatSouth
	SeatWest
	SeatNorth
)

// NoSeat 无座位（四麻没有空席时使用）
const NoSeat Seat = -1

// SeatCount 数组宽度，与参与人数无关
const SeatCount = 4

// AllSeats 四个座位，按东南西北顺序
func AllSeats() []Seat {
	return []Seat{SeatEast, SeatSouth, SeatWest, SeatNorth}
}

// Valid 是否是 0-3 的合法座位
func (s Seat) Valid() bool {
	return s >= SeatEast && s <= SeatNorth
}

// Next 下家（四席循环）
func (s Seat) Next() Seat {
	return (s + 1) % SeatCount
}

// Offset 从 s 开始数第 n 个座位
func (s Seat) Offset(n int) Seat {
	return Seat((int(s) + n%SeatCount + SeatCount) % SeatCount)
}

// String 用于日志
func (s Seat) String() string {
	switch s {
	case SeatEast:
		return "East"
	case SeatSouth:
		return "South"
	case SeatWest:
		return "West"
	case SeatNorth:
		return "North"
	case NoSeat:
		return "None"
	default:
		return fmt.Sprintf("Seat(%d)", int(s))
	}
}
