package mahjong

import (
	"fmt"
	"time"

	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

var testNow = time.Date(2026, 3, 14, 20, 0, 0, 0, time.Local)

func newTestEngine() *Engine {
	n := 0
	return NewEngine(
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%03d", n)
		}),
	)
}

func modeRules(mode vo.GameMode) *entity.RuleConfig {
	return &entity.RuleConfig{GameMode: &mode}
}

func newTestMatch(e *Engine, mode vo.GameMode, firstDealer vo.Seat) *entity.Match {
	seats := [vo.SeatCount]string{"p1", "p2", "p3", "p4"}
	names := [vo.SeatCount]string{"Aki", "Ben", "Chika", "Dai"}
	return e.NewMatch(modeRules(mode), seats, names, firstDealer)
}

func ron(winner, loser vo.Seat, amount int) entity.RonOutcome {
	return entity.RonOutcome{Winner: winner, Loser: loser, Amount: amount}
}

func tsumoAll(winner vo.Seat, all int) entity.TsumoOutcome {
	return entity.TsumoOutcome{Winner: winner, Payment: entity.TsumoPayment{Kind: entity.PaymentOyaAll, All: all}}
}

func tsumoSplit(winner vo.Seat, ko, oya int) entity.TsumoOutcome {
	return entity.TsumoOutcome{Winner: winner, Payment: entity.TsumoPayment{Kind: entity.PaymentKoSplit, Ko: ko, Oya: oya}}
}

func draw(ready ...vo.Seat) entity.DrawOutcome {
	var o entity.DrawOutcome
	for _, s := range ready {
		o.Tenpai[s] = true
	}
	return o
}

// riichi 按参数顺序立直
func riichi(seats ...vo.Seat) entity.HandAction {
	var a entity.HandAction
	for i, s := range seats {
		a.RiichiOrder[s] = i + 1
	}
	return a
}

func sum4(v [vo.SeatCount]int) int {
	return v[0] + v[1] + v[2] + v[3]
}

func intPtr(v int) *int {
	return &v
}
