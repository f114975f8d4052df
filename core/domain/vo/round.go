package vo

import "fmt"

// Stage 场风（东、南、西）。西场是延长场，进入后不再前进
type Stage string

const (
	StageEast  Stage = "E"
	StageSouth Stage = "S"
	StageWest  Stage = "W"
)

// Next 下一场，西场循环
func (s Stage) Next() Stage {
	switch s {
	case StageEast:
		return StageSouth
	default:
		return StageWest
	}
}

// Kanji 场风汉字
func (s Stage) Kanji() string {
	switch s {
	case StageEast:
		return "東"
	case StageSouth:
		return "南"
	default:
		return "西"
	}
}

// RoundPosition 局面位置：场风、局数、本场数
type RoundPosition struct {
	Stage  Stage `bson:"stage" json:"stage"`
	Number int   `bson:"num" json:"num"`     // 1..每场局数
	Honba  int   `bson:"honba" json:"honba"` // 连庄数
}

// InitialRound 东一局零本场
func InitialRound() RoundPosition {
	return RoundPosition{Stage: StageEast, Number: 1, Honba: 0}
}

// Label 例如 "東2局 1本場"
func (r RoundPosition) Label() string {
	return fmt.Sprintf("%s%d局 %d本場", r.Stage.Kanji(), r.Number, r.Honba)
}

// String 用于日志，例如 "E2-1"
func (r RoundPosition) String() string {
	return fmt.Sprintf("%s%d-%d", r.Stage, r.Number, r.Honba)
}
