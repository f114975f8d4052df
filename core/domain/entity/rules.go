package entity

import "jansta/core/domain/vo"

// RuleConfig 会话保存的规则（所有字段可选）
// 旧数据可能只填了一部分，由规则解析器补全为 RuleSet
type RuleConfig struct {
	GameMode     *vo.GameMode `bson:"game_mode,omitempty" json:"gameMode,omitempty"`
	StartPoints  *int         `bson:"start_points,omitempty" json:"startPoints,omitempty"`
	ReturnPoints *int         `bson:"return_points,omitempty" json:"returnPoints,omitempty"`
	TopOkaPoints *int         `bson:"top_oka_points,omitempty" json:"topOkaPoints,omitempty"`
	BustRule     *vo.BustRule `bson:"bust_rule,omitempty" json:"tobiRule,omitempty"`
	Uma          *UmaConfig   `bson:"uma,omitempty" json:"uma,omitempty"`
	NotenTotal   *int         `bson:"noten_total,omitempty" json:"notenTotal,omitempty"` // 三麻系罚符总额
	HonbaUnit    *int         `bson:"honba_unit,omitempty" json:"honbaUnit,omitempty"`   // 三麻系本场单位
	RiichiFee    *int         `bson:"riichi_fee,omitempty" json:"riichiFee,omitempty"`
}

// UmaConfig 马的可选配置
type UmaConfig struct {
	Preset *vo.UmaPreset `bson:"preset_id,omitempty" json:"presetId,omitempty"`
	Second *int          `bson:"second,omitempty" json:"second,omitempty"`
	Third  *int          `bson:"third,omitempty" json:"third,omitempty"`
	Fourth *int          `bson:"fourth,omitempty" json:"fourth,omitempty"`
}

// Clone 深拷贝，会话规则快照给半庄时使用
func (c *RuleConfig) Clone() *RuleConfig {
	if c == nil {
		return nil
	}
	out := &RuleConfig{
		GameMode:     clonePtr(c.GameMode),
		StartPoints:  clonePtr(c.StartPoints),
		ReturnPoints: clonePtr(c.ReturnPoints),
		TopOkaPoints: clonePtr(c.TopOkaPoints),
		BustRule:     clonePtr(c.BustRule),
		NotenTotal:   clonePtr(c.NotenTotal),
		HonbaUnit:    clonePtr(c.HonbaUnit),
		RiichiFee:    clonePtr(c.RiichiFee),
	}
	if c.Uma != nil {
		out.Uma = &UmaConfig{
			Preset: clonePtr(c.Uma.Preset),
			Second: clonePtr(c.Uma.Second),
			Third:  clonePtr(c.Uma.Third),
			Fourth: clonePtr(c.Uma.Fourth),
		}
	}
	return out
}

// RuleSet 补全后的规则，挂在半庄上不可变
type RuleSet struct {
	GameMode     vo.GameMode `json:"gameMode"`
	StartPoints  int         `json:"startPoints"`
	ReturnPoints int         `json:"returnPoints"`
	TopOkaPoints int         `json:"topOkaPoints"`
	BustRule     vo.BustRule `json:"tobiRule"`
	Uma          vo.Uma      `json:"uma"`
	NotenTotal   int         `json:"notenTotal"`
	HonbaUnit    int         `json:"honbaUnit"`
	RiichiFee    int         `json:"riichiFee"`
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
