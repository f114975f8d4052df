package container

import (
	"jansta/common/config"
	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

// RulesFromConf 配置文件中的默认规则转换为规则快照
// 未填写的字段保持为空，由引擎补全
func RulesFromConf(c config.RulesConf) *entity.RuleConfig {
	rc := &entity.RuleConfig{
		StartPoints:  c.StartPoints,
		ReturnPoints: c.ReturnPoints,
		TopOkaPoints: c.TopOkaPoints,
		NotenTotal:   c.NotenTotal,
		HonbaUnit:    c.HonbaUnit,
		RiichiFee:    c.RiichiFee,
	}
	if c.GameMode != "" {
		mode := vo.GameMode(c.GameMode)
		rc.GameMode = &mode
	}
	if c.BustRule != "" {
		bust := vo.BustRule(c.BustRule)
		rc.BustRule = &bust
	}
	if c.Uma != nil {
		rc.Uma = &entity.UmaConfig{
			Second: c.Uma.Second,
			Third:  c.Uma.Third,
			Fourth: c.Uma.Fourth,
		}
		if c.Uma.Preset != "" {
			preset := vo.UmaPreset(c.Uma.Preset)
			rc.Uma.Preset = &preset
		}
	}
	return rc.Clone()
}
