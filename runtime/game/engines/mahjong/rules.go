package mahjong

import (
	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

const (
	yonmaStartPoints  = 25000
	yonmaReturnPoints = 30000
	sanmaStartPoints  = 35000
	sanmaReturnPoints = 40000

	defaultNotenTotal = 2000
	defaultHonbaUnit  = 1000
	defaultRiichiFee  = 1000

	// 四麻流局罚符总额和本场单位是固定值
	yonmaNotenTotal = 3000
	yonmaTsumoHonba = 100
	yonmaRonHonba   = 300
)

// DefaultRules 对局种类的默认规则
func DefaultRules(mode vo.GameMode) entity.RuleSet {
	if !mode.Valid() {
		mode = vo.GameModeYonma
	}
	rs := entity.RuleSet{
		GameMode:     mode,
		StartPoints:  yonmaStartPoints,
		ReturnPoints: yonmaReturnPoints,
		BustRule:     vo.BustLeq0,
		Uma:          vo.UmaFromPreset(vo.UmaPresetP1),
		NotenTotal:   defaultNotenTotal,
		HonbaUnit:    defaultHonbaUnit,
		RiichiFee:    defaultRiichiFee,
	}
	if mode.IsSanmaLike() {
		rs.StartPoints = sanmaStartPoints
		rs.ReturnPoints = sanmaReturnPoints
	}
	rs.TopOkaPoints = okaFor(mode, rs.StartPoints, rs.ReturnPoints)
	return rs
}

// ResolveRules 把可能不完整的规则补全
// 不会失败：缺失、非正数、未知的值都替换为默认值
func ResolveRules(cfg *entity.RuleConfig) entity.RuleSet {
	if cfg == nil {
		return DefaultRules(vo.GameModeYonma)
	}
	mode := vo.GameModeYonma
	if cfg.GameMode != nil && cfg.GameMode.Valid() {
		mode = *cfg.GameMode
	}
	rs := DefaultRules(mode)

	if v, ok := positive(cfg.StartPoints); ok {
		rs.StartPoints = v
	}
	if v, ok := positive(cfg.ReturnPoints); ok {
		rs.ReturnPoints = v
	}
	rs.TopOkaPoints = okaFor(mode, rs.StartPoints, rs.ReturnPoints)
	if cfg.TopOkaPoints != nil && *cfg.TopOkaPoints >= 0 {
		rs.TopOkaPoints = *cfg.TopOkaPoints
	}
	if cfg.BustRule != nil && cfg.BustRule.Valid() {
		rs.BustRule = *cfg.BustRule
	}
	rs.Uma = resolveUma(cfg.Uma)
	if v, ok := positive(cfg.NotenTotal); ok {
		rs.NotenTotal = v
	}
	if v, ok := positive(cfg.HonbaUnit); ok {
		rs.HonbaUnit = v
	}
	if v, ok := positive(cfg.RiichiFee); ok {
		rs.RiichiFee = v
	}
	return rs
}

// MatchRules 半庄使用的规则
// 没有规则快照的旧数据按四麻、返点 30000、旧的飞人字段处理
func MatchRules(m *entity.Match) entity.RuleSet {
	if m.Rules != nil {
		return ResolveRules(m.Rules)
	}
	mode := vo.GameModeYonma
	ret := yonmaReturnPoints
	bust := vo.BustLeq0
	if m.BustRule.Valid() {
		bust = m.BustRule
	}
	return ResolveRules(&entity.RuleConfig{GameMode: &mode, ReturnPoints: &ret, BustRule: &bust})
}

func resolveUma(cfg *entity.UmaConfig) vo.Uma {
	if cfg == nil || cfg.Preset == nil || !cfg.Preset.Valid() {
		return vo.UmaFromPreset(vo.UmaPresetP1)
	}
	uma := vo.UmaFromPreset(*cfg.Preset)
	if *cfg.Preset != vo.UmaPresetCustom {
		return uma
	}
	if cfg.Second != nil {
		uma.Second = *cfg.Second
	}
	if cfg.Third != nil {
		uma.Third = *cfg.Third
	}
	if cfg.Fourth != nil {
		uma.Fourth = *cfg.Fourth
	}
	return uma
}

func okaFor(mode vo.GameMode, start, ret int) int {
	oka := (ret - start) * mode.Participants()
	if oka < 0 {
		return 0
	}
	return oka
}

func positive(p *int) (int, bool) {
	if p == nil || *p <= 0 {
		return 0, false
	}
	return *p, true
}
