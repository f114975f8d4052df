package vo

// GameMode 对局种类，决定参与人数和每场局数
type GameMode string

const (
	// GameModeYonma 四麻：四席全员参与
	GameModeYonma GameMode = "yonma"
	// GameModeSanma 三麻：北家固定空席
	GameModeSanma GameMode = "sanma"
	// GameModeSanma4 四人三麻：每局从庄家数三人参与，空席随庄家轮转
	GameModeSanma4 GameMode = "yonma_sanma4"
)

// Valid 是否是已知的对局种类
func (m GameMode) Valid() bool {
	switch m {
	case GameModeYonma, GameModeSanma, GameModeSanma4:
		return true
	default:
		return false
	}
}

// IsSanmaLike 三麻系（罚符、本场按三麻规则计算）
func (m GameMode) IsSanmaLike() bool {
	return m == GameModeSanma || m == GameModeSanma4
}

// Participants 对局总人数（四人三麻也是 4 人）
func (m GameMode) Participants() int {
	if m == GameModeSanma {
		return 3
	}
	return 4
}

// StageLength 每场局数：三麻 3 局，其他 4 局
func (m GameMode) StageLength() int {
	if m == GameModeSanma {
		return 3
	}
	return 4
}

// Label 显示名称
func (m GameMode) Label() string {
	switch m {
	case GameModeYonma:
		return "4麻"
	case GameModeSanma:
		return "3麻"
	case GameModeSanma4:
		return "4人3麻"
	default:
		return ""
	}
}

// BustRule 飞人规则
type BustRule string

const (
	BustNone BustRule = "none" // 无飞人
	BustLeq0 BustRule = "leq0" // 0 点以下飞
	BustLt0  BustRule = "lt0"  // 负分飞
)

// Valid 是否是已知规则
func (r BustRule) Valid() bool {
	return r == BustNone || r == BustLeq0 || r == BustLt0
}

// Busted 按规则判断单个点数是否飞人
func (r BustRule) Busted(score int) bool {
	switch r {
	case BustLt0:
		return score < 0
	case BustLeq0:
		return score <= 0
	default:
		return false
	}
}
