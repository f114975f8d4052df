package vo

// AbsentRank 空席的占位名次，排在所有参与者之后，不参与排名竞争
const AbsentRank = 4

// UmaPreset 顺位马预设
// 数据库只存储预设 ID 和 2/3/4 位数值，1 位由合计为 0 推出
type UmaPreset string

const (
	// UmaPresetP1 +10 / -10 / -30
	UmaPresetP1 UmaPreset = "p1"
	// UmaPresetP2 +10 / -10 / -20
	UmaPresetP2 UmaPreset = "p2"
	// UmaPresetCustom 自定义
	UmaPresetCustom UmaPreset = "custom"
)

// Valid 是否是已知预设
func (p UmaPreset) Valid() bool {
	return p == UmaPresetP1 || p == UmaPresetP2 || p == UmaPresetCustom
}

// Uma 顺位马（单位：pt）
type Uma struct {
	Preset UmaPreset `bson:"preset_id" json:"presetId"`
	Second int       `bson:"second" json:"second"`
	Third  int       `bson:"third" json:"third"`
	Fourth int       `bson:"fourth" json:"fourth"` // 三麻不使用
}

// UmaFromPreset 根据预设获取马，custom 返回 p1 的数值作为起始值
func UmaFromPreset(p UmaPreset) Uma {
	switch p {
	case UmaPresetP2:
		return Uma{Preset: UmaPresetP2, Second: 10, Third: -10, Fourth: -20}
	case UmaPresetCustom:
		return Uma{Preset: UmaPresetCustom, Second: 10, Third: -10, Fourth: -30}
	default:
		return Uma{Preset: UmaPresetP1, Second: 10, Third: -10, Fourth: -30}
	}
}

// ForRank 名次对应的马
// rankCount: 参与排名的人数（3 或 4），1 位的马由其余名次合计取反得到
func (u Uma) ForRank(rank int, rankCount int) int {
	if rankCount == 3 {
		switch rank {
		case 1:
			return -(u.Second + u.Third)
		case 2:
			return u.Second
		case 3:
			return u.Third
		default:
			return 0
		}
	}
	switch rank {
	case 1:
		return -(u.Second + u.Third + u.Fourth)
	case 2:
		return u.Second
	case 3:
		return u.Third
	case 4:
		return u.Fourth
	default:
		return 0
	}
}
