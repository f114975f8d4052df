package entity

import (
	"slices"
	"time"
)

// Session 会话（一天的对局集合，聚合根）
// 新半庄使用会话当前的规则，已有半庄保留创建时的快照
type Session struct {
	ID               string      `bson:"_id" json:"id"`
	CreatedAt        time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time   `bson:"updated_at" json:"updatedAt"`
	DateKey          string      `bson:"date_key" json:"dateKey"` // YYYY-MM-DD（本地时间）
	Rules            *RuleConfig `bson:"rules,omitempty" json:"rules,omitempty"`
	ParticipantIDs   []string    `bson:"participant_ids" json:"participantIds"` // 四麻/四人三麻 4 人，三麻 3 人
	ParticipantNames []string    `bson:"participant_names" json:"participantNames"`
	Matches          []Match     `bson:"matches" json:"games"`
	Ended            bool        `bson:"ended" json:"ended"`
	EndReason        string      `bson:"end_reason,omitempty" json:"endReason,omitempty"`
}

// Clone 深拷贝
func (s *Session) Clone() *Session {
	out := *s
	out.Rules = s.Rules.Clone()
	out.ParticipantIDs = slices.Clone(s.ParticipantIDs)
	out.ParticipantNames = slices.Clone(s.ParticipantNames)
	out.Matches = make([]Match, len(s.Matches))
	for i := range s.Matches {
		out.Matches[i] = *s.Matches[i].Clone()
	}
	return &out
}

// MatchIndex 根据 ID 查找半庄下标，不存在返回 -1
func (s *Session) MatchIndex(matchID string) int {
	for i := range s.Matches {
		if s.Matches[i].ID == matchID {
			return i
		}
	}
	return -1
}

// LastMatch 最后一个半庄
func (s *Session) LastMatch() *Match {
	if len(s.Matches) == 0 {
		return nil
	}
	return &s.Matches[len(s.Matches)-1]
}

// SessionSummary 会话列表项
type SessionSummary struct {
	ID         string    `bson:"_id" json:"id"`
	DateKey    string    `bson:"date_key" json:"dateKey"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
	MatchCount int       `bson:"match_count" json:"matchCount"`
	Ended      bool      `bson:"ended" json:"ended"`
}

// PlayerTotal 会话内玩家成绩合计
type PlayerTotal struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	Points     int    `json:"points"`     // pt 合计
	Matches    int    `json:"matches"`    // 已结束半庄数
	RankCounts [4]int `json:"rankCounts"` // 1..4 位次数
}
