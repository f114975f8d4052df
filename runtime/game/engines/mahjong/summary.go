package mahjong

import (
	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
)

// EndSummary 终局汇总
type EndSummary struct {
	FinalScores     [vo.SeatCount]int `json:"finalScoresWithAdjust"`
	RankBySeat      [vo.SeatCount]int `json:"rankBySeat"`
	Points          [vo.SeatCount]int `json:"points"`
	TieBreakApplied bool              `json:"tieBreakApplied"`
	Ended           bool              `json:"ended"`
	EndReason       string            `json:"endReason,omitempty"`
}

// BuildEndSummary 含修正的点数、名次、pt
func BuildEndSummary(m *entity.Match) EndSummary {
	rules := MatchRules(m)
	scores := AdjustedScores(m)
	ranking := RankSeats(scores, m.FirstDealer, RankingSeats(rules.GameMode))
	return EndSummary{
		FinalScores:     scores,
		RankBySeat:      ranking.RankBySeat,
		Points:          ConvertPoints(rules, scores, ranking),
		TieBreakApplied: ranking.TieBreakApplied,
		Ended:           m.Ended,
		EndReason:       m.EndReason,
	}
}

// SessionTotals 会话内已结束半庄的 pt 合计和名次次数，按参加者顺序返回
func SessionTotals(s *entity.Session) []entity.PlayerTotal {
	totals := make([]entity.PlayerTotal, len(s.ParticipantIDs))
	index := make(map[string]int, len(s.ParticipantIDs))
	for i, id := range s.ParticipantIDs {
		totals[i].PlayerID = id
		if i < len(s.ParticipantNames) {
			totals[i].Name = s.ParticipantNames[i]
		}
		index[id] = i
	}
	for i := range s.Matches {
		m := &s.Matches[i]
		if !m.Ended {
			continue
		}
		summary := BuildEndSummary(m)
		for _, seat := range RankingSeats(MatchRules(m).GameMode) {
			idx, ok := index[m.Seats[seat]]
			if !ok {
				continue
			}
			totals[idx].Points += summary.Points[seat]
			totals[idx].Matches++
			if rank := summary.RankBySeat[seat]; rank >= 1 && rank <= len(totals[idx].RankCounts) {
				totals[idx].RankCounts[rank-1]++
			}
		}
	}
	return totals
}
