package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"jansta/core/domain/entity"
	"jansta/runtime/game/engines/mahjong"
)

// ReplayFile 读取导出的半庄 JSON，离线重放并输出每局点数和终局汇总
func ReplayFile(path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}
	var m entity.Match
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("解析半庄失败: %w", err)
	}
	return ReplayMatch(&m, out)
}

// ReplayMatch 重放并打印，重放结果与记录不一致时也会输出
func ReplayMatch(m *entity.Match, out io.Writer) error {
	replayed := mahjong.NewEngine().Replay(m)

	for i, rec := range replayed.Logs {
		fmt.Fprintf(out, "%3d  %-8s %-5s delta=%v scores=%v pot=%d\n",
			i, rec.RoundStart.String(), rec.Result.Type, rec.Delta, rec.ScoresAfter, rec.DepositAfter)
	}
	if replayed.CurrentScores != m.CurrentScores || replayed.Ended != m.Ended {
		fmt.Fprintf(out, "recorded scores %v (ended=%v) differ from replay %v (ended=%v)\n",
			m.CurrentScores, m.Ended, replayed.CurrentScores, replayed.Ended)
	}

	summary := mahjong.BuildEndSummary(replayed)
	for _, seat := range mahjong.RankingSeats(mahjong.MatchRules(replayed).GameMode) {
		fmt.Fprintf(out, "%-6s %-12s score=%6d rank=%d pt=%+d\n",
			seat, replayed.SeatNames[seat], summary.FinalScores[seat], summary.RankBySeat[seat], summary.Points[seat])
	}
	if replayed.Ended {
		fmt.Fprintf(out, "ended: %s\n", replayed.EndReason)
	}
	return nil
}
