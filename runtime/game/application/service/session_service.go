package service

import (
	"context"

	"jansta/core/domain/entity"
	"jansta/core/domain/vo"
	"jansta/runtime/game/engines/mahjong"
)

// SessionService 会话、半庄、局记录的用例入口
// 所有计分都交给引擎，这里只负责校验、存储、快照和事件
type SessionService interface {
	CreateSession(ctx context.Context, req *CreateSessionReq) (*entity.Session, error)
	ListSessions(ctx context.Context, limit, offset int) ([]*entity.SessionSummary, error)
	GetSession(ctx context.Context, sessionID string) (*entity.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	EndSession(ctx context.Context, sessionID string, reason string) (*entity.Session, error)
	SessionTotals(ctx context.Context, sessionID string) ([]entity.PlayerTotal, error)

	// ResumeMatch 会话中进行中的半庄（优先读快照）
	ResumeMatch(ctx context.Context, sessionID string) (*entity.Match, error)
	StartMatch(ctx context.Context, sessionID string, req *StartMatchReq) (*entity.Match, error)
	MatchSummary(ctx context.Context, sessionID, matchID string) (*MatchSummaryResp, error)

	RecordHand(ctx context.Context, sessionID, matchID string, req *HandReq) (*entity.Match, error)
	EditHand(ctx context.Context, sessionID, matchID string, index int, req *HandReq) (*entity.Match, error)
	UndoLastHand(ctx context.Context, sessionID, matchID string) (*entity.Match, error)

	AddAdjustment(ctx context.Context, sessionID, matchID string, req *AdjustmentReq) (*entity.Match, error)
	RemoveAdjustment(ctx context.Context, sessionID, matchID, adjustmentID string) (*entity.Match, error)
}

type CreateSessionReq struct {
	ParticipantIDs   []string           `json:"participantIds"`
	ParticipantNames []string           `json:"participantNames"`
	Rules            *entity.RuleConfig `json:"rules"` // 为空时使用默认规则
}

type StartMatchReq struct {
	// Seats 东南西北顺序的参加者 ID，三麻 3 人；为空时按会话参加者顺序
	Seats       []string `json:"seats"`
	FirstDealer vo.Seat  `json:"kichyaSeat"`
}

type HandReq struct {
	Action entity.HandAction    `json:"action"`
	Result entity.OutcomeRecord `json:"result"`
}

type AdjustmentReq struct {
	Seat   vo.Seat `json:"seat"`
	Delta  int     `json:"delta"`
	Reason string  `json:"reason"`
}

type MatchSummaryResp struct {
	MatchID      string             `json:"matchId"`
	SeatNames    [4]string          `json:"seatNames"`
	Summary      mahjong.EndSummary `json:"summary"`
	TopRawPoints int                `json:"topRawPoints"`
	HandCount    int                `json:"handCount"`
}
