package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jansta/common/log"

	"github.com/nats-io/nats.go"
)

// SubjectMatchEnded 对局结束事件主题
const SubjectMatchEnded = "jansta.match.ended"

var ErrNotConnected = errors.New("nats not connected")

// MatchEndedEvent 半庄结束时发给统计服务的事件
type MatchEndedEvent struct {
	SessionID   string    `json:"sessionId"`
	MatchID     string    `json:"matchId"`
	GameMode    string    `json:"gameMode"`
	Seats       [4]string `json:"seats"`
	SeatNames   [4]string `json:"seatNames"`
	FinalScores [4]int    `json:"finalScores"`
	Ranks       [4]int    `json:"ranks"`
	Points      [4]int    `json:"points"`
	HandCount   int       `json:"handCount"`
	EndReason   string    `json:"endReason"`
	EndedAt     time.Time `json:"endedAt"`
}

// Publisher 对局事件发布
type Publisher interface {
	PublishMatchEnded(ctx context.Context, event *MatchEndedEvent) error
	Close() error
}

// resolveSubject 未配置时使用默认主题
func resolveSubject(subject string) string {
	if subject == "" {
		return SubjectMatchEnded
	}
	return subject
}

// NatsPublisher 断线后由 nats.go 自动重连
type NatsPublisher struct {
	subject string
	conn    *nats.Conn
}

func NewNatsPublisher(url, subject string) (*NatsPublisher, error) {
	subject = resolveSubject(subject)
	log.Info("nats 服务正在连接, url:%s", url)
	conn, err := nats.Connect(url,
		nats.Name("jansta"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats 连接断开: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats 已重连: %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		log.Error("nats 连接错误,err:%v", err)
		return nil, err
	}
	log.Info("nats 连接成功, url:%s", url)
	return &NatsPublisher{subject: subject, conn: conn}, nil
}

func (p *NatsPublisher) PublishMatchEnded(ctx context.Context, event *MatchEndedEvent) error {
	if p.conn == nil || !p.conn.IsConnected() {
		return ErrNotConnected
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return err
	}
	// FlushWithContext 要求 ctx 带超时
	if _, ok := ctx.Deadline(); !ok {
		return p.conn.FlushTimeout(2 * time.Second)
	}
	return p.conn.FlushWithContext(ctx)
}

func (p *NatsPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	log.Info("NATS 连接已关闭")
	return nil
}

// NopPublisher 未配置 nats 时丢弃事件
type NopPublisher struct{}

func (NopPublisher) PublishMatchEnded(context.Context, *MatchEndedEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
