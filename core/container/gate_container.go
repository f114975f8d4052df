package container

import (
	"context"
	"time"

	"jansta/common/cache"
	"jansta/common/config"
	"jansta/common/log"
	"jansta/core/domain/entity"
	"jansta/core/domain/repository"
	"jansta/core/infrastructure/message"
	"jansta/core/infrastructure/persistence"
	"jansta/core/infrastructure/realtime"
	"jansta/runtime/game/application/service"
	"jansta/runtime/game/application/service/impl"
	"jansta/runtime/game/engines/mahjong"
)

type GateContainer struct {
	*BaseContainer
	totals         *cache.LocalCache[[]entity.PlayerTotal]
	publisher      message.Publisher
	SessionService service.SessionService
}

// NewGateContainer 创建 gate 服务容器
func NewGateContainer(conf *config.Config) *GateContainer {
	base := NewBase(conf.DatabaseConf, conf.Node.Storage)
	if base == nil {
		log.Fatal("基础容器初始化失败")
		return nil
	}

	var sessions repository.SessionRepository
	if base.GetMongo() != nil {
		repo := persistence.NewSessionRepository(base.GetMongo())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if indexed, ok := repo.(*persistence.SessionRepository); ok {
			if err := indexed.EnsureIndexes(ctx); err != nil {
				log.Warn("会话索引创建失败: %v", err)
			}
		}
		cancel()
		sessions = repo
	} else {
		log.Warn("使用内存存储，进程退出后数据丢失")
		sessions = persistence.NewMemorySessionRepository()
	}

	var snapshots repository.SnapshotRepository
	if base.GetRedis() != nil {
		snapshots = realtime.NewRedisSnapshotRepository(base.GetRedis())
	} else {
		snapshots = realtime.NewMemorySnapshotRepository()
	}

	totals, err := cache.NewLocalCache[[]entity.PlayerTotal](conf.CacheConf.MaxCost, time.Duration(conf.CacheConf.TTL)*time.Second)
	if err != nil {
		log.Fatal("本地缓存初始化失败: %v", err)
		return nil
	}

	var publisher message.Publisher = message.NopPublisher{}
	if conf.NatsConfig.URL != "" {
		nats, err := message.NewNatsPublisher(conf.NatsConfig.URL, conf.NatsConfig.Subject)
		if err != nil {
			log.Warn("nats 不可用，对局结束事件不会发布: %v", err)
		} else {
			publisher = nats
		}
	}

	svc := impl.NewSessionService(sessions, snapshots, totals, publisher, mahjong.NewEngine(),
		impl.WithDefaultRules(func() *entity.RuleConfig { return RulesFromConf(config.CurrentRules()) }),
		impl.WithSnapshotTTL(time.Duration(conf.SnapshotConf.TTL)*time.Second),
	)

	return &GateContainer{
		BaseContainer:  base,
		totals:         totals,
		publisher:      publisher,
		SessionService: svc,
	}
}

// Close 关闭容器资源
func (c *GateContainer) Close() error {
	if err := c.publisher.Close(); err != nil {
		log.Error("nats 关闭失败: %v", err)
	}
	c.totals.Close()
	return c.BaseContainer.Close()
}
