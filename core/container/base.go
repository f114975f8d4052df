package container

import (
	"jansta/common/config"
	"jansta/common/database"
	"jansta/common/log"
)

// BaseContainer 基础容器，管理共享的外部连接
// 内存模式下不连接 mongo；未配置 redis 地址时不连接 redis
type BaseContainer struct {
	mongo *database.MongoManager
	redis *database.RedisManager
}

// NewBase 按存储模式初始化依赖，连接失败直接退出
func NewBase(conf config.DatabaseConf, storage string) *BaseContainer {
	c := &BaseContainer{}
	if storage == config.StorageMongo {
		c.mongo = database.NewMongo(conf.MongoConf)
		if c.mongo == nil {
			log.Fatal("mongodb 初始化失败")
			return nil
		}
		log.Info("mongodb 连接成功, db: %s", conf.MongoConf.Db)
	}
	if redisConfigured(conf.RedisConf) {
		c.redis = database.NewRedis(conf.RedisConf)
		if c.redis == nil {
			log.Fatal("redis 初始化失败")
			return nil
		}
		log.Info("redis 连接成功")
	}
	return c
}

func redisConfigured(conf config.RedisConf) bool {
	return conf.Addr != "" || (conf.Host != "" && conf.Port > 0) || len(conf.ClusterAddrs) > 0
}

// GetMongo 获取 Mongo 管理器，可能为 nil
func (c *BaseContainer) GetMongo() *database.MongoManager {
	return c.mongo
}

// GetRedis 获取 Redis 管理器，可能为 nil
func (c *BaseContainer) GetRedis() *database.RedisManager {
	return c.redis
}

// Close 关闭所有资源
func (c *BaseContainer) Close() error {
	var first error
	if c.mongo != nil {
		if err := c.mongo.Close(); err != nil {
			log.Error("mongo 关闭失败: %v", err)
			first = err
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Error("redis 关闭失败: %v", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
