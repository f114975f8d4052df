package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *Config

// rulesMu 保护 Conf.DefaultRules，配置热更新时会被替换
var rulesMu sync.RWMutex

type Config struct {
	AppName      string       `mapstructure:"appName"`
	Log          LogConf      `mapstructure:"log"`
	HttpPort     int          `mapstructure:"httpPort"`
	CorsOrigins  []string     `mapstructure:"corsOrigins"`
	MetricPort   int          `mapstructure:"metricPort"`
	DatabaseConf DatabaseConf `mapstructure:"database"`
	NatsConfig   NatsConfig   `mapstructure:"nats"`
	CacheConf    CacheConf    `mapstructure:"cache"`
	SnapshotConf SnapshotConf `mapstructure:"snapshot"`
	DefaultRules RulesConf    `mapstructure:"defaultRules"`
	Node         NodeEnv      `mapstructure:"-"`
}

// NodeEnv 只从环境变量读取
type NodeEnv struct {
	ID      string `env:"NODE_ID,default=jansta-1"`
	Storage string `env:"JANSTA_STORAGE,default=mongo"` // mongo | memory
}

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type LogConf struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
	RedisConf RedisConf `mapstructure:"redis"`
}

type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

type RedisConf struct {
	Addr         string   `mapstructure:"addr"`
	ClusterAddrs []string `mapstructure:"clusterAddrs"`
	Password     string   `mapstructure:"password"`
	PoolSize     int      `mapstructure:"poolSize"`
	MinIdleConns int      `mapstructure:"minIdleConns"`
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
}

type NatsConfig struct {
	URL string `json:"url" mapstructure:"url"`
	// Subject 为空时使用 jansta.match.ended
	Subject string `json:"subject" mapstructure:"subject"`
}

type CacheConf struct {
	MaxCost int64 `mapstructure:"maxCost"`
	TTL     int   `mapstructure:"ttl"` // 秒
}

type SnapshotConf struct {
	TTL int `mapstructure:"ttl"` // 秒，0 表示不过期
}

// RulesConf 新建会话时使用的默认规则，字段均可省略
type RulesConf struct {
	GameMode     string   `mapstructure:"gameMode"`
	StartPoints  *int     `mapstructure:"startPoints"`
	ReturnPoints *int     `mapstructure:"returnPoints"`
	TopOkaPoints *int     `mapstructure:"topOkaPoints"`
	BustRule     string   `mapstructure:"bustRule"`
	Uma          *UmaConf `mapstructure:"uma"`
	NotenTotal   *int     `mapstructure:"notenTotal"`
	HonbaUnit    *int     `mapstructure:"honbaUnit"`
	RiichiFee    *int     `mapstructure:"riichiFee"`
}

type UmaConf struct {
	Preset string `mapstructure:"preset"`
	Second *int   `mapstructure:"second"`
	Third  *int   `mapstructure:"third"`
	Fourth *int   `mapstructure:"fourth"`
}

// CurrentRules 当前默认规则（热更新安全）
func CurrentRules() RulesConf {
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	if Conf == nil {
		return RulesConf{}
	}
	return Conf.DefaultRules
}

// Load 读取配置文件，.env 与环境变量优先
// onChange 在配置文件变化并成功解析后调用，可为 nil
func Load(configFile string, onChange func(*Config)) error {
	// .env 文件可选
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(configFile)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件出错: %w", err)
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("解析配置文件出错: %w", err)
	}
	if err := decodeNode(&cfg.Node); err != nil {
		return err
	}
	applyDefaults(cfg)
	Conf = cfg

	v.OnConfigChange(func(in fsnotify.Event) {
		next := new(Config)
		if err := v.Unmarshal(next); err != nil {
			return
		}
		rulesMu.Lock()
		Conf.DefaultRules = next.DefaultRules
		Conf.Log.Level = next.Log.Level
		rulesMu.Unlock()
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
	return nil
}

func decodeNode(node *NodeEnv) error {
	if err := envdecode.Decode(node); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("环境变量解析出错: %w", err)
	}
	switch node.Storage {
	case StorageMongo, StorageMemory:
		return nil
	default:
		return fmt.Errorf("unknown storage: %s", node.Storage)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.AppName == "" {
		cfg.AppName = "jansta"
	}
	if cfg.HttpPort <= 0 {
		cfg.HttpPort = 8080
	}
	if cfg.CacheConf.MaxCost <= 0 {
		cfg.CacheConf.MaxCost = 1 << 24
	}
	if cfg.CacheConf.TTL <= 0 {
		cfg.CacheConf.TTL = 600
	}
}
